package profile

import (
	"errors"

	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile data operations.
type ProfileRepository interface {
	Create(profile *Profile) error
	GetByID(id uint) (*Profile, error)
	GetByIDs(ids []uint) ([]Profile, error)
	GetByEmail(email string) (*Profile, error)
	Update(profile *Profile) error
	// GetDiscoveryCandidates returns onboarded profiles the user has not swiped
	// on yet, excluding the user themselves.
	GetDiscoveryCandidates(userID uint, page, limit int) ([]Profile, int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new instance of ProfileRepository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *Profile) error {
	return r.db.Create(profile).Error
}

func (r *profileRepository) GetByID(id uint) (*Profile, error) {
	var profile Profile
	if err := r.db.First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByIDs(ids []uint) ([]Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var profiles []Profile
	if err := r.db.Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) GetByEmail(email string) (*Profile, error) {
	var profile Profile
	if err := r.db.Where("email = ?", email).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(profile *Profile) error {
	return r.db.Save(profile).Error
}

func (r *profileRepository) GetDiscoveryCandidates(userID uint, page, limit int) ([]Profile, int64, error) {
	var profiles []Profile
	var total int64

	swiped := r.db.Table("matches").
		Select("target_user_id").
		Where("user_id = ? AND deleted_at IS NULL", userID)

	query := r.db.Model(&Profile{}).
		Where("id != ? AND onboarded = ?", userID, true).
		Where("id NOT IN (?)", swiped)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&profiles).Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}
