package profile

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Academic programs a student can belong to.
const (
	ProgramDesign      = "design"
	ProgramEngineering = "engineering"
	ProgramBusiness    = "business"
	ProgramInfoScience = "info_science"
	ProgramArts        = "arts"
)

// Profile represents a student. Credentials live here too: a profile is the
// account, created at signup and completed during onboarding.
type Profile struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `json:"-"`
	DisplayName string `gorm:"not null" json:"display_name"`
	Program     string `gorm:"index" json:"program"`
	// Skills and StudioPreferences are stored as JSON arrays. The order of
	// StudioPreferences is meaningful: the first entry is the primary studio.
	Skills            string `gorm:"type:json" json:"skills"`
	StudioPreferences string `gorm:"type:json" json:"studio_preferences"`
	Bio               string `json:"bio"`
	Avatar            string `json:"avatar,omitempty"`
	ExternalLink      string `json:"external_link,omitempty"`
	Onboarded         bool   `gorm:"default:false" json:"onboarded"`
}

// SkillList decodes the JSON-encoded skills column.
func (p *Profile) SkillList() []string {
	return decodeStrings(p.Skills)
}

// StudioList decodes the JSON-encoded studio preferences column.
func (p *Profile) StudioList() []string {
	return decodeStrings(p.StudioPreferences)
}

// PrimaryStudio returns the first studio preference, or "" when none is set.
func (p *Profile) PrimaryStudio() string {
	studios := p.StudioList()
	if len(studios) == 0 {
		return ""
	}
	return studios[0]
}

func decodeStrings(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

// EncodeStrings serializes a string slice for a JSON column.
func EncodeStrings(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(b)
}
