package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yash-goyal8/cornell-match-sub000/internal/match"
	"github.com/yash-goyal8/cornell-match-sub000/internal/profile"
	"github.com/yash-goyal8/cornell-match-sub000/internal/team"
)

// fakeMatchStore serves RecentByUser from a fixed newest-first slice.
type fakeMatchStore struct {
	match.MatchRepository
	recent []match.Match
}

func (f *fakeMatchStore) RecentByUser(userID uint, limit int) ([]match.Match, error) {
	out := make([]match.Match, 0, limit)
	for _, m := range f.recent {
		if m.UserID != userID {
			continue
		}
		out = append(out, m)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeProfileStore struct {
	profile.ProfileRepository
	profiles map[uint]profile.Profile
}

func (f *fakeProfileStore) GetByIDs(ids []uint) ([]profile.Profile, error) {
	var out []profile.Profile
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeTeamStore struct {
	team.TeamRepository
	teams map[uint]team.Team
}

func (f *fakeTeamStore) GetTeamsByIDs(ids []uint) ([]team.Team, error) {
	var out []team.Team
	for _, id := range ids {
		if t, ok := f.teams[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func matchRow(id, userID, targetID uint, matchType string, teamID *uint, at time.Time) match.Match {
	return match.Match{
		Model:        gorm.Model{ID: id, CreatedAt: at},
		UserID:       userID,
		TargetUserID: targetID,
		TeamID:       teamID,
		MatchType:    matchType,
		Status:       match.StatusPending,
	}
}

func reconstructFixture() (*Reconstructor, *fakeMatchStore) {
	now := time.Now()
	rocketID := uint(7)
	matches := &fakeMatchStore{recent: []match.Match{
		// Newest first, the order the store returns.
		matchRow(3, 1, 3, match.TypeIndividualToTeam, &rocketID, now),
		matchRow(2, 1, 12, match.TypeIndividualToIndividual, nil, now.Add(-time.Minute)),
		matchRow(1, 1, 11, match.TypeIndividualToIndividual, nil, now.Add(-2*time.Minute)),
	}}
	profiles := &fakeProfileStore{profiles: map[uint]profile.Profile{
		11: {Model: gorm.Model{ID: 11}, DisplayName: "bob"},
		12: {Model: gorm.Model{ID: 12}, DisplayName: "cho"},
	}}
	teams := &fakeTeamStore{teams: map[uint]team.Team{
		rocketID: {Model: gorm.Model{ID: rocketID}, Name: "Rocket"},
	}}
	return NewReconstructor(matches, profiles, teams, 100), matches
}

func TestRebuildZipsSubjectsInChronologicalOrder(t *testing.T) {
	reconstructor, _ := reconstructFixture()

	entries, err := reconstructor.Rebuild(1)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, SubjectUser, entries[0].SubjectType)
	assert.Equal(t, "bob", entries[0].Profile.DisplayName)
	assert.Equal(t, uint(1), entries[0].MatchID)

	assert.Equal(t, "cho", entries[1].Profile.DisplayName)

	assert.Equal(t, SubjectTeam, entries[2].SubjectType)
	assert.Equal(t, "Rocket", entries[2].Team.Name)
	assert.Equal(t, match.DirectionRight, entries[2].Direction)
}

func TestRebuildIsIdempotent(t *testing.T) {
	reconstructor, _ := reconstructFixture()

	first, err := reconstructor.Rebuild(1)
	require.NoError(t, err)
	second, err := reconstructor.Rebuild(1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRebuildDropsDanglingSubjects(t *testing.T) {
	reconstructor, matches := reconstructFixture()
	// Profile 12 disappears from the store.
	ghost := uint(99)
	matches.recent = append([]match.Match{
		matchRow(4, 1, ghost, match.TypeIndividualToIndividual, nil, time.Now().Add(time.Minute)),
	}, matches.recent...)

	entries, err := reconstructor.Rebuild(1)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, entry := range entries {
		if entry.SubjectType == SubjectUser {
			assert.NotEqual(t, ghost, entry.Profile.ID)
		}
	}
}

func TestRebuildEmpty(t *testing.T) {
	reconstructor, _ := reconstructFixture()

	entries, err := reconstructor.Rebuild(42)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRebuildRespectsWindow(t *testing.T) {
	now := time.Now()
	var recent []match.Match
	for i := 10; i >= 1; i-- {
		recent = append(recent, matchRow(uint(i), 1, 11, match.TypeIndividualToIndividual, nil, now.Add(time.Duration(i)*time.Second)))
	}
	matches := &fakeMatchStore{recent: recent}
	profiles := &fakeProfileStore{profiles: map[uint]profile.Profile{
		11: {Model: gorm.Model{ID: 11}, DisplayName: "bob"},
	}}
	reconstructor := NewReconstructor(matches, profiles, &fakeTeamStore{}, 4)

	entries, err := reconstructor.Rebuild(1)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	// The window keeps the newest matches; chronological order puts the
	// oldest of those first.
	assert.Equal(t, uint(7), entries[0].MatchID)
	assert.Equal(t, uint(10), entries[3].MatchID)
}

func TestUndoDoesNotTouchPersistedRows(t *testing.T) {
	reconstructor, matches := reconstructFixture()
	ledger := NewLedger()

	entries, err := reconstructor.Rebuild(1)
	require.NoError(t, err)
	ledger.Restore(1, entries)

	before := len(matches.recent)
	_, ok := ledger.UndoLast(1)
	require.True(t, ok)

	assert.Len(t, matches.recent, before)
	assert.Len(t, ledger.Entries(1), before-1)
}
