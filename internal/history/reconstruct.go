package history

import (
	"github.com/yash-goyal8/cornell-match-sub000/internal/match"
	"github.com/yash-goyal8/cornell-match-sub000/internal/profile"
	"github.com/yash-goyal8/cornell-match-sub000/internal/team"
)

// Reconstructor rebuilds a user's activity ledger from their persisted
// matches. Only right swipes persist, so rebuilt ledgers contain no skips.
type Reconstructor struct {
	matches  match.MatchRepository
	profiles profile.ProfileRepository
	teams    team.TeamRepository
	// window bounds how many matches are loaded, newest first.
	window int
}

// NewReconstructor creates a reconstructor over the given window size.
func NewReconstructor(matches match.MatchRepository, profiles profile.ProfileRepository, teams team.TeamRepository, window int) *Reconstructor {
	return &Reconstructor{
		matches:  matches,
		profiles: profiles,
		teams:    teams,
		window:   window,
	}
}

// Rebuild loads the user's recent matches and resolves their subjects in two
// batch queries, one for profiles and one for teams. Entries whose subject no
// longer exists are dropped. Rebuilding twice with no new matches in between
// yields equal sequences.
func (r *Reconstructor) Rebuild(userID uint) ([]Entry, error) {
	matches, err := r.matches.RecentByUser(userID, r.window)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return []Entry{}, nil
	}
	// The store returns newest first; the ledger keeps insertion order with
	// the newest last so undo pops the most recent swipe.
	for i, j := 0, len(matches)-1; i < j; i, j = i+1, j-1 {
		matches[i], matches[j] = matches[j], matches[i]
	}

	userIDs := make([]uint, 0, len(matches))
	teamIDs := make([]uint, 0, len(matches))
	seenUsers := make(map[uint]bool)
	seenTeams := make(map[uint]bool)
	for _, m := range matches {
		if m.MatchType == match.TypeIndividualToTeam {
			if m.TeamID != nil && !seenTeams[*m.TeamID] {
				seenTeams[*m.TeamID] = true
				teamIDs = append(teamIDs, *m.TeamID)
			}
			continue
		}
		if !seenUsers[m.TargetUserID] {
			seenUsers[m.TargetUserID] = true
			userIDs = append(userIDs, m.TargetUserID)
		}
	}

	profilesByID := make(map[uint]*profile.Profile)
	if len(userIDs) > 0 {
		profiles, err := r.profiles.GetByIDs(userIDs)
		if err != nil {
			return nil, err
		}
		for i := range profiles {
			profilesByID[profiles[i].ID] = &profiles[i]
		}
	}

	teamsByID := make(map[uint]*team.Team)
	if len(teamIDs) > 0 {
		teams, err := r.teams.GetTeamsByIDs(teamIDs)
		if err != nil {
			return nil, err
		}
		for i := range teams {
			teamsByID[teams[i].ID] = &teams[i]
		}
	}

	entries := make([]Entry, 0, len(matches))
	for _, m := range matches {
		entry := Entry{
			Direction: match.DirectionRight,
			MatchID:   m.ID,
			SwipedAt:  m.CreatedAt,
		}
		if m.MatchType == match.TypeIndividualToTeam {
			if m.TeamID == nil {
				continue
			}
			t, ok := teamsByID[*m.TeamID]
			if !ok {
				continue
			}
			entry.SubjectType = SubjectTeam
			entry.Team = t
		} else {
			p, ok := profilesByID[m.TargetUserID]
			if !ok {
				continue
			}
			entry.SubjectType = SubjectUser
			entry.Profile = p
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
