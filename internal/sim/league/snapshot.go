package league

import (
	"fmt"

	"paddlesim/internal/persistence/snapshot"
)

// ExportSnapshot captures every player and team. home and away are recorded
// as the league's match pairing.
func (r *Registry) ExportSnapshot(leagueID string, seed int64, namesDigest string, home, away TeamID) snapshot.LeagueV1 {
	snap := snapshot.LeagueV1{
		Header: snapshot.Header{
			Version:  snapshot.Version,
			LeagueID: leagueID,
			Seed:     seed,
		},
		NamesDigest: namesDigest,
		Home:        home.String(),
		Away:        away.String(),
	}
	for _, id := range r.PlayerIDs() {
		p := r.players[id]
		snap.Players = append(snap.Players, snapshot.PlayerV1{
			ID:              id.String(),
			Name:            p.Name,
			Speed:           p.Speed,
			Control:         p.Control,
			Distractibility: p.Distractibility,
		})
	}
	for _, id := range r.TeamIDs() {
		t := r.teams[id]
		tv := snapshot.TeamV1{ID: id.String(), Name: t.Name, Active: t.active}
		for _, pid := range t.roster {
			tv.Roster = append(tv.Roster, pid.String())
		}
		snap.Teams = append(snap.Teams, tv)
	}
	return snap
}

// ImportSnapshot rebuilds a registry and returns the recorded pairing.
func ImportSnapshot(snap snapshot.LeagueV1, names NameSource) (*Registry, TeamID, TeamID, error) {
	r := NewRegistry(names)
	for _, pv := range snap.Players {
		id, err := ParsePlayerID(pv.ID)
		if err != nil {
			return nil, TeamID{}, TeamID{}, fmt.Errorf("player id %q: %w", pv.ID, err)
		}
		r.players[id] = Player{
			Name:            pv.Name,
			Speed:           pv.Speed,
			Control:         pv.Control,
			Distractibility: pv.Distractibility,
		}
	}
	for _, tv := range snap.Teams {
		id, err := ParseTeamID(tv.ID)
		if err != nil {
			return nil, TeamID{}, TeamID{}, fmt.Errorf("team id %q: %w", tv.ID, err)
		}
		roster := make([]PlayerID, 0, len(tv.Roster))
		for _, s := range tv.Roster {
			pid, err := ParsePlayerID(s)
			if err != nil {
				return nil, TeamID{}, TeamID{}, fmt.Errorf("team %q roster id %q: %w", tv.Name, s, err)
			}
			if _, err := r.Player(pid); err != nil {
				return nil, TeamID{}, TeamID{}, fmt.Errorf("team %q: %w", tv.Name, err)
			}
			roster = append(roster, pid)
		}
		t, err := NewTeam(tv.Name, roster)
		if err != nil {
			return nil, TeamID{}, TeamID{}, err
		}
		if tv.Active < 0 || tv.Active >= len(roster) {
			return nil, TeamID{}, TeamID{}, fmt.Errorf("team %q: active index %d out of range", tv.Name, tv.Active)
		}
		t.active = tv.Active
		r.teams[id] = t
	}

	home, err := ParseTeamID(snap.Home)
	if err != nil {
		return nil, TeamID{}, TeamID{}, fmt.Errorf("home id %q: %w", snap.Home, err)
	}
	away, err := ParseTeamID(snap.Away)
	if err != nil {
		return nil, TeamID{}, TeamID{}, fmt.Errorf("away id %q: %w", snap.Away, err)
	}
	if _, err := r.Team(home); err != nil {
		return nil, TeamID{}, TeamID{}, fmt.Errorf("home: %w", err)
	}
	if _, err := r.Team(away); err != nil {
		return nil, TeamID{}, TeamID{}, fmt.Errorf("away: %w", err)
	}
	return r, home, away, nil
}
