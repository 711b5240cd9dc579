package league

import (
	"bytes"
	"fmt"
	"sort"

	"paddlesim/internal/random"
)

// Generated rosters hold between RosterMin and RosterMax players inclusive.
const (
	RosterMin = 7
	RosterMax = 12
)

// Registry owns every player and team of a league. Holders keep ids, never
// entity pointers, so a roster slot can be replaced without invalidating them.
// Not safe for concurrent use.
type Registry struct {
	names NameSource

	players map[PlayerID]Player
	teams   map[TeamID]*Team
}

func NewRegistry(names NameSource) *Registry {
	return &Registry{
		names:   names,
		players: map[PlayerID]Player{},
		teams:   map[TeamID]*Team{},
	}
}

func (r *Registry) Player(id PlayerID) (Player, error) {
	p, ok := r.players[id]
	if !ok {
		return Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	return p, nil
}

// Team returns the live team; mutations are visible to every id holder.
func (r *Registry) Team(id TeamID) (*Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, id)
	}
	return t, nil
}

// ActivePlayer resolves a team's active player in one step.
func (r *Registry) ActivePlayer(teamID TeamID) (PlayerID, Player, error) {
	t, err := r.Team(teamID)
	if err != nil {
		return PlayerID{}, Player{}, err
	}
	pid, err := t.ActivePlayer()
	if err != nil {
		return PlayerID{}, Player{}, err
	}
	p, err := r.Player(pid)
	if err != nil {
		return PlayerID{}, Player{}, err
	}
	return pid, p, nil
}

// NewPlayer generates a player from the registry's name source.
func (r *Registry) NewPlayer(rng random.Source) PlayerID {
	id := PlayerID(newID(rng))
	r.players[id] = GeneratePlayer(r.names, rng)
	return id
}

// NewTeam generates a team with a fresh roster of RosterMin..RosterMax players.
func (r *Registry) NewTeam(name string, rng random.Source) TeamID {
	id := TeamID(newID(rng))
	size := RosterMin + rng.IntN(RosterMax-RosterMin+1)
	roster := make([]PlayerID, 0, size)
	for i := 0; i < size; i++ {
		roster = append(roster, r.NewPlayer(rng))
	}
	r.teams[id] = &Team{Name: name, roster: roster}
	return id
}

// AddPlayer registers an explicit player under a fresh id.
func (r *Registry) AddPlayer(p Player, rng random.Source) PlayerID {
	id := PlayerID(newID(rng))
	r.players[id] = p
	return id
}

// AddTeam registers an explicit roster under a fresh id. Every roster entry
// must already be registered.
func (r *Registry) AddTeam(name string, roster []PlayerID, rng random.Source) (TeamID, error) {
	t, err := NewTeam(name, roster)
	if err != nil {
		return TeamID{}, err
	}
	for _, pid := range roster {
		if _, err := r.Player(pid); err != nil {
			return TeamID{}, fmt.Errorf("team %q: %w", name, err)
		}
	}
	id := TeamID(newID(rng))
	r.teams[id] = t
	return id, nil
}

func (r *Registry) PlayerCount() int { return len(r.players) }
func (r *Registry) TeamCount() int   { return len(r.teams) }

// TeamIDs returns team ids in byte order.
func (r *Registry) TeamIDs() []TeamID {
	out := make([]TeamID, 0, len(r.teams))
	for id := range r.teams {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i][:], out[j][:]) < 0 })
	return out
}

// PlayerIDs returns player ids in byte order.
func (r *Registry) PlayerIDs() []PlayerID {
	out := make([]PlayerID, 0, len(r.players))
	for id := range r.players {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i][:], out[j][:]) < 0 })
	return out
}
