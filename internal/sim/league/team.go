package league

import (
	"fmt"

	"paddlesim/internal/random"
)

// Team is an ordered roster with one active player. The roster is never empty
// once constructed.
type Team struct {
	Name string

	roster []PlayerID
	active int
}

func NewTeam(name string, roster []PlayerID) (*Team, error) {
	if len(roster) == 0 {
		return nil, fmt.Errorf("team %q: %w", name, ErrEmptyRoster)
	}
	return &Team{Name: name, roster: append([]PlayerID(nil), roster...)}, nil
}

// Roster returns a copy of the roster in current order.
func (t *Team) Roster() []PlayerID {
	return append([]PlayerID(nil), t.roster...)
}

func (t *Team) ActiveIndex() int { return t.active }

func (t *Team) ActivePlayer() (PlayerID, error) {
	if t.active < 0 || t.active >= len(t.roster) {
		return PlayerID{}, fmt.Errorf("team %q: %w", t.Name, ErrEmptyRoster)
	}
	return t.roster[t.active], nil
}

// SetActivePlayer overwrites the roster slot of the active player.
func (t *Team) SetActivePlayer(id PlayerID) error {
	if t.active < 0 || t.active >= len(t.roster) {
		return fmt.Errorf("team %q: %w", t.Name, ErrEmptyRoster)
	}
	t.roster[t.active] = id
	return nil
}

// Shuffle reorders the roster in place. The active index is kept, so the
// active player usually changes.
func (t *Team) Shuffle(rng random.Source) {
	rng.Shuffle(len(t.roster), func(i, j int) {
		t.roster[i], t.roster[j] = t.roster[j], t.roster[i]
	})
}
