package league

import (
	"github.com/google/uuid"

	"paddlesim/internal/random"
)

// PlayerID and TeamID are opaque 128-bit tokens used only for registry lookup.
type (
	PlayerID uuid.UUID
	TeamID   uuid.UUID
)

func (id PlayerID) String() string { return uuid.UUID(id).String() }
func (id TeamID) String() string   { return uuid.UUID(id).String() }

func ParsePlayerID(s string) (PlayerID, error) {
	u, err := uuid.Parse(s)
	return PlayerID(u), err
}

func ParseTeamID(s string) (TeamID, error) {
	u, err := uuid.Parse(s)
	return TeamID(u), err
}

// newID draws a v4-layout uuid from rng so generated leagues replay from a seed.
func newID(rng random.Source) uuid.UUID {
	id, err := uuid.NewRandomFromReader(random.Reader{Src: rng})
	if err != nil {
		// random.Reader never fails.
		panic(err)
	}
	return id
}
