package game

import "paddlesim/internal/random"

// Space is one of the three field zones. Both the ball's target and each
// side's defensive position live here.
type Space int

const (
	Near Space = iota
	Middle
	Far
)

const spaceCount = 3

func (s Space) String() string {
	switch s {
	case Near:
		return "Near"
	case Middle:
		return "Middle"
	case Far:
		return "Far"
	default:
		return "Unknown"
	}
}

// RandomSpace draws a zone uniformly.
func RandomSpace(rng random.Source) Space {
	return Space(rng.IntN(spaceCount))
}

// Farthest is the zone a controlled shot sends the ball to: the opposite end,
// or either end from the middle.
func (s Space) Farthest(rng random.Source) Space {
	switch s {
	case Near:
		return Far
	case Far:
		return Near
	default:
		for {
			if x := RandomSpace(rng); x != Middle {
				return x
			}
		}
	}
}

// Side identifies one half of a match.
type Side int

const (
	Home Side = iota
	Away
)

func (s Side) Opponent() Side {
	if s == Home {
		return Away
	}
	return Home
}

func (s Side) String() string {
	if s == Home {
		return "home"
	}
	return "away"
}
