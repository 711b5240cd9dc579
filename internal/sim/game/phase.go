package game

import "fmt"

type PhaseKind int

const (
	PhaseServing PhaseKind = iota
	PhasePreHit
	PhaseHit
	PhaseScore
)

func (k PhaseKind) String() string {
	switch k {
	case PhaseServing:
		return "serving"
	case PhasePreHit:
		return "pre_hit"
	case PhaseHit:
		return "hit"
	case PhaseScore:
		return "score"
	default:
		return fmt.Sprintf("phase(%d)", int(k))
	}
}

// Phase is the engine's state. Weather is meaningful only for PhaseHit.
type Phase struct {
	Kind    PhaseKind
	Side    Side
	Weather WeatherResult
}

func Serving(s Side) Phase { return Phase{Kind: PhaseServing, Side: s} }
func PreHit(s Side) Phase { return Phase{Kind: PhasePreHit, Side: s} }
func Hit(s Side, r WeatherResult) Phase { return Phase{Kind: PhaseHit, Side: s, Weather: r} }
func ScorePhase(s Side) Phase { return Phase{Kind: PhaseScore, Side: s} }
func (p Phase) String() string { return p.Kind.String() + "(" + p.Side.String() + ")" }
