package game

import (
	"fmt"
	"strings"

	"paddlesim/internal/random"
	"paddlesim/internal/sim/league"
)

// Weather is the match-wide effect applied once per hit attempt.
type Weather int

const (
	WeatherNone Weather = iota
	WeatherFeedback
	WeatherReverb
	WeatherObservation
	WeatherOmni
	WeatherUnpredictable
)

// WeatherResult tells the hit phase whether weather stopped the hitter.
type WeatherResult int

const (
	Nothing WeatherResult = iota
	Prevent
)

func (r WeatherResult) String() string {
	if r == Prevent {
		return "prevent"
	}
	return "nothing"
}

// Trigger probabilities, sampled fresh on every pre-hit.
const (
	feedbackChance      = 0.05
	reverbChance        = 0.05
	observationChance   = 0.05
	overseerChance      = 0.10
	unpredictableChance = 0.05
)

// maxWeatherDepth bounds Omni/Unpredictable delegation (Omni -> Unpredictable
// -> concrete). A delegating weather reached at the cap resolves to Nothing
// without drawing or announcing; concrete weathers always apply.
const maxWeatherDepth = 2

// standardWeathers is the draw table for Omni, Unpredictable and a random
// starting weather. Omni never draws itself.
var standardWeathers = [...]Weather{
	WeatherNone,
	WeatherFeedback,
	WeatherReverb,
	WeatherObservation,
	WeatherUnpredictable,
}

func RandomWeather(rng random.Source) Weather {
	return standardWeathers[rng.IntN(len(standardWeathers))]
}

func (w Weather) String() string {
	switch w {
	case WeatherNone:
		return "Clear"
	case WeatherFeedback:
		return "Feedback"
	case WeatherReverb:
		return "Reverb"
	case WeatherObservation:
		return "Observation"
	case WeatherOmni:
		return "All"
	case WeatherUnpredictable:
		return "???"
	default:
		return fmt.Sprintf("Weather(%d)", int(w))
	}
}

// Key is the lowercase config name of the weather.
func (w Weather) Key() string {
	switch w {
	case WeatherNone:
		return "none"
	case WeatherFeedback:
		return "feedback"
	case WeatherReverb:
		return "reverb"
	case WeatherObservation:
		return "observation"
	case WeatherOmni:
		return "omni"
	case WeatherUnpredictable:
		return "unpredictable"
	default:
		return ""
	}
}

// ParseWeather accepts config keys and display names, case-insensitively.
func ParseWeather(s string) (Weather, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "clear":
		return WeatherNone, nil
	case "feedback":
		return WeatherFeedback, nil
	case "reverb":
		return WeatherReverb, nil
	case "observation":
		return WeatherObservation, nil
	case "omni", "all":
		return WeatherOmni, nil
	case "unpredictable", "???":
		return WeatherUnpredictable, nil
	default:
		return WeatherNone, fmt.Errorf("unknown weather %q", s)
	}
}

// Announcement is narrated when Unpredictable switches to this weather.
func (w Weather) Announcement() string {
	switch w {
	case WeatherFeedback:
		return "The feedback gathers around the players."
	case WeatherReverb:
		return "The ground tremors with reverb."
	case WeatherObservation:
		return "The clouds reveal eyes in the sky."
	case WeatherOmni:
		return "We're experiencing everything."
	case WeatherUnpredictable:
		return "We don't know what the sky is doing."
	default:
		return "It's a sunny day!"
	}
}

func (g *Game) preHitWeather(w Weather, hitter Side, reg *league.Registry, rng random.Source, depth int) (WeatherResult, error) {
	switch w {
	case WeatherNone:
		return Nothing, nil

	case WeatherFeedback:
		if rng.Float64() < feedbackChance {
			if err := g.feedback(reg); err != nil {
				return Nothing, err
			}
		}
		return Nothing, nil

	case WeatherReverb:
		if rng.Float64() < reverbChance {
			for _, s := range [...]Side{Home, Away} {
				t, err := reg.Team(g.Side(s).Team)
				if err != nil {
					return Nothing, err
				}
				t.Shuffle(rng)
			}
			if err := g.report(reg, "The teams are caught in the reverb!!"); err != nil {
				return Nothing, err
			}
		}
		return Nothing, nil

	case WeatherObservation:
		if rng.Float64() < observationChance {
			if err := g.defrag(hitter, reg, rng); err != nil {
				return Nothing, err
			}
			return Prevent, nil
		}
		if rng.Float64() < overseerChance {
			_, p, err := reg.ActivePlayer(g.Side(hitter).Team)
			if err != nil {
				return Nothing, err
			}
			if err := g.report(reg, fmt.Sprintf("The overseers watch %s with intent.", p.Name)); err != nil {
				return Nothing, err
			}
		}
		return Nothing, nil

	case WeatherOmni:
		if depth >= maxWeatherDepth {
			return Nothing, nil
		}
		return g.preHitWeather(RandomWeather(rng), hitter, reg, rng, depth+1)

	case WeatherUnpredictable:
		if depth >= maxWeatherDepth {
			return Nothing, nil
		}
		if rng.Float64() >= unpredictableChance {
			return Nothing, nil
		}
		g.weather = RandomWeather(rng)
		if err := g.report(reg, g.weather.Announcement()); err != nil {
			return Nothing, err
		}
		return g.preHitWeather(g.weather, hitter, reg, rng, depth+1)

	default:
		panic(fmt.Sprintf("game: unknown weather %d", int(w)))
	}
}

// feedback swaps the two active players between the teams.
func (g *Game) feedback(reg *league.Registry) error {
	homeTeam, err := reg.Team(g.home.Team)
	if err != nil {
		return err
	}
	awayTeam, err := reg.Team(g.away.Team)
	if err != nil {
		return err
	}
	homeID, err := homeTeam.ActivePlayer()
	if err != nil {
		return err
	}
	awayID, err := awayTeam.ActivePlayer()
	if err != nil {
		return err
	}
	homePlayer, err := reg.Player(homeID)
	if err != nil {
		return err
	}
	awayPlayer, err := reg.Player(awayID)
	if err != nil {
		return err
	}

	if err := homeTeam.SetActivePlayer(awayID); err != nil {
		return err
	}
	if err := awayTeam.SetActivePlayer(homeID); err != nil {
		return err
	}
	return g.report(reg, fmt.Sprintf("%s has been feedbacked with %s!", homePlayer.Name, awayPlayer.Name))
}

// defrag replaces the hitter's active player with a freshly generated one.
// The old player stays registered so earlier reports still render.
func (g *Game) defrag(hitter Side, reg *league.Registry, rng random.Source) error {
	team, err := reg.Team(g.Side(hitter).Team)
	if err != nil {
		return err
	}
	oldID, err := team.ActivePlayer()
	if err != nil {
		return err
	}
	old, err := reg.Player(oldID)
	if err != nil {
		return err
	}

	newID := reg.NewPlayer(rng)
	if err := team.SetActivePlayer(newID); err != nil {
		return err
	}
	created, err := reg.Player(newID)
	if err != nil {
		return err
	}

	if err := g.report(reg, fmt.Sprintf("The observers have defragged %s.", old.Name)); err != nil {
		return err
	}
	return g.report(reg, fmt.Sprintf("%s has been created in their place! They don't know what's going on!", created.Name))
}
