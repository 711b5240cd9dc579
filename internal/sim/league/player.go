package league

import "paddlesim/internal/random"

// Player skills are probabilities fixed at creation. Speed and Control are
// stored inverted: a smaller value passes its check more often.
type Player struct {
	Name            string
	Speed           float64
	Control         float64
	Distractibility float64
}

// NameSource produces display names for generated players.
type NameSource interface {
	Generate(rng random.Source) string
}

// GeneratePlayer rolls a player. Distractibility is a squared uniform draw, so
// most players are rarely distracted.
func GeneratePlayer(names NameSource, rng random.Source) Player {
	p := Player{Name: names.Generate(rng)}
	p.Speed = rng.Float64()
	p.Control = rng.Float64()
	d := rng.Float64()
	p.Distractibility = d * d
	return p
}

// DistractionCheck succeeds when the player gets distracted.
func (p Player) DistractionCheck(rng random.Source) bool {
	return rng.Float64() < p.Distractibility
}

// SpeedCheck succeeds when the player reaches the ball in time.
func (p Player) SpeedCheck(rng random.Source) bool {
	return rng.Float64() > p.Speed
}

// ControlCheck succeeds when the player places a controlled shot.
func (p Player) ControlCheck(rng random.Source) bool {
	return rng.Float64() > p.Control
}
