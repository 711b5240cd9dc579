// Package game implements the match engine: a state machine advanced one
// phase at a time through serve, pre-hit, hit and score.
//
// The engine holds only team ids. Every entity lookup goes through the
// league.Registry lent to Advance, and every random draw comes from the
// random.Source passed alongside it, so a match is reproducible from its seed.
package game

import (
	"fmt"

	"paddlesim/internal/random"
	"paddlesim/internal/sim/league"
)

// PlayerState is one side's field state.
type PlayerState struct {
	Team     league.TeamID
	Position Space
	Score    int
}

// Result reports whether the match needs further Advance calls.
type Result int

const (
	Continue Result = iota
	Finished
)

func (r Result) String() string {
	if r == Finished {
		return "finished"
	}
	return "continue"
}

// Game is a single match. Not safe for concurrent use.
type Game struct {
	home PlayerState
	away PlayerState

	ball     Space
	phase    Phase
	weather  Weather
	finished bool

	// FIFO; PopReport drains from the front.
	reports []Report
}

func New(home, away league.TeamID, weather Weather) *Game {
	return &Game{
		home:    PlayerState{Team: home, Position: Middle},
		away:    PlayerState{Team: away, Position: Middle},
		ball:    Middle,
		phase:   Serving(Home),
		weather: weather,
	}
}

func (g *Game) Side(s Side) PlayerState { return *g.SideMut(s) }

func (g *Game) SideMut(s Side) *PlayerState {
	if s == Home {
		return &g.home
	}
	return &g.away
}

func (g *Game) Ball() Space { return g.ball }
func (g *Game) Phase() Phase { return g.phase }
func (g *Game) Weather() Weather { return g.weather }
func (g *Game) IsFinished() bool { return g.finished }
func (g *Game) PendingReports() int { return len(g.reports) }

// PopReport returns the oldest undrained report.
func (g *Game) PopReport() (Report, bool) {
	if len(g.reports) == 0 {
		return Report{}, false
	}
	r := g.reports[0]
	g.reports[0] = Report{}
	g.reports = g.reports[1:]
	return r, true
}

// Advance processes exactly one phase transition. Once the match is won every
// further call returns Finished without touching state.
func (g *Game) Advance(reg *league.Registry, rng random.Source) (Result, error) {
	if g.finished {
		return Finished, nil
	}

	switch g.phase.Kind {
	case PhaseServing:
		return Continue, g.serve(g.phase.Side, reg, rng)
	case PhasePreHit:
		return Continue, g.preHit(g.phase.Side, reg, rng)
	case PhaseHit:
		return Continue, g.hit(g.phase.Side, g.phase.Weather, reg, rng)
	case PhaseScore:
		return g.score(g.phase.Side, reg)
	default:
		panic(fmt.Sprintf("game: unknown phase %d", int(g.phase.Kind)))
	}
}

func (g *Game) serve(server Side, reg *league.Registry, rng random.Source) error {
	g.home.Position = Middle
	g.away.Position = Middle
	g.ball = RandomSpace(rng)

	name, err := g.activeName(server, reg)
	if err != nil {
		return err
	}
	if err := g.report(reg, name+" serves!"); err != nil {
		return err
	}
	g.phase = PreHit(server.Opponent())
	return nil
}

func (g *Game) preHit(hitter Side, reg *league.Registry, rng random.Source) error {
	hs := g.SideMut(hitter)
	_, p, err := reg.ActivePlayer(hs.Team)
	if err != nil {
		return err
	}

	if hs.Position == g.ball {
		if p.DistractionCheck(rng) {
			hs.Position = RandomSpace(rng)
		}
	} else if p.SpeedCheck(rng) {
		hs.Position = g.ball
	} else {
		hs.Position = RandomSpace(rng)
	}

	res, err := g.preHitWeather(g.weather, hitter, reg, rng, 0)
	if err != nil {
		return err
	}
	g.phase = Hit(hitter, res)
	return nil
}

func (g *Game) hit(hitter Side, weather WeatherResult, reg *league.Registry, rng random.Source) error {
	// Resolved now: weather may have replaced the active player.
	_, p, err := reg.ActivePlayer(g.Side(hitter).Team)
	if err != nil {
		return err
	}
	opp := hitter.Opponent()

	if weather == Prevent {
		if err := g.report(reg, p.Name+" doesn't manage to hit!"); err != nil {
			return err
		}
		g.SideMut(opp).Score++
		g.phase = ScorePhase(opp)
		return nil
	}

	if g.Side(hitter).Position != g.ball {
		if err := g.report(reg, p.Name+" fails to hit it!"); err != nil {
			return err
		}
		g.SideMut(opp).Score++
		g.phase = ScorePhase(opp)
		return nil
	}

	if p.ControlCheck(rng) {
		g.ball = g.ball.Farthest(rng)
	} else {
		g.ball = RandomSpace(rng)
	}
	if err := g.report(reg, p.Name+" hits!"); err != nil {
		return err
	}
	g.phase = PreHit(opp)
	return nil
}

func (g *Game) score(scorer Side, reg *league.Registry) (Result, error) {
	name, err := g.activeName(scorer, reg)
	if err != nil {
		return Continue, err
	}
	if err := g.deadBallReport(reg, name+" scores!"); err != nil {
		return Continue, err
	}

	if HasWon(g.Side(scorer).Score, g.Side(scorer.Opponent()).Score) {
		if err := g.deadBallReport(reg, name+" wins!"); err != nil {
			return Continue, err
		}
		g.finished = true
		return Finished, nil
	}

	g.phase = Serving(scorer.Opponent())
	return Continue, nil
}

// HasWon is the win condition: more than 4 points, and either the opponent
// has fewer than 4 or the lead is at least 2.
func HasWon(score, opponent int) bool {
	return score > 4 && (opponent < 4 || score > opponent+1)
}

func (g *Game) activeName(s Side, reg *league.Registry) (string, error) {
	_, p, err := reg.ActivePlayer(g.Side(s).Team)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

func (g *Game) report(reg *league.Registry, comment string) error {
	r, err := TakeSnapshot(g, reg)
	if err != nil {
		return err
	}
	g.reports = append(g.reports, r.WithComment(comment))
	return nil
}

func (g *Game) deadBallReport(reg *league.Registry, comment string) error {
	r, err := TakeSnapshot(g, reg)
	if err != nil {
		return err
	}
	g.reports = append(g.reports, r.WithNoBall().WithComment(comment))
	return nil
}
