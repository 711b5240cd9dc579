package game

import (
	"fmt"
	"strings"

	"paddlesim/internal/sim/league"
)

const (
	ruleWidth     = 25
	closingRule   = "-------------------------"
	separatorRule = "+++++++++++++++++++++++++"
)

// SideSnapshot is one side of the field at the moment a report fired.
type SideSnapshot struct {
	Team     league.TeamID
	Player   league.PlayerID
	Position Space
	Score    int
}

// Report is an immutable snapshot of the game plus a narration line.
// Ball is meaningful only when BallInPlay is set.
type Report struct {
	Home SideSnapshot
	Away SideSnapshot

	Ball       Space
	BallInPlay bool

	Weather Weather
	Comment string
}

// TakeSnapshot captures both sides, the ball and the weather.
func TakeSnapshot(g *Game, reg *league.Registry) (Report, error) {
	home, err := snapshotSide(g.home, reg)
	if err != nil {
		return Report{}, fmt.Errorf("home snapshot: %w", err)
	}
	away, err := snapshotSide(g.away, reg)
	if err != nil {
		return Report{}, fmt.Errorf("away snapshot: %w", err)
	}
	return Report{
		Home:       home,
		Away:       away,
		Ball:       g.ball,
		BallInPlay: true,
		Weather:    g.weather,
	}, nil
}

func snapshotSide(ps PlayerState, reg *league.Registry) (SideSnapshot, error) {
	t, err := reg.Team(ps.Team)
	if err != nil {
		return SideSnapshot{}, err
	}
	pid, err := t.ActivePlayer()
	if err != nil {
		return SideSnapshot{}, err
	}
	return SideSnapshot{
		Team:     ps.Team,
		Player:   pid,
		Position: ps.Position,
		Score:    ps.Score,
	}, nil
}

func (r Report) WithComment(comment string) Report {
	r.Comment = comment
	return r
}

// WithNoBall marks the ball as dead for this report.
func (r Report) WithNoBall() Report {
	r.Ball = Middle
	r.BallInPlay = false
	return r
}

func (r Report) Side(s Side) SideSnapshot {
	if s == Home {
		return r.Home
	}
	return r.Away
}

// Render produces the plain-text block printed by the host.
func (r Report) Render(reg *league.Registry) (string, error) {
	home, err := reg.Player(r.Home.Player)
	if err != nil {
		return "", err
	}
	away, err := reg.Player(r.Away.Player)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(headerRule(r.Weather))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%s: %d\n", home.Name, r.Home.Score)
	fmt.Fprintf(&b, "%s: %d\n", away.Name, r.Away.Score)
	b.WriteByte('\n')
	b.WriteString(separatorRule)
	b.WriteString("\n\n")
	b.WriteString(r.Comment)
	b.WriteByte('\n')
	b.WriteString(closingRule)
	b.WriteByte('\n')
	return b.String(), nil
}

// headerRule embeds the weather name in a rule as wide as the closing rule.
func headerRule(w Weather) string {
	head := "----- " + w.String() + " "
	pad := ruleWidth - len(head)
	if pad < 5 {
		pad = 5
	}
	return head + strings.Repeat("-", pad)
}
