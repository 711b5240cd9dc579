package match

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"paddlesim/internal/protocol"
	"paddlesim/internal/sim/game"
	"paddlesim/internal/sim/league"
	"paddlesim/internal/sim/tuning"
	"paddlesim/internal/transport/observer"
)

// host drives a match to completion, printing each report and publishing it
// to spectators. Pacing and publishing never touch game state.
type host struct {
	match  *Match
	out    io.Writer
	pacing tuning.Pacing
	fast   bool
	hub    *observer.Hub
	log    *log.Logger

	seq int
}

func (h *host) play(ctx context.Context) (int, error) {
	m := h.match
	ticks, err := game.Drive(ctx, m.Game, m.Registry, m.RNG, func(r game.Report) error {
		return h.emit(ctx, r)
	})
	if err != nil {
		return ticks, err
	}
	if h.hub != nil {
		fin, err := finishedMessage(m, ticks)
		if err != nil {
			return ticks, err
		}
		if err := h.hub.Publish(fin); err != nil {
			h.log.Printf("publish: %v", err)
		}
	}
	return ticks, nil
}

func (h *host) emit(ctx context.Context, r game.Report) error {
	reg := h.match.Registry
	text, err := r.Render(reg)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(h.out, text); err != nil {
		return err
	}

	if h.hub != nil {
		msg, err := reportMessage(h.seq, r, reg, text)
		if err != nil {
			return err
		}
		if err := h.hub.Publish(msg); err != nil {
			h.log.Printf("publish: %v", err)
		}
	}
	h.seq++

	if h.fast {
		return nil
	}
	return sleepCtx(ctx, ReportDelay(h.pacing, r.Comment))
}

// ReportDelay is how long the host pauses after printing a report.
func ReportDelay(p tuning.Pacing, comment string) time.Duration {
	ms := p.ReportDelayBaseMs + p.ReportDelayPerCharMs*len(comment)
	return time.Duration(ms) * time.Millisecond
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func reportMessage(seq int, r game.Report, reg *league.Registry, text string) (protocol.ReportMsg, error) {
	home, err := sideState(r.Side(game.Home), reg)
	if err != nil {
		return protocol.ReportMsg{}, err
	}
	away, err := sideState(r.Side(game.Away), reg)
	if err != nil {
		return protocol.ReportMsg{}, err
	}
	msg := protocol.ReportMsg{
		Type:            protocol.TypeReport,
		ProtocolVersion: protocol.Version,
		Seq:             seq,
		Home:            home,
		Away:            away,
		Weather:         r.Weather.String(),
		Comment:         r.Comment,
		Text:            text,
	}
	if r.BallInPlay {
		msg.Ball = r.Ball.String()
	}
	return msg, nil
}

func sideState(s game.SideSnapshot, reg *league.Registry) (protocol.SideState, error) {
	team, err := reg.Team(s.Team)
	if err != nil {
		return protocol.SideState{}, err
	}
	p, err := reg.Player(s.Player)
	if err != nil {
		return protocol.SideState{}, err
	}
	return protocol.SideState{
		TeamID:   s.Team.String(),
		Team:     team.Name,
		PlayerID: s.Player.String(),
		Player:   p.Name,
		Position: s.Position.String(),
		Score:    s.Score,
	}, nil
}

func finishedMessage(m *Match, ticks int) (protocol.FinishedMsg, error) {
	home, away := m.Game.Side(game.Home), m.Game.Side(game.Away)
	winner := home.Team
	if away.Score > home.Score {
		winner = away.Team
	}
	t, err := m.Registry.Team(winner)
	if err != nil {
		return protocol.FinishedMsg{}, fmt.Errorf("winner: %w", err)
	}
	return protocol.FinishedMsg{
		Type:            protocol.TypeFinished,
		ProtocolVersion: protocol.Version,
		Winner:          t.Name,
		HomeScore:       home.Score,
		AwayScore:       away.Score,
		Ticks:           ticks,
	}, nil
}
