package game

import (
	"context"

	"paddlesim/internal/random"
	"paddlesim/internal/sim/league"
)

// Runner is the contract the host loop drives. *Game is the only kind of
// match today.
type Runner interface {
	Advance(reg *league.Registry, rng random.Source) (Result, error)
	PopReport() (Report, bool)
}

var _ Runner = (*Game)(nil)

// Drive advances r until it finishes, handing every report to emit in
// chronological order after each tick. It returns the number of ticks run.
func Drive(ctx context.Context, r Runner, reg *league.Registry, rng random.Source, emit func(Report) error) (int, error) {
	ticks := 0
	for {
		if err := ctx.Err(); err != nil {
			return ticks, err
		}
		res, err := r.Advance(reg, rng)
		if err != nil {
			return ticks, err
		}
		ticks++
		for {
			rep, ok := r.PopReport()
			if !ok {
				break
			}
			if emit == nil {
				continue
			}
			if err := emit(rep); err != nil {
				return ticks, err
			}
		}
		if res == Finished {
			return ticks, nil
		}
	}
}
