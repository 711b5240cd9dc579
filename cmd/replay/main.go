package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"paddlesim/internal/config"
	"paddlesim/internal/persistence/snapshot"
	"paddlesim/internal/sim/game"

	matchcmd "paddlesim/internal/cmd/match"
)

// replay rebuilds a match twice from the same inputs and advances both in
// lockstep, comparing state digests and rendered reports after every tick.
func main() {
	var (
		leaguePath = flag.String("league", "", "league snapshot (.snap.zst); empty regenerates from -seed")
		seed       = flag.Int64("seed", 0, "match seed")
		configDir  = flag.String("configs", "./configs", "config directory")
		weather    = flag.String("weather", "", "starting weather override")
		maxTicks   = flag.Int("max_ticks", 1_000_000, "give up after this many ticks")
	)
	flag.Parse()

	if *seed == 0 {
		fmt.Fprintln(os.Stderr, "missing -seed")
		os.Exit(2)
	}

	cats, tune, err := matchcmd.LoadInputs(*configDir)
	if err != nil {
		config.Exitf("load inputs: %v", err)
	}

	if *leaguePath != "" {
		h, err := snapshot.ReadHeader(*leaguePath)
		if err != nil {
			config.Exitf("read snapshot: %v", err)
		}
		fmt.Printf("snapshot v%d league=%s seed=%d\n", h.Version, h.LeagueID, h.Seed)
	}

	setup := matchcmd.Setup{
		Seed:       *seed,
		Names:      cats.Names,
		Tuning:     tune,
		LeaguePath: *leaguePath,
		Weather:    *weather,
	}
	a, err := matchcmd.Prepare(setup)
	if err != nil {
		config.Exitf("prepare: %v", err)
	}
	b, err := matchcmd.Prepare(setup)
	if err != nil {
		config.Exitf("prepare: %v", err)
	}

	checked, err := lockstep(context.Background(), a, b, *maxTicks)
	if err != nil {
		config.Exitf("replay mismatch: %v", err)
	}
	home, away := a.Game.Side(game.Home), a.Game.Side(game.Away)
	fmt.Printf("final score %d-%d weather=%s\n", home.Score, away.Score, a.Game.Weather())
	fmt.Printf("replay ok: checked=%d ticks\n", checked)
}

func lockstep(ctx context.Context, a, b *matchcmd.Match, maxTicks int) (int, error) {
	for tick := 1; tick <= maxTicks; tick++ {
		if err := ctx.Err(); err != nil {
			return tick - 1, err
		}
		ra, err := a.Game.Advance(a.Registry, a.RNG)
		if err != nil {
			return tick, fmt.Errorf("tick %d: %w", tick, err)
		}
		rb, err := b.Game.Advance(b.Registry, b.RNG)
		if err != nil {
			return tick, fmt.Errorf("tick %d: %w", tick, err)
		}
		if ra != rb {
			return tick, fmt.Errorf("tick %d: result %v vs %v", tick, ra, rb)
		}

		da, err := a.Game.Digest(a.Registry)
		if err != nil {
			return tick, err
		}
		db, err := b.Game.Digest(b.Registry)
		if err != nil {
			return tick, err
		}
		if da != db {
			return tick, fmt.Errorf("tick %d: digest %s vs %s", tick, da, db)
		}

		for {
			x, okA := a.Game.PopReport()
			y, okB := b.Game.PopReport()
			if okA != okB {
				return tick, fmt.Errorf("tick %d: report count differs", tick)
			}
			if !okA {
				break
			}
			sa, err := x.Render(a.Registry)
			if err != nil {
				return tick, err
			}
			sb, err := y.Render(b.Registry)
			if err != nil {
				return tick, err
			}
			if sa != sb {
				return tick, fmt.Errorf("tick %d: report differs:\n%s\n%s", tick, sa, sb)
			}
		}
		if ra == game.Finished {
			return tick, nil
		}
	}
	return maxTicks, fmt.Errorf("match did not finish within %d ticks", maxTicks)
}
