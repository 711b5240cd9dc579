package game

import (
	"testing"

	"paddlesim/internal/random"
	"paddlesim/internal/sim/catalogs"
	"paddlesim/internal/sim/league"
)

var (
	ada = league.Player{Name: "Ada Crane", Speed: 0.5, Control: 0.5, Distractibility: 0}
	bo  = league.Player{Name: "Bo Inkwell", Speed: 0.5, Control: 0.5, Distractibility: 0}
)

// newDuel builds a match between two single-player teams.
func newDuel(t *testing.T, home, away league.Player, w Weather) (*league.Registry, *Game) {
	t.Helper()
	rng := random.New(1)
	reg := league.NewRegistry(catalogs.Defaults().Names)
	hp := reg.AddPlayer(home, rng)
	ap := reg.AddPlayer(away, rng)
	ht, err := reg.AddTeam("Home", []league.PlayerID{hp}, rng)
	if err != nil {
		t.Fatalf("AddTeam home: %v", err)
	}
	at, err := reg.AddTeam("Away", []league.PlayerID{ap}, rng)
	if err != nil {
		t.Fatalf("AddTeam away: %v", err)
	}
	return reg, New(ht, at, w)
}

// newLeagueMatch builds a match between two generated teams.
func newLeagueMatch(seed int64, w Weather) (*league.Registry, *Game) {
	rng := random.New(seed)
	reg := league.NewRegistry(catalogs.Defaults().Names)
	home := reg.NewTeam("The Speedles", rng)
	away := reg.NewTeam("The Spabbles", rng)
	return reg, New(home, away, w)
}

func advance(t *testing.T, g *Game, reg *league.Registry, rng random.Source) Result {
	t.Helper()
	res, err := g.Advance(reg, rng)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	return res
}

func drainComments(g *Game) []string {
	var out []string
	for {
		r, ok := g.PopReport()
		if !ok {
			return out
		}
		out = append(out, r.Comment)
	}
}

func activeID(t *testing.T, reg *league.Registry, team league.TeamID) league.PlayerID {
	t.Helper()
	id, _, err := reg.ActivePlayer(team)
	if err != nil {
		t.Fatalf("ActivePlayer: %v", err)
	}
	return id
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
