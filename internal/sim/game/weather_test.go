package game

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"paddlesim/internal/random"
	"paddlesim/internal/random/randomtest"
	"paddlesim/internal/sim/catalogs"
	"paddlesim/internal/sim/league"
)

// Every scripted scenario below serves the ball to the middle, where the away
// hitter already stands. Its distraction check consumes the first float, so
// the weather draws start at the second.

func TestObservation_DefragsHitter(t *testing.T) {
	reg, g := newDuel(t, ada, bo, WeatherObservation)
	rng := randomtest.New(1).PushInts(1).PushFloats(0.99, 0.01)
	before := activeID(t, reg, g.Side(Away).Team)

	advance(t, g, reg, rng)
	advance(t, g, reg, rng)

	after := activeID(t, reg, g.Side(Away).Team)
	if after == before {
		t.Fatalf("active player was not replaced")
	}
	if g.Phase() != Hit(Away, Prevent) {
		t.Fatalf("phase = %v", g.Phase())
	}
	if _, err := reg.Player(before); err != nil {
		t.Fatalf("defragged player should stay registered: %v", err)
	}
	created, err := reg.Player(after)
	if err != nil {
		t.Fatalf("Player: %v", err)
	}

	got := drainComments(g)
	want := []string{
		"Ada Crane serves!",
		"The observers have defragged Bo Inkwell.",
		created.Name + " has been created in their place! They don't know what's going on!",
	}
	if !equalStrings(got, want) {
		t.Fatalf("reports = %q", got)
	}

	advance(t, g, reg, rng)
	if g.Phase() != ScorePhase(Home) || g.Side(Home).Score != 1 {
		t.Fatalf("prevented hit should score for home: %v %d", g.Phase(), g.Side(Home).Score)
	}
	if got := drainComments(g); !equalStrings(got, []string{created.Name + " doesn't manage to hit!"}) {
		t.Fatalf("reports = %q", got)
	}
}

func TestObservation_Overseers(t *testing.T) {
	reg, g := newDuel(t, ada, bo, WeatherObservation)
	rng := randomtest.New(1).PushInts(1).PushFloats(0.99, 0.5, 0.05)
	before := activeID(t, reg, g.Side(Away).Team)

	advance(t, g, reg, rng)
	advance(t, g, reg, rng)

	if activeID(t, reg, g.Side(Away).Team) != before {
		t.Fatalf("overseers must not replace the hitter")
	}
	if g.Phase() != Hit(Away, Nothing) {
		t.Fatalf("phase = %v", g.Phase())
	}
	got := drainComments(g)
	if !equalStrings(got, []string{"Ada Crane serves!", "The overseers watch Bo Inkwell with intent."}) {
		t.Fatalf("reports = %q", got)
	}
}

func TestObservation_Quiet(t *testing.T) {
	reg, g := newDuel(t, ada, bo, WeatherObservation)
	rng := randomtest.New(1).PushInts(1).PushFloats(0.99, 0.5, 0.5)
	advance(t, g, reg, rng)
	advance(t, g, reg, rng)
	if got := drainComments(g); len(got) != 1 {
		t.Fatalf("reports = %q", got)
	}
}

func TestFeedback_SwapsActivePlayers(t *testing.T) {
	reg, g := newDuel(t, ada, bo, WeatherFeedback)
	rng := randomtest.New(1).PushInts(1).PushFloats(0.99, 0.01)
	home := activeID(t, reg, g.Side(Home).Team)
	away := activeID(t, reg, g.Side(Away).Team)

	advance(t, g, reg, rng)
	advance(t, g, reg, rng)

	if activeID(t, reg, g.Side(Home).Team) != away || activeID(t, reg, g.Side(Away).Team) != home {
		t.Fatalf("active players were not swapped")
	}
	if g.Phase() != Hit(Away, Nothing) {
		t.Fatalf("phase = %v", g.Phase())
	}
	got := drainComments(g)
	if !equalStrings(got, []string{"Ada Crane serves!", "Ada Crane has been feedbacked with Bo Inkwell!"}) {
		t.Fatalf("reports = %q", got)
	}
}

// reverbDuel builds two seven-player teams and plays serve + pre-hit with a
// Reverb trigger. Shuffles draw from the fallback stream seeded by seed.
func reverbDuel(t *testing.T, seed int64) (reg *league.Registry, g *Game, teams [2]league.TeamID, before, after [2][]string) {
	t.Helper()
	rng := random.New(3)
	reg = league.NewRegistry(catalogs.Defaults().Names)
	for i := range teams {
		var roster []league.PlayerID
		for j := 0; j < 7; j++ {
			roster = append(roster, reg.AddPlayer(league.Player{Name: fmt.Sprintf("P%d-%d", i, j), Speed: 0.5, Control: 0.5}, rng))
		}
		id, err := reg.AddTeam(fmt.Sprintf("T%d", i), roster, rng)
		if err != nil {
			t.Fatalf("AddTeam: %v", err)
		}
		teams[i] = id
	}
	g = New(teams[0], teams[1], WeatherReverb)
	before = rosterStrings(t, reg, teams)

	script := randomtest.New(seed).PushInts(1).PushFloats(0.99, 0.01)
	advance(t, g, reg, script)
	advance(t, g, reg, script)

	after = rosterStrings(t, reg, teams)
	return reg, g, teams, before, after
}

func TestReverb_ShufflesRosters(t *testing.T) {
	_, g, _, before, after := reverbDuel(t, 1)
	for i := range before {
		if !equalStrings(sortedCopy(before[i]), sortedCopy(after[i])) {
			t.Fatalf("team %d roster changed membership", i)
		}
	}
	if equalStrings(before[0], after[0]) && equalStrings(before[1], after[1]) {
		t.Fatalf("reverb left both rosters in their original order")
	}
	got := drainComments(g)
	if len(got) != 2 || got[1] != "The teams are caught in the reverb!!" {
		t.Fatalf("reports = %q", got)
	}
}

func TestReverb_CanChangeActivePlayer(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		reg, _, teams, before, _ := reverbDuel(t, seed)
		for i, id := range teams {
			// Active index stays 0, so the resolved player is the new slot 0.
			if activeID(t, reg, id).String() != before[i][0] {
				return
			}
		}
	}
	t.Fatalf("reverb never changed an active player over 20 seeds")
}

func TestUnpredictable_SwitchesWeather(t *testing.T) {
	reg, g := newDuel(t, ada, bo, WeatherUnpredictable)
	// Second int picks Feedback, which then triggers too.
	rng := randomtest.New(1).PushInts(1, 1).PushFloats(0.99, 0.01, 0.01)

	advance(t, g, reg, rng)
	advance(t, g, reg, rng)

	if g.Weather() != WeatherFeedback {
		t.Fatalf("weather = %v", g.Weather())
	}
	got := drainComments(g)
	want := []string{
		"Ada Crane serves!",
		"The feedback gathers around the players.",
		"Ada Crane has been feedbacked with Bo Inkwell!",
	}
	if !equalStrings(got, want) {
		t.Fatalf("reports = %q", got)
	}
}

func TestUnpredictable_NoTrigger(t *testing.T) {
	reg, g := newDuel(t, ada, bo, WeatherUnpredictable)
	rng := randomtest.New(1).PushInts(1).PushFloats(0.99, 0.5)
	advance(t, g, reg, rng)
	advance(t, g, reg, rng)
	if g.Weather() != WeatherUnpredictable {
		t.Fatalf("weather = %v", g.Weather())
	}
	if got := drainComments(g); len(got) != 1 {
		t.Fatalf("reports = %q", got)
	}
}

func TestUnpredictable_DepthIsBounded(t *testing.T) {
	reg, g := newDuel(t, ada, bo, WeatherUnpredictable)
	// Every draw picks Unpredictable again and every trigger fires.
	rng := randomtest.New(1).PushInts(1, 4, 4, 4).PushFloats(0.99, 0.01, 0.01, 0.01)

	advance(t, g, reg, rng)
	advance(t, g, reg, rng)

	if g.Phase() != Hit(Away, Nothing) {
		t.Fatalf("phase = %v", g.Phase())
	}
	got := drainComments(g)
	want := []string{
		"Ada Crane serves!",
		"We don't know what the sky is doing.",
		"We don't know what the sky is doing.",
	}
	if !equalStrings(got, want) {
		t.Fatalf("reports = %q", got)
	}
	// The capped weather neither rolled nor drew a replacement.
	if len(rng.Floats) != 1 || len(rng.Ints) != 1 {
		t.Fatalf("unexpected draws at the cap: floats=%v ints=%v", rng.Floats, rng.Ints)
	}
}

func TestOmni_UnpredictableAtCapAnnouncesNothing(t *testing.T) {
	reg, g := newDuel(t, ada, bo, WeatherOmni)
	// Omni -> Unpredictable (fires, draws Unpredictable) -> capped.
	rng := randomtest.New(1).PushInts(1, 4, 4, 3).PushFloats(0.99, 0.01, 0.01, 0.01)
	before := activeID(t, reg, g.Side(Away).Team)

	advance(t, g, reg, rng)
	advance(t, g, reg, rng)

	if g.Weather() != WeatherUnpredictable {
		t.Fatalf("weather = %v", g.Weather())
	}
	got := drainComments(g)
	if !equalStrings(got, []string{"Ada Crane serves!", "We don't know what the sky is doing."}) {
		t.Fatalf("reports = %q", got)
	}
	if activeID(t, reg, g.Side(Away).Team) != before {
		t.Fatalf("hitter replaced without an announced observation")
	}
	if len(rng.Ints) != 1 || len(rng.Floats) != 2 {
		t.Fatalf("unexpected draws at the cap: floats=%v ints=%v", rng.Floats, rng.Ints)
	}
}

func TestOmni_ConcreteWeatherAppliesAtCap(t *testing.T) {
	reg, g := newDuel(t, ada, bo, WeatherOmni)
	// Omni -> Unpredictable (fires, draws Observation) -> Observation fires.
	rng := randomtest.New(1).PushInts(1, 4, 3).PushFloats(0.99, 0.01, 0.01)
	before := activeID(t, reg, g.Side(Away).Team)

	advance(t, g, reg, rng)
	advance(t, g, reg, rng)

	if g.Weather() != WeatherObservation {
		t.Fatalf("weather = %v", g.Weather())
	}
	if g.Phase() != Hit(Away, Prevent) {
		t.Fatalf("phase = %v", g.Phase())
	}
	if activeID(t, reg, g.Side(Away).Team) == before {
		t.Fatalf("announced observation did not apply")
	}
	got := drainComments(g)
	if len(got) != 4 || got[1] != "The clouds reveal eyes in the sky." || got[2] != "The observers have defragged Bo Inkwell." {
		t.Fatalf("reports = %q", got)
	}
	if len(rng.Floats) != 0 {
		t.Fatalf("observation roll not drawn: %v", rng.Floats)
	}
}

func TestOmni_DelegatesWithoutChangingWeather(t *testing.T) {
	reg, g := newDuel(t, ada, bo, WeatherOmni)
	// Second int picks Reverb.
	rng := randomtest.New(1).PushInts(1, 2).PushFloats(0.99, 0.01)

	advance(t, g, reg, rng)
	advance(t, g, reg, rng)

	if g.Weather() != WeatherOmni {
		t.Fatalf("weather = %v", g.Weather())
	}
	got := drainComments(g)
	if !equalStrings(got, []string{"Ada Crane serves!", "The teams are caught in the reverb!!"}) {
		t.Fatalf("reports = %q", got)
	}
}

func TestRandomWeather_NeverOmni(t *testing.T) {
	rng := random.New(11)
	seen := map[Weather]bool{}
	for i := 0; i < 1000; i++ {
		w := RandomWeather(rng)
		if w == WeatherOmni {
			t.Fatalf("RandomWeather drew Omni")
		}
		seen[w] = true
	}
	if len(seen) != len(standardWeathers) {
		t.Fatalf("draws covered %d of %d weathers", len(seen), len(standardWeathers))
	}
}

func TestParseWeather(t *testing.T) {
	for _, w := range []Weather{WeatherNone, WeatherFeedback, WeatherReverb, WeatherObservation, WeatherOmni, WeatherUnpredictable} {
		got, err := ParseWeather(w.Key())
		if err != nil || got != w {
			t.Fatalf("ParseWeather(%q) = %v, %v", w.Key(), got, err)
		}
		got, err = ParseWeather(strings.ToUpper(w.String()))
		if err != nil || got != w {
			t.Fatalf("ParseWeather(%q) = %v, %v", w.String(), got, err)
		}
	}
	if _, err := ParseWeather("hail"); err == nil {
		t.Fatalf("expected error for unknown weather")
	}
}

func rosterStrings(t *testing.T, reg *league.Registry, teams [2]league.TeamID) [2][]string {
	t.Helper()
	var out [2][]string
	for i, id := range teams {
		team, err := reg.Team(id)
		if err != nil {
			t.Fatalf("Team: %v", err)
		}
		for _, pid := range team.Roster() {
			out[i] = append(out[i], pid.String())
		}
	}
	return out
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
