package match

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"paddlesim/internal/persistence/snapshot"
	"paddlesim/internal/random"
	"paddlesim/internal/sim/catalogs"
	"paddlesim/internal/sim/game"
	"paddlesim/internal/sim/league"
	"paddlesim/internal/sim/tuning"
)

// Setup describes how to build a match. Everything that affects game state
// is derived from Seed, so the same Setup always yields the same match.
type Setup struct {
	Seed   int64
	Names  catalogs.NameCatalog
	Tuning tuning.Tuning

	// LeaguePath loads rosters from a snapshot instead of generating them.
	LeaguePath string
	// Weather overrides Tuning.Match.Weather when set.
	Weather string
}

// Match is a ready-to-run game with everything it resolves against.
type Match struct {
	Seed     int64
	LeagueID string
	Registry *league.Registry
	Home     league.TeamID
	Away     league.TeamID
	Game     *game.Game
	RNG      random.Source

	names catalogs.NameCatalog
}

// Prepare builds the league and the game. A generated league draws from its
// own stream of the seed, so a match played on a generated league and on the
// snapshot of that league sees the same draws.
func Prepare(s Setup) (*Match, error) {
	rng := random.New(s.Seed)
	m := &Match{Seed: s.Seed, RNG: rng, names: s.Names}

	if s.LeaguePath != "" {
		snap, err := snapshot.ReadSnapshot(s.LeaguePath)
		if err != nil {
			return nil, fmt.Errorf("read league: %w", err)
		}
		reg, home, away, err := league.ImportSnapshot(snap, s.Names)
		if err != nil {
			return nil, fmt.Errorf("import league: %w", err)
		}
		m.LeagueID = snap.Header.LeagueID
		m.Registry, m.Home, m.Away = reg, home, away
	} else {
		m.LeagueID = GeneratedLeagueID(s.Seed)
		gen := random.NewStream(s.Seed, random.StreamLeague)
		m.Registry = league.NewRegistry(s.Names)
		m.Home = m.Registry.NewTeam(s.Tuning.League.HomeTeam, gen)
		m.Away = m.Registry.NewTeam(s.Tuning.League.AwayTeam, gen)
	}

	name := s.Weather
	if strings.TrimSpace(name) == "" {
		name = s.Tuning.Match.Weather
	}
	w, err := pickWeather(name, rng)
	if err != nil {
		return nil, err
	}
	m.Game = game.New(m.Home, m.Away, w)
	return m, nil
}

// GeneratedLeagueID names a league generated in-process from seed.
func GeneratedLeagueID(seed int64) string {
	return fmt.Sprintf("seed-%d", seed)
}

func pickWeather(name string, rng random.Source) (game.Weather, error) {
	if strings.EqualFold(strings.TrimSpace(name), tuning.RandomWeather) || strings.TrimSpace(name) == "" {
		return game.RandomWeather(rng), nil
	}
	return game.ParseWeather(name)
}

// Snapshot captures the league as it stands. Call it before the first
// Advance to get a snapshot the match can be replayed from.
func (m *Match) Snapshot() snapshot.LeagueV1 {
	return m.Registry.ExportSnapshot(m.LeagueID, m.Seed, m.names.Digest, m.Home, m.Away)
}

// LoadInputs reads catalogs and tuning from configDir. A missing tuning.yaml
// means defaults.
func LoadInputs(configDir string) (*catalogs.Catalogs, tuning.Tuning, error) {
	cats, err := catalogs.Load(configDir)
	if err != nil {
		return nil, tuning.Tuning{}, fmt.Errorf("load catalogs: %w", err)
	}
	tune := tuning.Defaults()
	if configDir != "" {
		p := filepath.Join(configDir, "tuning.yaml")
		if _, statErr := os.Stat(p); statErr == nil {
			tune, err = tuning.Load(p)
			if err != nil {
				return nil, tuning.Tuning{}, fmt.Errorf("load tuning: %w", err)
			}
		}
	}
	return cats, tune, nil
}
