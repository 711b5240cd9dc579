// Package match implements the match command: build or load a league, play
// one match and print the play-by-play.
package match

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"paddlesim/internal/config"
	"paddlesim/internal/persistence/indexdb"
	"paddlesim/internal/persistence/snapshot"
	"paddlesim/internal/protocol"
	"paddlesim/internal/random"
	"paddlesim/internal/sim/catalogs"
	"paddlesim/internal/sim/game"
	"paddlesim/internal/sim/tuning"
	"paddlesim/internal/transport/observer"
)

// Config holds match command configuration.
type Config struct {
	Seed        int64  `env:"PADDLESIM_SEED"`
	ConfigDir   string `env:"PADDLESIM_CONFIG_DIR"   envDefault:"configs"`
	Weather     string `env:"PADDLESIM_WEATHER"`
	League      string `env:"PADDLESIM_LEAGUE"`
	SaveLeague  string `env:"PADDLESIM_SAVE_LEAGUE"`
	IndexDB     string `env:"PADDLESIM_INDEX_DB"`
	ObserveAddr string `env:"PADDLESIM_OBSERVE_ADDR"`
	Fast        bool   `env:"PADDLESIM_FAST"`
}

// ParseConfig parses env then flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "match seed (0 draws one)")
	fs.StringVar(&cfg.ConfigDir, "configs", cfg.ConfigDir, "config directory (names, tuning.yaml)")
	fs.StringVar(&cfg.Weather, "weather", cfg.Weather, "starting weather, or \"random\" (overrides tuning)")
	fs.StringVar(&cfg.League, "league", cfg.League, "league snapshot to load instead of generating one")
	fs.StringVar(&cfg.SaveLeague, "save-league", cfg.SaveLeague, "write the pre-match league snapshot here")
	fs.StringVar(&cfg.IndexDB, "index-db", cfg.IndexDB, "sqlite index for saved league snapshots")
	fs.StringVar(&cfg.ObserveAddr, "observe-addr", cfg.ObserveAddr, "serve the spectator stream on this loopback address")
	fs.BoolVar(&cfg.Fast, "fast", cfg.Fast, "print reports without pacing delays")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.Weather != "" && !strings.EqualFold(cfg.Weather, tuning.RandomWeather) {
		if _, err := game.ParseWeather(cfg.Weather); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// Run plays one match, writing rendered reports to out and logs to errOut.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	logger := log.New(errOut, "[match] ", log.LstdFlags|log.Lmicroseconds)

	seed := cfg.Seed
	if seed == 0 {
		s, err := random.NewSeed()
		if err != nil {
			return err
		}
		seed = s
	}

	cats, tune, err := LoadInputs(cfg.ConfigDir)
	if err != nil {
		return err
	}

	m, err := Prepare(Setup{
		Seed:       seed,
		Names:      cats.Names,
		Tuning:     tune,
		LeaguePath: cfg.League,
		Weather:    cfg.Weather,
	})
	if err != nil {
		return err
	}
	logger.Printf("seed=%d league=%s weather=%s", seed, m.LeagueID, m.Game.Weather())

	if cfg.League != "" {
		if h, err := snapshot.ReadHeader(cfg.League); err == nil && h.Seed != seed {
			logger.Printf("league %s generated with seed=%d, match seed=%d", m.LeagueID, h.Seed, seed)
		}
	}

	if cfg.SaveLeague != "" {
		if err := saveLeague(cfg, m, cats.Names, tune, logger); err != nil {
			return err
		}
	}

	h := &host{
		match:  m,
		out:    out,
		pacing: tune.Pacing,
		fast:   cfg.Fast,
		log:    logger,
	}

	if cfg.ObserveAddr != "" {
		hub, stop, err := serveObservers(cfg.ObserveAddr, m, logger)
		if err != nil {
			return err
		}
		defer stop()
		h.hub = hub
	}

	ticks, err := h.play(ctx)
	if err != nil {
		return err
	}
	logger.Printf("match finished: ticks=%d", ticks)
	return nil
}

// saveLeague writes the pre-match snapshot and indexes it when an index is
// configured. Index failures are logged; the snapshot file is what counts.
func saveLeague(cfg Config, m *Match, names catalogs.NameCatalog, tune tuning.Tuning, logger *log.Logger) error {
	snap := m.Snapshot()
	if err := snapshot.WriteSnapshot(cfg.SaveLeague, snap); err != nil {
		return fmt.Errorf("save league: %w", err)
	}
	logger.Printf("league snapshot: %s (players=%d teams=%d)", cfg.SaveLeague, len(snap.Players), len(snap.Teams))
	if cfg.IndexDB == "" {
		return nil
	}

	idx, err := indexdb.OpenSQLite(cfg.IndexDB)
	if err != nil {
		logger.Printf("index: %v", err)
		return nil
	}
	defer idx.Close()
	if err := idx.UpsertCatalogs(names, tune); err != nil {
		logger.Printf("index catalogs: %v", err)
	}
	path := cfg.SaveLeague
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	idx.RecordLeague(path, snap)
	return idx.Close()
}

func serveObservers(addr string, m *Match, logger *log.Logger) (*observer.Hub, func(), error) {
	home, err := m.Registry.Team(m.Home)
	if err != nil {
		return nil, nil, err
	}
	away, err := m.Registry.Team(m.Away)
	if err != nil {
		return nil, nil, err
	}
	hub := observer.NewHub(protocol.MatchInfo{
		LeagueID: m.LeagueID,
		Seed:     m.Seed,
		HomeTeam: home.Name,
		AwayTeam: away.Name,
		Weather:  m.Game.Weather().String(),
	}, log.New(logger.Writer(), "[observer] ", logger.Flags()))

	mux := http.NewServeMux()
	mux.HandleFunc("/observer/bootstrap", hub.BootstrapHandler())
	mux.HandleFunc("/observer/ws", hub.WSHandler())

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("observe: %w", err)
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("observer server: %v", err)
		}
	}()
	logger.Printf("observer stream on ws://%s/observer/ws", ln.Addr())

	stop := func() {
		hub.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return hub, stop, nil
}
