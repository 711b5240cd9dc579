// Package main generates league snapshots and lists the indexed ones.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"paddlesim/internal/config"
	"paddlesim/internal/persistence/indexdb"
	"paddlesim/internal/persistence/snapshot"
	"paddlesim/internal/random"

	matchcmd "paddlesim/internal/cmd/match"
)

func main() {
	config.LoadDotEnv(config.DefaultEnvPaths...)

	var (
		seed      = flag.Int64("seed", 0, "league seed (0 draws one)")
		configDir = flag.String("configs", "./configs", "config directory")
		outDir    = flag.String("out", "./data/leagues", "snapshot output directory")
		indexPath = flag.String("index-db", os.Getenv("PADDLESIM_INDEX_DB"), "sqlite index (optional)")
		list      = flag.Bool("list", false, "list indexed leagues and exit")
	)
	flag.Parse()

	if *list {
		if *indexPath == "" {
			config.Exitf("-list needs -index-db")
		}
		if err := listLeagues(*indexPath); err != nil {
			config.Exitf("list: %v", err)
		}
		return
	}

	if *seed == 0 {
		s, err := random.NewSeed()
		if err != nil {
			config.Exitf("seed: %v", err)
		}
		*seed = s
	}

	cats, tune, err := matchcmd.LoadInputs(*configDir)
	if err != nil {
		config.Exitf("load inputs: %v", err)
	}
	m, err := matchcmd.Prepare(matchcmd.Setup{Seed: *seed, Names: cats.Names, Tuning: tune})
	if err != nil {
		config.Exitf("generate: %v", err)
	}
	snap := m.Snapshot()

	path := filepath.Join(*outDir, m.LeagueID+".snap.zst")
	if err := snapshot.WriteSnapshot(path, snap); err != nil {
		config.Exitf("write: %v", err)
	}
	fmt.Printf("league %s seed=%d players=%d teams=%d -> %s\n", m.LeagueID, *seed, len(snap.Players), len(snap.Teams), path)

	if *indexPath == "" {
		return
	}
	idx, err := indexdb.OpenSQLite(*indexPath)
	if err != nil {
		config.Exitf("index: %v", err)
	}
	if err := idx.UpsertCatalogs(cats.Names, tune); err != nil {
		fmt.Fprintln(os.Stderr, "index catalogs:", err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	idx.RecordLeague(path, snap)
	if err := idx.Close(); err != nil {
		config.Exitf("index close: %v", err)
	}
}

func listLeagues(path string) error {
	idx, err := indexdb.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer idx.Close()

	leagues, err := idx.ListLeagues(context.Background())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LEAGUE\tSEED\tPLAYERS\tTEAMS\tRECORDED\tPATH")
	for _, l := range leagues {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\n", l.LeagueID, l.Seed, l.Players, l.Teams, l.RecordedAt.Format(time.RFC3339), l.Path)
	}
	return tw.Flush()
}
