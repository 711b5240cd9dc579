// Package indexdb keeps a queryable SQLite index of saved league snapshots
// and the catalogs they were generated with. The snapshot files remain the
// source of truth; the index may lag or drop rows under load.
package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"paddlesim/internal/persistence/snapshot"
	"paddlesim/internal/sim/catalogs"
	"paddlesim/internal/sim/tuning"
)

const schemaVersion = "1"

type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqLeague reqKind = iota + 1
)

type req struct {
	kind   reqKind
	league leagueRow
}

type leagueRow struct {
	LeagueID    string
	Path        string
	Seed        int64
	Home        string
	Away        string
	Players     int
	NamesDigest string
	RecordedAt  string
	Teams       []teamRow
}

type teamRow struct {
	ID         string
	Name       string
	RosterSize int
}

// LeagueEntry is one indexed league snapshot.
type LeagueEntry struct {
	LeagueID    string
	Path        string
	Seed        int64
	HomeTeam    string
	AwayTeam    string
	Players     int
	Teams       int
	NamesDigest string
	RecordedAt  time.Time
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 1024),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS leagues (
			league_id TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			seed INTEGER NOT NULL,
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			players INTEGER NOT NULL,
			teams INTEGER NOT NULL,
			names_digest TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_leagues_seed ON leagues(seed);`,
		`CREATE TABLE IF NOT EXISTS teams (
			league_id TEXT NOT NULL REFERENCES leagues(league_id) ON DELETE CASCADE,
			team_id TEXT NOT NULL,
			name TEXT NOT NULL,
			roster_size INTEGER NOT NULL,
			PRIMARY KEY (league_id, team_id)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	_, err := db.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version',?)`, schemaVersion)
	return err
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// RecordLeague queues a saved snapshot for indexing. It never blocks; rows
// are dropped if the writer falls behind.
func (s *SQLiteIndex) RecordLeague(path string, snap snapshot.LeagueV1) {
	if s == nil || s.closed.Load() {
		return
	}
	if snap.Header.LeagueID == "" || path == "" {
		return
	}
	r := leagueRow{
		LeagueID:    snap.Header.LeagueID,
		Path:        path,
		Seed:        snap.Header.Seed,
		Home:        snap.Home,
		Away:        snap.Away,
		Players:     len(snap.Players),
		NamesDigest: snap.NamesDigest,
		RecordedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}
	for _, t := range snap.Teams {
		r.Teams = append(r.Teams, teamRow{ID: t.ID, Name: t.Name, RosterSize: len(t.Roster)})
	}
	select {
	case s.ch <- req{kind: reqLeague, league: r}:
	default:
	}
}

// UpsertCatalogs stores the name lists and the applied tuning with their
// digests, so an indexed league can be traced back to its inputs.
func (s *SQLiteIndex) UpsertCatalogs(names catalogs.NameCatalog, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	var rows []kv
	if b, err := json.Marshal(struct {
		First []string `json:"first"`
		Last  []string `json:"last"`
	}{names.First, names.Last}); err == nil {
		rows = append(rows, kv{name: "names", digest: names.Digest, json: b})
	}
	if b, err := json.Marshal(tune); err == nil {
		rows = append(rows, kv{name: "tuning", digest: TuningDigest(b), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// TuningDigest is the hex sha256 of canonical tuning JSON.
func TuningDigest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// CatalogDigest returns the stored digest for a catalog row.
func (s *SQLiteIndex) CatalogDigest(ctx context.Context, name string) (string, error) {
	var digest string
	err := s.db.QueryRowContext(ctx, `SELECT digest FROM catalogs WHERE name=?`, name).Scan(&digest)
	if err != nil {
		return "", err
	}
	return digest, nil
}

// ListLeagues returns indexed leagues, newest first. Rows still queued in the
// writer are not visible yet.
func (s *SQLiteIndex) ListLeagues(ctx context.Context) ([]LeagueEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT league_id,path,seed,home_team,away_team,players,teams,names_digest,recorded_at
		FROM leagues ORDER BY recorded_at DESC, league_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeagueEntry
	for rows.Next() {
		var (
			e  LeagueEntry
			at string
		)
		if err := rows.Scan(&e.LeagueID, &e.Path, &e.Seed, &e.HomeTeam, &e.AwayTeam, &e.Players, &e.Teams, &e.NamesDigest, &at); err != nil {
			return nil, err
		}
		if e.RecordedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("league %s: recorded_at: %w", e.LeagueID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertLeague, _ := s.db.Prepare(`INSERT OR REPLACE INTO leagues(league_id,path,seed,home_team,away_team,players,teams,names_digest,recorded_at) VALUES(?,?,?,?,?,?,?,?,?)`)
	deleteTeams, _ := s.db.Prepare(`DELETE FROM teams WHERE league_id=?`)
	insertTeam, _ := s.db.Prepare(`INSERT OR REPLACE INTO teams(league_id,team_id,name,roster_size) VALUES(?,?,?,?)`)
	defer func() {
		for _, st := range []*sql.Stmt{insertLeague, deleteTeams, insertTeam} {
			if st != nil {
				_ = st.Close()
			}
		}
	}()

	var tx *sql.Tx
	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqLeague:
			if insertLeague == nil || deleteTeams == nil || insertTeam == nil {
				continue
			}
			l := r.league
			if _, err := tx.Stmt(insertLeague).Exec(
				l.LeagueID,
				l.Path,
				l.Seed,
				l.Home,
				l.Away,
				l.Players,
				len(l.Teams),
				l.NamesDigest,
				l.RecordedAt,
			); err != nil {
				rollback()
				continue
			}
			if _, err := tx.Stmt(deleteTeams).Exec(l.LeagueID); err != nil {
				rollback()
				continue
			}
			for _, t := range l.Teams {
				if _, err := tx.Stmt(insertTeam).Exec(l.LeagueID, t.ID, t.Name, t.RosterSize); err != nil {
					rollback()
					break
				}
			}
		}
		// Commit once the burst drains so readers see it.
		if len(s.ch) == 0 {
			commit()
		}
	}

	commit()
}
