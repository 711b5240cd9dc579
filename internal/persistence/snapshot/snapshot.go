package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const Version = 1

type Header struct {
	Version  int    `json:"version"`
	LeagueID string `json:"league_id"`
	Seed     int64  `json:"seed"`
}

// LeagueV1 captures a generated league so matches can be replayed against
// the same rosters.
type LeagueV1 struct {
	Header Header `json:"header"`

	NamesDigest string `json:"names_digest,omitempty"`

	// Home and Away name the two teams a match is played between.
	Home string `json:"home"`
	Away string `json:"away"`

	Players []PlayerV1 `json:"players"`
	Teams   []TeamV1   `json:"teams"`
}

type PlayerV1 struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Speed           float64 `json:"speed"`
	Control         float64 `json:"control"`
	Distractibility float64 `json:"distractibility"`
}

type TeamV1 struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Roster []string `json:"roster"`
	Active int      `json:"active"`
}

func WriteSnapshot(path string, snap LeagueV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Encode(f, snap); err != nil {
		return err
	}
	return f.Close()
}

// Encode writes a JSON header line followed by the gob body, zstd-compressed.
func Encode(w io.Writer, snap LeagueV1) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 64*1024)

	hb, err := json.Marshal(snap.Header)
	if err != nil {
		_ = enc.Close()
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		_ = enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		_ = enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func ReadSnapshot(path string) (LeagueV1, error) {
	f, err := os.Open(path)
	if err != nil {
		return LeagueV1{}, err
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (LeagueV1, error) {
	var snap LeagueV1

	dec, err := zstd.NewReader(r)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)

	// Header line is for tooling; gob carries the header too.
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	if snap.Header.Version != Version {
		return snap, fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}
	return snap, nil
}

// ReadHeader returns only the header line, without decoding the body.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("decode header: %w", err)
	}
	return h, nil
}
