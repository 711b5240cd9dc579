package catalogs

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"paddlesim/internal/random"
)

const (
	FirstNamesFile = "names.txt"
	LastNamesFile  = "lastnames.txt"
)

//go:embed defaults/names.txt defaults/lastnames.txt
var defaults embed.FS

type Catalogs struct {
	Names NameCatalog
}

// NameCatalog produces "first last" display names by drawing each half
// independently.
type NameCatalog struct {
	First  []string
	Last   []string
	Digest string
}

// Load reads name lists from configDir. A list missing from the directory
// falls back to the embedded default; an empty configDir uses defaults only.
func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	first, firstRaw, err := loadList(configDir, FirstNamesFile)
	if err != nil {
		return nil, err
	}
	last, lastRaw, err := loadList(configDir, LastNamesFile)
	if err != nil {
		return nil, err
	}

	var concat bytes.Buffer
	concat.Write(firstRaw)
	concat.WriteByte('\n')
	concat.Write(lastRaw)

	c.Names = NameCatalog{
		First:  first,
		Last:   last,
		Digest: sha256Hex(concat.Bytes()),
	}
	return &c, nil
}

// Defaults returns the embedded catalogs.
func Defaults() *Catalogs {
	c, err := Load("")
	if err != nil {
		// Embedded lists are validated by tests.
		panic(err)
	}
	return c
}

// Generate draws a display name from rng.
func (n NameCatalog) Generate(rng random.Source) string {
	first := n.First[rng.IntN(len(n.First))]
	last := n.Last[rng.IntN(len(n.Last))]
	return first + " " + last
}

func loadList(configDir, name string) ([]string, []byte, error) {
	var raw []byte
	if configDir != "" {
		b, err := os.ReadFile(filepath.Join(configDir, name))
		switch {
		case err == nil:
			raw = b
		case os.IsNotExist(err):
		default:
			return nil, nil, err
		}
	}
	if raw == nil {
		b, err := defaults.ReadFile("defaults/" + name)
		if err != nil {
			return nil, nil, err
		}
		raw = b
	}

	var out []string
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(out) == 0 {
		return nil, nil, fmt.Errorf("%s: no names", name)
	}
	return out, raw, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
