package game

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"

	"paddlesim/internal/sim/league"
)

// Digest hashes the engine state and both rosters. Two matches driven from
// the same seed and league produce the same digest after every Advance.
func (g *Game) Digest(reg *league.Registry) (string, error) {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, uint64(g.phase.Kind))
	digestWriteU64(h, &tmp, uint64(g.phase.Side))
	digestWriteU64(h, &tmp, uint64(g.phase.Weather))
	digestWriteU64(h, &tmp, uint64(g.ball))
	digestWriteU64(h, &tmp, uint64(g.weather))
	h.Write([]byte{boolByte(g.finished)})

	for _, s := range [...]Side{Home, Away} {
		ps := g.Side(s)
		h.Write(ps.Team[:])
		digestWriteU64(h, &tmp, uint64(ps.Position))
		digestWriteU64(h, &tmp, uint64(ps.Score))

		t, err := reg.Team(ps.Team)
		if err != nil {
			return "", err
		}
		digestWriteU64(h, &tmp, uint64(t.ActiveIndex()))
		roster := t.Roster()
		digestWriteU64(h, &tmp, uint64(len(roster)))
		for _, pid := range roster {
			h.Write(pid[:])
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func digestWriteU64(h hash.Hash, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
