// Package roomid generates short, sortable room identifiers.
//
// IDs are "sala-" followed by 12 characters of Crockford base32: a 40-bit
// millisecond timestamp and 20 random bits. The timestamp prefix keeps
// ids roughly creation-ordered, which makes server logs easy to scan.
package roomid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const (
	// Prefix carried by every generated room id. Player-supplied room
	// names are not required to use it.
	Prefix = "sala-"

	alphabet   = "0123456789abcdefghjkmnpqrstvwxyz"
	encodedLen = 12
)

// RandSource supplies the random suffix bits. Satisfied by *rand.Rand,
// injectable for deterministic tests.
type RandSource interface {
	IntN(n int) int
}

// Generator creates room ids with configurable randomness.
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a generator. A nil RandSource falls back to
// crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// Generate creates a new room id using crypto/rand.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new room id.
func (g *Generator) Generate() string {
	// 60 bits total: 40 bits of unix milliseconds, 20 random bits.
	now := uint64(time.Now().UnixMilli()) & ((1 << 40) - 1)
	value := now << 20

	if g.randSource != nil {
		value |= uint64(g.randSource.IntN(1 << 20))
	} else {
		var buf [3]byte
		if _, err := rand.Read(buf[:]); err != nil {
			panic("roomid: failed to read random bytes: " + err.Error())
		}
		value |= (uint64(buf[0])<<16 | uint64(buf[1])<<8 | uint64(buf[2])) & ((1 << 20) - 1)
	}

	var sb strings.Builder
	sb.Grow(len(Prefix) + encodedLen)
	sb.WriteString(Prefix)
	for shift := (encodedLen - 1) * 5; shift >= 0; shift -= 5 {
		sb.WriteByte(alphabet[(value>>uint(shift))&0x1f])
	}
	return sb.String()
}

// Validate checks that an id is a generated room id (prefix plus valid
// base32 payload). Player-chosen room names bypass this entirely.
func Validate(id string) error {
	if !strings.HasPrefix(id, Prefix) {
		return fmt.Errorf("room id %q missing %q prefix", id, Prefix)
	}
	payload := id[len(Prefix):]
	if len(payload) != encodedLen {
		return fmt.Errorf("room id payload must be %d characters, got %d", encodedLen, len(payload))
	}
	for i := 0; i < len(payload); i++ {
		if !strings.ContainsRune(alphabet, rune(payload[i])) {
			return fmt.Errorf("invalid character %q at position %d", payload[i], i)
		}
	}
	return nil
}
