// Package ids generates the opaque identifiers used for players and
// history entries: a UUIDv7 rendered as 26 characters of Crockford base32,
// so ids sort by creation time.
package ids

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Crockford's base32
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Generator produces a fresh id on every call.
type Generator func() string

// New returns a UUIDv7-based id. It falls back to a random v4 UUID if the
// v7 generator fails, which only happens when the entropy source does.
func New() string {
	u, err := uuid.NewV7()
	if err != nil {
		u = uuid.New()
	}
	return encode(u)
}

// Sequence returns a Generator yielding prefix-1, prefix-2, ... for tests
// and reproducible runs.
func Sequence(prefix string) Generator {
	var n atomic.Uint64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}

// encode renders 128 bits as 26 base32 characters, 5 bits at a time,
// most significant first. The final character carries the last 3 bits.
func encode(data [16]byte) string {
	var b strings.Builder
	b.Grow(26)

	for i := 0; i < 26; i++ {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value uint8
		if bitIndex <= 3 {
			value = (data[byteIndex] >> (3 - bitIndex)) & 0x1f
		} else {
			value = (data[byteIndex] << (bitIndex - 3)) & 0x1f
			if byteIndex+1 < len(data) {
				value |= data[byteIndex+1] >> (11 - bitIndex)
			}
		}
		b.WriteByte(alphabet[value])
	}
	return b.String()
}

// Validate checks that id looks like something New produced.
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("id must be exactly 26 characters, got %d", len(id))
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}
