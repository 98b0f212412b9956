package generation

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/redbco/docsynth/internal/keypattern"
)

const prefixedIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateKey produces one key string matching pattern, for use as a
// dynamic-key map's key or as a synthesized `_id`. seq is the 0-based
// sequence number from GeneratorContext.NextSeq. NumericID and Custom keys
// embed seq, so they are unique independent of randomness; PrefixedID uses
// seq only to pick its prefix, and its 16-character suffix is random.
func (c *GeneratorContext) GenerateKey(p keypattern.Pattern, customPattern string, seq int) string {
	switch p {
	case keypattern.UUID:
		return c.randomUUID()
	case keypattern.MongoObjectID:
		return c.randomObjectIDHex()
	case keypattern.ULID:
		return c.randomULID()
	case keypattern.NumericID:
		return fmt.Sprintf("%d", 100000+seq)
	case keypattern.PrefixedID:
		return c.randomPrefixedID(seq)
	case keypattern.Custom:
		return c.customKey(customPattern, seq)
	default:
		return c.randomUUID()
	}
}

// seededReader adapts a GeneratorContext's PRNG to io.Reader, so
// google/uuid and oklog/ulid draw their randomness from the generator's
// seeded state instead of crypto/rand — required for the determinism
// contract (§4.F: identical (schema, seed) => byte-identical output).
type seededReader struct{ c *GeneratorContext }

func (r seededReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.c.Uint64())
	}
	return len(p), nil
}

func (c *GeneratorContext) randomUUID() string {
	var u uuid.UUID
	io.ReadFull(seededReader{c}, u[:])
	u[6] = (u[6] & 0x0f) | 0x40 // version 4
	u[8] = (u[8] & 0x3f) | 0x80 // RFC 4122 variant
	return u.String()
}

func (c *GeneratorContext) randomObjectIDHex() string {
	var b [12]byte
	io.ReadFull(seededReader{c}, b[:])
	return hex.EncodeToString(b[:])
}

func (c *GeneratorContext) randomULID() string {
	// A ULID timestamp is a 48-bit count of milliseconds; keep the draw
	// inside that range so ulid.New accepts it.
	ms := c.Uint64() % (1 << 48)
	id, err := ulid.New(ms, seededReader{c})
	if err != nil {
		// ulid.New only errors on a broken entropy source; seededReader
		// never errors, so this path is unreachable in practice.
		return c.randomUUID()
	}
	return id.String()
}

func (c *GeneratorContext) randomPrefixedID(seq int) string {
	prefixes := []string{"user", "doc", "item", "order"}
	prefix := prefixes[seq%len(prefixes)]
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteByte('_')
	for i := 0; i < 16; i++ {
		sb.WriteByte(prefixedIDAlphabet[int(c.Uint64()%uint64(len(prefixedIDAlphabet)))])
	}
	return sb.String()
}

// customKey generates a value for an unrecognized custom key pattern.
// Arbitrary regexes are not generally invertible, so rather than attempt
// a regex-to-string generator the fallback produces a UUID-shaped token
// prefixed with the sequence number; this keeps keys unique and
// deterministic without pretending to honor a pattern that cannot be
// synthesized from in general.
func (c *GeneratorContext) customKey(pattern string, seq int) string {
	return fmt.Sprintf("custom-%d-%s", seq, c.randomUUID())
}
