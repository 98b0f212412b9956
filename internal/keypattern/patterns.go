// Package keypattern implements the key-pattern detector from §4.B:
// regex-based recognition of identifier-shaped object keys (UUID,
// MongoDB ObjectId, ULID, numeric, prefixed, custom) with a confidence
// score, adapted from the teacher's column/table classification
// (services/unifiedmodel/internal/classifier, internal/detection) to
// object-key pattern recognition.
package keypattern

import "regexp"

// Pattern identifies a built-in key-shape.
type Pattern string

const (
	UUID           Pattern = "UUID"
	MongoObjectID  Pattern = "MONGODB_OBJECTID"
	ULID           Pattern = "ULID"
	NumericID      Pattern = "NUMERIC_ID"
	PrefixedID     Pattern = "PREFIXED_ID"
	Custom         Pattern = "CUSTOM"
)

// builtins lists the built-in patterns in a fixed evaluation order. Order
// matters only for reporting: the detector evaluates all of them and picks
// the one with the highest match ratio, breaking ties by this order.
var builtins = []struct {
	Pattern Pattern
	Regexp  *regexp.Regexp
}{
	{UUID, regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)},
	{MongoObjectID, regexp.MustCompile(`(?i)^[0-9a-f]{24}$`)},
	{ULID, regexp.MustCompile(`^[0-7][0-9A-HJKMNP-TV-Z]{25}$`)},
	{NumericID, regexp.MustCompile(`^\d{6,20}$`)},
	{PrefixedID, regexp.MustCompile(`(?i)^(user|doc|item|order)_[A-Za-z0-9]{8,32}$`)},
}

// Match reports whether key matches the named built-in pattern.
func Match(p Pattern, key string) bool {
	for _, b := range builtins {
		if b.Pattern == p {
			return b.Regexp.MatchString(key)
		}
	}
	return false
}
