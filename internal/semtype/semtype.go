// Package semtype classifies a sample of string field values into one of
// the semantic types named in §4.E ("map observed semantic type (Email,
// URL, UUID, Phone, PersonName, IPv4, IPv6) to a format"), which the
// distilled spec names but does not define regexes for. Adapted from
// internal/keypattern's regex-plus-match-ratio approach (§4.B), applied to
// string leaf values instead of object keys.
package semtype

import (
	"net"
	"regexp"
	"strings"
)

// Type is a recognized semantic type, or None if nothing matched strongly
// enough.
type Type string

const (
	None       Type = ""
	Email      Type = "Email"
	URL        Type = "URL"
	UUID       Type = "UUID"
	Phone      Type = "Phone"
	PersonName Type = "PersonName"
	IPv4       Type = "IPv4"
	IPv6       Type = "IPv6"
)

// Format returns the JSON-Schema `format` value for t, or "" for None.
func (t Type) Format() string {
	switch t {
	case Email:
		return "email"
	case URL:
		return "uri"
	case UUID:
		return "uuid"
	case Phone:
		return "phone"
	case PersonName:
		return "person-name"
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	default:
		return ""
	}
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)
	urlRe   = regexp.MustCompile(`(?i)^(https?|ftp)://[^\s]+$`)
	uuidRe  = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9][0-9().\-\s]{6,19}$`)
	ipv4Re  = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)
	// PersonName: two or three capitalized alphabetic words, no digits.
	personNameRe = regexp.MustCompile(`^[A-Z][a-z]+(?:[-'][A-Z][a-z]+)?(?: [A-Z][a-z]+(?:[-'][A-Z][a-z]+)?){1,2}$`)
)

func classifyOne(s string) Type {
	switch {
	case emailRe.MatchString(s):
		return Email
	case urlRe.MatchString(s):
		return URL
	case uuidRe.MatchString(s):
		return UUID
	case ipv4Re.MatchString(s) && isValidIPv4(s):
		return IPv4
	case strings.Contains(s, ":") && net.ParseIP(s) != nil:
		return IPv6
	case phoneRe.MatchString(s) && digitCount(s) >= 7:
		return Phone
	case personNameRe.MatchString(s):
		return PersonName
	default:
		return None
	}
}

func isValidIPv4(s string) bool {
	return net.ParseIP(s) != nil && strings.Count(s, ".") == 3
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// MinMatchRatio is the fraction of non-empty samples that must classify as
// the same type for Classify to report it, matching keypattern's
// match-ratio-trigger idiom.
const MinMatchRatio = 0.8

// Classify returns the dominant semantic type across samples, or None if
// no single type reaches MinMatchRatio.
func Classify(samples []string) Type {
	if len(samples) == 0 {
		return None
	}
	counts := make(map[Type]int)
	considered := 0
	for _, s := range samples {
		if s == "" {
			continue
		}
		considered++
		counts[classifyOne(s)]++
	}
	if considered == 0 {
		return None
	}

	var best Type
	bestCount := 0
	for t, c := range counts {
		if t == None {
			continue
		}
		if c > bestCount {
			best, bestCount = t, c
		}
	}
	if bestCount == 0 {
		return None
	}
	if float64(bestCount)/float64(considered) < MinMatchRatio {
		return None
	}
	return best
}
