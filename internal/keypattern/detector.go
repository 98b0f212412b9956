package keypattern

import (
	"math"
	"regexp"
	"sort"

	"github.com/redbco/docsynth/internal/errs"
)

// Config tunes detection thresholds. Zero-value Config is invalid; use
// DefaultConfig.
type Config struct {
	// Threshold is the key-count trigger: a field with at least this many
	// distinct keys is a dynamic-key candidate regardless of pattern
	// match. Default 50.
	Threshold int
	// MinPatternMatch is the match-ratio trigger for a built-in or custom
	// pattern. Default 0.8.
	MinPatternMatch float64
	// ConfidenceThreshold is the minimum computed confidence required for
	// detection to succeed. Default 0.7.
	ConfidenceThreshold float64
	// CustomPattern, if non-empty, is compiled and evaluated alongside the
	// built-ins as a detection candidate.
	CustomPattern string

	compiledCustom *regexp.Regexp
}

// DefaultConfig returns the detector defaults named in §4.B.
func DefaultConfig() Config {
	return Config{
		Threshold:           50,
		MinPatternMatch:     0.8,
		ConfidenceThreshold: 0.7,
	}
}

// Compile validates and compiles CustomPattern if set. Pattern compilation
// failures are fatal at startup per §7, so callers should invoke Compile
// once during configuration loading and propagate its error rather than
// calling Detect with an uncompiled custom pattern repeatedly.
func (c *Config) Compile() error {
	if c.CustomPattern == "" {
		return nil
	}
	re, err := regexp.Compile(c.CustomPattern)
	if err != nil {
		return errs.Wrap(errs.Config, "configure", "invalid custom key pattern", err)
	}
	c.compiledCustom = re
	return nil
}

// ConfidenceLevel buckets a numeric confidence into the tiers from §4.B.
type ConfidenceLevel string

const (
	LevelHigh   ConfidenceLevel = "high"
	LevelMedium ConfidenceLevel = "medium"
	LevelLow    ConfidenceLevel = "low"
)

func confidenceLevel(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= 0.8:
		return LevelHigh
	case confidence >= 0.6:
		return LevelMedium
	default:
		return LevelLow
	}
}

const maxExampleKeys = 10

// Result is the detector's output for one field's observed key set.
type Result struct {
	Detected        bool
	Pattern         Pattern // zero value "" when no pattern was recognized
	CustomPattern   string
	Confidence      float64
	ConfidenceLevel ConfidenceLevel
	TotalKeys       int
	MatchCount      int
	MatchRatio      float64
	ExampleKeys     []string
}

type candidateMatch struct {
	pattern    Pattern
	custom     string
	matchCount int
	matchRatio float64
}

// Detect evaluates keys (the distinct object keys observed at one field
// path) against cfg's built-in and optional custom patterns, and decides
// whether the field should be treated as a dynamic-key map.
//
// documentsAnalyzed is the number of documents the field path was observed
// in; it feeds the custom-pattern guard and the only-count-triggered
// confidence penalty. Pass 0 if unknown — the guard and penalty are then
// skipped, matching "documentsAnalyzed?" being optional in §4.B.
func Detect(keys []string, cfg Config, documentsAnalyzed int) Result {
	totalKeys := len(keys)
	if totalKeys == 0 {
		return Result{}
	}

	best := bestCandidate(keys, cfg)

	countTriggered := totalKeys >= cfg.Threshold
	patternTriggered := best != nil && best.matchRatio >= cfg.MinPatternMatch
	shouldDetect := countTriggered || patternTriggered

	// Custom-pattern guard (§4.B): if nothing recognizable matched and we
	// have enough documents to judge, require a stronger count signal
	// before accepting a pure-count-triggered CUSTOM detection.
	if best == nil && documentsAnalyzed > 50 {
		strongCount := totalKeys > 500 ||
			(totalKeys >= 100 && float64(totalKeys)/float64(documentsAnalyzed) > 0.05)
		if !strongCount {
			shouldDetect = false
		}
	}

	confidence := computeConfidence(best, cfg, totalKeys, documentsAnalyzed, countTriggered, patternTriggered)

	detected := shouldDetect && confidence >= cfg.ConfidenceThreshold

	res := Result{
		Detected:        detected,
		Confidence:      confidence,
		ConfidenceLevel: confidenceLevel(confidence),
		TotalKeys:       totalKeys,
		ExampleKeys:     exampleKeys(keys),
	}
	if best != nil {
		res.Pattern = best.pattern
		res.CustomPattern = best.custom
		res.MatchCount = best.matchCount
		res.MatchRatio = best.matchRatio
	} else if cfg.compiledCustom != nil {
		res.CustomPattern = cfg.CustomPattern
	}
	return res
}

func bestCandidate(keys []string, cfg Config) *candidateMatch {
	var best *candidateMatch

	consider := func(c candidateMatch) {
		if c.matchCount == 0 {
			return
		}
		if best == nil || c.matchRatio > best.matchRatio {
			cc := c
			best = &cc
		}
	}

	for _, b := range builtins {
		count := 0
		for _, k := range keys {
			if b.Regexp.MatchString(k) {
				count++
			}
		}
		consider(candidateMatch{
			pattern:    b.Pattern,
			matchCount: count,
			matchRatio: float64(count) / float64(len(keys)),
		})
	}

	if cfg.compiledCustom != nil {
		count := 0
		for _, k := range keys {
			if cfg.compiledCustom.MatchString(k) {
				count++
			}
		}
		consider(candidateMatch{
			pattern:    Custom,
			custom:     cfg.CustomPattern,
			matchCount: count,
			matchRatio: float64(count) / float64(len(keys)),
		})
	}

	return best
}

func computeConfidence(best *candidateMatch, cfg Config, totalKeys, documentsAnalyzed int, countTriggered, patternTriggered bool) float64 {
	switch {
	case countTriggered && patternTriggered:
		bonus := 0.0
		if totalKeys > 2*cfg.Threshold {
			bonus = math.Min(0.1, 0.05*math.Log10(float64(totalKeys)/float64(2*cfg.Threshold)))
		}
		return math.Min(1.0, best.matchRatio+bonus)

	case patternTriggered:
		return math.Min(1.0, best.matchRatio+0.05)

	case countTriggered:
		conf := math.Min(0.9, cfg.ConfidenceThreshold+0.2*math.Log10(float64(totalKeys)/float64(cfg.Threshold)))
		if best == nil && documentsAnalyzed > 0 {
			uniquenessRatio := float64(totalKeys) / float64(documentsAnalyzed)
			if uniquenessRatio < 0.1 {
				conf -= 0.1
			}
		}
		if conf < 0 {
			conf = 0
		}
		return conf

	default:
		return 0
	}
}

func exampleKeys(keys []string) []string {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)
	if len(sorted) > maxExampleKeys {
		sorted = sorted[:maxExampleKeys]
	}
	return sorted
}
