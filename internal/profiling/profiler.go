package profiling

import (
	"strings"

	"github.com/redbco/docsynth/internal/sampledoc"
	"github.com/redbco/docsynth/internal/value"
)

// Config tunes the Profiler.
type Config struct {
	SizeProxy           SizeProxy
	ExplicitSizeBuckets []BucketRange
	AutoBucketCount     int
}

// DefaultConfig returns Profiler defaults.
func DefaultConfig() Config {
	return Config{SizeProxy: SizeProxyLeafFieldCount, AutoBucketCount: 10}
}

// Profile is the Profiler's output: the three accumulators' finalized
// statistics, with array stats under a dynamic-key path stripped.
type Profile struct {
	ArrayStats        map[string]ArrayLengthStats
	NumericRanges     map[string]NumericRangeStats
	SizeBuckets       []DocumentSizeBucket
	DocumentsAnalyzed int
}

// Profiler runs the three independent accumulators from §4.D over a
// stream of normalized documents.
type Profiler struct {
	cfg Config

	arrayAcc   map[string]*arrayAccumulator
	arrayOrder []string

	numericAcc   map[string]*numericAccumulator
	numericOrder []string

	sizeAcc *sizeBucketAccumulator

	docsAnalyzed int
}

// New creates a Profiler.
func New(cfg Config) *Profiler {
	return &Profiler{
		cfg:        cfg,
		arrayAcc:   make(map[string]*arrayAccumulator),
		numericAcc: make(map[string]*numericAccumulator),
		sizeAcc:    newSizeBucketAccumulator(cfg.SizeProxy, cfg.ExplicitSizeBuckets, cfg.AutoBucketCount),
	}
}

func (p *Profiler) arrayAccFor(path string) *arrayAccumulator {
	a, ok := p.arrayAcc[path]
	if !ok {
		a = newArrayAccumulator()
		p.arrayAcc[path] = a
		p.arrayOrder = append(p.arrayOrder, path)
	}
	return a
}

func (p *Profiler) numericAccFor(path string) *numericAccumulator {
	n, ok := p.numericAcc[path]
	if !ok {
		n = newNumericAccumulator()
		p.numericAcc[path] = n
		p.numericOrder = append(p.numericOrder, path)
	}
	return n
}

// AddDocument folds one normalized document into the accumulators. A
// missing or null value is silently skipped, per §4.D's failure mode.
func (p *Profiler) AddDocument(doc sampledoc.NormalizedDocument) {
	p.docsAnalyzed++

	var leafCount, arrayLenSum, byteSize int64
	value.Walk(doc.Value, func(path string, v value.Value, depth int) bool {
		if path == "" {
			return true
		}
		switch v.Kind {
		case value.Null:
			// silently skipped
		case value.Array:
			p.arrayAccFor(path).add(len(v.Arr))
			arrayLenSum += int64(len(v.Arr))
		case value.Object:
			// not a leaf; its descendants are visited separately
		case value.Int:
			p.numericAccFor(path).add(float64(v.Int), true)
			leafCount++
			byteSize += 8
		case value.Float:
			p.numericAccFor(path).add(v.Float, false)
			leafCount++
			byteSize += 8
		case value.String:
			leafCount++
			byteSize += int64(len(v.Str))
		case value.Bool:
			leafCount++
			byteSize++
		case value.ObjectID:
			leafCount++
			byteSize += 12
		case value.DateTime:
			leafCount++
			byteSize += 8
		case value.Decimal128:
			leafCount++
			byteSize += 16
		case value.Binary:
			leafCount++
			byteSize += int64(len(v.Bin))
		}
		return true
	})

	var proxy int64
	switch p.cfg.SizeProxy {
	case SizeProxyArrayLengthSum:
		proxy = arrayLenSum
	case SizeProxyByteSize:
		proxy = byteSize
	default:
		proxy = leafCount
	}
	p.sizeAcc.add(proxy)
}

// Finalize compiles the accumulated statistics into a Profile.
// dynamicKeyPaths lists the field paths the Inferencer classified as
// dynamic-key maps; array stats nested under any of them are dropped
// (§4.D: "such paths are not statically reachable in the emitted
// schema").
func (p *Profiler) Finalize(dynamicKeyPaths []string) Profile {
	arrayStats := make(map[string]ArrayLengthStats)
	for _, path := range p.arrayOrder {
		if isNestedUnderAny(path, dynamicKeyPaths) {
			continue
		}
		arrayStats[path] = p.arrayAcc[path].finalize(path)
	}

	numericRanges := make(map[string]NumericRangeStats)
	for _, path := range p.numericOrder {
		numericRanges[path] = p.numericAcc[path].finalize(path)
	}

	return Profile{
		ArrayStats:        arrayStats,
		NumericRanges:     numericRanges,
		SizeBuckets:       p.sizeAcc.finalize(),
		DocumentsAnalyzed: p.docsAnalyzed,
	}
}

func isNestedUnderAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p+".") {
			return true
		}
	}
	return false
}
