package generation

import (
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/redbco/docsynth/internal/frequency"
	"github.com/redbco/docsynth/internal/synthesis"
	"github.com/redbco/docsynth/internal/value"
)

const maxDynamicDepth = 32

// Generate synthesizes one document from schema, per §4.F: dynamic-key
// preprocessing, array-length preprocessing, then primitive synthesis,
// all driven by one GeneratorContext so the whole pipeline is
// deterministic for a fixed seed and call sequence.
func Generate(c *GeneratorContext, schema *synthesis.Schema) value.Value {
	return c.synthesize(schema, "", 0)
}

func (c *GeneratorContext) synthesize(s *synthesis.Schema, path string, depth int) value.Value {
	if s == nil {
		return value.NewNull()
	}

	if c.opts.UseDynamicKeys && s.XDynamicKeys != nil && s.XDynamicKeys.Enabled && depth < maxDynamicDepth {
		return c.synthesizeDynamicKeys(s, path, depth)
	}

	switch s.Type {
	case synthesis.TypeObject:
		return c.synthesizeObject(s, path, depth)
	case synthesis.TypeArray:
		return c.synthesizeArray(s, path, depth)
	default:
		return c.synthesizeLeaf(s, path)
	}
}

// synthesizeDynamicKeys is §4.F item 1: sample a key count from the
// metadata's count distribution, generate that many unique keys, and
// install the value schema under each — recursing if the value schema is
// itself a dynamic-key object. The x-dynamic-keys annotation does not
// survive into the generated document; only generated values do.
func (c *GeneratorContext) synthesizeDynamicKeys(s *synthesis.Schema, path string, depth int) value.Value {
	meta := s.XDynamicKeys.Metadata

	n := 1
	if c.opts.UseFrequencyDistributions && meta.CountDistribution != nil {
		if sampled, ok := frequency.SampleInt(meta.CountDistribution, c.Float64()); ok {
			n = sampled
		}
	} else {
		n = int(meta.CountStats.Median)
		if n <= 0 {
			n = 1
		}
	}

	keys := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for len(keys) < n {
		seq := c.NextSeq(path)
		k := c.GenerateKey(meta.Pattern, meta.CustomPattern, seq)
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}

	obj := make(map[string]value.Value, len(keys))
	for _, k := range keys {
		childPath := value.JoinPath(path, k)
		obj[k] = c.synthesize(s.XDynamicKeys.ValueSchema, childPath, depth+1)
	}
	return value.NewObject(obj)
}

func (c *GeneratorContext) synthesizeObject(s *synthesis.Schema, path string, depth int) value.Value {
	obj := make(map[string]value.Value, len(s.Properties))
	order := s.PropertyOrder
	if len(order) == 0 {
		for name := range s.Properties {
			order = append(order, name)
		}
		sort.Strings(order)
	}
	for _, name := range order {
		child, ok := s.Properties[name]
		if !ok {
			continue
		}
		childPath := value.JoinPath(path, name)
		obj[name] = c.synthesize(child, childPath, depth+1)
	}
	return value.NewObject(obj)
}

// synthesizeArray is §4.F item 2: draw a length from the array's
// x-array-length-distribution (falling back to the schema's own
// minItems/maxItems if frequency sampling is disabled or the
// distribution is absent), forcing minItems=maxItems=n for this instance,
// then recurse the item schema n times.
func (c *GeneratorContext) synthesizeArray(s *synthesis.Schema, path string, depth int) value.Value {
	n := c.arrayLength(s)
	items := make([]value.Value, n)
	for i := 0; i < n; i++ {
		items[i] = c.synthesize(s.Items, path, depth+1)
	}
	return value.NewArray(items)
}

func (c *GeneratorContext) arrayLength(s *synthesis.Schema) int {
	if c.opts.UseFrequencyDistributions && s.XArrayLengthDistribution != nil {
		if n, ok := frequency.SampleInt(s.XArrayLengthDistribution, c.Float64()); ok {
			return n
		}
	}
	min, max := 0, 0
	if s.MinItems != nil {
		min = *s.MinItems
	}
	if s.MaxItems != nil {
		max = *s.MaxItems
	}
	if max < min {
		max = min
	}
	if max == min {
		return min
	}
	return min + c.IntN(max-min+1)
}

// synthesizeLeaf is §4.F item 3 for non-object/array schema nodes:
// format-driven string generation, numeric ranges, booleans, and null.
func (c *GeneratorContext) synthesizeLeaf(s *synthesis.Schema, path string) value.Value {
	if path == "_id" && s.Type == synthesis.TypeString && s.Format == "" {
		// §4.F item 4: `_id` with no format defaults to objectid, mirroring
		// the same fallback the Synthesizer applies at schema-build time.
		return value.NewObjectID(c.randomObjectIDHex())
	}

	switch s.Type {
	case synthesis.TypeString:
		return c.synthesizeString(s)
	case synthesis.TypeInteger:
		return value.NewInt(int64(c.synthesizeNumericRange(s)))
	case synthesis.TypeNumber:
		return value.NewFloat(c.synthesizeNumericRange(s))
	case synthesis.TypeBoolean:
		return value.NewBool(c.Float64() < 0.5)
	case synthesis.TypeNull:
		return value.NewNull()
	default:
		return value.NewNull()
	}
}

func (c *GeneratorContext) synthesizeNumericRange(s *synthesis.Schema) float64 {
	min, max := 0.0, 100.0
	allInteger := s.Type == synthesis.TypeInteger
	if s.XGen != nil && s.XGen.NumericRange != nil {
		nr := s.XGen.NumericRange
		min, max = nr.Min, nr.Max
		allInteger = nr.AllInteger
	}
	if max < min {
		max = min
	}
	v := min + c.Float64()*(max-min)
	if allInteger {
		v = float64(int64(v + 0.5*sign(max-min)))
	}
	return v
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

func (c *GeneratorContext) synthesizeString(s *synthesis.Schema) value.Value {
	switch s.Format {
	case "objectid":
		return value.NewObjectID(c.randomObjectIDHex())
	case "uuid":
		return value.NewString(c.randomUUID())
	case "date-time":
		return value.NewDateTime(c.randomDateTime())
	case "decimal":
		return value.NewDecimal128(c.randomDecimalString())
	case "base64":
		return value.NewBinary(c.randomBytes(16))
	case "email":
		return value.NewString(fmt.Sprintf("user%d@example.com", c.IntN(1_000_000)))
	case "uri":
		return value.NewString(fmt.Sprintf("https://example.com/resource/%d", c.IntN(1_000_000)))
	case "ipv4":
		return value.NewString(fmt.Sprintf("%d.%d.%d.%d", c.IntN(256), c.IntN(256), c.IntN(256), c.IntN(256)))
	case "ipv6":
		return value.NewString(fmt.Sprintf("2001:db8::%x:%x", c.IntN(65536), c.IntN(65536)))
	case "phone":
		return value.NewString(fmt.Sprintf("+1-555-%03d-%04d", c.IntN(1000), c.IntN(10000)))
	case "person-name":
		return value.NewString(c.randomWord() + " " + c.randomWord())
	default:
		if len(s.Enum) > 0 {
			return value.NewString(s.Enum[c.IntN(len(s.Enum))])
		}
		return value.NewString(c.randomWord())
	}
}

// randomDateTime draws a time within the last ~10 years of a fixed epoch,
// rather than time.Now(), so output stays reproducible under a fixed
// seed regardless of wall-clock time.
func (c *GeneratorContext) randomDateTime() time.Time {
	const epoch = int64(1700000000) // fixed reference instant
	offset := int64(c.Uint64() % (10 * 365 * 24 * 3600))
	return time.Unix(epoch-offset, 0).UTC()
}

func (c *GeneratorContext) randomDecimalString() string {
	whole := c.IntN(1_000_000)
	frac := c.IntN(100)
	bf := new(big.Float).SetInt64(int64(whole))
	bf.Add(bf, new(big.Float).Quo(new(big.Float).SetInt64(int64(frac)), big.NewFloat(100)))
	return bf.Text('f', 2)
}

func (c *GeneratorContext) randomBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(c.Uint64())
	}
	return b
}

var wordBank = []string{
	"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf",
	"hotel", "india", "juliet", "kilo", "lima", "mike", "november",
	"oscar", "papa", "quebec", "romeo", "sierra", "tango",
}

func (c *GeneratorContext) randomWord() string {
	return wordBank[c.IntN(len(wordBank))]
}
