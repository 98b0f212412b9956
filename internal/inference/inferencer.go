package inference

import (
	"sort"

	"github.com/redbco/docsynth/internal/frequency"
	"github.com/redbco/docsynth/internal/keypattern"
	"github.com/redbco/docsynth/internal/sampledoc"
	"github.com/redbco/docsynth/internal/semtype"
	"github.com/redbco/docsynth/internal/value"
)

// maxSemanticTypeSamples caps how many string values are retained per
// field path for semantic-type classification.
const maxSemanticTypeSamples = 200

// Config tunes the Inferencer.
type Config struct {
	KeyPattern keypattern.Config

	// ForceStaticPaths and ForceDynamicPaths are glob patterns ('*', '?',
	// literal '.') evaluated before dynamic-key detection: forced-static
	// paths never receive dynamic analysis, forced-dynamic paths bypass
	// the threshold/regex check but still undergo value-type analysis.
	ForceStaticPaths  []string
	ForceDynamicPaths []string

	// MaxValueAnalysisDepth bounds recursive dynamic-map detection inside
	// a dynamic map's own values (§4.C: "recurse to a depth bound (≥5)").
	MaxValueAnalysisDepth int

	// StringEnumMaxLen is the length under which a dynamic map's string
	// values are carried as an enum of every observed value (§4.C:
	// "<100").
	StringEnumMaxLen int

	// MaxPooledValuesPerPath caps how many child values are retained per
	// object path for dynamic-value-schema analysis, bounding memory on
	// very large or very skewed samples.
	MaxPooledValuesPerPath int
}

// DefaultConfig returns Inferencer defaults.
func DefaultConfig() Config {
	return Config{
		KeyPattern:             keypattern.DefaultConfig(),
		MaxValueAnalysisDepth:  5,
		StringEnumMaxLen:       100,
		MaxPooledValuesPerPath: 5000,
	}
}

type fieldAccumulator struct {
	count             int
	typeCounts        map[string]int
	lengthDist        frequency.Distribution
	objectOccurrences int
	observedKeys      map[string]bool
	keyOrder          []string
	keyCountDist      frequency.Distribution
	pooledChildValues []value.Value
	stringSamples     []string
}

func newFieldAccumulator() *fieldAccumulator {
	return &fieldAccumulator{
		typeCounts:   make(map[string]int),
		lengthDist:   frequency.New(),
		observedKeys: make(map[string]bool),
		keyCountDist: frequency.New(),
	}
}

// Inferencer accumulates per-path statistics across normalized documents
// and compiles them into an InferredSchemaField tree plus dynamic-key
// analyses (§4.C).
type Inferencer struct {
	cfg          Config
	docsAnalyzed int
	acc          map[string]*fieldAccumulator
	pathOrder    []string
}

// New creates an Inferencer.
func New(cfg Config) *Inferencer {
	return &Inferencer{
		cfg: cfg,
		acc: make(map[string]*fieldAccumulator),
	}
}

func (inf *Inferencer) accFor(path string) *fieldAccumulator {
	a, ok := inf.acc[path]
	if !ok {
		a = newFieldAccumulator()
		inf.acc[path] = a
		inf.pathOrder = append(inf.pathOrder, path)
	}
	return a
}

// AddDocument folds one normalized document into the accumulated
// statistics.
func (inf *Inferencer) AddDocument(doc sampledoc.NormalizedDocument) {
	inf.docsAnalyzed++

	seenAtDepth0 := make(map[string]bool)
	value.Walk(doc.Value, func(path string, v value.Value, depth int) bool {
		if path == "" {
			return true
		}
		a := inf.accFor(path)
		if !seenAtDepth0[path] {
			a.count++
			seenAtDepth0[path] = true
		}
		a.typeCounts[v.Kind.String()]++

		if v.Kind == value.String && len(a.stringSamples) < maxSemanticTypeSamples {
			a.stringSamples = append(a.stringSamples, v.Str)
		}

		switch v.Kind {
		case value.Array:
			a.lengthDist.AddIntSample(len(v.Arr))
		case value.Object:
			a.objectOccurrences++
			a.keyCountDist.AddIntSample(len(v.ObjKeys))
			for _, k := range v.ObjKeys {
				if !a.observedKeys[k] {
					a.observedKeys[k] = true
					a.keyOrder = append(a.keyOrder, k)
				}
				if len(a.pooledChildValues) < inf.cfg.MaxPooledValuesPerPath {
					a.pooledChildValues = append(a.pooledChildValues, v.Obj[k])
				}
			}
		}
		return true
	})
}

// Build compiles the accumulated statistics into a root InferredSchemaField
// representing the document itself.
func (inf *Inferencer) Build() *InferredSchemaField {
	root := &InferredSchemaField{
		Name:        "",
		Path:        "",
		Count:       inf.docsAnalyzed,
		Probability: 1.0,
		Fields:      make(map[string]*InferredSchemaField),
	}
	rootAcc, ok := inf.acc[""]
	if !ok {
		rootAcc = newFieldAccumulator()
	}
	inf.buildChildren(root, "", rootAcc, inf.docsAnalyzed, 0)
	return root
}

// buildChildren populates parent.Fields from the direct children recorded
// for parentPath, and decides, per child, whether it should be rendered as
// a dynamic-key map instead of named fields.
func (inf *Inferencer) buildChildren(parent *InferredSchemaField, parentPath string, parentAcc *fieldAccumulator, parentCount int, depth int) {
	if depth > 100 {
		return
	}
	for _, key := range parentAcc.keyOrder {
		childPath := value.JoinPath(parentPath, key)
		childAcc := inf.acc[childPath]
		if childAcc == nil {
			continue
		}
		field := inf.buildField(key, childPath, childAcc, parentCount, depth+1)
		parent.Fields[key] = field
		parent.FieldOrder = append(parent.FieldOrder, key)
	}
}

func (inf *Inferencer) buildField(name, path string, acc *fieldAccumulator, parentCount int, depth int) *InferredSchemaField {
	field := &InferredSchemaField{
		Name:        name,
		Path:        path,
		Count:       acc.count,
		Types:       sortedTypesByFrequency(acc.typeCounts),
		Probability: probabilityOf(acc.count, parentCount),
	}

	if len(acc.lengthDist) > 0 {
		d := acc.lengthDist
		field.LengthDistribution = &d
	}

	if len(field.Types) > 0 && field.Types[0] == value.String.String() {
		field.SemanticType = semtype.Classify(acc.stringSamples)
	}

	isObjectLike := len(acc.observedKeys) > 0

	if isObjectLike {
		forcedStatic := MatchAny(inf.cfg.ForceStaticPaths, path)
		forcedDynamic := !forcedStatic && MatchAny(inf.cfg.ForceDynamicPaths, path)

		var detectResult keypattern.Result
		shouldTryDynamic := !forcedStatic

		if shouldTryDynamic {
			keys := make([]string, 0, len(acc.observedKeys))
			for k := range acc.observedKeys {
				keys = append(keys, k)
			}
			detectResult = keypattern.Detect(keys, inf.cfg.KeyPattern, inf.docsAnalyzed)
			if forcedDynamic {
				detectResult.Detected = true
			}
		}

		if detectResult.Detected {
			field.Dynamic = &DynamicKeyMetadata{
				Enabled:            true,
				Pattern:            detectResult.Pattern,
				CustomPattern:      detectResult.CustomPattern,
				Confidence:         detectResult.Confidence,
				ConfidenceLevel:    detectResult.ConfidenceLevel,
				CountDistribution:  acc.keyCountDist,
				CountStats:         frequency.StatsOf(acc.keyCountDist),
				DocumentsAnalyzed:  inf.docsAnalyzed,
				UniqueKeysObserved: len(acc.observedKeys),
				ExampleKeys:        detectResult.ExampleKeys,
			}
			field.DynamicValue = inf.buildDynamicValueSchema(acc.pooledChildValues, depth)
			return field
		}

		field.Fields = make(map[string]*InferredSchemaField)
		inf.buildChildren(field, path, acc, acc.count, depth)
	}

	return field
}

func (inf *Inferencer) buildDynamicValueSchema(pooled []value.Value, depth int) *DynamicKeyValueSchema {
	if len(pooled) == 0 {
		return &DynamicKeyValueSchema{Types: []string{"null"}, TypeProbabilities: []float64{1}, IsUniformType: true, DominantType: "null"}
	}

	byType := make(map[string][]value.Value)
	for _, v := range pooled {
		k := v.Kind.String()
		byType[k] = append(byType[k], v)
	}

	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if len(byType[types[i]]) != len(byType[types[j]]) {
			return len(byType[types[i]]) > len(byType[types[j]])
		}
		return types[i] < types[j]
	})

	total := len(pooled)
	probs := make([]float64, len(types))
	schemas := make([]*InferredSchemaField, len(types))
	for i, t := range types {
		vs := byType[t]
		probs[i] = float64(len(vs)) / float64(total)
		schemas[i] = inf.schemaForTypeGroup(t, vs, depth)
	}

	return &DynamicKeyValueSchema{
		Types:             types,
		TypeProbabilities: probs,
		Schemas:           schemas,
		IsUniformType:      len(types) == 1,
		DominantType:       types[0],
	}
}

func (inf *Inferencer) schemaForTypeGroup(t string, vs []value.Value, depth int) *InferredSchemaField {
	field := &InferredSchemaField{
		Types:       []string{t},
		Count:       len(vs),
		Probability: 1.0,
	}

	switch t {
	case value.String.String():
		dist := frequency.New()
		uniform := true
		samples := make([]string, 0, len(vs))
		for _, v := range vs {
			if len(v.Str) >= inf.cfg.StringEnumMaxLen {
				uniform = false
			}
			samples = append(samples, v.Str)
		}
		if uniform {
			for _, v := range vs {
				dist.AddSample(v.Str)
			}
			field.EnumDistribution = &dist
		}
		field.SemanticType = semtype.Classify(samples)

	case value.Array.String():
		lengths := frequency.New()
		var items []value.Value
		for _, v := range vs {
			lengths.AddIntSample(len(v.Arr))
			items = append(items, v.Arr...)
		}
		field.LengthDistribution = &lengths
		if len(items) > 0 && depth < inf.cfg.MaxValueAnalysisDepth {
			nested := inf.buildDynamicValueSchema(items, depth+1)
			field.DynamicValue = nested
		}

	case value.Object.String():
		if depth >= inf.cfg.MaxValueAnalysisDepth {
			break
		}
		keys := make(map[string]bool)
		var keyOrder []string
		var pooled []value.Value
		for _, v := range vs {
			for _, k := range v.ObjKeys {
				if !keys[k] {
					keys[k] = true
					keyOrder = append(keyOrder, k)
				}
				pooled = append(pooled, v.Obj[k])
			}
		}
		keyList := make([]string, 0, len(keys))
		for k := range keys {
			keyList = append(keyList, k)
		}
		detectResult := keypattern.Detect(keyList, inf.cfg.KeyPattern, len(vs))
		if detectResult.Detected {
			countDist := frequency.New()
			for _, v := range vs {
				countDist.AddIntSample(len(v.ObjKeys))
			}
			field.Dynamic = &DynamicKeyMetadata{
				Enabled:            true,
				Pattern:            detectResult.Pattern,
				CustomPattern:      detectResult.CustomPattern,
				Confidence:         detectResult.Confidence,
				ConfidenceLevel:    detectResult.ConfidenceLevel,
				CountDistribution:  countDist,
				CountStats:         frequency.StatsOf(countDist),
				DocumentsAnalyzed:  len(vs),
				UniqueKeysObserved: len(keys),
				ExampleKeys:        detectResult.ExampleKeys,
			}
			field.DynamicValue = inf.buildDynamicValueSchema(pooled, depth+1)
		} else {
			field.Fields = make(map[string]*InferredSchemaField)
			byKey := make(map[string][]value.Value)
			for _, v := range vs {
				for _, k := range v.ObjKeys {
					byKey[k] = append(byKey[k], v.Obj[k])
				}
			}
			for _, k := range keyOrder {
				sub := inf.schemaForTypeGroup(majorityKind(byKey[k]), byKey[k], depth+1)
				sub.Name = k
				sub.Count = len(byKey[k])
				sub.Probability = probabilityOf(len(byKey[k]), len(vs))
				field.Fields[k] = sub
				field.FieldOrder = append(field.FieldOrder, k)
			}
		}
	}

	return field
}

func majorityKind(vs []value.Value) string {
	counts := make(map[string]int)
	for _, v := range vs {
		counts[v.Kind.String()]++
	}
	best, bestCount := "", -1
	for k, c := range counts {
		if c > bestCount {
			best, bestCount = k, c
		}
	}
	return best
}

func sortedTypesByFrequency(counts map[string]int) []string {
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if counts[types[i]] != counts[types[j]] {
			return counts[types[i]] > counts[types[j]]
		}
		return types[i] < types[j]
	})
	return types
}

func probabilityOf(count, parentCount int) float64 {
	if parentCount <= 0 {
		return 0
	}
	return float64(count) / float64(parentCount)
}
