// Command docsynth is a thin wiring entrypoint over the library
// packages in internal/: it is not a full CLI (no config-file parsing,
// no cobra/pflag command tree — those are explicit non-goals), just
// enough argument handling to drive the pipeline end to end for manual
// and scripted runs.
//
// Usage:
//
//	docsynth infer    -in sample.ndjson -out schema.json
//	docsynth generate -schema schema.json -out out.ndjson -seed 42 -count 100
//	docsynth validate -schema schema.json -sample sample.ndjson -in generated.ndjson
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/redbco/docsynth/internal/constraints"
	"github.com/redbco/docsynth/internal/errs"
	"github.com/redbco/docsynth/internal/generation"
	"github.com/redbco/docsynth/internal/inference"
	"github.com/redbco/docsynth/internal/manifest"
	"github.com/redbco/docsynth/internal/ndjson"
	"github.com/redbco/docsynth/internal/profiling"
	"github.com/redbco/docsynth/internal/sampledoc"
	"github.com/redbco/docsynth/internal/synthesis"
	"github.com/redbco/docsynth/internal/syslog"
	"github.com/redbco/docsynth/internal/validation"
	"github.com/redbco/docsynth/internal/value"
)

var logger = syslog.New(os.Stderr, syslog.INFO)

func main() {
	if len(os.Args) < 2 {
		fail(errs.New(errs.General, "main", "usage: docsynth <infer|generate|validate> [flags]"))
	}

	var err error
	switch os.Args[1] {
	case "infer":
		err = runInfer(os.Args[2:])
	case "generate":
		err = runGenerate(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	default:
		err = errs.New(errs.General, "main", fmt.Sprintf("unknown command %q", os.Args[1]))
	}
	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	kind := errs.General
	if e, ok := err.(*errs.Error); ok {
		kind = e.Kind
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(kind.ExitCode())
}

// runInfer reads NDJSON sample documents, infers a schema and a
// constraints profile, and writes the resulting generation schema as
// JSON.
func runInfer(args []string) error {
	fs := flag.NewFlagSet("infer", flag.ExitOnError)
	in := fs.String("in", "", "NDJSON sample file")
	out := fs.String("out", "", "output generation-schema JSON file")
	fs.Parse(args)

	if *in == "" || *out == "" {
		return errs.New(errs.Config, "infer", "both -in and -out are required")
	}

	docs, err := readNDJSONFile(*in)
	if err != nil {
		return err
	}

	schema, _, err := buildSchema(docs)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return errs.Wrap(errs.FileIO, "infer", "failed to create schema output", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(schema); err != nil {
		return errs.Wrap(errs.FileIO, "infer", "failed to write schema", err)
	}

	logger.Info("infer", fmt.Sprintf("wrote schema from %d sample documents", len(docs)))
	return writeManifest("infer", map[string]interface{}{"in": *in, "out": *out}, []string{*out}, nil)
}

// runGenerate loads a previously-inferred schema, synthesizes count
// documents from a seeded GeneratorContext, and writes them as NDJSON.
func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "generation-schema JSON file")
	out := fs.String("out", "", "output NDJSON file")
	seed := fs.Uint64("seed", 1, "PRNG seed")
	count := fs.Int("count", 10, "number of documents to generate")
	fs.Parse(args)

	if *schemaPath == "" || *out == "" {
		return errs.New(errs.Config, "generate", "both -schema and -out are required")
	}

	schema, err := readSchemaFile(*schemaPath)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return errs.Wrap(errs.FileIO, "generate", "failed to create output file", err)
	}
	defer f.Close()

	w := ndjson.NewWriter(f)
	ctx := generation.NewContext(generation.DefaultOptions(*seed))
	for i := 0; i < *count; i++ {
		doc := generation.Generate(ctx, schema)
		if err := w.WriteDocument(valueToMap(doc)); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	logger.Info("generate", fmt.Sprintf("generated %d documents", *count))
	return writeManifest("generate", map[string]interface{}{
		"schema": *schemaPath, "out": *out, "seed": *seed, "count": *count,
	}, []string{*out}, nil)
}

// runValidate loads a schema and a sample corpus (to derive the
// comparison profile), then validates a generated NDJSON stream against
// both, printing a JSON validation report.
func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "generation-schema JSON file")
	sampleIn := fs.String("sample", "", "NDJSON sample file used to build the comparison profile")
	in := fs.String("in", "", "NDJSON generated stream to validate")
	fs.Parse(args)

	if *schemaPath == "" || *sampleIn == "" || *in == "" {
		return errs.New(errs.Config, "validate", "-schema, -sample, and -in are all required")
	}

	schema, err := readSchemaFile(*schemaPath)
	if err != nil {
		return err
	}

	sampleDocs, err := readNDJSONFile(*sampleIn)
	if err != nil {
		return err
	}
	_, profile, err := buildSchema(sampleDocs)
	if err != nil {
		return err
	}

	docs, err := readNDJSONFile(*in)
	if err != nil {
		return err
	}

	v, err := validation.NewChecked(validation.DefaultConfig(), schema, profile)
	if err != nil {
		return err
	}
	for _, d := range docs {
		v.AddDocument(sampledoc.Normalize(sampledoc.SampleDocument{Raw: d}).Value)
	}
	report := v.Finalize()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errs.Wrap(errs.FileIO, "validate", "failed to write report", err)
	}
	if !report.OverallPassed {
		return errs.New(errs.Validation, "validate", fmt.Sprintf("validation failed at %s", report.FailingPath))
	}
	return nil
}

func readNDJSONFile(path string) ([]map[string]interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.FileIO, "readNDJSON", "failed to open input file", err)
	}
	defer f.Close()
	return ndjson.ReadAll(f)
}

func buildSchema(docs []map[string]interface{}) (*synthesis.Schema, constraints.Profile, error) {
	inf := inference.New(inference.DefaultConfig())
	prof := profiling.New(profiling.DefaultConfig())
	for _, d := range docs {
		nd := sampledoc.Normalize(sampledoc.SampleDocument{Raw: d})
		inf.AddDocument(nd)
		prof.AddDocument(nd)
	}
	root := inf.Build()
	p := prof.Finalize(nil)
	profile := constraints.Profile{
		ArrayStats:    p.ArrayStats,
		NumericRanges: p.NumericRanges,
		SizeBuckets:   p.SizeBuckets,
		Config:        constraints.DefaultSynthesisConfig(),
	}
	schema := synthesis.New(synthesis.DefaultConfig(), profile).Build(root)
	return schema, profile, nil
}

func readSchemaFile(path string) (*synthesis.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.FileIO, "readSchema", "failed to open schema file", err)
	}
	defer f.Close()

	var schema synthesis.Schema
	if err := json.NewDecoder(f).Decode(&schema); err != nil {
		return nil, errs.Wrap(errs.InputRead, "readSchema", "failed to decode schema", err)
	}
	return &schema, nil
}

func writeManifest(phase string, config map[string]interface{}, artifacts []string, metrics interface{}) error {
	m, err := manifest.New(uuid.NewString(), phase, time.Now().UTC(), config, artifacts, metrics)
	if err != nil {
		return err
	}
	f, err := os.Create(artifacts[0] + ".manifest.json")
	if err != nil {
		return errs.Wrap(errs.FileIO, "manifest", "failed to create manifest file", err)
	}
	defer f.Close()
	return m.WriteTo(f)
}

// valueToMap converts a generated document's value.Value tree into the
// plain map[string]interface{} shape the NDJSON writer and driver layer
// consume.
func valueToMap(v value.Value) map[string]interface{} {
	out := make(map[string]interface{}, len(v.ObjKeys))
	for _, k := range v.ObjKeys {
		out[k] = valueToInterface(v.Obj[k])
	}
	return out
}

func valueToInterface(v value.Value) interface{} {
	switch v.Kind {
	case value.Null:
		return nil
	case value.Bool:
		return v.Bool
	case value.Int:
		return v.Int
	case value.Float:
		return v.Float
	case value.String, value.ObjectID, value.Decimal128:
		return v.Str
	case value.DateTime:
		return v.Time
	case value.Binary:
		return v.Bin
	case value.Array:
		out := make([]interface{}, len(v.Arr))
		for i, item := range v.Arr {
			out[i] = valueToInterface(item)
		}
		return out
	case value.Object:
		return valueToMap(v)
	default:
		return nil
	}
}
