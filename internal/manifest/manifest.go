// Package manifest implements the run-manifest side artifact of §6: a
// JSON document recording what ran, against what config, and a
// content-addressed (SHA-256) pointer to the emitted output file.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/redbco/docsynth/internal/errs"
)

// ToolName is the fixed `tool` field value (§6).
const ToolName = "docsynth"

// ManifestVersion is the on-disk schema version of the manifest format
// itself.
const ManifestVersion = 1

// Run describes one invocation.
type Run struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Phase     string    `json:"phase"`
}

// Artifact points at one content-addressed output file.
type Artifact struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Size   int64  `json:"size,omitempty"`
}

// Metrics is an opaque, phase-specific metrics payload (InsertionMetrics,
// CDCMetrics, or a validation.Report), carried through unchanged.
type Metrics = interface{}

// Manifest is §6's run-manifest shape:
// {version, tool, run:{id,timestamp,phase}, config, artifacts:{...}, metrics?}.
type Manifest struct {
	Version   int                    `json:"version"`
	Tool      string                 `json:"tool"`
	Run       Run                    `json:"run"`
	Config    map[string]interface{} `json:"config"`
	Artifacts []Artifact             `json:"artifacts"`
	Metrics   Metrics                `json:"metrics,omitempty"`
}

// New builds a Manifest for one run, content-addressing every artifact
// path by reading and hashing the file named.
func New(runID, phase string, at time.Time, config map[string]interface{}, artifactPaths []string, metrics Metrics) (Manifest, error) {
	artifacts := make([]Artifact, 0, len(artifactPaths))
	for _, p := range artifactPaths {
		a, err := hashArtifact(p)
		if err != nil {
			return Manifest{}, err
		}
		artifacts = append(artifacts, a)
	}
	return Manifest{
		Version: ManifestVersion,
		Tool:    ToolName,
		Run:     Run{ID: runID, Timestamp: at, Phase: phase},
		Config:  config,
		Artifacts: artifacts,
		Metrics: metrics,
	}, nil
}

func hashArtifact(path string) (Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return Artifact{}, errs.Wrap(errs.FileIO, "manifest", "failed to open artifact for hashing", err)
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return Artifact{}, errs.Wrap(errs.FileIO, "manifest", "failed to hash artifact", err)
	}
	return Artifact{
		Path:   path,
		SHA256: hex.EncodeToString(h.Sum(nil)),
		Size:   size,
	}, nil
}

// WriteTo marshals m as indented JSON to w.
func (m Manifest) WriteTo(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return errs.Wrap(errs.FileIO, "manifest", "failed to write manifest", err)
	}
	return nil
}
