package constraints

import (
	"encoding/json"

	"github.com/redbco/docsynth/internal/errs"
	"github.com/redbco/docsynth/internal/frequency"
	"github.com/redbco/docsynth/internal/profiling"
)

// rawArrayStats accepts either the legacy or current on-disk shape for one
// array-stats entry; exactly one of ObservedLengths/Distribution is
// populated in practice.
type rawArrayStats struct {
	FieldPath       string           `json:"fieldPath"`
	ObservedLengths []int            `json:"observedLengths,omitempty"`
	Distribution    map[string]int64 `json:"distribution,omitempty"`
	ArraysAnalyzed  int              `json:"arraysAnalyzed,omitempty"`
}

// UpgradeArrayStats decodes raw JSON for one array-stats entry, whether it
// uses the legacy `{fieldPath, observedLengths:[...]}` shape or the
// current `{fieldPath, distribution:{...}}` shape, and returns the
// current profiling.ArrayLengthStats either way — the legacy shape is
// converted on read by recomputing a frequency distribution from the raw
// length samples, per §6's legacy-compatibility requirement.
func UpgradeArrayStats(raw []byte) (profiling.ArrayLengthStats, error) {
	var r rawArrayStats
	if err := json.Unmarshal(raw, &r); err != nil {
		return profiling.ArrayLengthStats{}, errs.Wrap(errs.Config, "parse", "invalid array stats entry", err)
	}

	dist := frequency.New()
	arraysAnalyzed := r.ArraysAnalyzed
	if len(r.ObservedLengths) > 0 {
		for _, length := range r.ObservedLengths {
			dist.AddIntSample(length)
		}
		arraysAnalyzed = len(r.ObservedLengths)
	} else {
		for k, v := range r.Distribution {
			dist.AddSampleN(k, v)
		}
	}

	return profiling.ArrayLengthStats{
		FieldPath:      r.FieldPath,
		Distribution:   dist,
		Stats:          frequency.StatsOf(dist),
		ArraysAnalyzed: arraysAnalyzed,
	}, nil
}

// IsLegacyArrayStatsShape reports whether raw JSON for an array-stats
// entry carries the older observedLengths field rather than a
// distribution.
func IsLegacyArrayStatsShape(raw []byte) bool {
	var probe struct {
		ObservedLengths []int                  `json:"observedLengths"`
		Distribution    map[string]interface{} `json:"distribution"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return len(probe.ObservedLengths) > 0 && len(probe.Distribution) == 0
}
