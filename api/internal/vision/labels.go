package vision

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/util"
)

type Label struct {
	Label      string  `json:"label" yaml:"label"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// ParseLabels decodes the model's label array, tolerating ```json fences,
// and orders it by confidence, highest first.
func ParseLabels(raw string) ([]Label, error) {
	var out []Label
	if err := json.Unmarshal([]byte(util.StripCodeFences(raw)), &out); err != nil {
		return nil, fmt.Errorf("labels: bad JSON: %w", err)
	}
	if out == nil {
		out = []Label{}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out, nil
}
