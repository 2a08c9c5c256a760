package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
)

// analysisWire mirrors AnalysisResult with a pointer so strict mode can tell
// a missing confidence from a zero one.
type analysisWire struct {
	Question          string   `json:"question"`
	Answer            string   `json:"answer"`
	Insights          []string `json:"insights"`
	VisualizationType string   `json:"visualizationType"`
	Confidence        *float64 `json:"confidence"`
}

// isNull reports whether a completion is the JSON literal null, which
// encoding/json accepts into any target without error.
func isNull(text string) bool {
	return strings.TrimSpace(text) == "null"
}

func decodeAnalysis(text string, strict bool) (*AnalysisResult, error) {
	if isNull(text) {
		return nil, fmt.Errorf("%w: expected an object, got null", errSchema)
	}

	var w analysisWire
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return nil, err
	}
	if strict {
		if err := validateAnalysis(&w); err != nil {
			return nil, err
		}
	}

	result := &AnalysisResult{
		Question:          w.Question,
		Answer:            w.Answer,
		Insights:          w.Insights,
		VisualizationType: w.VisualizationType,
	}
	if w.Confidence != nil {
		result.Confidence = *w.Confidence
	}
	return result, nil
}

func validateAnalysis(w *analysisWire) error {
	if strings.TrimSpace(w.Question) == "" {
		return fmt.Errorf("%w: question is empty", errSchema)
	}
	if strings.TrimSpace(w.Answer) == "" {
		return fmt.Errorf("%w: answer is empty", errSchema)
	}
	if w.Confidence == nil {
		return fmt.Errorf("%w: confidence is missing", errSchema)
	}
	if *w.Confidence < 0 || *w.Confidence > 100 {
		return fmt.Errorf("%w: confidence %v outside 0..100", errSchema, *w.Confidence)
	}
	return nil
}

func decodeAnomalies(text string, strict bool) ([]Anomaly, error) {
	if isNull(text) {
		return nil, fmt.Errorf("%w: expected an array, got null", errSchema)
	}

	var anomalies []Anomaly
	if err := json.Unmarshal([]byte(text), &anomalies); err != nil {
		return nil, err
	}
	if anomalies == nil {
		anomalies = []Anomaly{}
	}

	if strict {
		for i, a := range anomalies {
			if strings.TrimSpace(a.Metric) == "" {
				return nil, fmt.Errorf("%w: anomaly %d has no metric", errSchema, i)
			}
			if !a.Severity.Valid() {
				return nil, fmt.Errorf("%w: anomaly %d has severity %q", errSchema, i, a.Severity)
			}
		}
	}
	return anomalies, nil
}
