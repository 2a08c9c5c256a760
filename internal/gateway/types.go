package gateway

import "math"

// AnalysisResult answers a free-text data question.
type AnalysisResult struct {
	Question          string   `json:"question"`
	Answer            string   `json:"answer"`
	Insights          []string `json:"insights"`
	VisualizationType string   `json:"visualizationType,omitempty"`
	Confidence        float64  `json:"confidence"`
}

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// ClassifySeverity applies the tiering the anomaly prompt asks the model to
// follow: above 50% deviation is high, 20-50% medium, below 20% low.
func ClassifySeverity(deviation float64) Severity {
	d := math.Abs(deviation)
	switch {
	case d > 50:
		return SeverityHigh
	case d >= 20:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Anomaly is one outlier reported by the model. Deviation is a percentage.
type Anomaly struct {
	Metric      string   `json:"metric"`
	Value       float64  `json:"value"`
	Expected    float64  `json:"expected"`
	Deviation   float64  `json:"deviation"`
	Severity    Severity `json:"severity"`
	Explanation string   `json:"explanation"`
}

type AnomalyInput struct {
	MetricName string
	DataPoints string
	// Context is optional free text about known events.
	Context string
}

type SummaryInput struct {
	ReportTitle string
	DataInput   string
	Audience    Audience
}
