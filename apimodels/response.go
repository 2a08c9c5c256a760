package apimodels

type AnalysisResponse struct {
	Question          string   `json:"question"`
	Answer            string   `json:"answer"`
	Insights          []string `json:"insights"`
	VisualizationType string   `json:"visualizationType,omitempty"`
	Confidence        float64  `json:"confidence"`

	// ConfidenceLevel is "high" (>= 80), "medium" (>= 60) or "low"
	ConfidenceLevel string `json:"confidenceLevel"`
}

type Anomaly struct {
	Metric      string  `json:"metric"`
	Value       float64 `json:"value"`
	Expected    float64 `json:"expected"`
	Deviation   float64 `json:"deviation"`
	Severity    string  `json:"severity"`
	Explanation string  `json:"explanation"`

	// Direction is "up" or "down" relative to the expected value
	Direction string `json:"direction"`
}

type AnomalyResponse struct {
	Anomalies []Anomaly `json:"anomalies"`
	Count     int       `json:"count"`
}

type QueryResponse struct {
	QueryType string `json:"queryType"`
	Code      string `json:"code"`
}

type SummaryResponse struct {
	SummaryType string `json:"summaryType"`
	Summary     string `json:"summary"`
	HTML        string `json:"html,omitempty"`
}

type SamplesResponse struct {
	Questions []string `json:"questions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
