package apimodels

type AnalyzeRequest struct {
	// Query is the natural language question to answer
	Query string `json:"query"`
}

type AnomalyRequest struct {
	// MetricName labels the series, e.g. "Daily Active Users"
	MetricName string `json:"metricName"`

	// DataPoints is the raw series, comma separated or one per line
	DataPoints string `json:"dataPoints"`

	// Context is optional background such as releases or known incidents
	Context string `json:"context,omitempty"`
}

type QueryRequest struct {
	// Prompt describes the query or script to generate
	Prompt string `json:"prompt"`

	// QueryType is "sql" (default) or "python"
	QueryType string `json:"queryType,omitempty"`
}

type SummaryRequest struct {
	ReportTitle string `json:"reportTitle"`
	DataInput   string `json:"dataInput"`

	// SummaryType is "executive" (default), "technical" or "stakeholder"
	SummaryType string `json:"summaryType,omitempty"`

	// Format "html" additionally renders the summary Markdown to HTML
	Format string `json:"format,omitempty"`
}
