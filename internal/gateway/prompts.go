package gateway

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed prompts/*.txt
var promptFS embed.FS

func mustPrompt(name string) string {
	raw, err := promptFS.ReadFile("prompts/" + name)
	if err != nil {
		panic(fmt.Sprintf("gateway: missing prompt %s: %v", name, err))
	}
	return strings.TrimSpace(string(raw))
}

var (
	analysisPrompt    = mustPrompt("analysis.txt")
	anomaliesPrompt   = mustPrompt("anomalies.txt")
	sqlPrompt         = mustPrompt("code_sql.txt")
	pythonPrompt      = mustPrompt("code_python.txt")
	executivePrompt   = mustPrompt("summary_executive.txt")
	technicalPrompt   = mustPrompt("summary_technical.txt")
	stakeholderPrompt = mustPrompt("summary_stakeholder.txt")
)

// SystemPrompt returns the fixed system template for a kind. variant is the
// query language for KindCode and the audience for KindSummary; other kinds
// ignore it.
func SystemPrompt(k Kind, variant string) (string, error) {
	switch k {
	case KindAnalysis:
		return analysisPrompt, nil
	case KindAnomalies:
		return anomaliesPrompt, nil
	case KindCode:
		switch QueryLanguage(variant) {
		case LanguageSQL:
			return sqlPrompt, nil
		case LanguagePython:
			return pythonPrompt, nil
		}
		return "", fmt.Errorf("%w: query type %q", ErrUnsupportedVariant, variant)
	case KindSummary:
		switch Audience(variant) {
		case AudienceExecutive:
			return executivePrompt, nil
		case AudienceTechnical:
			return technicalPrompt, nil
		case AudienceStakeholder:
			return stakeholderPrompt, nil
		}
		return "", fmt.Errorf("%w: summary type %q", ErrUnsupportedVariant, variant)
	}
	return "", fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
}

func anomaliesUserMessage(in AnomalyInput) string {
	var extra string
	if in.Context != "" {
		extra = "Additional Context:\n" + in.Context
	}
	return fmt.Sprintf("Metric: %s\n\nData Points:\n%s\n\n%s\n\nAnalyze this data and identify any anomalies.",
		in.MetricName, in.DataPoints, extra)
}

func summaryUserMessage(in SummaryInput) string {
	return fmt.Sprintf("Report Title: %s\n\nData and Metrics:\n%s\n\nGenerate a comprehensive %s summary based on this information.",
		in.ReportTitle, in.DataInput, in.Audience)
}
