package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sozercan/insight-mole/apimodels"
	"github.com/sozercan/insight-mole/internal/gateway"
)

const maxBodyBytes = 1 << 20

// sampleQuestions seed the analytics page.
var sampleQuestions = []string{
	"What was our revenue growth last quarter?",
	"How many new users signed up this month?",
	"What's the average customer lifetime value?",
	"Which product has the highest conversion rate?",
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req apimodels.AnalyzeRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if !requireFields(w, field{"query", req.Query}) {
		return
	}

	result, err := s.gateway.AnalyzeQuery(r.Context(), req.Query)
	if err != nil {
		writeGatewayError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, apimodels.AnalysisResponse{
		Question:          result.Question,
		Answer:            result.Answer,
		Insights:          result.Insights,
		VisualizationType: result.VisualizationType,
		Confidence:        result.Confidence,
		ConfidenceLevel:   confidenceLevel(result.Confidence),
	})
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	var req apimodels.AnomalyRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if !requireFields(w, field{"metricName", req.MetricName}, field{"dataPoints", req.DataPoints}) {
		return
	}

	anomalies, err := s.gateway.DetectAnomalies(r.Context(), gateway.AnomalyInput{
		MetricName: req.MetricName,
		DataPoints: req.DataPoints,
		Context:    strings.TrimSpace(req.Context),
	})
	if err != nil {
		writeGatewayError(w, r, err)
		return
	}

	resp := apimodels.AnomalyResponse{
		Anomalies: make([]apimodels.Anomaly, 0, len(anomalies)),
		Count:     len(anomalies),
	}
	for _, a := range anomalies {
		resp.Anomalies = append(resp.Anomalies, apimodels.Anomaly{
			Metric:      a.Metric,
			Value:       a.Value,
			Expected:    a.Expected,
			Deviation:   a.Deviation,
			Severity:    string(a.Severity),
			Explanation: a.Explanation,
			Direction:   direction(a.Deviation),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req apimodels.QueryRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if !requireFields(w, field{"prompt", req.Prompt}) {
		return
	}
	lang, err := gateway.ParseQueryLanguage(req.QueryType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	code, err := s.gateway.GenerateQuery(r.Context(), req.Prompt, lang)
	if err != nil {
		writeGatewayError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apimodels.QueryResponse{QueryType: string(lang), Code: code})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req apimodels.SummaryRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if !requireFields(w, field{"reportTitle", req.ReportTitle}, field{"dataInput", req.DataInput}) {
		return
	}
	audience, err := gateway.ParseAudience(req.SummaryType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format != "" && format != "text" && format != "html" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", req.Format))
		return
	}

	summary, err := s.gateway.GenerateSummary(r.Context(), gateway.SummaryInput{
		ReportTitle: req.ReportTitle,
		DataInput:   req.DataInput,
		Audience:    audience,
	})
	if err != nil {
		writeGatewayError(w, r, err)
		return
	}

	resp := apimodels.SummaryResponse{SummaryType: string(audience), Summary: summary}
	if format == "html" {
		html, err := s.markdown.HTML(summary)
		if err != nil {
			log.Error().Err(err).Msg("Summary rendering failed")
			writeError(w, http.StatusInternalServerError, "failed to render summary")
			return
		}
		resp.HTML = html
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apimodels.SamplesResponse{Questions: sampleQuestions})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type field struct {
	name  string
	value string
}

func requireFields(w http.ResponseWriter, fields ...field) bool {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			writeError(w, http.StatusBadRequest, f.name+" is required")
			return false
		}
	}
	return true
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return false
	}
	return true
}

// writeGatewayError maps gateway errors to responses. Failure causes are
// never written to the client; the diagnostic ID is, so logs can be joined.
// A failure caused by the request deadline is a 504, any other a 502.
func writeGatewayError(w http.ResponseWriter, r *http.Request, err error) {
	var f *gateway.Failure
	switch {
	case errors.As(err, &f):
		status := http.StatusBadGateway
		if errors.Is(f.Cause(), context.DeadlineExceeded) || errors.Is(r.Context().Err(), context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		w.Header().Set("X-Diagnostic-Id", f.ID)
		writeError(w, status, f.Error())
	case errors.Is(err, gateway.ErrUnsupportedVariant):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("Gateway request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apimodels.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func confidenceLevel(c float64) string {
	switch {
	case c >= 80:
		return "high"
	case c >= 60:
		return "medium"
	default:
		return "low"
	}
}

func direction(deviation float64) string {
	if deviation < 0 {
		return "down"
	}
	return "up"
}
