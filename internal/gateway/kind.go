package gateway

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownKind        = errors.New("unknown task kind")
	ErrUnsupportedVariant = errors.New("unsupported task variant")
)

// Kind is one of the four request categories the gateway serves.
type Kind int

const (
	KindAnalysis Kind = iota + 1
	KindAnomalies
	KindCode
	KindSummary
)

// Kinds lists every task kind in declaration order.
var Kinds = []Kind{KindAnalysis, KindAnomalies, KindCode, KindSummary}

func (k Kind) String() string {
	switch k {
	case KindAnalysis:
		return "analysis"
	case KindAnomalies:
		return "anomalies"
	case KindCode:
		return "code"
	case KindSummary:
		return "summary"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Shape is the form a cleaned completion must take.
type Shape int

const (
	ShapeText Shape = iota
	ShapeObject
	ShapeArray
)

type profile struct {
	temperature float64
	shape       Shape
	failure     string
}

// profileFor is the kind table. Every Kind must have a case here.
func profileFor(k Kind) (profile, error) {
	switch k {
	case KindAnalysis:
		return profile{temperature: 0.7, shape: ShapeObject, failure: "failed to analyze query"}, nil
	case KindAnomalies:
		return profile{temperature: 0.3, shape: ShapeArray, failure: "failed to detect anomalies"}, nil
	case KindCode:
		return profile{temperature: 0.3, shape: ShapeText, failure: "failed to generate query"}, nil
	case KindSummary:
		return profile{temperature: 0.5, shape: ShapeText, failure: "failed to generate summary"}, nil
	}
	return profile{}, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
}

// Temperature reports the sampling temperature used for k.
func (k Kind) Temperature() float64 {
	p, _ := profileFor(k)
	return p.temperature
}

// Shape reports the response shape expected for k.
func (k Kind) Shape() Shape {
	p, _ := profileFor(k)
	return p.shape
}

// QueryLanguage selects the code-generation template.
type QueryLanguage string

const (
	LanguageSQL    QueryLanguage = "sql"
	LanguagePython QueryLanguage = "python"
)

// ParseQueryLanguage accepts "sql" or "python" in any case. Empty means sql.
func ParseQueryLanguage(s string) (QueryLanguage, error) {
	switch QueryLanguage(strings.ToLower(strings.TrimSpace(s))) {
	case "", LanguageSQL:
		return LanguageSQL, nil
	case LanguagePython:
		return LanguagePython, nil
	}
	return "", fmt.Errorf("%w: query type %q", ErrUnsupportedVariant, s)
}

// Audience selects the summary template.
type Audience string

const (
	AudienceExecutive   Audience = "executive"
	AudienceTechnical   Audience = "technical"
	AudienceStakeholder Audience = "stakeholder"
)

// ParseAudience accepts one of the three audiences in any case. Empty means
// executive.
func ParseAudience(s string) (Audience, error) {
	switch Audience(strings.ToLower(strings.TrimSpace(s))) {
	case "", AudienceExecutive:
		return AudienceExecutive, nil
	case AudienceTechnical:
		return AudienceTechnical, nil
	case AudienceStakeholder:
		return AudienceStakeholder, nil
	}
	return "", fmt.Errorf("%w: summary type %q", ErrUnsupportedVariant, s)
}
