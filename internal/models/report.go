package models

import "time"

// Severity tiers assigned by the classifier. Nothing outside this scale
// is ever persisted; unparseable classifications degrade to SeverityLow.
const (
	SeverityLow      = 1
	SeverityModerate = 2
	SeverityCritical = 3
)

// DefaultLocation is stored when the caller omits a location.
const DefaultLocation = "Unknown"

// Report represents one classified incident report.
// Reports are append-only: once written they are never mutated.
type Report struct {
	// ID is the unique identifier of the report (UUID).
	ID string `json:"id"`
	// Text is the original submitted message, kept verbatim.
	Text string `json:"text"`
	// Summary is the short description produced by the classifier. When the
	// classifier output could not be parsed it holds the raw oracle response.
	Summary string `json:"summary"`
	// Severity is the urgency tier, 1 (Low) to 3 (Critical).
	Severity int `json:"severity"`
	// Location is a free-text label supplied by the caller.
	Location string `json:"location"`
	// CreatedAt is the UTC timestamp captured at write time.
	CreatedAt time.Time `json:"timestamp"`
}

// ReportProjection is the public payload returned by the intake endpoint.
// The id and raw text stay internal.
type ReportProjection struct {
	Summary   string    `json:"summary"`
	Severity  int       `json:"severity"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

// Projection returns the public view of the report.
func (r *Report) Projection() ReportProjection {
	return ReportProjection{
		Summary:   r.Summary,
		Severity:  r.Severity,
		Location:  r.Location,
		Timestamp: r.CreatedAt,
	}
}

// SeverityLabel returns the human-readable name of a severity tier.
func SeverityLabel(severity int) string {
	switch severity {
	case SeverityLow:
		return "Low"
	case SeverityModerate:
		return "Moderate"
	case SeverityCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}
