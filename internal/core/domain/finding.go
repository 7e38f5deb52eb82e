package domain

// Severity is the bucket a secret-scan finding falls into.
type Severity string

// Severity buckets, most severe first.
const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// IsValid returns true if the severity is one of the three buckets.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// Finding is one pattern match reported by the secret scanner.
type Finding struct {
	// Type is the pattern name, e.g. "github_token".
	Type string

	// Severity is the pattern's bucket.
	Severity Severity

	// Match is the matched text with the secret part redacted.
	Match string

	// Path is the scanned file, relative to the source root.
	Path string

	// Line is the 1-based line of the match.
	Line int
}

// ScanSummary aggregates findings per bucket.
type ScanSummary struct {
	Total  int
	High   int
	Medium int
	Low    int

	// Recommendation is set when high-severity findings exist.
	Recommendation string
}

// Summarise counts findings per severity bucket.
func Summarise(findings []Finding) ScanSummary {
	s := ScanSummary{Total: len(findings)}
	for _, f := range findings {
		switch f.Severity {
		case SeverityHigh:
			s.High++
		case SeverityMedium:
			s.Medium++
		case SeverityLow:
			s.Low++
		}
	}
	if s.High > 0 {
		s.Recommendation = "Remove the credentials from source, rotate them, and load them from the environment instead."
	} else if s.Medium > 0 {
		s.Recommendation = "Review the flagged values and move any real credentials out of source."
	}
	return s
}
