package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunReport_Counts(t *testing.T) {
	parseErr := &ParseError{Path: "bad.py", Line: 2, Msg: "unterminated string literal"}
	r := &RunReport{
		Files: []FileResult{
			{Path: "a.py", Status: FileOK, Warnings: []DeclarationWarning{{Message: "w1"}}},
			{Path: "bad.py", Status: FileFailed, Err: parseErr},
			{Path: "c.py", Status: FileOK, Warnings: []DeclarationWarning{{Message: "w2"}, {Message: "w3"}}},
		},
	}

	assert.Len(t, r.Succeeded(), 2)
	assert.Len(t, r.Failed(), 1)
	assert.Equal(t, 3, r.WarningCount())
	assert.Equal(t, 1, r.ExitCode())

	err := r.Err()
	assert.True(t, errors.Is(err, ErrFilesFailed))
	assert.True(t, errors.Is(err, ErrParse))
}

func TestRunReport_AllSucceeded(t *testing.T) {
	r := &RunReport{Files: []FileResult{{Path: "a.py", Status: FileOK}}}

	assert.Equal(t, 0, r.ExitCode())
	assert.NoError(t, r.Err())
	assert.Empty(t, r.Failed())
}

func TestCheckReport_UpToDate(t *testing.T) {
	assert.True(t, (&CheckReport{}).UpToDate())
	assert.False(t, (&CheckReport{Stale: []string{"a.md"}}).UpToDate())
	assert.False(t, (&CheckReport{BrokenLinks: []string{"x.md"}}).UpToDate())
	assert.False(t, (&CheckReport{Failed: []FileResult{{Path: "a.py"}}}).UpToDate())
}

func TestSummarise(t *testing.T) {
	findings := []Finding{
		{Type: "github_token", Severity: SeverityHigh},
		{Type: "generic_secret", Severity: SeverityMedium},
		{Type: "bearer", Severity: SeverityLow},
		{Type: "aws_access_key", Severity: SeverityHigh},
	}

	s := Summarise(findings)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.High)
	assert.Equal(t, 1, s.Medium)
	assert.Equal(t, 1, s.Low)
	assert.NotEmpty(t, s.Recommendation)

	assert.Empty(t, Summarise(nil).Recommendation)
	assert.True(t, SeverityLow.IsValid())
	assert.False(t, Severity("CRITICAL").IsValid())
}

func TestChangeType_String(t *testing.T) {
	assert.Equal(t, "created", ChangeCreated.String())
	assert.Equal(t, "updated", ChangeUpdated.String())
	assert.Equal(t, "deleted", ChangeDeleted.String())
	assert.Equal(t, "unknown", ChangeType(42).String())
}
