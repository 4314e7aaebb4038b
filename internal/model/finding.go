package model

import (
	"time"

	"github.com/google/uuid"
)

// Severity ranks a finding. P0 is structural, P1 payout-affecting, P2
// cosmetic.
type Severity string

const (
	SeverityP0 Severity = "P0"
	SeverityP1 Severity = "P1"
	SeverityP2 Severity = "P2"
)

// Rank orders severities for repair scheduling; lower repairs first.
func (s Severity) Rank() int {
	switch s {
	case SeverityP0:
		return 0
	case SeverityP1:
		return 1
	case SeverityP2:
		return 2
	}
	return 3
}

// FindingType is the closed vocabulary of schema/content violations the
// validator can report.
type FindingType string

const (
	FindingStageLevelNote           FindingType = "stage_level_note"
	FindingForbiddenCaseDescription FindingType = "forbidden_case_level_description"
	FindingMissingCumulativeLimit   FindingType = "missing_cumulative_limit"
	FindingMissingTerminationNote   FindingType = "missing_termination_note"
	FindingMissingPaymentPeriod     FindingType = "missing_payment_period"
	FindingIncompleteDescription    FindingType = "incomplete_description"
	FindingMissingFrequency         FindingType = "missing_frequency_on_continuous_payment"
	FindingMissingStageField        FindingType = "missing_required_stage_field"
)

// Finding is one detected violation on one Case. StageNumber is zero for
// case-level findings.
type Finding struct {
	Severity    Severity    `json:"severity"`
	Type        FindingType `json:"type"`
	SequenceID  int         `json:"sequenceId"`
	StageNumber int         `json:"stageNumber,omitempty"`
	Message     string      `json:"message"`
}

// Report wraps the findings of one corpus validation pass for the
// downstream review step.
type Report struct {
	ReportID    string    `json:"reportId"`
	GeneratedAt time.Time `json:"generatedAt"`
	TotalCases  int       `json:"totalCases"`
	Findings    []Finding `json:"findings"`
}

// NewReport stamps a findings list with a fresh report identity.
func NewReport(totalCases int, findings []Finding) Report {
	return Report{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		TotalCases:  totalCases,
		Findings:    findings,
	}
}
