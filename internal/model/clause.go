// Package model defines the record types shared across the clause
// extraction, validation, and repair engines.
package model

// RawClause is one row of unstructured source text describing a single
// payout condition. Raw clauses are read-only: every derived record keys
// back to one by SequenceID.
type RawClause struct {
	SequenceID       int    `json:"sequenceId"`
	PolicyDocumentID string `json:"policyDocumentId"`
	CoverageType     string `json:"coverageType"`
	CoverageName     string `json:"coverageName"`
	ClauseText       string `json:"clauseText"`
}
