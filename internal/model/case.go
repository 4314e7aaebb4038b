package model

import "fmt"

// PeriodStatus marks whether a stage applies during or after a policy
// period (waiting period or premium payment period).
type PeriodStatus string

const (
	PeriodDuring PeriodStatus = "during"
	PeriodAfter  PeriodStatus = "after"
)

// AgeSubject is the point in time an age condition is evaluated at.
type AgeSubject string

const (
	AgeAtUnderwriting AgeSubject = "投保时"
	AgeAtDiagnosis    AgeSubject = "确诊时"
)

// AgeOperator compares the insured's age against the condition threshold.
type AgeOperator string

const (
	AgeLT    AgeOperator = "<"
	AgeLTE   AgeOperator = "<="
	AgeGT    AgeOperator = ">"
	AgeGTE   AgeOperator = ">="
	AgeRange AgeOperator = "range"
)

// AgeCondition restricts a payout stage to an age band. Multiple conditions
// on one stage AND-combine. MaxAge is set for range conditions only and is
// inclusive.
type AgeCondition struct {
	Subject  AgeSubject  `json:"ageType"`
	Operator AgeOperator `json:"operator"`
	Age      int         `json:"age"`
	MaxAge   int         `json:"maxAge,omitempty"`
}

// Key returns the semantic identity of the condition. Parallel restatements
// of one threshold (ASCII digits vs Chinese numerals) produce equal keys and
// collapse to a single condition.
func (a AgeCondition) Key() string {
	if a.Operator == AgeRange {
		return fmt.Sprintf("range_%d_%d", a.Age, a.MaxAge)
	}
	return fmt.Sprintf("%s_%s_%d", a.Subject, a.Operator, a.Age)
}

// PolicyYearRange restricts a stage to an inclusive span of policy years.
// A nil MaxYear means open-ended.
type PolicyYearRange struct {
	MinYear int  `json:"minYear"`
	MaxYear *int `json:"maxYear"`
}

// ContinuousType distinguishes multi-installment payout schedules.
type ContinuousType string

const (
	ContinuousFixedCount       ContinuousType = "fixed_count"
	ContinuousUntilTermination ContinuousType = "until_termination"
)

// ContinuousPayment describes a payout paid in installments rather than as
// a lump sum.
type ContinuousPayment struct {
	Type       ContinuousType `json:"type"`
	TotalCount int            `json:"totalCount,omitempty"`
	Frequency  string         `json:"frequency,omitempty"`
}

// PayoutStage is one payout rule-set within a Case covering one temporal or
// qualifying regime. Stage numbers are 1-based and contiguous.
type PayoutStage struct {
	StageNumber                int                `json:"stageNumber"`
	Period                     string             `json:"period"`
	WaitingPeriodStatus        PeriodStatus       `json:"waitingPeriodStatus"`
	PaymentPeriodStatus        PeriodStatus       `json:"paymentPeriodStatus,omitempty"`
	Formula                    string             `json:"formula"`
	NaturalLanguageDescription string             `json:"naturalLanguageDescription"`
	AgeConditions              []AgeCondition     `json:"ageConditions,omitempty"`
	PolicyYearRange            *PolicyYearRange   `json:"policyYearRange,omitempty"`
	ContinuousPayment          *ContinuousPayment `json:"continuousPayment,omitempty"`
	// Note is never valid on a stage. The field exists so legacy records
	// can be detected by the validator and merged case-level by the
	// repairer.
	Note string `json:"note,omitempty"`
}

// Case is the structured record derived from exactly one RawClause.
type Case struct {
	SequenceID   int    `json:"sequenceId"`
	ProductCode  string `json:"productCode"`
	CoverageType string `json:"coverageType"`
	CoverageName string `json:"coverageName"`
	// NaturalLanguageDescription is forbidden at case level; descriptions
	// live on stages. Kept only so legacy hand-built records round-trip
	// until repaired.
	NaturalLanguageDescription string        `json:"naturalLanguageDescription,omitempty"`
	PayoutAmount               []PayoutStage `json:"payoutAmount"`
	Note                       string        `json:"note,omitempty"`
}

// Clone returns a deep copy of the case.
func (c Case) Clone() Case {
	out := c
	out.PayoutAmount = make([]PayoutStage, len(c.PayoutAmount))
	for i, s := range c.PayoutAmount {
		cp := s
		if s.AgeConditions != nil {
			cp.AgeConditions = append([]AgeCondition(nil), s.AgeConditions...)
		}
		if s.PolicyYearRange != nil {
			r := *s.PolicyYearRange
			if s.PolicyYearRange.MaxYear != nil {
				y := *s.PolicyYearRange.MaxYear
				r.MaxYear = &y
			}
			cp.PolicyYearRange = &r
		}
		if s.ContinuousPayment != nil {
			p := *s.ContinuousPayment
			cp.ContinuousPayment = &p
		}
		out.PayoutAmount[i] = cp
	}
	return out
}
