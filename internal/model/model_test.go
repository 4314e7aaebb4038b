package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeConditionKey(t *testing.T) {
	ascii := AgeCondition{Subject: AgeAtDiagnosis, Operator: AgeLT, Age: 18}
	restated := AgeCondition{Subject: AgeAtDiagnosis, Operator: AgeLT, Age: 18}
	assert.Equal(t, ascii.Key(), restated.Key())

	other := AgeCondition{Subject: AgeAtUnderwriting, Operator: AgeLT, Age: 18}
	assert.NotEqual(t, ascii.Key(), other.Key())

	r := AgeCondition{Operator: AgeRange, Age: 60, MaxAge: 69}
	assert.Equal(t, "range_60_69", r.Key())
}

func TestSeverityRank(t *testing.T) {
	assert.Less(t, SeverityP0.Rank(), SeverityP1.Rank())
	assert.Less(t, SeverityP1.Rank(), SeverityP2.Rank())
	assert.Greater(t, Severity("bogus").Rank(), SeverityP2.Rank())
}

func TestCaseCloneIsDeep(t *testing.T) {
	max := 10
	c := Case{
		SequenceID: 1,
		PayoutAmount: []PayoutStage{
			{
				StageNumber:         1,
				WaitingPeriodStatus: PeriodAfter,
				AgeConditions: []AgeCondition{
					{Subject: AgeAtDiagnosis, Operator: AgeLT, Age: 18},
				},
				PolicyYearRange:   &PolicyYearRange{MinYear: 1, MaxYear: &max},
				ContinuousPayment: &ContinuousPayment{Type: ContinuousFixedCount, TotalCount: 5},
			},
		},
	}

	clone := c.Clone()
	require.Equal(t, c, clone)

	clone.PayoutAmount[0].AgeConditions[0].Age = 99
	*clone.PayoutAmount[0].PolicyYearRange.MaxYear = 99
	clone.PayoutAmount[0].ContinuousPayment.TotalCount = 99

	assert.Equal(t, 18, c.PayoutAmount[0].AgeConditions[0].Age)
	assert.Equal(t, 10, *c.PayoutAmount[0].PolicyYearRange.MaxYear)
	assert.Equal(t, 5, c.PayoutAmount[0].ContinuousPayment.TotalCount)
}
