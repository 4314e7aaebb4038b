package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurdata/clausekb/internal/audit"
	"github.com/insurdata/clausekb/internal/model"
)

func brokenCase() model.Case {
	return model.Case{
		SequenceID:                 42,
		ProductCode:                "P002",
		CoverageType:               "轻症",
		CoverageName:               "轻症疾病保险金",
		NaturalLanguageDescription: "等待期后确诊，按基本保额的20%赔付",
		PayoutAmount: []model.PayoutStage{
			{
				StageNumber:                1,
				Period:                     "等待期后",
				WaitingPeriodStatus:        model.PeriodAfter,
				Formula:                    "基本保额 * 20%",
				NaturalLanguageDescription: "等待期后确诊，按基本保额的20%赔付",
				Note:                       "累计最多赔3次；等待期内不给付",
			},
		},
	}
}

func TestApplyResolvesAllMechanicalFindings(t *testing.T) {
	c := brokenCase()
	raw := model.RawClause{
		SequenceID: 42,
		ClauseText: "等待期后确诊轻症疾病的，按基本保额的20%给付，累计给付以三次为限。",
	}

	findings := audit.Check(c, raw)
	require.NotEmpty(t, findings)

	resolutions := Apply(&c, raw, findings, DefaultPolicy())
	for _, r := range resolutions {
		assert.True(t, r.Resolved, r.Action)
	}

	// The repaired case re-validates clean.
	assert.Empty(t, audit.Check(c, raw))

	assert.Empty(t, c.NaturalLanguageDescription)
	assert.Empty(t, c.PayoutAmount[0].Note)
	// The allowed fragment moved to the case note; the excluded one is gone.
	assert.Equal(t, "累计最多赔3次", c.Note)
}

func TestApplyIsIdempotent(t *testing.T) {
	c := brokenCase()
	raw := model.RawClause{
		SequenceID: 42,
		ClauseText: "等待期后确诊轻症疾病的，按基本保额的20%给付，累计给付以三次为限。",
	}

	Apply(&c, raw, audit.Check(c, raw), DefaultPolicy())
	after := c.Clone()
	Apply(&c, raw, audit.Check(c, raw), DefaultPolicy())
	assert.Equal(t, after, c)
}

func TestApplyOrdersBySeverity(t *testing.T) {
	findings := []model.Finding{
		{Severity: model.SeverityP2, Type: model.FindingIncompleteDescription, StageNumber: 1},
		{Severity: model.SeverityP0, Type: model.FindingStageLevelNote, StageNumber: 1},
		{Severity: model.SeverityP1, Type: model.FindingMissingTerminationNote},
	}
	c := brokenCase()
	resolutions := Apply(&c, model.RawClause{}, findings, DefaultPolicy())
	require.Len(t, resolutions, 3)
	assert.Equal(t, model.FindingStageLevelNote, resolutions[0].Finding.Type)
	assert.Equal(t, model.FindingMissingTerminationNote, resolutions[1].Finding.Type)
	assert.Equal(t, model.FindingIncompleteDescription, resolutions[2].Finding.Type)
}

func TestApplyTerminationNotePrepends(t *testing.T) {
	c := brokenCase()
	c.PayoutAmount[0].Note = ""
	c.NaturalLanguageDescription = ""
	c.Note = "需间隔90日"
	findings := []model.Finding{
		{Severity: model.SeverityP1, Type: model.FindingMissingTerminationNote, SequenceID: 42},
	}
	Apply(&c, model.RawClause{}, findings, DefaultPolicy())
	assert.Equal(t, "给付以1次为限；需间隔90日", c.Note)
}

func TestApplySetsPaymentPeriodOnLastStage(t *testing.T) {
	c := model.Case{
		SequenceID: 9,
		PayoutAmount: []model.PayoutStage{
			{
				StageNumber:                1,
				Period:                     "等待期内",
				WaitingPeriodStatus:        model.PeriodDuring,
				Formula:                    "已交保费",
				NaturalLanguageDescription: "等待期内确诊，退还已交保费",
			},
			{
				StageNumber:                2,
				Period:                     "等待期后",
				WaitingPeriodStatus:        model.PeriodAfter,
				Formula:                    "基本保额 * 100%",
				NaturalLanguageDescription: "等待期后确诊，按基本保额的100%赔付",
			},
		},
	}
	raw := model.RawClause{
		SequenceID: 9,
		ClauseText: "交费期内且等待期后确诊的，按基本保额给付。",
	}
	findings := []model.Finding{
		{Severity: model.SeverityP1, Type: model.FindingMissingPaymentPeriod, SequenceID: 9},
	}
	Apply(&c, raw, findings, DefaultPolicy())

	assert.Empty(t, c.PayoutAmount[0].PaymentPeriodStatus)
	assert.Equal(t, model.PeriodDuring, c.PayoutAmount[1].PaymentPeriodStatus)
	assert.Equal(t, "等待期后、交费期内", c.PayoutAmount[1].Period)
	assert.Equal(t,
		"等待期后、交费期内确诊，按基本保额的100%赔付",
		c.PayoutAmount[1].NaturalLanguageDescription)
}

func TestApplyFillsStageFields(t *testing.T) {
	c := model.Case{
		SequenceID: 11,
		PayoutAmount: []model.PayoutStage{
			{
				StageNumber:         3,
				WaitingPeriodStatus: model.PeriodAfter,
				Formula:             "基本保额 * 50%",
			},
		},
	}
	findings := []model.Finding{
		{Severity: model.SeverityP0, Type: model.FindingMissingStageField, SequenceID: 11, StageNumber: 3},
	}
	resolutions := Apply(&c, model.RawClause{}, findings, DefaultPolicy())
	require.Len(t, resolutions, 1)
	assert.True(t, resolutions[0].Resolved)

	s := c.PayoutAmount[0]
	assert.Equal(t, 1, s.StageNumber)
	assert.Equal(t, "等待期后", s.Period)
	assert.Equal(t, "等待期后确诊，按基本保额的50%赔付", s.NaturalLanguageDescription)
}

func TestApplyRenumbersStageGap(t *testing.T) {
	stage := func(n int, formula, desc string) model.PayoutStage {
		return model.PayoutStage{
			StageNumber:                n,
			Period:                     "等待期后",
			WaitingPeriodStatus:        model.PeriodAfter,
			Formula:                    formula,
			NaturalLanguageDescription: desc,
		}
	}
	c := model.Case{
		SequenceID: 15,
		PayoutAmount: []model.PayoutStage{
			stage(2, "基本保额 * 20%", "等待期后确诊，按基本保额的20%赔付"),
			stage(3, "基本保额 * 100%", "等待期后确诊，按基本保额的100%赔付"),
		},
	}

	findings := audit.Check(c, model.RawClause{})
	require.Len(t, findings, 1)
	require.Equal(t, model.FindingMissingStageField, findings[0].Type)

	resolutions := Apply(&c, model.RawClause{}, findings, DefaultPolicy())
	require.Len(t, resolutions, 1)
	assert.True(t, resolutions[0].Resolved)
	assert.Equal(t, 1, c.PayoutAmount[0].StageNumber)
	assert.Equal(t, 2, c.PayoutAmount[1].StageNumber)
	assert.Empty(t, audit.Check(c, model.RawClause{}))
}

func TestApplyEmptyCaseStaysUnresolved(t *testing.T) {
	c := model.Case{SequenceID: 16}
	findings := audit.Check(c, model.RawClause{})
	require.Len(t, findings, 1)

	resolutions := Apply(&c, model.RawClause{}, findings, DefaultPolicy())
	require.Len(t, resolutions, 1)
	assert.False(t, resolutions[0].Resolved)
	assert.Empty(t, c.PayoutAmount)
}

func TestApplyMissingFormulaStaysUnresolved(t *testing.T) {
	c := model.Case{
		SequenceID:   12,
		PayoutAmount: []model.PayoutStage{{StageNumber: 1, WaitingPeriodStatus: model.PeriodAfter}},
	}
	findings := []model.Finding{
		{Severity: model.SeverityP0, Type: model.FindingMissingStageField, SequenceID: 12, StageNumber: 1},
	}
	resolutions := Apply(&c, model.RawClause{}, findings, DefaultPolicy())
	require.Len(t, resolutions, 1)
	assert.False(t, resolutions[0].Resolved)
	assert.Empty(t, c.PayoutAmount[0].Formula)
}

func TestApplyRebuildReplacesHandEditedPayoutPhrase(t *testing.T) {
	c := model.Case{
		SequenceID: 14,
		PayoutAmount: []model.PayoutStage{
			{
				StageNumber:         1,
				Period:              "等待期后",
				WaitingPeriodStatus: model.PeriodAfter,
				Formula:             "基本保额 * 50%",
				// Hand-edited phrase that does not mention the stored ratio.
				NaturalLanguageDescription: "等待期后确诊，按条款特别约定赔付",
			},
		},
	}
	findings := audit.Check(c, model.RawClause{})
	require.Len(t, findings, 1)
	require.Equal(t, model.FindingIncompleteDescription, findings[0].Type)

	resolutions := Apply(&c, model.RawClause{}, findings, DefaultPolicy())
	require.Len(t, resolutions, 1)
	assert.True(t, resolutions[0].Resolved)
	// The structured formula is authoritative and the action says so.
	assert.Equal(t, "等待期后确诊，按基本保额的50%赔付", c.PayoutAmount[0].NaturalLanguageDescription)
	assert.Contains(t, resolutions[0].Action, "regenerated from the stored formula")
}

func TestApplyFillsFrequency(t *testing.T) {
	c := model.Case{
		SequenceID: 13,
		PayoutAmount: []model.PayoutStage{
			{
				StageNumber:                1,
				Period:                     "等待期后",
				WaitingPeriodStatus:        model.PeriodAfter,
				Formula:                    "基本保额 * 100%",
				NaturalLanguageDescription: "等待期后确诊，按基本保额的100%赔付（分10次）",
				ContinuousPayment: &model.ContinuousPayment{
					Type:       model.ContinuousFixedCount,
					TotalCount: 10,
				},
			},
		},
	}
	findings := []model.Finding{
		{Severity: model.SeverityP2, Type: model.FindingMissingFrequency, SequenceID: 13, StageNumber: 1},
	}
	Apply(&c, model.RawClause{}, findings, DefaultPolicy())
	assert.Equal(t, "每年对应日", c.PayoutAmount[0].ContinuousPayment.Frequency)
}

func TestPolicyKeep(t *testing.T) {
	pol := DefaultPolicy()
	assert.True(t, pol.Keep("累计最多赔3次"))
	assert.True(t, pol.Keep("限赔1次"))
	assert.True(t, pol.Keep("需间隔90日"))
	assert.True(t, pol.Keep("被保险人豁免余期保费"))
	// Exclusion wins even when an allowed marker is present.
	assert.False(t, pol.Keep("等待期内累计给付"))
	assert.False(t, pol.Keep("按基本保额赔付"))
	assert.False(t, pol.Keep(""))
	// No allowed marker at all.
	assert.False(t, pol.Keep("合同继续有效"))
}

func TestLoadPolicyDefaultOnEmptyPath(t *testing.T) {
	pol, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), pol)
}
