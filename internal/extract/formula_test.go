package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFormulaPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		formula string
		table   bool
		split   bool
	}{
		{
			name:    "table reference wins over percentage",
			text:    "按基本保额的相应赔付比例给付，赔付比例详见轻症疾病赔付比例表。",
			formula: FormulaPerTable,
			table:   true,
		},
		{
			name:    "premium return",
			text:    "被保险人身故的，我们无息退还已交保险费，本合同终止。",
			formula: FormulaPremiums,
		},
		{
			name:    "premium mention with cash value is greater-of",
			text:    "按已交保费与现金价值的较大者给付身故保险金。",
			formula: FormulaCashValue,
		},
		{
			name:    "cash value alone",
			text:    "我们按本合同的现金价值给付保险金，本合同终止。",
			formula: FormulaCashValue,
		},
		{
			name:    "percentage of base amount",
			text:    "我们按基本保额的50%给付轻症疾病保险金。",
			formula: "基本保额 * 50%",
		},
		{
			name:    "fractional percentage",
			text:    "按基本保险金额的30.5%给付。",
			formula: "基本保额 * 30.5%",
		},
		{
			name:    "operator percentage",
			text:    "给付金额等于基本保额×20%。",
			formula: "基本保额 * 20%",
		},
		{
			name:    "multiple of base amount",
			text:    "我们按基本保额的2倍给付重大疾病保险金。",
			formula: "基本保额 * 2",
		},
		{
			name:    "default full payout",
			text:    "等待期后初次确诊重大疾病的，我们给付重大疾病保险金。",
			formula: FormulaFullPayout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formula, table, split := classifyFormula(tt.text)
			assert.Equal(t, tt.formula, formula)
			assert.Equal(t, tt.table, table)
			assert.Equal(t, tt.split, split)
		})
	}
}

func TestClassifyFormulaWaitingSplit(t *testing.T) {
	text := "等待期内确诊的，退还已交保险费，本合同终止；等待期后确诊的，按基本保额的50%给付。"
	formula, table, split := classifyFormula(text)
	assert.True(t, split)
	assert.False(t, table)
	// The returned formula describes the post-waiting stage.
	assert.Equal(t, "基本保额 * 50%", formula)
}

func TestClassifyFormulaSplitDefaultsToFullPayout(t *testing.T) {
	text := "等待期内确诊的，无息退还已交保险费；等待期满后确诊的，给付重大疾病保险金。"
	formula, _, split := classifyFormula(text)
	assert.True(t, split)
	assert.Equal(t, FormulaFullPayout, formula)
}

func TestFormulaRatio(t *testing.T) {
	assert.Equal(t, "50", FormulaRatio("基本保额 * 50%"))
	assert.Equal(t, "30.5", FormulaRatio("基本保额 * 30.5%"))
	assert.Equal(t, "100", FormulaRatio(FormulaFullPayout))
	assert.Empty(t, FormulaRatio(FormulaPremiums))
	assert.Empty(t, FormulaRatio("基本保额 * 2"))
}
