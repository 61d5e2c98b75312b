package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFirstMatchWins(t *testing.T) {
	ruleList := []ColorRule{
		{Operator: OpGreaterEqual, Value: 0, Color: "#aaa111"},
		{Operator: OpGreaterEqual, Value: 5, Color: "#bbb222"},
	}

	// Both rules match 7; the first in storage order wins even though the
	// second has the higher threshold.
	assert.Equal(t, "#aaa111", Classify(7, ruleList))
}

func TestClassifyRespectsCallerOrder(t *testing.T) {
	// mock-tropical defaults from the dashboard: >=32 listed after >=25, so an
	// aggregate of 33 hits the warm band first. Reordering changes the answer,
	// which is exactly the contract: no implicit sorting.
	tropical := []ColorRule{
		{Operator: OpLess, Value: 25, Color: "#10b981"},
		{Operator: OpGreaterEqual, Value: 25, Color: "#f59e0b"},
		{Operator: OpGreaterEqual, Value: 32, Color: "#ef4444"},
	}
	assert.Equal(t, "#f59e0b", Classify(33, tropical))

	reordered := []ColorRule{
		{Operator: OpLess, Value: 25, Color: "#10b981"},
		{Operator: OpGreaterEqual, Value: 32, Color: "#ef4444"},
		{Operator: OpGreaterEqual, Value: 25, Color: "#f59e0b"},
	}
	assert.Equal(t, "#ef4444", Classify(33, reordered))
}

func TestClassifyEmptyAndNoMatch(t *testing.T) {
	assert.Equal(t, DefaultColor, Classify(42, nil))
	assert.Equal(t, DefaultColor, Classify(42, []ColorRule{}))

	ruleList := []ColorRule{{Operator: OpLess, Value: 0, Color: "#123456"}}
	assert.Equal(t, DefaultColor, Classify(42, ruleList))
}

func TestOperatorSemantics(t *testing.T) {
	cases := []struct {
		op    Operator
		value float64
		want  bool
	}{
		{OpLess, 9.9, true},
		{OpLess, 10, false},
		{OpLessEqual, 10, true},
		{OpLessEqual, 10.01, false},
		{OpGreaterEqual, 10, true},
		{OpGreaterEqual, 9.99, false},
		{OpGreater, 10, false},
		{OpGreater, 10.01, true},
	}
	for _, tc := range cases {
		r := ColorRule{Operator: tc.op, Value: 10, Color: "#fff"}
		assert.Equal(t, tc.want, r.Matches(tc.value), "%s %v", tc.op, tc.value)
	}
}

func TestEqualOperatorToleranceBand(t *testing.T) {
	r := ColorRule{Operator: OpEqual, Value: 20, Color: "#fff"}

	assert.True(t, r.Matches(20))
	assert.True(t, r.Matches(20.05))
	assert.True(t, r.Matches(19.95))
	assert.False(t, r.Matches(20.1))
	assert.False(t, r.Matches(19.9))
}

func TestClassifyDoesNotMutateRules(t *testing.T) {
	ruleList := []ColorRule{
		{Operator: OpGreaterEqual, Value: 30, Color: "#b"},
		{Operator: OpGreaterEqual, Value: 10, Color: "#a"},
	}
	before := make([]ColorRule, len(ruleList))
	copy(before, ruleList)

	Classify(15, ruleList)
	assert.Equal(t, before, ruleList)
}

func TestTemperatureDangerScale(t *testing.T) {
	scale := TemperatureDangerScale()

	assert.Equal(t, "#000080", Classify(-5, scale))
	assert.Equal(t, "#00CC66", Classify(15, scale))
	assert.Equal(t, "#800000", Classify(41, scale))
}
