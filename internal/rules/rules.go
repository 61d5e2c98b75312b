// Package rules maps an aggregated weather value to a display color through
// an ordered, user-editable list of threshold rules.
package rules

import "math"

// Operator is a comparison against a rule threshold.
type Operator string

const (
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "="
	OpGreaterEqual Operator = ">="
	OpGreater      Operator = ">"
)

// EqualityTolerance widens the "=" operator into a band so floating-point and
// measurement noise still match.
const EqualityTolerance = 0.1

// DefaultColor is the neutral gray used when no rule matches (or none exist).
const DefaultColor = "#6b7280"

// ColorRule is one (operator, threshold, color) triple. Rule lists are
// ordered: the first matching rule wins, regardless of threshold magnitude.
type ColorRule struct {
	Operator Operator `json:"operator" validate:"required,oneof=< <= = >= >"`
	Value    float64  `json:"value"`
	Color    string   `json:"color" validate:"required,hexcolor"`
	Label    string   `json:"label,omitempty"`
}

// Matches reports whether value satisfies the rule's comparison.
func (r ColorRule) Matches(value float64) bool {
	switch r.Operator {
	case OpLess:
		return value < r.Value
	case OpLessEqual:
		return value <= r.Value
	case OpEqual:
		return math.Abs(value-r.Value) < EqualityTolerance
	case OpGreaterEqual:
		return value >= r.Value
	case OpGreater:
		return value > r.Value
	default:
		return false
	}
}

// Classify returns the color of the first rule the value satisfies, walking
// the list in the caller's storage order. The list is never sorted or
// mutated. No match, or an empty list, yields DefaultColor.
func Classify(value float64, ruleList []ColorRule) string {
	for _, r := range ruleList {
		if r.Matches(value) {
			return r.Color
		}
	}
	return DefaultColor
}

// TemperatureDangerScale is the canned temperature ladder applied when a
// source has no user-defined rules and the parameter is temperature.
func TemperatureDangerScale() []ColorRule {
	return []ColorRule{
		{Operator: OpLessEqual, Value: 0, Color: "#000080", Label: "Freezing"},
		{Operator: OpLessEqual, Value: 10, Color: "#0066CC", Label: "Very cold"},
		{Operator: OpLessEqual, Value: 20, Color: "#00CC66", Label: "Comfortable"},
		{Operator: OpLessEqual, Value: 30, Color: "#FFCC00", Label: "Warm"},
		{Operator: OpLessEqual, Value: 35, Color: "#FF6600", Label: "Hot"},
		{Operator: OpLessEqual, Value: 40, Color: "#FF0000", Label: "Very hot"},
		{Operator: OpGreater, Value: 40, Color: "#800000", Label: "Extreme heat"},
	}
}
