package conditions

import (
	"testing"

	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_StringOperators(t *testing.T) {
	data := map[string]any{
		"user": map[string]any{
			"email": "a@example.com",
			"name":  "Alice",
		},
	}

	tests := []struct {
		name      string
		condition models.Condition
		expected  bool
	}{
		{
			name:      "equals match",
			condition: models.Condition{Variable: "user.name", Operator: models.OperatorEquals, Value: "Alice"},
			expected:  true,
		},
		{
			name:      "equals is case sensitive",
			condition: models.Condition{Variable: "user.name", Operator: models.OperatorEquals, Value: "alice"},
			expected:  false,
		},
		{
			name:      "not equals",
			condition: models.Condition{Variable: "user.name", Operator: models.OperatorNotEquals, Value: "Bob"},
			expected:  true,
		},
		{
			name:      "contains",
			condition: models.Condition{Variable: "user.email", Operator: models.OperatorContains, Value: "@example"},
			expected:  true,
		},
		{
			name:      "not contains",
			condition: models.Condition{Variable: "user.email", Operator: models.OperatorNotContains, Value: "@other"},
			expected:  true,
		},
		{
			name:      "starts with",
			condition: models.Condition{Variable: "user.email", Operator: models.OperatorStartsWith, Value: "a@"},
			expected:  true,
		},
		{
			name:      "ends with",
			condition: models.Condition{Variable: "user.email", Operator: models.OperatorEndsWith, Value: ".com"},
			expected:  true,
		},
		{
			name:      "missing variable never matches comparisons",
			condition: models.Condition{Variable: "user.phone", Operator: models.OperatorEquals, Value: ""},
			expected:  false,
		},
		{
			name:      "unknown operator defaults to false",
			condition: models.Condition{Variable: "user.name", Operator: "matches_regex", Value: ".*"},
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Evaluate(tt.condition, data))
		})
	}
}

func TestEvaluate_Emptiness(t *testing.T) {
	data := map[string]any{
		"empty":   "",
		"nothing": nil,
		"filled":  "x",
		"zero":    float64(0),
	}

	tests := []struct {
		name     string
		variable string
		operator models.Operator
		expected bool
	}{
		{name: "empty string is empty", variable: "empty", operator: models.OperatorIsEmpty, expected: true},
		{name: "null is empty", variable: "nothing", operator: models.OperatorIsEmpty, expected: true},
		{name: "absent is empty", variable: "missing", operator: models.OperatorIsEmpty, expected: true},
		{name: "filled is not empty", variable: "filled", operator: models.OperatorIsNotEmpty, expected: true},
		{name: "zero number is not empty", variable: "zero", operator: models.OperatorIsEmpty, expected: false},
		{name: "empty string is not not-empty", variable: "empty", operator: models.OperatorIsNotEmpty, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			condition := models.Condition{Variable: tt.variable, Operator: tt.operator}
			assert.Equal(t, tt.expected, Evaluate(condition, data))
		})
	}
}

func TestEvaluate_Numeric(t *testing.T) {
	data := map[string]any{
		"amount": float64(150),
		"count":  "42",
		"label":  "abc",
	}

	tests := []struct {
		name      string
		condition models.Condition
		expected  bool
	}{
		{
			name:      "greater than",
			condition: models.Condition{Variable: "amount", Operator: models.OperatorGreaterThan, Value: "100"},
			expected:  true,
		},
		{
			name:      "less than",
			condition: models.Condition{Variable: "amount", Operator: models.OperatorLessThan, Value: "100"},
			expected:  false,
		},
		{
			name:      "numeric string actual parses",
			condition: models.Condition{Variable: "count", Operator: models.OperatorLessThan, Value: "50"},
			expected:  true,
		},
		{
			name:      "non-numeric actual is false",
			condition: models.Condition{Variable: "label", Operator: models.OperatorGreaterThan, Value: "1"},
			expected:  false,
		},
		{
			name:      "non-numeric value is false",
			condition: models.Condition{Variable: "amount", Operator: models.OperatorGreaterThan, Value: "lots"},
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Evaluate(tt.condition, data))
		})
	}
}

func TestEvaluateGroup(t *testing.T) {
	data := map[string]any{"a": float64(1), "b": float64(3)}

	conditionsAB := []models.Condition{
		{Variable: "a", Operator: models.OperatorEquals, Value: "1"},
		{Variable: "b", Operator: models.OperatorEquals, Value: "2"},
	}

	t.Run("AND requires all", func(t *testing.T) {
		group := models.ConditionGroup{Conditions: conditionsAB, LogicalOperator: models.LogicalAnd}
		assert.False(t, EvaluateGroup(group, data))
	})

	t.Run("OR requires one", func(t *testing.T) {
		group := models.ConditionGroup{Conditions: conditionsAB, LogicalOperator: models.LogicalOr}
		assert.True(t, EvaluateGroup(group, data))
	})

	t.Run("empty group always matches", func(t *testing.T) {
		group := models.ConditionGroup{LogicalOperator: models.LogicalAnd}
		assert.True(t, EvaluateGroup(group, data))
		assert.True(t, EvaluateGroup(group, map[string]any{}))
	})

	t.Run("missing operator behaves as AND", func(t *testing.T) {
		group := models.ConditionGroup{Conditions: conditionsAB}
		assert.False(t, EvaluateGroup(group, data))
	})
}

func TestEvaluateExpression(t *testing.T) {
	data := map[string]any{
		"trigger": map[string]any{"amount": 150},
	}

	result, err := EvaluateExpression("trigger.amount > 100", data)
	require.NoError(t, err)
	assert.True(t, result)

	result, err = EvaluateExpression("trigger.amount < 100", data)
	require.NoError(t, err)
	assert.False(t, result)

	_, err = EvaluateExpression("trigger.amount +", data)
	assert.Error(t, err)
}
