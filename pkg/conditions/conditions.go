// Package conditions evaluates comparison rule groups against a data
// context. Evaluation is defensive: malformed rules and unknown operators
// evaluate to false rather than erroring, so a bad rule never aborts a run.
package conditions

import (
	"strconv"
	"strings"

	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/flowlinehq/flowline/pkg/template"
)

// Evaluate applies a single condition to the data context.
func Evaluate(condition models.Condition, data map[string]any) bool {
	actual, found := template.ResolvePath(data, condition.Variable)

	// Emptiness operators short-circuit before any null handling: an absent
	// or null value is what they exist to detect.
	switch condition.Operator {
	case models.OperatorIsEmpty:
		return isEmpty(actual, found)
	case models.OperatorIsNotEmpty:
		return !isEmpty(actual, found)
	}

	if !found || actual == nil {
		return false
	}

	switch condition.Operator {
	case models.OperatorGreaterThan, models.OperatorLessThan:
		return compareNumeric(condition.Operator, actual, condition.Value)
	case models.OperatorEquals:
		return template.Stringify(actual) == condition.Value
	case models.OperatorNotEquals:
		return template.Stringify(actual) != condition.Value
	case models.OperatorContains:
		return strings.Contains(template.Stringify(actual), condition.Value)
	case models.OperatorNotContains:
		return !strings.Contains(template.Stringify(actual), condition.Value)
	case models.OperatorStartsWith:
		return strings.HasPrefix(template.Stringify(actual), condition.Value)
	case models.OperatorEndsWith:
		return strings.HasSuffix(template.Stringify(actual), condition.Value)
	default:
		return false
	}
}

// EvaluateGroup combines every condition of a group with its logical
// operator. An empty condition set always matches.
func EvaluateGroup(group models.ConditionGroup, data map[string]any) bool {
	if len(group.Conditions) == 0 {
		return true
	}

	if group.LogicalOperator == models.LogicalOr {
		for _, condition := range group.Conditions {
			if Evaluate(condition, data) {
				return true
			}
		}

		return false
	}

	for _, condition := range group.Conditions {
		if !Evaluate(condition, data) {
			return false
		}
	}

	return true
}

func isEmpty(actual any, found bool) bool {
	if !found || actual == nil {
		return true
	}

	s, ok := actual.(string)

	return ok && s == ""
}

func compareNumeric(operator models.Operator, actual any, value string) bool {
	left, err := toFloat(actual)
	if err != nil {
		return false
	}

	right, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return false
	}

	if operator == models.OperatorGreaterThan {
		return left > right
	}

	return left < right
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return strconv.ParseFloat(template.Stringify(value), 64)
	}
}
