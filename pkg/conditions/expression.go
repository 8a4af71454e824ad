package conditions

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// EvaluateExpression compiles and runs a boolean expression against the
// data context. Context keys are exposed as top-level identifiers, so
// `trigger.amount > 100` reads the trigger payload directly.
func EvaluateExpression(expression string, data map[string]any) (bool, error) {
	program, err := expr.Compile(expression, expr.Env(data), expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return false, fmt.Errorf("failed to compile expression %q: %w", expression, err)
	}

	output, err := expr.Run(program, data)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate expression %q: %w", expression, err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("expression %q did not evaluate to a boolean", expression)
	}

	return result, nil
}
