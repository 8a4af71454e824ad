package models

// Operator is a comparison operator applied to a resolved context value.
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "not_equals"
	OperatorContains    Operator = "contains"
	OperatorNotContains Operator = "not_contains"
	OperatorStartsWith  Operator = "starts_with"
	OperatorEndsWith    Operator = "ends_with"
	OperatorIsEmpty     Operator = "is_empty"
	OperatorIsNotEmpty  Operator = "is_not_empty"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
)

// LogicalOperator combines the conditions of a group.
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "AND"
	LogicalOr  LogicalOperator = "OR"
)

// Condition is a single comparison rule. Variable is a dot-path into the
// data context; Value is unused for the emptiness operators.
type Condition struct {
	ID       string   `json:"id"`
	Variable string   `json:"variable" validate:"required"`
	Operator Operator `json:"operator" validate:"required"`
	Value    string   `json:"value"`
}

// ConditionGroup is a set of conditions combined by a logical operator.
// An empty condition set always matches.
//
// Expression is an optional escape hatch: when set, the group is evaluated
// as a boolean expr-lang expression against the data context instead of the
// rule list.
type ConditionGroup struct {
	Conditions      []Condition     `json:"conditions"`
	LogicalOperator LogicalOperator `json:"logical_operator"`
	Expression      string          `json:"expression,omitempty"`
}
