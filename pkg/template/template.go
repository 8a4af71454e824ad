// Package template resolves dot-path variable references against a data
// context and performs {{path}} substitution in step configuration strings.
package template

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// ResolvePath walks root key by key along a dot-separated path. It returns
// the value and true when every segment resolves; missing segments are not
// an error, they yield (nil, false). A found nil value returns (nil, true)
// so callers can distinguish null from absent.
func ResolvePath(root map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	var current any = root

	for _, key := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		value, ok := node[key]
		if !ok {
			return nil, false
		}

		current = value
	}

	return current, true
}

// Substitute replaces every {{ path }} occurrence in the input with the
// value resolved against data. Unresolvable placeholders are preserved
// verbatim, so an unresolved template stays visibly unresolved instead of
// being silently emptied. Null resolves to the literal "null"; objects and
// arrays render as their JSON serialization.
func Substitute(input string, data map[string]any) string {
	return placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		path := strings.TrimSpace(placeholderPattern.FindStringSubmatch(match)[1])

		value, ok := ResolvePath(data, path)
		if !ok {
			return match
		}

		return Stringify(value)
	})
}

// Stringify renders a resolved context value as a string. Numbers keep
// their shortest representation, nil renders as "null", and composite
// values render as JSON.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case map[string]any, []any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}

		return string(encoded)
	default:
		return fmt.Sprintf("%v", v)
	}
}
