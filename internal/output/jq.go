package output

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itchyny/gojq"
)

// Filter is a compiled --jq expression.
type Filter struct {
	expr string
	code *gojq.Code
}

// CompileFilter parses and compiles a jq expression. Syntax errors are
// usage errors.
func CompileFilter(expr string) (*Filter, error) {
	q, err := gojq.Parse(expr)
	if err != nil {
		return nil, ErrUsageHint(fmt.Sprintf("invalid --jq expression: %v", err), "See https://jqlang.org/manual/")
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, ErrUsage(fmt.Sprintf("invalid --jq expression: %v", err))
	}
	return &Filter{expr: expr, code: code}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expr
}

// Apply runs the filter over data and collects every emitted value.
func (f *Filter) Apply(data any) ([]any, error) {
	input, err := toJQValue(data)
	if err != nil {
		return nil, err
	}

	var results []any
	iter := f.code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			return nil, ErrUsage(fmt.Sprintf("--jq %s: %v", f.expr, err))
		}
		results = append(results, v)
	}
	return results, nil
}

// toJQValue converts typed values to the plain JSON types gojq operates on.
func toJQValue(data any) (any, error) {
	var raw []byte
	switch v := data.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		raw = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding data for --jq: %w", err)
		}
		raw = b
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding data for --jq: %w", err)
	}
	return out, nil
}
