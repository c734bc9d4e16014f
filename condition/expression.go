package condition

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/kbukum/dmnkit/errors"
)

// ExpressionCondition evaluates a compiled CEL expression. The expression sees
// two variables: props, a map of dot-separated property keys, and beans, the
// list of registered bean keys.
//
//	props["flowable.dmn.enabled"] == true && !("dmnEngine" in beans)
type ExpressionCondition struct {
	source  string
	program cel.Program
}

var expressionEnv = mustEnv()

func mustEnv() *cel.Env {
	env, err := cel.NewEnv(
		cel.Variable("props", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("beans", cel.ListType(cel.StringType)),
	)
	if err != nil {
		panic(fmt.Sprintf("condition: failed to create CEL environment: %v", err))
	}
	return env
}

// Expression compiles a CEL expression into a condition. The expression must
// produce a bool.
func Expression(expr string) (*ExpressionCondition, error) {
	ast, issues := expressionEnv.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, errors.ConditionFailed(expr, issues.Err())
	}
	if ast.OutputType() != cel.BoolType && ast.OutputType() != cel.DynType {
		return nil, errors.ConditionFailed(expr, fmt.Errorf("expression must return bool, got %s", ast.OutputType()))
	}

	program, err := expressionEnv.Program(ast)
	if err != nil {
		return nil, errors.ConditionFailed(expr, err)
	}
	return &ExpressionCondition{source: expr, program: program}, nil
}

// MustExpression is Expression that panics on a compile error.
func MustExpression(expr string) *ExpressionCondition {
	c, err := Expression(expr)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the expression source.
func (e *ExpressionCondition) String() string { return e.source }

// Evaluate implements Condition.
func (e *ExpressionCondition) Evaluate(ctx Context) (Outcome, error) {
	props := make(map[string]any)
	for k, v := range ctx.Properties() {
		props[k] = v
	}
	beans := ctx.Beans()
	if beans == nil {
		beans = []string{}
	}

	out, _, err := e.program.Eval(map[string]any{
		"props": props,
		"beans": beans,
	})
	if err != nil {
		return Outcome{}, errors.ConditionFailed(e.source, err)
	}

	b, ok := out.(types.Bool)
	if !ok {
		return Outcome{}, errors.ConditionFailed(e.source, fmt.Errorf("expression returned %s, not bool", out.Type()))
	}
	if b {
		return Outcome{Match: true, Message: fmt.Sprintf("expression %s resulted in true", e.source)}, nil
	}
	return Outcome{Match: false, Message: fmt.Sprintf("expression %s resulted in false", e.source)}, nil
}

// OnExpressionProperty evaluates the CEL expression bound to key. A missing
// or blank key matches. Compiled programs are cached per source.
func OnExpressionProperty(key string) Condition {
	var (
		mu       sync.Mutex
		compiled = map[string]*ExpressionCondition{}
	)
	return Func(func(ctx Context) (Outcome, error) {
		v, ok := ctx.Property(key)
		src := ""
		if ok && v != nil {
			src = strings.TrimSpace(fmt.Sprint(v))
		}
		if src == "" {
			return Outcome{Match: true, Message: fmt.Sprintf("property %s not set, matching by default", key)}, nil
		}

		mu.Lock()
		expr, ok := compiled[src]
		if !ok {
			var err error
			if expr, err = Expression(src); err != nil {
				mu.Unlock()
				return Outcome{}, err
			}
			compiled[src] = expr
		}
		mu.Unlock()
		return expr.Evaluate(ctx)
	})
}
