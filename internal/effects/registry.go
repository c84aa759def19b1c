// Package effects is the ability and stratagem boundary: it evaluates
// CEL conditions from ability manifests and grants effect flags on
// units. The resolution engine only ever reads those flags; granting
// and clearing them happens here, through ordinary flag diffs.
package effects

import (
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// Registry manages the CEL environment abilities are compiled against.
type Registry struct {
	env *cel.Env
}

// NewRegistry initializes the CEL environment with the combat context
// variables and a dice-roll helper.
func NewRegistry(rollFunc func(string) int) (*Registry, error) {
	env, err := cel.NewEnv(
		cel.Variable("attacker", cel.MapType(cel.StringType, cel.AnyType)),
		cel.Variable("target", cel.MapType(cel.StringType, cel.AnyType)),
		cel.Variable("weapon", cel.MapType(cel.StringType, cel.AnyType)),

		cel.Function("roll",
			cel.Overload("roll_string",
				[]*cel.Type{cel.StringType},
				cel.IntType,
				cel.UnaryBinding(func(arg ref.Val) ref.Val {
					s := arg.Value().(string)
					return types.Int(rollFunc(s))
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}
	return &Registry{env: env}, nil
}

// Compile builds an evaluable program from a condition expression.
func (r *Registry) Compile(expression string) (cel.Program, error) {
	ast, iss := r.env.Compile(expression)
	if iss.Err() != nil {
		return nil, iss.Err()
	}
	return r.env.Program(ast)
}

// Eval compiles and runs an expression against the context. Intended
// for one-off conditions; manifests compile once at load.
func (r *Registry) Eval(expression string, context map[string]any) (any, error) {
	prog, err := r.Compile(expression)
	if err != nil {
		return nil, err
	}
	out, _, err := prog.Eval(context)
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}
