// Package filter selects recognition outcomes with CEL expressions such as
// `category == "duration" && value >= 3600`.
package filter

import (
	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"github.com/hrygo/recognizers/plugin/recognizer/model"
)

// ErrInvalid is returned for expressions that do not compile to a boolean.
var ErrInvalid = errors.New("invalid filter")

// Variables available to expressions.
const (
	VarCategory = "category"
	VarText     = "text"
	VarStart    = "start"
	VarLength   = "length"
	VarTimex    = "timex"
	VarValue    = "value"
	VarSuccess  = "success"
)

var env *cel.Env

func init() {
	var err error
	env, err = cel.NewEnv(
		cel.Variable(VarCategory, cel.StringType),
		cel.Variable(VarText, cel.StringType),
		cel.Variable(VarStart, cel.IntType),
		cel.Variable(VarLength, cel.IntType),
		cel.Variable(VarTimex, cel.StringType),
		cel.Variable(VarValue, cel.DoubleType),
		cel.Variable(VarSuccess, cel.BoolType),
	)
	if err != nil {
		panic(err)
	}
}

// Filter is a compiled expression. It is safe for concurrent use.
type Filter struct {
	expr string
	prg  cel.Program
}

// Compile parses and type-checks expr.
func Compile(expr string) (*Filter, error) {
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, errors.Wrapf(ErrInvalid, "%s: %v", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, errors.Wrapf(ErrInvalid, "%s: result is %s, want bool", expr, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalid, "%s: %v", expr, err)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expr
}

// Match evaluates the expression against one outcome.
func (f *Filter) Match(o model.ParseOutcome) (bool, error) {
	vars := map[string]any{
		VarCategory: string(o.Category),
		VarText:     o.Text,
		VarStart:    int64(o.Start),
		VarLength:   int64(o.Length),
		VarTimex:    o.TimexStr,
		VarValue:    0.0,
		VarSuccess:  o.Resolved(),
	}
	if o.Resolved() {
		vars[VarValue] = o.Value.FutureValue
	}
	out, _, err := f.prg.Eval(vars)
	if err != nil {
		return false, errors.Wrapf(err, "evaluate %s", f.expr)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, errors.Errorf("filter %s returned %T", f.expr, out.Value())
	}
	return b, nil
}

// Apply keeps the outcomes the expression accepts, preserving order.
func (f *Filter) Apply(outcomes []model.ParseOutcome) ([]model.ParseOutcome, error) {
	kept := make([]model.ParseOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		ok, err := f.Match(o)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, o)
		}
	}
	return kept, nil
}
