/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package strategy

import (
	"fmt"
	"strings"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"dirpx.dev/tuid/apis"
	uref "dirpx.dev/tuid/utils/reflect"
)

// CompileExpression compiles an expr-lang provider expression.
//
// The expression sees class, method, count, params (explicit parameters),
// args (live invocation parameters), dataProvider and instance, plus
// display(x), which applies the stable string coercion. A nil result means
// "no value". Compilation failures are reported as apis.ErrSignatureMismatch.
func CompileExpression(expression string) (apis.Generator, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("%w: expression must not be empty", apis.ErrSignatureMismatch)
	}

	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.Function("display", display),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apis.ErrSignatureMismatch, err)
	}
	return &exprGenerator{program: program}, nil
}

type exprGenerator struct {
	program *exprvm.Program
}

func (g *exprGenerator) Generate(tc apis.TestContext, count int, params ...any) (string, error) {
	out, err := exprlang.Run(g.program, environment(tc, count, params))
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", nil
	}
	s, _ := uref.DisplayString(out)
	return s, nil
}

func environment(tc apis.TestContext, count int, params []any) map[string]any {
	if params == nil {
		params = []any{}
	}
	args := tc.Parameters
	if args == nil {
		args = []any{}
	}
	return map[string]any{
		"class":        tc.Class,
		"method":       tc.Method,
		"count":        count,
		"params":       params,
		"args":         args,
		"dataProvider": tc.DataProvider,
		"instance":     tc.Instance,
	}
}

func display(arguments ...any) (any, error) {
	if len(arguments) != 1 {
		return nil, fmt.Errorf("display: want 1 argument, got %d", len(arguments))
	}
	s, ok := uref.DisplayString(arguments[0])
	if !ok {
		return "null", nil
	}
	return s, nil
}
