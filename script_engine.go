//go:build script_eval

package settings

import (
	"fmt"

	"github.com/dop251/goja"
)

type scriptEngine struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewScriptEngine constructs a RuleEngine backed by goja.
func NewScriptEngine(opts ...ScriptEngineOption) RuleEngine {
	cfg := applyScriptEngineOptions(opts)
	return &scriptEngine{
		cache:    cfg.cache,
		registry: cfg.registry,
	}
}

func (e *scriptEngine) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, wrapEngineError("script", fmt.Errorf("expression must not be empty"))
	}
	ctx = ctx.withDefaultNow().withDefaultArgs()
	if e.cache == nil {
		return e.run(ctx, expression, nil)
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, expression, program)
}

func (e *scriptEngine) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, wrapEngineError("script", fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &scriptCompiledRule{
		engine:     e,
		expression: expression,
		program:    program,
	}, nil
}

func (e *scriptEngine) loadOrCompile(expression string) (*goja.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", e.wrapExpression(expression), false)
	if err != nil {
		return nil, wrapEvaluationError("script", expression, err)
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return program, nil
}

func (e *scriptEngine) run(ctx RuleContext, expression string, program *goja.Program) (any, error) {
	vm := goja.New()
	e.injectContext(vm, ctx)
	if program != nil {
		value, err := vm.RunProgram(program)
		if err != nil {
			return nil, wrapEvaluationError("script", expression, err)
		}
		return value.Export(), nil
	}
	value, err := vm.RunString(e.wrapExpression(expression))
	if err != nil {
		return nil, wrapEvaluationError("script", expression, err)
	}
	return value.Export(), nil
}

func (e *scriptEngine) injectContext(vm *goja.Runtime, ctx RuleContext) {
	vm.Set("key", ctx.Key)
	vm.Set("value", ctx.Value)
	vm.Set("now", ctx.timestamp())
	vm.Set("args", ctx.Args)
	if binding := ctx.writeBinding(); binding != nil {
		vm.Set("write", binding)
	}
	if e.registry != nil {
		vm.Set("call", func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		})
		for _, name := range e.registry.Names() {
			fn := name
			vm.Set(fn, func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			})
		}
	}
}

func (e *scriptEngine) wrapExpression(expression string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", expression)
}

type scriptCompiledRule struct {
	engine     *scriptEngine
	expression string
	program    *goja.Program
}

func (r *scriptCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	if r.engine == nil {
		return nil, wrapEngineError("script", fmt.Errorf("compiled rule missing engine"))
	}
	ctx = ctx.withDefaultNow().withDefaultArgs()
	return r.engine.run(ctx, r.expression, r.program)
}

func scriptEngineAvailable() bool {
	return true
}
