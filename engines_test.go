package settings

import (
	"errors"
	"strings"
	"testing"
)

// engineFactories drives the cross-engine tests. The script engine only
// exists behind its build tag; its tests skip when the stub is compiled in.
var engineFactories = []struct {
	name      string
	available func() bool
	build     func(cache ProgramCache, registry *FunctionRegistry) RuleEngine
	matchExpr string
}{
	{
		name:      "expr",
		available: func() bool { return true },
		build: func(cache ProgramCache, registry *FunctionRegistry) RuleEngine {
			return NewExprEngine(ExprWithProgramCache(cache), ExprWithFunctionRegistry(registry))
		},
		matchExpr: `value == "dusk" && key == "theme"`,
	},
	{
		name:      "cel",
		available: func() bool { return true },
		build: func(cache ProgramCache, registry *FunctionRegistry) RuleEngine {
			return NewCELEngine(CELWithProgramCache(cache), CELWithFunctionRegistry(registry))
		},
		matchExpr: `value == "dusk" && key == "theme"`,
	},
	{
		name:      "script",
		available: scriptEngineAvailable,
		build: func(cache ProgramCache, registry *FunctionRegistry) RuleEngine {
			return NewScriptEngine(ScriptWithProgramCache(cache), ScriptWithFunctionRegistry(registry))
		},
		matchExpr: `value === "dusk" && key === "theme"`,
	},
}

func TestEnginesEvaluateContextBindings(t *testing.T) {
	for _, factory := range engineFactories {
		t.Run(factory.name, func(t *testing.T) {
			if !factory.available() {
				t.Skip("engine not compiled in")
			}
			engine := factory.build(nil, nil)

			result, err := engine.Evaluate(RuleContext{Key: "theme", Value: "dusk"}, factory.matchExpr)
			if err != nil {
				t.Fatalf("unexpected evaluate error: %v", err)
			}
			if result != true {
				t.Fatalf("expected true, got %v", result)
			}

			result, err = engine.Evaluate(RuleContext{Key: "theme", Value: "dawn"}, factory.matchExpr)
			if err != nil {
				t.Fatalf("unexpected evaluate error: %v", err)
			}
			if result != false {
				t.Fatalf("expected false, got %v", result)
			}
		})
	}
}

func TestEnginesCompileReuse(t *testing.T) {
	for _, factory := range engineFactories {
		t.Run(factory.name, func(t *testing.T) {
			if !factory.available() {
				t.Skip("engine not compiled in")
			}
			engine := factory.build(nil, nil)

			rule, err := engine.Compile(factory.matchExpr)
			if err != nil {
				t.Fatalf("unexpected compile error: %v", err)
			}
			for _, tc := range []struct {
				value any
				want  any
			}{
				{"dusk", true},
				{"dawn", false},
			} {
				result, err := rule.Evaluate(RuleContext{Key: "theme", Value: tc.value})
				if err != nil {
					t.Fatalf("unexpected evaluate error: %v", err)
				}
				if result != tc.want {
					t.Fatalf("value %v: expected %v, got %v", tc.value, tc.want, result)
				}
			}
		})
	}
}

func TestEnginesRejectEmptyExpression(t *testing.T) {
	for _, factory := range engineFactories {
		t.Run(factory.name, func(t *testing.T) {
			if !factory.available() {
				t.Skip("engine not compiled in")
			}
			engine := factory.build(nil, nil)
			if _, err := engine.Evaluate(RuleContext{}, ""); err == nil {
				t.Fatalf("expected an error for an empty expression")
			}
			if _, err := engine.Compile(""); err == nil {
				t.Fatalf("expected a compile error for an empty expression")
			}
		})
	}
}

func TestExprEngineRejectsBadSyntax(t *testing.T) {
	engine := NewExprEngine()
	_, err := engine.Evaluate(RuleContext{}, "value >")
	if err == nil {
		t.Fatalf("expected a syntax error")
	}
	if !strings.Contains(err.Error(), "settings:") {
		t.Fatalf("expected the error to carry the package prefix, got %v", err)
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected an EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" {
		t.Fatalf("expected engine expr, got %q", evalErr.Engine)
	}
}

func TestProgramCacheIsConsulted(t *testing.T) {
	for _, factory := range engineFactories {
		t.Run(factory.name, func(t *testing.T) {
			if !factory.available() {
				t.Skip("engine not compiled in")
			}
			cache := &countingCache{inner: NewProgramCache()}
			engine := factory.build(cache, nil)

			expression := factory.matchExpr
			if _, err := engine.Evaluate(RuleContext{Key: "theme", Value: "dusk"}, expression); err != nil {
				t.Fatalf("unexpected evaluate error: %v", err)
			}
			if _, err := engine.Evaluate(RuleContext{Key: "theme", Value: "dawn"}, expression); err != nil {
				t.Fatalf("unexpected evaluate error: %v", err)
			}
			if cache.sets != 1 {
				t.Fatalf("expected one compile, got %d", cache.sets)
			}
			if cache.hits == 0 {
				t.Fatalf("expected the second evaluation to hit the cache")
			}
		})
	}
}

// countingCache wraps a ProgramCache and counts traffic.
type countingCache struct {
	inner ProgramCache
	hits  int
	sets  int
}

func (c *countingCache) Get(key string) (any, bool) {
	value, ok := c.inner.Get(key)
	if ok {
		c.hits++
	}
	return value, ok
}

func (c *countingCache) Set(key string, value any) {
	c.sets++
	c.inner.Set(key, value)
}

func TestFunctionRegistryThroughExpr(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("double", func(args ...any) (any, error) {
		n, _ := asInt64(args[0])
		return n * 2, nil
	}); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}

	engine := NewExprEngine(ExprWithFunctionRegistry(registry))

	result, err := engine.Evaluate(RuleContext{}, "double(21)")
	if err != nil {
		t.Fatalf("unexpected evaluate error: %v", err)
	}
	if n, _ := asInt64(result); n != 42 {
		t.Fatalf("expected 42, got %v", result)
	}

	result, err = engine.Evaluate(RuleContext{}, `call("double", 21)`)
	if err != nil {
		t.Fatalf("unexpected evaluate error: %v", err)
	}
	if n, _ := asInt64(result); n != 42 {
		t.Fatalf("expected 42, got %v", result)
	}
}

func TestFunctionRegistryThroughCEL(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("double", func(args ...any) (any, error) {
		n, _ := asInt64(args[0])
		return n * 2, nil
	}); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}

	engine := NewCELEngine(CELWithFunctionRegistry(registry))
	result, err := engine.Evaluate(RuleContext{}, `call("double", 21)`)
	if err != nil {
		t.Fatalf("unexpected evaluate error: %v", err)
	}
	if n, _ := asInt64(result); n != 42 {
		t.Fatalf("expected 42, got %v", result)
	}
}

func TestFunctionRegistry(t *testing.T) {
	registry := NewFunctionRegistry()
	fn := func(args ...any) (any, error) { return len(args), nil }

	if err := registry.Register("count", fn); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
	if err := registry.Register("count", fn); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := registry.Register("", fn); err == nil {
		t.Fatalf("expected empty name to fail")
	}
	if err := registry.Register("nil", nil); err == nil {
		t.Fatalf("expected nil function to fail")
	}

	if _, err := registry.Call("missing"); err == nil {
		t.Fatalf("expected unknown function call to fail")
	}
	result, err := registry.Call("COUNT", 1, 2, 3)
	if err != nil {
		t.Fatalf("unexpected call error: %v", err)
	}
	if result != 3 {
		t.Fatalf("expected 3, got %v", result)
	}

	clone := registry.Clone()
	if err := clone.Register("extra", fn); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
	if _, err := registry.Call("extra"); err == nil {
		t.Fatalf("clone registrations must not leak back")
	}
}

func TestRuleValidator(t *testing.T) {
	engine := NewExprEngine()
	validator := RuleValidator(engine, `value != ""`)

	var warnings []string
	warn := func(message string) { warnings = append(warnings, message) }

	if !validator.Validate("dusk", warn) {
		t.Fatalf("expected a non-empty value to pass")
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}

	if validator.Validate("", warn) {
		t.Fatalf("expected an empty value to fail")
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
}

func TestRuleValidatorNonBoolRejects(t *testing.T) {
	validator := RuleValidator(NewExprEngine(), "value")

	var warnings []string
	if validator.Validate("text", func(m string) { warnings = append(warnings, m) }) {
		t.Fatalf("expected a non-bool rule result to reject")
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "want bool") {
		t.Fatalf("expected a type warning, got %v", warnings)
	}
}

func TestRuleValidatorWithoutEngineRejects(t *testing.T) {
	validator := RuleValidator(nil, "true")
	if validator.Validate("anything", nil) {
		t.Fatalf("expected rejection without an engine")
	}
}

func TestRuleSanitizer(t *testing.T) {
	engine := NewExprEngine()
	sanitizer := RuleSanitizer(engine, `value + "!"`)

	var notices []string
	got := sanitizer.Sanitize("hi", func(m string) { notices = append(notices, m) })
	if got != "hi!" {
		t.Fatalf("expected hi!, got %v", got)
	}
	if len(notices) != 0 {
		t.Fatalf("expected no notices, got %v", notices)
	}
}

func TestRuleSanitizerBadRuleLeavesValue(t *testing.T) {
	sanitizer := RuleSanitizer(NewExprEngine(), `value +`)

	var notices []string
	got := sanitizer.Sanitize("hi", func(m string) { notices = append(notices, m) })
	if got != "hi" {
		t.Fatalf("expected the value to pass through, got %v", got)
	}
	if len(notices) != 1 {
		t.Fatalf("expected one notice, got %v", notices)
	}
}
