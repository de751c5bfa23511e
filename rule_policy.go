package settings

import "fmt"

// RulePolicy is an expression-backed WritePolicy: the rule sees the pending
// write (operation, scope, keys, actor) and must evaluate to true for the
// operation to proceed. Evaluation errors and non-bool results deny.
type RulePolicy struct {
	engine RuleEngine
	expr   string
	rule   CompiledRule
}

// NewRulePolicy compiles expression against engine. The compiled program is
// reused across Allow calls.
func NewRulePolicy(engine RuleEngine, expression string) (*RulePolicy, error) {
	if engine == nil {
		return nil, fmt.Errorf("settings: rule policy requires an engine")
	}
	rule, err := engine.Compile(expression)
	if err != nil {
		return nil, err
	}
	return &RulePolicy{engine: engine, expr: expression, rule: rule}, nil
}

// Allow implements WritePolicy.
func (p *RulePolicy) Allow(_ Operation, ctx WriteContext) bool {
	if p == nil || p.rule == nil {
		return false
	}
	result, err := p.rule.Evaluate(RuleContext{Write: &ctx})
	if err != nil {
		return false
	}
	allowed, ok := result.(bool)
	return ok && allowed
}
