package settings

import "fmt"

// RuleValidator adapts a rule expression into a schema Validator. The
// expression sees the candidate value as "value" (and the field key as
// "key") and must evaluate to a bool. Errors and non-bool results reject the
// value with a warning.
func RuleValidator(engine RuleEngine, expression string) Validator {
	var rule CompiledRule
	if engine != nil {
		rule, _ = engine.Compile(expression)
	}
	return ValidatorFunc(func(value any, warn EmitFunc) bool {
		if rule == nil {
			if warn != nil {
				warn(fmt.Sprintf("rule %q is not available", expression))
			}
			return false
		}
		result, err := rule.Evaluate(RuleContext{Value: value})
		if err != nil {
			if warn != nil {
				warn(err.Error())
			}
			return false
		}
		ok, isBool := result.(bool)
		if !isBool {
			if warn != nil {
				warn(fmt.Sprintf("rule %q returned %T, want bool", expression, result))
			}
			return false
		}
		if !ok && warn != nil {
			warn(fmt.Sprintf("value rejected by rule %q", expression))
		}
		return ok
	})
}

// RuleSanitizer adapts a rule expression into a schema Sanitizer. The
// expression's result replaces the value; evaluation errors leave the value
// untouched and emit a notice.
func RuleSanitizer(engine RuleEngine, expression string) Sanitizer {
	var rule CompiledRule
	if engine != nil {
		rule, _ = engine.Compile(expression)
	}
	return SanitizerFunc(func(value any, notice EmitFunc) any {
		if rule == nil {
			if notice != nil {
				notice(fmt.Sprintf("rule %q is not available", expression))
			}
			return value
		}
		result, err := rule.Evaluate(RuleContext{Value: value})
		if err != nil {
			if notice != nil {
				notice(err.Error())
			}
			return value
		}
		return result
	})
}
