//go:build !script_eval

package settings

// NewScriptEngine is unavailable without the script_eval build tag.
func NewScriptEngine(opts ...ScriptEngineOption) RuleEngine {
	_ = applyScriptEngineOptions(opts)
	return nil
}

func scriptEngineAvailable() bool {
	return false
}
