package settings

type scriptEngineConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// ScriptEngineOption configures the script engine.
type ScriptEngineOption func(*scriptEngineConfig)

// ScriptWithProgramCache applies a ProgramCache to the script engine.
func ScriptWithProgramCache(cache ProgramCache) ScriptEngineOption {
	return func(cfg *scriptEngineConfig) {
		cfg.cache = cache
	}
}

// ScriptWithFunctionRegistry applies a FunctionRegistry to the script engine.
func ScriptWithFunctionRegistry(registry *FunctionRegistry) ScriptEngineOption {
	return func(cfg *scriptEngineConfig) {
		if registry == nil {
			return
		}
		cfg.registry = registry.Clone()
	}
}

func applyScriptEngineOptions(opts []ScriptEngineOption) scriptEngineConfig {
	cfg := scriptEngineConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
