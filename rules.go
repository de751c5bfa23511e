package settings

import (
	"sync"
	"time"
)

// RuleContext carries the inputs a rule expression can see: the field under
// pipeline (Key/Value) and, for policy rules, the pending write.
type RuleContext struct {
	Key   string
	Value any
	Write *WriteContext
	Now   *time.Time
	Args  map[string]any
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) withDefaultArgs() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

// writeBinding flattens the pending write for expression environments.
func (ctx RuleContext) writeBinding() map[string]any {
	if ctx.Write == nil {
		return nil
	}
	return map[string]any{
		"operation":   string(ctx.Write.Operation),
		"scope":       ctx.Write.Scope.String(),
		"name":        ctx.Write.Name,
		"keys":        cloneKeys(ctx.Write.Keys),
		"actor_id":    ctx.Write.ActorID,
		"user_id":     ctx.Write.UserID,
		"blog_id":     ctx.Write.BlogID,
		"user_global": ctx.Write.UserGlobal,
	}
}

// RuleEngine executes rule expressions against a RuleContext. Engines back
// expression-driven validators, sanitizers and write policies.
type RuleEngine interface {
	Evaluate(ctx RuleContext, expression string) (any, error)
	Compile(expression string) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// ProgramCache stores compiled expression programs keyed by expression
// strings. Caches are explicit objects owned by whoever wires the engine,
// never process-wide singletons.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MapProgramCache is the built-in ProgramCache.
type MapProgramCache struct {
	mu       sync.RWMutex
	programs map[string]any
}

// NewProgramCache constructs an empty MapProgramCache.
func NewProgramCache() *MapProgramCache {
	return &MapProgramCache{programs: map[string]any{}}
}

// Get implements ProgramCache.
func (c *MapProgramCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.programs[key]
	return value, ok
}

// Set implements ProgramCache.
func (c *MapProgramCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.programs == nil {
		c.programs = map[string]any{}
	}
	c.programs[key] = value
}
