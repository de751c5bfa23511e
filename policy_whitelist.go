package settings

// WhitelistPolicy is the self-service reference policy: the actor may only
// touch keys on a fixed allow-list. Management operations (clear, seed,
// migrate) are unconditionally denied, and a batch is denied whole whenever
// any of its keys falls outside the list; there are no partial writes.
type WhitelistPolicy struct {
	allowed map[string]struct{}
}

// NewWhitelistPolicy builds the policy from the allow-listed keys. Keys are
// normalized the same way schema keys are.
func NewWhitelistPolicy(keys ...string) *WhitelistPolicy {
	allowed := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		allowed[NormalizeKey(key)] = struct{}{}
	}
	return &WhitelistPolicy{allowed: allowed}
}

// Allow implements WritePolicy.
func (p *WhitelistPolicy) Allow(op Operation, ctx WriteContext) bool {
	if op.isManagement() {
		return false
	}
	for _, key := range ctx.Keys {
		if _, ok := p.allowed[NormalizeKey(key)]; !ok {
			return false
		}
	}
	return true
}
