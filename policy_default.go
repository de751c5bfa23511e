package settings

import "github.com/goliatone/go-settings/pkg/host"

const (
	defaultManageCapability   = "manage_options"
	defaultNetworkCapability  = "manage_network_options"
	defaultElevatedCapability = "edit_users"
)

// DefaultPolicy is the restrictive reference policy. Network scope requires a
// network-admin capability; user scope requires the actor to be the target
// user or hold an elevated capability against them; everything else requires
// the generic manage capability.
type DefaultPolicy struct {
	caps host.Capabilities

	manageCapability   string
	networkCapability  string
	elevatedCapability string
}

// DefaultPolicyOption tweaks the capability names the policy checks.
type DefaultPolicyOption func(*DefaultPolicy)

// WithManageCapability overrides the generic manage-options capability name.
func WithManageCapability(name string) DefaultPolicyOption {
	return func(p *DefaultPolicy) { p.manageCapability = name }
}

// WithNetworkCapability overrides the network-admin capability name.
func WithNetworkCapability(name string) DefaultPolicyOption {
	return func(p *DefaultPolicy) { p.networkCapability = name }
}

// WithElevatedCapability overrides the capability that lets an actor touch
// another user's settings.
func WithElevatedCapability(name string) DefaultPolicyOption {
	return func(p *DefaultPolicy) { p.elevatedCapability = name }
}

// NewDefaultPolicy builds the policy around the host's capability check.
func NewDefaultPolicy(caps host.Capabilities, opts ...DefaultPolicyOption) *DefaultPolicy {
	policy := &DefaultPolicy{
		caps:               caps,
		manageCapability:   defaultManageCapability,
		networkCapability:  defaultNetworkCapability,
		elevatedCapability: defaultElevatedCapability,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(policy)
		}
	}
	return policy
}

// Allow implements WritePolicy.
func (p *DefaultPolicy) Allow(_ Operation, ctx WriteContext) bool {
	switch ctx.Scope {
	case ScopeNetwork:
		return p.can(ctx.ActorID, p.networkCapability, 0)
	case ScopeUser:
		if ctx.ActorID > 0 && ctx.ActorID == ctx.UserID {
			return true
		}
		return p.can(ctx.ActorID, p.elevatedCapability, ctx.UserID)
	default:
		return p.can(ctx.ActorID, p.manageCapability, 0)
	}
}

func (p *DefaultPolicy) can(actorID int64, capability string, target int64) bool {
	if p.caps == nil {
		return false
	}
	return p.caps.Can(actorID, capability, target)
}
