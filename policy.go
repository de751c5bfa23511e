package settings

// Operation names one kind of mutating store call. The write policy receives
// it together with the WriteContext before any backend write happens.
type Operation string

const (
	OpSetOption     Operation = "set_option"
	OpAddOption     Operation = "add_option"
	OpAddOptions    Operation = "add_options"
	OpSaveAll       Operation = "save_all"
	OpDeleteOption  Operation = "delete_option"
	OpClear         Operation = "clear"
	OpSeedIfMissing Operation = "seed_if_missing"
	OpMigrate       Operation = "migrate"
)

// WriteContext is an immutable snapshot of a pending mutating operation. One
// named constructor exists per operation kind; the store fills in the scope
// and target fields from its bound storage before consulting the policy.
type WriteContext struct {
	Operation   Operation
	Scope       OptionScope
	Name        string
	Keys        []string
	ActorID     int64
	UserID      int64
	BlogID      int64
	UserGlobal  bool
	UserStorage UserStorageKind
	MergeFromDB bool
}

// SetOptionContext describes staging a single key.
func SetOptionContext(name, key string) WriteContext {
	return WriteContext{Operation: OpSetOption, Name: name, Keys: []string{key}}
}

// AddOptionContext describes a create-if-absent staging of a single key.
func AddOptionContext(name, key string) WriteContext {
	return WriteContext{Operation: OpAddOption, Name: name, Keys: []string{key}}
}

// AddOptionsContext describes staging a batch of keys.
func AddOptionsContext(name string, keys []string) WriteContext {
	return WriteContext{Operation: OpAddOptions, Name: name, Keys: cloneKeys(keys)}
}

// SaveAllContext describes persisting the full merged option map.
func SaveAllContext(name string, keys []string, mergeFromDB bool) WriteContext {
	return WriteContext{Operation: OpSaveAll, Name: name, Keys: cloneKeys(keys), MergeFromDB: mergeFromDB}
}

// DeleteOptionContext describes removing a single key.
func DeleteOptionContext(name, key string) WriteContext {
	return WriteContext{Operation: OpDeleteOption, Name: name, Keys: []string{key}}
}

// ClearContext describes deleting the whole backing option.
func ClearContext(name string) WriteContext {
	return WriteContext{Operation: OpClear, Name: name}
}

// SeedContext describes writing schema defaults for absent keys.
func SeedContext(name string, keys []string) WriteContext {
	return WriteContext{Operation: OpSeedIfMissing, Name: name, Keys: cloneKeys(keys)}
}

// MigrateContext describes copying a legacy backing option into name.
func MigrateContext(name, fromName string) WriteContext {
	return WriteContext{Operation: OpMigrate, Name: name, Keys: []string{fromName}}
}

// withTarget stamps the storage binding and acting identity onto the context.
func (ctx WriteContext) withTarget(target StorageContext, actorID int64) WriteContext {
	ctx.Scope = target.Scope
	ctx.BlogID = target.BlogID
	ctx.UserID = target.UserID
	ctx.UserGlobal = target.UserGlobal
	ctx.UserStorage = target.UserStorage
	ctx.ActorID = actorID
	return ctx
}

func cloneKeys(keys []string) []string {
	if len(keys) == 0 {
		return nil
	}
	return append([]string{}, keys...)
}

// WritePolicy is the authorization gate evaluated immediately before any
// mutating backend call. A false result aborts the operation; by default the
// store treats that as a silent no-op, in strict mode it surfaces
// ErrWriteDenied.
type WritePolicy interface {
	Allow(op Operation, ctx WriteContext) bool
}

// PolicyFunc allows plain functions to satisfy WritePolicy.
type PolicyFunc func(op Operation, ctx WriteContext) bool

// Allow dispatches to the underlying function.
func (fn PolicyFunc) Allow(op Operation, ctx WriteContext) bool {
	if fn == nil {
		return true
	}
	return fn(op, ctx)
}

// isManagement reports whether op is a management operation rather than a
// value write.
func (op Operation) isManagement() bool {
	switch op {
	case OpClear, OpSeedIfMissing, OpMigrate:
		return true
	default:
		return false
	}
}
