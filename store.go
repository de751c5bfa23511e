package settings

import (
	"fmt"
	"sort"
	"time"

	"github.com/goliatone/go-settings/pkg/activity"
)

// Store orchestrates one backing option: it owns the schema, the staged
// buffer, the committed cache and the message sink, and runs every mutating
// call through the write policy.
//
// A store binds exactly one storage adapter for its lifetime; the scope
// cannot change after construction. Reads never touch the backend directly,
// they go through the committed cache loaded at construction and refreshed
// after each successful flush.
type Store struct {
	name    string
	storage OptionStorage
	cfg     storeConfig
	target  StorageContext

	schema    Schema
	staged    map[string]any
	committed map[string]any
	sink      *messageSink
}

type storeConfig struct {
	policy   WritePolicy
	logger   WriteLogger
	hooks    activity.Hooks
	actorID  int64
	strict   bool
	autoload bool
	target   *StorageContext
}

// StoreOption configures a Store at construction.
type StoreOption func(*storeConfig)

// WithWritePolicy installs the authorization gate. Without one every
// operation is allowed.
func WithWritePolicy(policy WritePolicy) StoreOption {
	return func(cfg *storeConfig) {
		cfg.policy = policy
	}
}

// WithStrict converts denied and failed writes into returned errors instead
// of silent no-ops.
func WithStrict(strict bool) StoreOption {
	return func(cfg *storeConfig) {
		cfg.strict = strict
	}
}

// WithActor records the acting identity stamped onto every WriteContext.
func WithActor(actorID int64) StoreOption {
	return func(cfg *storeConfig) {
		cfg.actorID = actorID
	}
}

// WithAutoload requests autoload for the backing option on backends that
// support it; elsewhere the flag is silently ignored.
func WithAutoload(autoload bool) StoreOption {
	return func(cfg *storeConfig) {
		cfg.autoload = autoload
	}
}

// WithTarget supplies the resolved storage context consumed by the write
// policy. Without it the store derives scope and blog id from its adapter,
// which leaves per-user targeting unknown to policies.
func WithTarget(target StorageContext) StoreOption {
	return func(cfg *storeConfig) {
		cfg.target = &target
	}
}

// New constructs a Store bound to the backing option name on storage, and
// loads the committed cache with one backend read.
func New(name string, storage OptionStorage, opts ...StoreOption) (*Store, error) {
	if NormalizeKey(name) == "" {
		return nil, ErrNameRequired
	}
	if storage == nil {
		return nil, ErrStorageRequired
	}

	cfg := storeConfig{logger: noopWriteLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	store := &Store{
		name:    NormalizeKey(name),
		storage: storage,
		cfg:     cfg,
		schema:  Schema{},
		staged:  map[string]any{},
		sink:    newMessageSink(),
	}
	if cfg.target != nil {
		store.target = *cfg.target
	} else {
		store.target = StorageContext{Scope: storage.Scope(), BlogID: storage.BlogID()}
	}
	store.reload()
	return store, nil
}

// Name returns the backing option name.
func (s *Store) Name() string { return s.name }

// Scope returns the bound storage scope.
func (s *Store) Scope() OptionScope { return s.storage.Scope() }

// reload refreshes the committed cache from the backend.
func (s *Store) reload() {
	raw, ok := s.storage.Read(s.name)
	if !ok {
		s.committed = map[string]any{}
		return
	}
	s.committed = asOptionMap(raw)
}

// RegisterSchema shallow-merges schema into the registered one; later
// registrations win per key. With seed, absent schema-covered keys are staged
// at their defaults; with flush, the staged buffer is persisted right away.
func (s *Store) RegisterSchema(schema Schema, seed, flush bool) error {
	if err := schema.validate(); err != nil {
		return err
	}
	for key, entry := range schema.normalized() {
		s.schema[key] = entry
	}

	if seed {
		missing := s.missingSchemaKeys()
		if len(missing) > 0 {
			ctx := SeedContext(s.name, missing).withTarget(s.target, s.cfg.actorID)
			if s.allow(ctx) {
				for _, key := range missing {
					s.staged[key] = s.schema[key].Default
				}
			} else if s.cfg.strict {
				return fmt.Errorf("%w: %s", ErrWriteDenied, OpSeedIfMissing)
			}
		}
	}
	if flush {
		return s.Flush(true)
	}
	return nil
}

// SchemaKeys returns the registered schema keys, sorted.
func (s *Store) SchemaKeys() []string {
	keys := make([]string, 0, len(s.schema))
	for key := range s.schema {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// GetOption reads key from the committed cache. Schema-covered keys fall
// back to their default, everything else to def, so a covered key is never
// undefined.
func (s *Store) GetOption(key string, def any) any {
	normalized := NormalizeKey(key)
	if value, ok := s.committed[normalized]; ok {
		return value
	}
	if entry, ok := s.schema[normalized]; ok {
		return entry.Default
	}
	return def
}

// GetOptions returns a copy of the committed map with schema defaults filled
// in for absent covered keys.
func (s *Store) GetOptions() map[string]any {
	out := cloneOptionMap(s.committed)
	for key, entry := range s.schema {
		if _, ok := out[key]; !ok {
			out[key] = entry.Default
		}
	}
	return out
}

// SetOption stages one key through the sanitize/validate pipeline. No I/O
// happens until flush or commit. Chainable.
func (s *Store) SetOption(key string, value any) *Store {
	ctx := SetOptionContext(s.name, NormalizeKey(key)).withTarget(s.target, s.cfg.actorID)
	if !s.allowStaging(ctx) {
		return s
	}
	s.stageKey(NormalizeKey(key), value)
	return s
}

// AddOption stages key only when it is absent from both the committed map
// and the staged buffer. Chainable.
func (s *Store) AddOption(key string, value any) *Store {
	normalized := NormalizeKey(key)
	if _, exists := s.committed[normalized]; exists {
		return s
	}
	if _, exists := s.staged[normalized]; exists {
		return s
	}
	ctx := AddOptionContext(s.name, normalized).withTarget(s.target, s.cfg.actorID)
	if !s.allowStaging(ctx) {
		return s
	}
	s.stageKey(normalized, value)
	return s
}

// AddOptions stages a batch of keys. The policy sees the whole batch: one
// denial drops all of it. Chainable.
func (s *Store) AddOptions(values map[string]any) *Store {
	if len(values) == 0 {
		return s
	}
	keys := normalizedKeys(values)
	ctx := AddOptionsContext(s.name, keys).withTarget(s.target, s.cfg.actorID)
	if !s.allowStaging(ctx) {
		return s
	}
	for _, key := range keys {
		s.stageKey(key, valueForKey(values, key))
	}
	return s
}

// StageOptions buffers a candidate payload (e.g. a submitted form) through
// the pipeline without consulting the policy; authorization happens when the
// batch is committed. Chainable.
func (s *Store) StageOptions(values map[string]any) *Store {
	for _, key := range normalizedKeys(values) {
		s.stageKey(key, valueForKey(values, key))
	}
	return s
}

// Staged returns a copy of the staged buffer.
func (s *Store) Staged() map[string]any {
	return cloneOptionMap(s.staged)
}

// CommitMerge overlays the staged buffer onto the freshly read committed map
// and persists the merged result as one write. Staged values win per key;
// every other committed key survives untouched.
func (s *Store) CommitMerge() error {
	s.reload()
	return s.flush(SaveAllContext(s.name, s.stagedKeys(), true), true)
}

// Flush persists the staged buffer merged over the committed cache. With
// singleWrite the whole batch goes out as exactly one backend write;
// otherwise each staged key issues its own write.
func (s *Store) Flush(singleWrite bool) error {
	return s.flush(SaveAllContext(s.name, s.stagedKeys(), false), singleWrite)
}

func (s *Store) flush(ctx WriteContext, singleWrite bool) error {
	if len(s.staged) == 0 {
		return nil
	}
	ctx = ctx.withTarget(s.target, s.cfg.actorID)
	if !s.allow(ctx) {
		s.log(ctx, true, 0, nil)
		if s.cfg.strict {
			return fmt.Errorf("%w: %s", ErrWriteDenied, ctx.Operation)
		}
		return nil
	}

	merged := cloneOptionMap(s.committed)
	changed := make([]string, 0, len(s.staged))
	for _, key := range s.stagedKeys() {
		value := s.staged[key]
		if existing, ok := merged[key]; ok && CanonicalEqual(existing, value) {
			continue
		}
		merged[key] = value
		changed = append(changed, key)
	}
	if len(changed) == 0 {
		s.staged = map[string]any{}
		return nil
	}

	if singleWrite {
		ok, err := s.write(ctx, merged)
		if err != nil || !ok {
			return err
		}
	} else {
		snapshot := cloneOptionMap(s.committed)
		for _, key := range changed {
			snapshot[key] = merged[key]
			ok, err := s.write(ctx, snapshot)
			if err != nil || !ok {
				return err
			}
		}
	}

	s.committed = merged
	s.staged = map[string]any{}
	s.notify(activity.VerbUpdated, changed)
	return nil
}

// write issues one backend write, logging the outcome. A false result means
// the write did not take effect; the committed cache must stay untouched.
func (s *Store) write(ctx WriteContext, snapshot map[string]any) (bool, error) {
	start := time.Now()
	ok := s.storage.Update(s.name, cloneOptionMap(snapshot), s.autoloadFlag())
	var err error
	if !ok {
		err = ErrStorageFailed
	}
	s.log(ctx, false, time.Since(start), err)
	if !ok && s.cfg.strict {
		return false, fmt.Errorf("%w: %s %q", ErrStorageFailed, ctx.Operation, s.name)
	}
	return ok, nil
}

// DeleteOption removes one key from the backing map and persists the result.
// Returns whether the delete took effect.
func (s *Store) DeleteOption(key string) (bool, error) {
	normalized := NormalizeKey(key)
	delete(s.staged, normalized)
	if _, exists := s.committed[normalized]; !exists {
		return false, nil
	}

	ctx := DeleteOptionContext(s.name, normalized).withTarget(s.target, s.cfg.actorID)
	if !s.allow(ctx) {
		s.log(ctx, true, 0, nil)
		if s.cfg.strict {
			return false, fmt.Errorf("%w: %s", ErrWriteDenied, OpDeleteOption)
		}
		return false, nil
	}

	snapshot := cloneOptionMap(s.committed)
	delete(snapshot, normalized)
	ok, err := s.write(ctx, snapshot)
	if err != nil || !ok {
		return false, err
	}
	s.committed = snapshot
	s.notify(activity.VerbDeleted, []string{normalized})
	return true, nil
}

// Clear deletes the whole backing option. The committed cache resets; reads
// fall back to schema defaults.
func (s *Store) Clear() (bool, error) {
	ctx := ClearContext(s.name).withTarget(s.target, s.cfg.actorID)
	if !s.allow(ctx) {
		s.log(ctx, true, 0, nil)
		if s.cfg.strict {
			return false, fmt.Errorf("%w: %s", ErrWriteDenied, OpClear)
		}
		return false, nil
	}

	start := time.Now()
	ok := s.storage.Delete(s.name)
	var err error
	if !ok {
		err = ErrStorageFailed
	}
	s.log(ctx, false, time.Since(start), err)
	if !ok {
		if s.cfg.strict {
			return false, fmt.Errorf("%w: %s %q", ErrStorageFailed, OpClear, s.name)
		}
		return false, nil
	}

	s.committed = map[string]any{}
	s.staged = map[string]any{}
	s.notify(activity.VerbCleared, nil)
	return true, nil
}

// SeedIfMissing persists schema defaults for covered keys absent from the
// committed map, as one write. Returns whether anything was written.
func (s *Store) SeedIfMissing() (bool, error) {
	missing := s.missingSchemaKeys()
	if len(missing) == 0 {
		return false, nil
	}

	ctx := SeedContext(s.name, missing).withTarget(s.target, s.cfg.actorID)
	if !s.allow(ctx) {
		s.log(ctx, true, 0, nil)
		if s.cfg.strict {
			return false, fmt.Errorf("%w: %s", ErrWriteDenied, OpSeedIfMissing)
		}
		return false, nil
	}

	snapshot := cloneOptionMap(s.committed)
	for _, key := range missing {
		snapshot[key] = s.schema[key].Default
	}
	ok, err := s.write(ctx, snapshot)
	if err != nil || !ok {
		return false, err
	}
	s.committed = snapshot
	s.notify(activity.VerbSeeded, missing)
	return true, nil
}

// Migrate copies a legacy backing option into this store: its values run
// through the pipeline, the merged result is persisted, and the legacy key
// is deleted. Returns whether a migration happened.
func (s *Store) Migrate(fromName string) (bool, error) {
	legacyName := NormalizeKey(fromName)
	raw, ok := s.storage.Read(legacyName)
	if !ok {
		return false, nil
	}

	ctx := MigrateContext(s.name, legacyName).withTarget(s.target, s.cfg.actorID)
	if !s.allow(ctx) {
		s.log(ctx, true, 0, nil)
		if s.cfg.strict {
			return false, fmt.Errorf("%w: %s", ErrWriteDenied, OpMigrate)
		}
		return false, nil
	}

	snapshot := cloneOptionMap(s.committed)
	migrated := make([]string, 0)
	for key, value := range asOptionMap(raw) {
		accepted, final := s.pipeline(key, value)
		if !accepted {
			continue
		}
		snapshot[key] = final
		migrated = append(migrated, key)
	}
	sort.Strings(migrated)

	ok, err := s.write(ctx, snapshot)
	if err != nil || !ok {
		return false, err
	}
	s.committed = snapshot
	s.storage.Delete(legacyName)
	s.notify(activity.VerbMigrated, migrated)
	return true, nil
}

// TakeMessages drains the message sink. A second consecutive call returns an
// empty structure.
func (s *Store) TakeMessages() Messages {
	return s.sink.drain()
}

// stageKey runs the pipeline for key and records the outcome in the staged
// buffer. Rejected keys revert to their previous committed value or schema
// default so a later flush never persists the rejected candidate.
func (s *Store) stageKey(key string, value any) {
	_, final := s.pipeline(key, value)
	s.staged[key] = final
}

// pipeline runs the registered sanitizers then validators for key. The
// returned value is the sanitized candidate on success, or the reverted
// value when a validator rejects it.
func (s *Store) pipeline(key string, value any) (bool, any) {
	entry, covered := s.schema[key]
	if !covered {
		return true, value
	}

	notice := func(message string) { s.sink.notice(key, message) }
	warn := func(message string) { s.sink.warn(key, message) }

	current := value
	for _, sanitizer := range entry.Sanitize {
		current = sanitizer.Sanitize(current, notice)
	}
	for _, validator := range entry.Validate {
		if !validator.Validate(current, warn) {
			return false, s.revertValue(key, entry)
		}
	}
	return true, current
}

// revertValue is the previous committed value when one exists, otherwise the
// schema default.
func (s *Store) revertValue(key string, entry SchemaEntry) any {
	if previous, ok := s.committed[key]; ok {
		return previous
	}
	return entry.Default
}

// allowStaging gates chainable staging calls. Denials surface before any
// value lands in the buffer; they are logged but never raise, even in strict
// mode, since staging does no I/O.
func (s *Store) allowStaging(ctx WriteContext) bool {
	if s.allow(ctx) {
		return true
	}
	s.log(ctx, true, 0, nil)
	return false
}

func (s *Store) allow(ctx WriteContext) bool {
	if s.cfg.policy == nil {
		return true
	}
	return s.cfg.policy.Allow(ctx.Operation, ctx)
}

func (s *Store) log(ctx WriteContext, denied bool, duration time.Duration, err error) {
	s.cfg.logger.LogWrite(WriteLogEvent{
		Operation: ctx.Operation,
		Scope:     ctx.Scope,
		Name:      ctx.Name,
		Keys:      cloneKeys(ctx.Keys),
		Denied:    denied,
		Duration:  duration,
		Err:       err,
	})
}

func (s *Store) autoloadFlag() bool {
	return s.cfg.autoload && s.storage.SupportsAutoload()
}

func (s *Store) stagedKeys() []string {
	keys := make([]string, 0, len(s.staged))
	for key := range s.staged {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) missingSchemaKeys() []string {
	missing := make([]string, 0)
	for key := range s.schema {
		if _, ok := s.committed[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

// asOptionMap coerces a raw backend value into the canonical map shape. A
// non-map value (legacy or corrupted) yields an empty map rather than a
// failure.
func asOptionMap(raw any) map[string]any {
	values, ok := raw.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	out := make(map[string]any, len(values))
	for key, value := range values {
		out[NormalizeKey(key)] = value
	}
	return out
}

func cloneOptionMap(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for key, value := range values {
		out[key] = value
	}
	return out
}

func normalizedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for key := range values {
		normalized := NormalizeKey(key)
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		keys = append(keys, normalized)
	}
	sort.Strings(keys)
	return keys
}

// valueForKey finds the raw value whose normalized key matches key.
func valueForKey(values map[string]any, key string) any {
	if value, ok := values[key]; ok {
		return value
	}
	for raw, value := range values {
		if NormalizeKey(raw) == key {
			return value
		}
	}
	return nil
}
