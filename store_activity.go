package settings

import (
	"context"
	"strconv"

	"github.com/goliatone/go-settings/pkg/activity"
)

// WithActivityHooks attaches activity hooks notified after successful backend
// writes. Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) StoreOption {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *storeConfig) {
		cfg.hooks = normalized
	}
}

// ActivityHooks returns a cloned slice of the configured hooks.
func (s *Store) ActivityHooks() activity.Hooks {
	if s == nil {
		return nil
	}
	return cloneActivityHooks(s.cfg.hooks)
}

// notify fans out one settings event. Hook failures never affect the write
// that already happened; they are surfaced through the write logger.
func (s *Store) notify(verb string, keys []string) {
	if !s.cfg.hooks.Enabled() {
		return
	}
	event := activity.BuildSettingsEvent(verb, activity.SettingsEventInput{
		ActorID: formatID(s.cfg.actorID),
		UserID:  formatID(s.target.UserID),
		Name:    s.name,
		Scope:   s.target.Scope.String(),
		BlogID:  s.target.BlogID,
		Keys:    keys,
	})
	if err := s.cfg.hooks.Notify(context.Background(), event); err != nil {
		s.cfg.logger.LogWrite(WriteLogEvent{
			Operation: Operation(verb),
			Scope:     s.target.Scope,
			Name:      s.name,
			Keys:      cloneKeys(keys),
			Err:       err,
		})
	}
}

func formatID(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.Hook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
