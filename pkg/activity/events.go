package activity

import "time"

// Verbs emitted by the options store after successful backend writes.
const (
	VerbUpdated  = "settings.updated"
	VerbDeleted  = "settings.deleted"
	VerbCleared  = "settings.cleared"
	VerbSeeded   = "settings.seeded"
	VerbMigrated = "settings.migrated"
)

// SettingsEventInput describes the common fields for settings lifecycle
// events.
type SettingsEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	Name       string
	Scope      string
	BlogID     int64
	Keys       []string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildSettingsEvent constructs a normalized event for one store mutation.
// The backing option name becomes the object id; scope, blog and touched
// keys land in the metadata.
func BuildSettingsEvent(verb string, input SettingsEventInput) Event {
	metadata := cloneMap(input.Metadata)
	ensure := func() {
		if metadata == nil {
			metadata = map[string]any{}
		}
	}
	if input.Scope != "" {
		ensure()
		metadata["scope"] = input.Scope
	}
	if input.BlogID > 0 {
		ensure()
		metadata["blog_id"] = input.BlogID
	}
	if len(input.Keys) > 0 {
		ensure()
		metadata["keys"] = append([]string{}, input.Keys...)
	}

	return NormalizeEvent(Event{
		Verb:       verb,
		ActorID:    input.ActorID,
		UserID:     input.UserID,
		TenantID:   input.TenantID,
		ObjectType: "settings",
		ObjectID:   input.Name,
		Channel:    input.Channel,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	})
}
