package usersink

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-settings/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestNotifyMapsEventToRecord(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}

	actorID := uuid.New()
	userID := uuid.New()
	err := hook.Notify(context.Background(), activity.Event{
		Verb:       activity.VerbUpdated,
		ActorID:    actorID.String(),
		UserID:     userID.String(),
		ObjectType: "settings",
		ObjectID:   "app_settings",
		Channel:    "admin",
		Metadata:   map[string]any{"scope": "site"},
	})
	if err != nil {
		t.Fatalf("unexpected notify error: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected one record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.UserID != userID {
		t.Fatalf("expected UUID identifiers to carry over, got %+v", record)
	}
	if record.Verb != activity.VerbUpdated || record.ObjectID != "app_settings" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.Channel != "admin" {
		t.Fatalf("expected channel admin, got %q", record.Channel)
	}
	if record.Data["scope"] != "site" {
		t.Fatalf("expected metadata in record data, got %v", record.Data)
	}
	if record.OccurredAt.IsZero() {
		t.Fatalf("expected a timestamp")
	}
}

func TestNotifyPreservesNumericIdentifiers(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:       activity.VerbUpdated,
		ActorID:    "5",
		UserID:     "7",
		ObjectType: "settings",
		ObjectID:   "prefs",
	})
	if err != nil {
		t.Fatalf("unexpected notify error: %v", err)
	}

	record := sink.records[0]
	if record.ActorID != uuid.Nil || record.UserID != uuid.Nil {
		t.Fatalf("non-UUID identifiers must not be forced into UUID fields: %+v", record)
	}
	if record.Data["actor_id"] != "5" {
		t.Fatalf("expected the numeric actor id in data, got %v", record.Data)
	}
	if record.Data["target_user_id"] != "7" {
		t.Fatalf("expected the numeric user id in data, got %v", record.Data)
	}
}

func TestNotifyDropsIncompleteEvents(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}

	if err := hook.Notify(context.Background(), activity.Event{Verb: activity.VerbUpdated}); err != nil {
		t.Fatalf("unexpected notify error: %v", err)
	}
	if len(sink.records) != 0 {
		t.Fatalf("expected incomplete events to be dropped, got %d", len(sink.records))
	}
}

func TestNotifyWithoutSinkIsNoOp(t *testing.T) {
	hook := Hook{}
	err := hook.Notify(context.Background(), activity.Event{
		Verb:       activity.VerbUpdated,
		ObjectType: "settings",
		ObjectID:   "app_settings",
	})
	if err != nil {
		t.Fatalf("expected a nil sink to be a no-op, got %v", err)
	}
}

func TestNotifyForwardsSinkError(t *testing.T) {
	boom := errors.New("boom")
	hook := Hook{Sink: &recordingSink{err: boom}}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:       activity.VerbUpdated,
		ObjectType: "settings",
		ObjectID:   "app_settings",
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the sink error to surface, got %v", err)
	}
}
