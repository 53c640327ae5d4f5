package queue

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/collabworks/portal-api/internal/core/domain"
	"github.com/collabworks/portal-api/internal/core/ports"
)

// signalRepo forwards every inserted entry to a channel so tests can wait
// for the asynchronous write without polling.
type signalRepo struct {
	inserted chan domain.ActivityEntry
}

func newSignalRepo() *signalRepo {
	return &signalRepo{inserted: make(chan domain.ActivityEntry, 64)}
}

func (r *signalRepo) Insert(_ context.Context, entry *domain.ActivityEntry) (string, error) {
	r.inserted <- *entry
	return "act1", nil
}

func (r *signalRepo) ProjectPage(_ context.Context, _ string, _ int, _ string) (*ports.ActivityPage, error) {
	return &ports.ActivityPage{}, nil
}

func (r *signalRepo) Filter(_ context.Context, _ ports.ActivityFilter) ([]*domain.ActivityEntry, error) {
	return nil, nil
}

func waitForEntry(t *testing.T, ch chan domain.ActivityEntry) domain.ActivityEntry {
	t.Helper()
	select {
	case entry := <-ch:
		return entry
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for activity insert")
		return domain.ActivityEntry{}
	}
}

func TestEmitter_PersistsAndStampsTimestamp(t *testing.T) {
	repo := newSignalRepo()
	emitter := NewEmitter(2, repo, zerolog.Nop())

	stamped := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	emitter.now = func() time.Time { return stamped }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	emitter.Start(ctx)

	emitter.Emit(domain.ActivityEntry{
		ProjectID:    "p1",
		UserID:       "u1",
		Action:       domain.ActionMemberJoined,
		ResourceType: "member",
		ResourceID:   "u1",
	})

	got := waitForEntry(t, repo.inserted)
	if got.ProjectID != "p1" || got.Action != domain.ActionMemberJoined {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if !got.Timestamp.Equal(stamped) {
		t.Errorf("zero timestamp must be stamped at emit time, got %v", got.Timestamp)
	}
}

func TestEmitter_KeepsCallerTimestamp(t *testing.T) {
	repo := newSignalRepo()
	emitter := NewEmitter(1, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	emitter.Start(ctx)

	set := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	emitter.Emit(domain.ActivityEntry{ProjectID: "p1", Action: domain.ActionRoleChanged, Timestamp: set})

	got := waitForEntry(t, repo.inserted)
	if !got.Timestamp.Equal(set) {
		t.Errorf("caller-provided timestamp must survive, got %v", got.Timestamp)
	}
}

func TestEmitter_PerProjectOrdering(t *testing.T) {
	repo := newSignalRepo()
	emitter := NewEmitter(4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Queue before starting the workers so delivery order is decided
	// purely by the shard channel.
	actions := []string{domain.ActionInviteCreated, domain.ActionInviteAccepted, domain.ActionMemberJoined}
	for _, a := range actions {
		emitter.Emit(domain.ActivityEntry{ProjectID: "p1", Action: a})
	}
	emitter.Start(ctx)

	for _, want := range actions {
		got := waitForEntry(t, repo.inserted)
		if got.Action != want {
			t.Fatalf("entries for one project must arrive in order: got %s, want %s", got.Action, want)
		}
	}
}

func TestEmitter_DropsWhenBufferFull(t *testing.T) {
	repo := newSignalRepo()
	emitter := NewEmitter(1, repo, zerolog.Nop())

	// Workers never started: once the buffer fills, Emit must drop
	// instead of blocking.
	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			emitter.Emit(domain.ActivityEntry{ProjectID: "p1", Action: domain.ActionMemberRemoved})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a full buffer")
	}
	if got := len(emitter.workers[0]); got != channelBuffer {
		t.Errorf("buffered = %d, want %d", got, channelBuffer)
	}
}

func TestEmitter_StopsOnContextCancel(t *testing.T) {
	repo := newSignalRepo()
	emitter := NewEmitter(1, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	emitter.Start(ctx)

	emitter.Emit(domain.ActivityEntry{ProjectID: "p1", Action: domain.ActionGroupChanged})
	waitForEntry(t, repo.inserted)

	cancel()
	// Give the worker a moment to observe cancellation, then verify new
	// entries are no longer drained.
	time.Sleep(50 * time.Millisecond)
	emitter.Emit(domain.ActivityEntry{ProjectID: "p1", Action: domain.ActionGroupChanged})

	select {
	case <-repo.inserted:
		t.Fatal("worker must stop after context cancellation")
	case <-time.After(200 * time.Millisecond):
	}
}
