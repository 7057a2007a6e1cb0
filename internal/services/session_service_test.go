package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"drebuilder/internal/dre"
	"drebuilder/internal/models"
	"drebuilder/internal/pagination"
	"drebuilder/internal/testutil"
)

type recordedNotice struct {
	sessionID string
	notice    dre.Notice
}

// recordingActivity is an ActivityServicer that keeps notices in memory.
type recordingActivity struct {
	mu      sync.Mutex
	notices []recordedNotice
}

func (r *recordingActivity) Record(sessionID string, notice dre.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, recordedNotice{sessionID: sessionID, notice: notice})
}

func (r *recordingActivity) GetSessionActivity(string, pagination.PageRequest) (*pagination.PageResponse[models.ActivityLog], error) {
	return nil, errors.New("not implemented")
}

var _ ActivityServicer = (*recordingActivity)(nil)

func TestCreateSession(t *testing.T) {
	svc := NewSessionService(nil, time.Hour)

	first, err := svc.CreateSession()
	testutil.AssertNoError(t, err)
	second, err := svc.CreateSession()
	testutil.AssertNoError(t, err)

	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct session ids, got %q and %q", first.ID, second.ID)
	}
	if first.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	got, err := svc.GetSession(first.ID)
	testutil.AssertNoError(t, err)
	if got.ID != first.ID {
		t.Errorf("expected session %s, got %s", first.ID, got.ID)
	}
}

func TestGetSession(t *testing.T) {
	t.Run("unknown", func(t *testing.T) {
		svc := NewSessionService(nil, time.Hour)
		_, err := svc.GetSession("missing")
		testutil.AssertAppError(t, err, "SESSION_NOT_FOUND")
	})
}

func TestEndSession(t *testing.T) {
	svc := NewSessionService(nil, time.Hour)
	sess, err := svc.CreateSession()
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, svc.EndSession(sess.ID))

	_, err = svc.GetSession(sess.ID)
	testutil.AssertAppError(t, err, "SESSION_NOT_FOUND")
	testutil.AssertAppError(t, svc.EndSession(sess.ID), "SESSION_NOT_FOUND")
}

func TestWithBudget(t *testing.T) {
	t.Run("budgets_are_per_session", func(t *testing.T) {
		svc := NewSessionService(nil, time.Hour)
		a, _ := svc.CreateSession()
		b, _ := svc.CreateSession()

		testutil.AssertNoError(t, svc.WithBudget(a.ID, func(bud *dre.Budget) error {
			bud.AddRoot(false)
			return nil
		}))

		var lenA, lenB int
		_ = svc.WithBudget(a.ID, func(bud *dre.Budget) error { lenA = bud.Len(); return nil })
		_ = svc.WithBudget(b.ID, func(bud *dre.Budget) error { lenB = bud.Len(); return nil })
		if lenA != 1 || lenB != 0 {
			t.Errorf("expected 1 and 0 items, got %d and %d", lenA, lenB)
		}
	})

	t.Run("returns_fn_error", func(t *testing.T) {
		svc := NewSessionService(nil, time.Hour)
		sess, _ := svc.CreateSession()
		want := errors.New("boom")

		err := svc.WithBudget(sess.ID, func(*dre.Budget) error { return want })
		if !errors.Is(err, want) {
			t.Errorf("expected %v, got %v", want, err)
		}
	})

	t.Run("unknown_session", func(t *testing.T) {
		svc := NewSessionService(nil, time.Hour)
		called := false
		err := svc.WithBudget("missing", func(*dre.Budget) error { called = true; return nil })
		testutil.AssertAppError(t, err, "SESSION_NOT_FOUND")
		if called {
			t.Error("fn must not run for an unknown session")
		}
	})

	t.Run("serializes_edits", func(t *testing.T) {
		svc := NewSessionService(nil, time.Hour)
		sess, _ := svc.CreateSession()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = svc.WithBudget(sess.ID, func(b *dre.Budget) error {
					b.AddRoot(false)
					return nil
				})
			}()
		}
		wg.Wait()

		_ = svc.WithBudget(sess.ID, func(b *dre.Budget) error {
			if b.Len() != 50 {
				t.Errorf("expected 50 items, got %d", b.Len())
			}
			seen := make(map[string]bool)
			for _, item := range b.Items() {
				if seen[item.Code] {
					t.Errorf("duplicate code %s", item.Code)
				}
				seen[item.Code] = true
			}
			return nil
		})
	})

	t.Run("forwards_notices", func(t *testing.T) {
		activity := &recordingActivity{}
		svc := NewSessionService(activity, time.Hour)
		sess, _ := svc.CreateSession()

		_ = svc.WithBudget(sess.ID, func(b *dre.Budget) error {
			b.AddRoot(false)
			return nil
		})

		if len(activity.notices) != 1 {
			t.Fatalf("expected 1 notice, got %d", len(activity.notices))
		}
		got := activity.notices[0]
		if got.sessionID != sess.ID || got.notice.Kind != dre.NoticeItemAdded {
			t.Errorf("unexpected notice %+v", got)
		}
	})
}

func TestSweep(t *testing.T) {
	svc := NewSessionService(nil, time.Hour).(*sessionService)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	idle, _ := svc.CreateSession()
	active, _ := svc.CreateSession()

	svc.now = func() time.Time { return base.Add(50 * time.Minute) }
	_ = svc.WithBudget(active.ID, func(*dre.Budget) error { return nil })

	if n := svc.Sweep(base.Add(30 * time.Minute)); n != 0 {
		t.Errorf("expected nothing swept, got %d", n)
	}
	if n := svc.Sweep(base.Add(90 * time.Minute)); n != 1 {
		t.Fatalf("expected 1 session swept, got %d", n)
	}

	if _, err := svc.GetSession(idle.ID); err == nil {
		t.Error("expected the idle session to be gone")
	}
	if _, err := svc.GetSession(active.ID); err != nil {
		t.Errorf("expected the active session to survive: %v", err)
	}
}

func TestSweepDisabled(t *testing.T) {
	svc := NewSessionService(nil, 0)
	_, _ = svc.CreateSession()
	if n := svc.Sweep(time.Now().Add(1000 * time.Hour)); n != 0 {
		t.Errorf("expected a zero timeout to keep sessions, got %d swept", n)
	}
}

func TestRunSweeper(t *testing.T) {
	svc := NewSessionService(nil, time.Nanosecond)
	sess, _ := svc.CreateSession()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunSweeper(ctx, svc, time.Millisecond) }()

	deadline := time.After(2 * time.Second)
	for {
		if _, err := svc.GetSession(sess.ID); err != nil {
			break
		}
		select {
		case <-deadline:
			t.Fatal("sweeper did not discard the idle session")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("expected nil on cancel, got %v", err)
	}
}
