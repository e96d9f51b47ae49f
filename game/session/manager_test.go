package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/deepsea/game/engine"
)

func createTestConfig() *engine.TableConfig {
	return &engine.TableConfig{
		Name:        "Test Config",
		Description: "Test configuration",
		Players: []engine.PlayerSpec{
			{Name: "Grab", Strategy: "grabber", Params: map[string]int{"n": 2}},
			{Name: "Deep", Strategy: "diver", Params: map[string]int{"depth": 12, "n": 1}},
			{Name: "Coin", Strategy: "random"},
		},
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", config, 1)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Engine == nil || !session.Engine.IsStarted() {
			t.Error("Expected a started engine")
		}
		if session.Engine.PlayerCount() != 3 {
			t.Errorf("Expected 3 seats, got %d", session.Engine.PlayerCount())
		}
		if names := session.Engine.PlayerNames(); names[1] != "Deep" {
			t.Errorf("Expected seat names from config, got %v", names)
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", config, 2)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got '%s'", session.ID)
		}
		if session.Seed != 2 || session.Engine.GetState().Seed != 2 {
			t.Errorf("Expected seed 2, got %d", session.Seed)
		}
	})

	t.Run("duplicate ID is case-insensitive", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", config, 3)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		_, err := manager.Create(" padded ", config, 3)
		if !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		bad := createTestConfig()
		bad.Players[0].Strategy = "kraken"
		if _, err := manager.Create("bad", bad, 1); err == nil {
			t.Error("Expected error for unknown strategy")
		}
		if _, err := manager.Get("bad"); !errors.Is(err, ErrSessionNotFound) {
			t.Error("A failed create must not leave a session behind")
		}
	})
}

func TestManager_GetAndDelete(t *testing.T) {
	manager := NewManager()
	manager.Create("AbCd", createTestConfig(), 1)

	for _, id := range []string{"AbCd", "abcd", "ABCD"} {
		if _, err := manager.Get(id); err != nil {
			t.Errorf("Get(%q) failed: %v", id, err)
		}
	}

	if err := manager.Delete("ABCD"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := manager.Get("abcd"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if err := manager.Delete("abcd"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestManager_IndependentSessions(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()
	a, _ := manager.Create("a", config, 42)
	b, _ := manager.Create("b", config, 42)

	if _, err := a.Engine.BulkStep(10); err != nil {
		t.Fatalf("BulkStep failed: %v", err)
	}
	if len(b.Engine.GetHistory()) != 0 {
		t.Error("Stepping one session must not touch another")
	}

	if _, err := b.Engine.BulkStep(10); err != nil {
		t.Fatalf("BulkStep failed: %v", err)
	}
	ha, hb := a.Engine.GetHistory(), b.Engine.GetHistory()
	for i := range ha {
		if ha[i].Info != hb[i].Info {
			t.Fatalf("Sessions with the same seed diverged at step %d", i+1)
		}
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("x1", createTestConfig(), 1)
	before := session.LastAccessedAt

	time.Sleep(5 * time.Millisecond)
	if err := manager.UpdateLastAccessed("X1"); err != nil {
		t.Fatalf("UpdateLastAccessed failed: %v", err)
	}
	if !session.LastAccessedAt.After(before) {
		t.Error("Expected LastAccessedAt to move forward")
	}
	if err := manager.UpdateLastAccessed("zz"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_CleanupExpiredSessions(t *testing.T) {
	manager := NewManager()
	old, _ := manager.Create("old", createTestConfig(), 1)
	manager.Create("new", createTestConfig(), 1)
	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	if removed := manager.CleanupExpiredSessions(time.Hour); removed != 1 {
		t.Errorf("Expected 1 removed session, got %d", removed)
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 session left, got %d", manager.Count())
	}
}

func TestManager_RunCleanup(t *testing.T) {
	manager := NewManager()
	old, _ := manager.Create("old", createTestConfig(), 1)
	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		manager.RunCleanup(ctx, 5*time.Millisecond, time.Hour)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for manager.Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if manager.Count() != 0 {
		t.Error("Expected the idle session to be cleaned up")
	}
}

func TestManager_Concurrency(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			s, err := manager.Create("", config, seed)
			if err != nil {
				errs <- err
				return
			}
			if _, err := manager.Get(strings.ToUpper(s.ID)); err != nil {
				errs <- err
			}
		}(int64(i))
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent operation failed: %v", err)
	}
	if manager.Count() != 20 {
		t.Errorf("Expected 20 sessions, got %d", manager.Count())
	}
}
