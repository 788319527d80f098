package database

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := New("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestKeyValue(t *testing.T) {
	s := newTestService(t)

	if _, ok, err := s.Get("gameState"); err != nil || ok {
		t.Fatalf("Get on empty db = ok %v, err %v", ok, err)
	}

	var notified []string
	s.Subscribe(func(key, value string) { notified = append(notified, key) })

	if err := s.Set("playerState", "Player 2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("playerState", "Player 1"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, ok, err := s.Get("playerState")
	if err != nil || !ok || v != "Player 1" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}
	if len(notified) != 2 {
		t.Fatalf("notifications = %v, want 2", notified)
	}
}

func TestResults(t *testing.T) {
	s := newTestService(t)

	if _, err := s.GetByPlayer("Alice"); err != sql.ErrNoRows {
		t.Fatalf("GetByPlayer on empty db err = %v, want sql.ErrNoRows", err)
	}

	first := GameResult{
		ID:           "a",
		CreatedAt:    "2026-01-01T10:00:00Z",
		Player1:      "Alice",
		Player2:      "Bob",
		Player1Round: [3]int{-30, 12, 40},
		Player2Round: [3]int{5, 0, -45},
		Player1Score: 22,
		Player2Score: -40,
	}
	second := GameResult{
		ID:        "b",
		CreatedAt: "2026-01-02T10:00:00Z",
		Player1:   "Carol",
		Player2:   "Bob",
		LongGame:  true,
	}
	for _, r := range []GameResult{first, second} {
		if err := s.Insert(r); err != nil {
			t.Fatalf("Insert %s: %v", r.ID, err)
		}
	}

	got, err := s.GetByID("a")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != first {
		t.Fatalf("GetByID = %+v, want %+v", got, first)
	}

	all, err := s.GetAll()
	if err != nil || len(all) != 2 || all[0].ID != "b" {
		t.Fatalf("GetAll = %+v, %v", all, err)
	}
	if !all[0].LongGame {
		t.Fatal("long_game flag lost")
	}

	bob, err := s.GetByPlayer("Bob")
	if err != nil || len(bob) != 2 {
		t.Fatalf("GetByPlayer(Bob) = %d results, %v", len(bob), err)
	}
	alice, err := s.GetByPlayer("Alice")
	if err != nil || len(alice) != 1 || alice[0].ID != "a" {
		t.Fatalf("GetByPlayer(Alice) = %+v, %v", alice, err)
	}

	if _, err := s.GetByID("missing"); err != sql.ErrNoRows {
		t.Fatalf("GetByID(missing) err = %v", err)
	}
}

func TestRebind(t *testing.T) {
	pg := &Service{driver: "pgx"}
	if got := pg.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Fatalf("rebind = %q", got)
	}
	lite := &Service{driver: "sqlite3"}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Fatalf("rebind = %q", got)
	}
}
