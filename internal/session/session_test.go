package session

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"lostcities-calculator/internal/database"
	"lostcities-calculator/internal/game"
	"lostcities-calculator/internal/shared"
	"lostcities-calculator/internal/store"
)

type fakeHistory struct {
	results []database.GameResult
	err     error
}

func (f *fakeHistory) Insert(r database.GameResult) error {
	if f.err != nil {
		return f.err
	}
	f.results = append(f.results, r)
	return nil
}

func newTestSession(t *testing.T) (*Session, *store.MemoryStorage, *fakeHistory) {
	t.Helper()
	storage := store.NewMemoryStorage()
	history := &fakeHistory{}
	s := New(storage, history)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s, storage, history
}

func TestDefaults(t *testing.T) {
	s, _, _ := newTestSession(t)
	if s.Coordinate() != (shared.Coordinate{Player: shared.Player1, Round: shared.Round1}) {
		t.Fatalf("coordinate = %+v", s.Coordinate())
	}
	if !reflect.DeepEqual(s.Game(), game.NewGameState()) {
		t.Fatal("game should start blank")
	}
	if s.LongGame() || len(s.Suits()) != 5 {
		t.Fatal("short game should be the default")
	}
	if s.Name(shared.Player2) != "Player 2" {
		t.Fatalf("name = %q", s.Name(shared.Player2))
	}
}

func TestToggleAndScoreCurrentRound(t *testing.T) {
	s, _, _ := newTestSession(t)
	for _, c := range []string{"blue-7", "red-3"} {
		if err := s.ToggleCard(c); err != nil {
			t.Fatalf("ToggleCard(%s): %v", c, err)
		}
	}

	snap := s.Snapshot()
	if snap.Players[0].Score.Rounds[0] != -30 || snap.Players[0].Score.Total != -30 {
		t.Fatalf("player 1 score = %+v", snap.Players[0].Score)
	}
	if !snap.Current.Played("blue-7") {
		t.Fatal("current round should show blue-7")
	}
	if len(snap.SuitScores) != 5 {
		t.Fatalf("suit scores = %d, want 5", len(snap.SuitScores))
	}
}

func TestCycleWagerScenario(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.SelectPlayer("Player 2")
	s.SelectRound("Round 3")
	s.ToggleCard("green-2")
	s.ToggleCard("green-3")
	s.CycleWager("green")
	s.CycleWager("green")

	snap := s.Snapshot()
	if got := snap.Players[1].Score.Rounds[2]; got != -45 {
		t.Fatalf("player 2 round 3 = %d, want -45", got)
	}
	if !s.Game().Player1[2].IsBlank() {
		t.Fatal("player 1 round 3 should be untouched")
	}
}

func TestToggleCardClaimedByOtherPlayer(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.ToggleCard("yellow-5")
	s.SelectPlayer("Player 2")

	if err := s.ToggleCard("yellow-5"); !errors.Is(err, ErrCardClaimed) {
		t.Fatalf("err = %v, want ErrCardClaimed", err)
	}
	if snap := s.Snapshot(); !reflect.DeepEqual(snap.DisabledCards, []shared.ExpeditionCard{"yellow-5"}) {
		t.Fatalf("disabled = %v", snap.DisabledCards)
	}

	s.SelectRound("Round 2")
	if err := s.ToggleCard("yellow-5"); err != nil {
		t.Fatalf("same card in another round should be allowed: %v", err)
	}
}

func TestToggleCardRejectsInvalid(t *testing.T) {
	s, _, _ := newTestSession(t)
	if err := s.ToggleCard("orange-3"); !errors.Is(err, ErrUnknownCard) {
		t.Errorf("err = %v, want ErrUnknownCard", err)
	}
	if err := s.ToggleCard("purple-3"); !errors.Is(err, ErrInactiveSuit) {
		t.Errorf("err = %v, want ErrInactiveSuit", err)
	}
	if err := s.CycleWager("purple"); !errors.Is(err, ErrInactiveSuit) {
		t.Errorf("err = %v, want ErrInactiveSuit", err)
	}
	if err := s.CycleWager("orange"); !errors.Is(err, ErrUnknownSuit) {
		t.Errorf("err = %v, want ErrUnknownSuit", err)
	}
	if !s.Game().IsBlank() {
		t.Fatal("rejected intents must not change the game")
	}

	if err := s.UpdateSetting(EnableLongGame, "true"); err != nil {
		t.Fatalf("UpdateSetting: %v", err)
	}
	if err := s.ToggleCard("purple-3"); err != nil {
		t.Fatalf("purple should be playable in the long game: %v", err)
	}
}

func TestLongGameToggleKeepsHiddenSuitData(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.UpdateSetting(EnableLongGame, "true")
	s.ToggleCard("purple-10")
	if got := s.Snapshot().Players[0].Score.Total; got != -10 {
		t.Fatalf("long game total = %d, want -10", got)
	}

	s.UpdateSetting(EnableLongGame, "false")
	if got := s.Snapshot().Players[0].Score.Total; got != 0 {
		t.Fatalf("short game total = %d, want 0", got)
	}
	if !s.Game().Player1[0].Played("purple-10") {
		t.Fatal("purple data should be kept while hidden")
	}
}

func TestSelectorsRejectUnknownValues(t *testing.T) {
	s, _, _ := newTestSession(t)
	if err := s.SelectPlayer("Player 3"); err == nil {
		t.Error("SelectPlayer accepted Player 3")
	}
	if err := s.SelectRound("Round 0"); err == nil {
		t.Error("SelectRound accepted Round 0")
	}
}

func TestUpdateSetting(t *testing.T) {
	s, storage, _ := newTestSession(t)
	if err := s.UpdateSetting(Player1Name, "Alice"); err != nil {
		t.Fatalf("UpdateSetting: %v", err)
	}
	if v, _, _ := storage.Get("settingsplayer1Name"); v != "Alice" {
		t.Fatalf("stored = %q", v)
	}
	if s.Name(shared.Player1) != "Alice" || s.Name(shared.Player2) != "Player 2" {
		t.Fatal("partial update changed the other name")
	}

	s.UpdateSetting(Player2Name, "")
	if s.Name(shared.Player2) != "Player 2" {
		t.Fatalf("blank name should display as default, got %q", s.Name(shared.Player2))
	}

	if err := s.UpdateSetting("color", "red"); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("err = %v, want ErrUnknownSetting", err)
	}
	if err := s.UpdateSetting(EnableLongGame, "maybe"); !errors.Is(err, ErrInvalidSetting) {
		t.Errorf("err = %v, want ErrInvalidSetting", err)
	}

	s.ResetSettings()
	if s.Name(shared.Player1) != "Player 1" || s.LongGame() {
		t.Fatal("ResetSettings did not restore defaults")
	}
}

func TestResetArchivesAndRestoresDefaults(t *testing.T) {
	s, storage, history := newTestSession(t)
	s.UpdateSetting(Player1Name, "Alice")
	s.ToggleCard("blue-7")
	s.SelectPlayer("Player 2")
	s.SelectRound("Round 2")
	s.CycleWager("red")

	s.Reset()

	if !reflect.DeepEqual(s.Game(), game.NewGameState()) {
		t.Fatal("game not blank after reset")
	}
	if s.Coordinate() != (shared.Coordinate{Player: shared.Player1, Round: shared.Round1}) {
		t.Fatalf("coordinate after reset = %+v", s.Coordinate())
	}
	if s.Name(shared.Player1) != "Alice" {
		t.Fatal("reset should keep settings")
	}
	if v, _, _ := storage.Get(RoundKey); v != "Round 1" {
		t.Fatalf("stored round = %q", v)
	}

	if len(history.results) != 1 {
		t.Fatalf("archived %d games, want 1", len(history.results))
	}
	r := history.results[0]
	if r.Player1 != "Alice" || r.Player1Score != -13 || r.Player2Round != [3]int{0, -40, 0} {
		t.Fatalf("archived result = %+v", r)
	}
	if r.CreatedAt != "2026-03-01T12:00:00Z" || r.ID == "" {
		t.Fatalf("archived metadata = %q %q", r.ID, r.CreatedAt)
	}

	s.Reset()
	if len(history.results) != 1 {
		t.Fatal("blank game should not be archived")
	}
}

func TestResetIgnoresHistoryFailure(t *testing.T) {
	s, _, history := newTestSession(t)
	history.err = errors.New("disk full")
	s.ToggleCard("blue-7")
	s.Reset()
	if !s.Game().IsBlank() {
		t.Fatal("reset must proceed when archiving fails")
	}
}

func TestStateSurvivesReload(t *testing.T) {
	s, storage, _ := newTestSession(t)
	s.ToggleCard("white-9")
	s.SelectRound("Round 3")
	s.UpdateSetting(Player2Name, "Bob")

	reloaded := New(storage, nil)
	if !reflect.DeepEqual(reloaded.Game(), s.Game()) {
		t.Fatal("game did not survive reload")
	}
	if reloaded.Coordinate().Round != shared.Round3 || reloaded.Name(shared.Player2) != "Bob" {
		t.Fatalf("selectors/settings did not survive reload: %+v", reloaded.Snapshot())
	}
}

func TestMalformedGameStateFallsBack(t *testing.T) {
	storage := store.NewMemoryStorage()
	storage.Set(GameKey, "{not json")
	storage.Set(PlayerKey, "Player 9")
	s := New(storage, nil)
	if !reflect.DeepEqual(s.Game(), game.NewGameState()) {
		t.Fatal("malformed game state should fall back to blank")
	}
	if s.Coordinate().Player != shared.Player1 {
		t.Fatal("unknown player should fall back to Player 1")
	}
}

func TestSubscribe(t *testing.T) {
	s, storage, _ := newTestSession(t)
	var keys []string
	cancel := s.Subscribe(func(key string) { keys = append(keys, key) })
	defer cancel()

	s.ToggleCard("blue-2")
	s.UpdateSetting(Player1Name, "Alice")
	storage.Set("unrelated", "x")

	want := []string{GameKey, "settingsplayer1Name"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
}
