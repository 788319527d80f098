// Package session applies user intents to the persisted calculator state.
package session

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"lostcities-calculator/internal/database"
	"lostcities-calculator/internal/game"
	"lostcities-calculator/internal/protocol"
	"lostcities-calculator/internal/shared"
	"lostcities-calculator/internal/store"
)

// Storage keys.
const (
	GameKey     = "gameState"
	PlayerKey   = "playerState"
	RoundKey    = "roundState"
	SettingsKey = "settings" // Prefix; one key per field
)

// Settings fields.
const (
	Player1Name    = "player1Name"
	Player2Name    = "player2Name"
	EnableLongGame = "enableLongGame"
)

var (
	ErrUnknownCard    = errors.New("unknown card")
	ErrUnknownSuit    = errors.New("unknown suit")
	ErrInactiveSuit   = errors.New("suit is not in play")
	ErrCardClaimed    = errors.New("card already played by the other player this round")
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidSetting = errors.New("invalid setting value")
)

// History archives finished games. *database.Service implements it.
type History interface {
	Insert(result database.GameResult) error
}

// Session holds the game, selector and settings state for one calculator.
// It is not safe for concurrent use; the server hub owns it.
type Session struct {
	storage  store.Storage
	game     *store.Atom[game.GameState]
	player   *store.Atom[shared.Player]
	round    *store.Atom[shared.Round]
	settings *store.Map
	history  History
	now      func() time.Time
}

func defaultSettings() map[string]string {
	return map[string]string{
		Player1Name:    string(shared.Player1),
		Player2Name:    string(shared.Player2),
		EnableLongGame: "false",
	}
}

// New loads the session from storage. history may be nil.
func New(storage store.Storage, history History) *Session {
	s := &Session{
		storage:  storage,
		game:     store.NewAtom(storage, GameKey, game.NewGameState(), game.Encode, game.Decode),
		player:   store.NewStringAtom(storage, PlayerKey, shared.Player1, shared.ParsePlayer),
		round:    store.NewStringAtom(storage, RoundKey, shared.Round1, shared.ParseRound),
		settings: store.NewMap(storage, SettingsKey, defaultSettings()),
		history:  history,
		now:      time.Now,
	}
	log.Printf("Session loaded: %s, %s", s.player.Get(), s.round.Get())
	return s
}

// Subscribe calls fn after any key this session persists is written.
func (s *Session) Subscribe(fn func(key string)) (cancel func()) {
	keys := append([]string{GameKey, PlayerKey, RoundKey}, s.settings.Keys()...)
	return s.storage.Subscribe(func(key, _ string) {
		if slices.Contains(keys, key) {
			fn(key)
		}
	})
}

// Game returns the current game state.
func (s *Session) Game() game.GameState {
	return s.game.Get()
}

// Coordinate returns the player and round being edited.
func (s *Session) Coordinate() shared.Coordinate {
	return shared.Coordinate{Player: s.player.Get(), Round: s.round.Get()}
}

// LongGame reports whether the purple expedition is in play.
func (s *Session) LongGame() bool {
	return s.settings.Value(EnableLongGame) == "true"
}

// Suits returns the active suit set.
func (s *Session) Suits() []shared.Suit {
	return shared.ActiveSuits(s.LongGame())
}

// Name returns a player's display name, falling back to the default when blank.
func (s *Session) Name(p shared.Player) string {
	field := Player1Name
	if p == shared.Player2 {
		field = Player2Name
	}
	if name := s.settings.Value(field); name != "" {
		return name
	}
	return string(p)
}

// ToggleCard flips a card for the current player and round.
func (s *Session) ToggleCard(key string) error {
	card, suit, _, err := shared.ParseExpeditionCard(key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownCard, err)
	}
	if !suit.IsActive(s.Suits()) {
		return fmt.Errorf("%w: %s", ErrInactiveSuit, suit)
	}

	at := s.Coordinate()
	state := s.game.Get()
	if !state.Current(at).Played(card) {
		if _, claimed := state.DisabledCards(at)[card]; claimed {
			return fmt.Errorf("%w: %s", ErrCardClaimed, card)
		}
	}

	s.game.Set(state.Update(at, game.ToggleExpedition(card)))
	log.Printf("%s %s: toggled %s", at.Player, at.Round, card)
	return nil
}

// CycleWager advances the wager for a suit in the current player and round.
func (s *Session) CycleWager(name string) error {
	suit, err := shared.ParseSuit(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownSuit, err)
	}
	if !suit.IsActive(s.Suits()) {
		return fmt.Errorf("%w: %s", ErrInactiveSuit, suit)
	}

	at := s.Coordinate()
	next := s.game.Get().Update(at, game.CycleWager(suit))
	s.game.Set(next)
	log.Printf("%s %s: %s wager now x%d", at.Player, at.Round, suit, next.Current(at).Wager(suit))
	return nil
}

// SelectPlayer switches the player being edited.
func (s *Session) SelectPlayer(name string) error {
	p, err := shared.ParsePlayer(name)
	if err != nil {
		return err
	}
	s.player.Set(p)
	return nil
}

// SelectRound switches the round being edited.
func (s *Session) SelectRound(name string) error {
	r, err := shared.ParseRound(name)
	if err != nil {
		return err
	}
	s.round.Set(r)
	return nil
}

// UpdateSetting changes one settings field.
func (s *Session) UpdateSetting(key, value string) error {
	switch key {
	case Player1Name, Player2Name:
	case EnableLongGame:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidSetting, key, value)
		}
		value = strconv.FormatBool(b)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	return s.settings.SetKey(key, value)
}

// ResetSettings restores default names and the short game.
func (s *Session) ResetSettings() {
	s.settings.Reset()
	log.Println("Settings reset.")
}

// Reset archives the game if anything was recorded, then blanks the game and
// returns the selectors to Player 1, Round 1. Settings are kept.
func (s *Session) Reset() {
	if state := s.game.Get(); !state.IsBlank() && s.history != nil {
		result := s.result(state)
		if err := s.history.Insert(result); err != nil {
			log.Printf("Failed to archive game %s: %v", result.ID, err)
		} else {
			log.Printf("Archived game %s (%d : %d)", result.ID, result.Player1Score, result.Player2Score)
		}
	}

	s.game.Set(game.NewGameState())
	s.round.Reset()
	s.player.Reset()
	log.Println("Game reset.")
}

func (s *Session) result(state game.GameState) database.GameResult {
	board := state.Score(s.Suits())
	return database.GameResult{
		ID:           uuid.NewString(),
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
		Player1:      s.Name(shared.Player1),
		Player2:      s.Name(shared.Player2),
		Player1Round: board[0].Rounds,
		Player2Round: board[1].Rounds,
		Player1Score: board[0].Total,
		Player2Score: board[1].Total,
		LongGame:     s.LongGame(),
	}
}

// Snapshot renders the full state for clients.
func (s *Session) Snapshot() protocol.StatePayload {
	at := s.Coordinate()
	state := s.game.Get()
	suits := s.Suits()
	current := state.Current(at)

	suitScores := make([]game.SuitScore, 0, len(suits))
	for _, suit := range suits {
		suitScores = append(suitScores, game.ScoreSuit(current, suit))
	}

	disabled := make([]shared.ExpeditionCard, 0)
	for card := range state.DisabledCards(at) {
		disabled = append(disabled, card)
	}
	slices.Sort(disabled)

	board := state.Score(suits)
	var players [2]protocol.PlayerInfo
	for _, p := range shared.Players {
		players[p.Index()] = protocol.PlayerInfo{Player: p, Name: s.Name(p), Score: board[p.Index()]}
	}

	return protocol.StatePayload{
		Player:        at.Player,
		Round:         at.Round,
		Suits:         suits,
		Current:       current,
		SuitScores:    suitScores,
		DisabledCards: disabled,
		Players:       players,
		Settings: protocol.SettingsInfo{
			Player1Name:    s.settings.Value(Player1Name),
			Player2Name:    s.settings.Value(Player2Name),
			EnableLongGame: s.LongGame(),
		},
	}
}
