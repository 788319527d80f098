package game

import (
	"encoding/json"
	"errors"
	"fmt"

	"lostcities-calculator/internal/shared"
)

// GameState holds every player's three rounds.
type GameState struct {
	Player1 [3]RoundState `json:"player1"`
	Player2 [3]RoundState `json:"player2"`
}

// NewGameState returns a blank game.
func NewGameState() GameState {
	var gs GameState
	for i := range gs.Player1 {
		gs.Player1[i] = NewRoundState()
		gs.Player2[i] = NewRoundState()
	}
	return gs
}

func (gs *GameState) rounds(player shared.Player) *[3]RoundState {
	if player.Index() == 0 {
		return &gs.Player1
	}
	return &gs.Player2
}

// CardsFor returns the RoundState for a player and round.
// Values outside the enumerations panic.
func (gs GameState) CardsFor(round shared.Round, player shared.Player) RoundState {
	return gs.rounds(player)[round.Index()]
}

// Current returns the RoundState at the coordinate.
func (gs GameState) Current(at shared.Coordinate) RoundState {
	return gs.CardsFor(at.Round, at.Player)
}

// Update returns a new GameState with only the slot at the coordinate replaced
// by update(slot). The other slots keep their maps.
func (gs GameState) Update(at shared.Coordinate, update func(RoundState) RoundState) GameState {
	next := gs
	rounds := next.rounds(at.Player)
	i := at.Round.Index()
	rounds[i] = update(rounds[i])
	return next
}

// DisabledCards returns the cards the opposing player has played in the same round.
func (gs GameState) DisabledCards(at shared.Coordinate) map[shared.ExpeditionCard]struct{} {
	other := gs.CardsFor(at.Round, at.Player.Other())
	disabled := make(map[shared.ExpeditionCard]struct{})
	for card, played := range other.Expeditions {
		if played {
			disabled[card] = struct{}{}
		}
	}
	return disabled
}

// IsBlank reports whether nothing is recorded in any round.
func (gs GameState) IsBlank() bool {
	for i := range gs.Player1 {
		if !gs.Player1[i].IsBlank() || !gs.Player2[i].IsBlank() {
			return false
		}
	}
	return true
}

// ErrMalformedState is returned when persisted game data has the wrong shape.
var ErrMalformedState = errors.New("malformed game state")

// Encode serializes the game to its persisted JSON form.
func Encode(gs GameState) (string, error) {
	b, err := json.Marshal(gs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses persisted JSON. Both players must be present with exactly three rounds.
func Decode(s string) (GameState, error) {
	var raw struct {
		Player1 []RoundState `json:"player1"`
		Player2 []RoundState `json:"player2"`
	}
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return GameState{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if len(raw.Player1) != 3 || len(raw.Player2) != 3 {
		return GameState{}, fmt.Errorf("%w: expected 3 rounds per player, got %d and %d",
			ErrMalformedState, len(raw.Player1), len(raw.Player2))
	}

	var gs GameState
	for i := 0; i < 3; i++ {
		gs.Player1[i] = normalize(raw.Player1[i])
		gs.Player2[i] = normalize(raw.Player2[i])
	}
	return gs, nil
}

func normalize(rs RoundState) RoundState {
	if rs.Expeditions == nil {
		rs.Expeditions = map[shared.ExpeditionCard]bool{}
	}
	if rs.Wagers == nil {
		rs.Wagers = map[shared.Suit]int{}
	}
	return rs
}
