package game

import (
	"maps"

	"lostcities-calculator/internal/shared"
)

const maxWager = 4

// RoundState is what one player recorded for one round.
type RoundState struct {
	Expeditions map[shared.ExpeditionCard]bool `json:"expeditions"` // Played cards; only true means played
	Wagers      map[shared.Suit]int            `json:"wagers"`      // Wager multiplier per suit, only values above 1
}

// NewRoundState returns a blank round with empty maps.
func NewRoundState() RoundState {
	return RoundState{
		Expeditions: map[shared.ExpeditionCard]bool{},
		Wagers:      map[shared.Suit]int{},
	}
}

// Played reports whether the card is marked as played.
func (rs RoundState) Played(card shared.ExpeditionCard) bool {
	return rs.Expeditions[card]
}

// Wager returns the multiplier for a suit, 1 when none is recorded.
func (rs RoundState) Wager(suit shared.Suit) int {
	w := rs.Wagers[suit]
	if w < 1 {
		return 1
	}
	return w
}

// IsBlank reports whether nothing is recorded.
func (rs RoundState) IsBlank() bool {
	for _, played := range rs.Expeditions {
		if played {
			return false
		}
	}
	for _, w := range rs.Wagers {
		if w > 1 {
			return false
		}
	}
	return true
}

// ToggleExpedition returns a copy with the card flipped between played and not played.
func (rs RoundState) ToggleExpedition(card shared.ExpeditionCard) RoundState {
	next := maps.Clone(rs.Expeditions)
	if next == nil {
		next = map[shared.ExpeditionCard]bool{}
	}
	if next[card] {
		delete(next, card)
	} else {
		next[card] = true
	}
	return RoundState{Expeditions: next, Wagers: rs.Wagers}
}

// CycleWager returns a copy with the suit's wager advanced 1 -> 2 -> 3 -> 4 -> 1.
func (rs RoundState) CycleWager(suit shared.Suit) RoundState {
	next := maps.Clone(rs.Wagers)
	if next == nil {
		next = map[shared.Suit]int{}
	}
	if w := rs.Wager(suit); w < maxWager {
		next[suit] = w + 1
	} else {
		delete(next, suit)
	}
	return RoundState{Expeditions: rs.Expeditions, Wagers: next}
}

// ToggleExpedition returns an updater for GameState.Update.
func ToggleExpedition(card shared.ExpeditionCard) func(RoundState) RoundState {
	return func(rs RoundState) RoundState { return rs.ToggleExpedition(card) }
}

// CycleWager returns an updater for GameState.Update.
func CycleWager(suit shared.Suit) func(RoundState) RoundState {
	return func(rs RoundState) RoundState { return rs.CycleWager(suit) }
}
