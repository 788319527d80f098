package game

import "lostcities-calculator/internal/shared"

const (
	investmentCost = 20 // Cost of opening an expedition
	bonusPoints    = 20
	bonusCardCount = 8 // Cards (wagers included) needed for the bonus
)

// SuitScore holds the scoring breakdown for one expedition.
type SuitScore struct {
	Suit            shared.Suit `json:"suit"`
	ExpeditionTotal int         `json:"expedition_total"`
	Wager           int         `json:"wager"`
	CardCount       int         `json:"card_count"`
	ROI             int         `json:"roi"`
	Bonus           int         `json:"bonus"`
	Score           int         `json:"score"`
}

// ScoreSuit computes one expedition's score.
// Each wager beyond the first counts as a card toward the bonus.
func ScoreSuit(rs RoundState, suit shared.Suit) SuitScore {
	s := SuitScore{Suit: suit, Wager: rs.Wager(suit)}
	for _, rank := range shared.Ranks {
		if rs.Played(shared.CardOf(suit, rank)) {
			s.ExpeditionTotal += int(rank)
			s.CardCount++
		}
	}
	s.CardCount += s.Wager - 1

	if s.CardCount > 0 {
		s.ROI = s.ExpeditionTotal - investmentCost
	}
	if s.CardCount >= bonusCardCount {
		s.Bonus = bonusPoints
	}
	s.Score = s.ROI*s.Wager + s.Bonus
	return s
}

// ScoreRound sums the expedition scores over the given suits.
func ScoreRound(rs RoundState, suits []shared.Suit) int {
	total := 0
	for _, suit := range suits {
		total += ScoreSuit(rs, suit).Score
	}
	return total
}

// PlayerScore is one player's round scores and game total.
type PlayerScore struct {
	Rounds [3]int `json:"rounds"`
	Total  int    `json:"total"`
}

// Scoreboard holds both players' scores, indexed by player.
type Scoreboard [2]PlayerScore

// Score computes the scoreboard for the given suits.
func (gs GameState) Score(suits []shared.Suit) Scoreboard {
	var board Scoreboard
	for _, player := range shared.Players {
		ps := &board[player.Index()]
		for _, round := range shared.Rounds {
			score := ScoreRound(gs.CardsFor(round, player), suits)
			ps.Rounds[round.Index()] = score
			ps.Total += score
		}
	}
	return board
}
