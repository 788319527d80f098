package shared

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit represents the color of an expedition (e.g., Yellow, Blue, Purple).
type Suit string

const (
	Yellow Suit = "yellow"
	Blue   Suit = "blue"
	White  Suit = "white"
	Green  Suit = "green"
	Red    Suit = "red"
	Purple Suit = "purple"
)

// Rank is the face value of an expedition card.
type Rank int

const (
	MinRank Rank = 2
	MaxRank Rank = 10
)

// AllSuits is the canonical suit order used for persisted and scored data.
var AllSuits = []Suit{Yellow, Blue, White, Green, Red, Purple}

// Ranks lists every expedition rank in ascending order.
var Ranks = []Rank{2, 3, 4, 5, 6, 7, 8, 9, 10}

// ActiveSuits returns the suits in play. The short game leaves out purple.
func ActiveSuits(longGame bool) []Suit {
	if longGame {
		return AllSuits
	}
	return AllSuits[:5]
}

// ParseSuit checks that s names a known suit.
func ParseSuit(s string) (Suit, error) {
	for _, suit := range AllSuits {
		if string(suit) == s {
			return suit, nil
		}
	}
	return "", fmt.Errorf("unknown suit %q", s)
}

// IsActive reports whether the suit is part of the given suit set.
func (s Suit) IsActive(suits []Suit) bool {
	for _, active := range suits {
		if active == s {
			return true
		}
	}
	return false
}

// ExpeditionCard identifies a single card as "<suit>-<rank>", e.g. "blue-7".
type ExpeditionCard string

// CardOf builds the key for a suit and rank.
func CardOf(suit Suit, rank Rank) ExpeditionCard {
	return ExpeditionCard(string(suit) + "-" + strconv.Itoa(int(rank)))
}

// ParseExpeditionCard validates a card key and splits it into suit and rank.
func ParseExpeditionCard(s string) (ExpeditionCard, Suit, Rank, error) {
	suitPart, rankPart, ok := strings.Cut(s, "-")
	if !ok {
		return "", "", 0, fmt.Errorf("invalid card %q", s)
	}
	suit, err := ParseSuit(suitPart)
	if err != nil {
		return "", "", 0, err
	}
	n, err := strconv.Atoi(rankPart)
	if err != nil || Rank(n) < MinRank || Rank(n) > MaxRank {
		return "", "", 0, fmt.Errorf("invalid rank in card %q", s)
	}
	return CardOf(suit, Rank(n)), suit, Rank(n), nil
}

// Suit returns the suit part of the key, or "" if the key is malformed.
func (c ExpeditionCard) Suit() Suit {
	suit, _, ok := strings.Cut(string(c), "-")
	if !ok {
		return ""
	}
	return Suit(suit)
}
