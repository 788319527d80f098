package shared

import (
	"fmt"
	"log"
)

// Player identifies which of the two players is being edited.
type Player string

const (
	Player1 Player = "Player 1"
	Player2 Player = "Player 2"
)

// Round identifies one of the three rounds of a game.
type Round string

const (
	Round1 Round = "Round 1"
	Round2 Round = "Round 2"
	Round3 Round = "Round 3"
)

// Players and Rounds list the enumerations in display order.
var (
	Players = []Player{Player1, Player2}
	Rounds  = []Round{Round1, Round2, Round3}
)

// ParsePlayer checks that s is "Player 1" or "Player 2".
func ParsePlayer(s string) (Player, error) {
	switch Player(s) {
	case Player1, Player2:
		return Player(s), nil
	}
	return "", fmt.Errorf("unknown player %q", s)
}

// ParseRound checks that s is "Round 1", "Round 2" or "Round 3".
func ParseRound(s string) (Round, error) {
	switch Round(s) {
	case Round1, Round2, Round3:
		return Round(s), nil
	}
	return "", fmt.Errorf("unknown round %q", s)
}

// Other returns the opposing player.
func (p Player) Other() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Index returns 0 or 1. Anything else is a programming error.
func (p Player) Index() int {
	switch p {
	case Player1:
		return 0
	case Player2:
		return 1
	}
	log.Panicf("Invalid player: %q", string(p))
	return -1
}

// Index returns 0, 1 or 2. Anything else is a programming error.
func (r Round) Index() int {
	switch r {
	case Round1:
		return 0
	case Round2:
		return 1
	case Round3:
		return 2
	}
	log.Panicf("Invalid round: %q", string(r))
	return -1
}

// Coordinate addresses one player's round in a game.
type Coordinate struct {
	Player Player `json:"player"`
	Round  Round  `json:"round"`
}
