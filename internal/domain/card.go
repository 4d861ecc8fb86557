package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Color is the printed colour of a card. The effective colour during play
// (trump vs side suit) is decided by the TrumpScheme, not by the card.
type Color int

const (
	ColorDiamonds Color = iota
	ColorHearts
	ColorSpades
	ColorClubs
	ColorJoker
)

// Face is the printed face of a card.
type Face int

const (
	FaceNine Face = iota
	FaceJack
	FaceQueen
	FaceKing
	FaceTen
	FaceAce
	FaceJoker
)

func (c Color) String() string {
	switch c {
	case ColorDiamonds:
		return "diamonds"
	case ColorHearts:
		return "hearts"
	case ColorSpades:
		return "spades"
	case ColorClubs:
		return "clubs"
	case ColorJoker:
		return "joker"
	default:
		return "?"
	}
}

func (f Face) String() string {
	switch f {
	case FaceNine:
		return "9"
	case FaceJack:
		return "J"
	case FaceQueen:
		return "Q"
	case FaceKing:
		return "K"
	case FaceTen:
		return "10"
	case FaceAce:
		return "A"
	case FaceJoker:
		return "joker"
	default:
		return "?"
	}
}

// Card is a single card of the double Doppelkopf deck. ID is an opaque
// per-round identifier; two cards of the same colour and face carry
// different IDs.
type Card struct {
	ID    string `json:"id"`
	Color Color  `json:"color"`
	Face  Face   `json:"face"`
}

// NewCard mints a card with a fresh opaque id.
func NewCard(color Color, face Face) Card {
	return Card{ID: uuid.NewString(), Color: color, Face: face}
}

func (c Card) String() string {
	if c.Face == FaceJoker {
		return "joker"
	}
	return fmt.Sprintf("%s%s", c.Face, c.Color)
}

// Eyes returns the point value of the card.
func (c Card) Eyes() int {
	switch c.Face {
	case FaceJack:
		return 2
	case FaceQueen:
		return 3
	case FaceKing:
		return 4
	case FaceTen:
		return 10
	case FaceAce:
		return 11
	default:
		return 0
	}
}

// Is reports whether the card shows the given colour and face.
func (c Card) Is(color Color, face Face) bool {
	return c.Color == color && c.Face == face
}

// Eyes sums the point values of a set of cards.
func Eyes(cards []Card) int {
	sum := 0
	for _, c := range cards {
		sum += c.Eyes()
	}
	return sum
}

// CountCard returns how many cards in the set show the given colour and face.
func CountCard(cards []Card, color Color, face Face) int {
	n := 0
	for _, c := range cards {
		if c.Is(color, face) {
			n++
		}
	}
	return n
}
