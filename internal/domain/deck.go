package domain

import "doppelkopf/internal/rules"

// nonJokerColors in the order used for deck building and rank ladders.
var nonJokerColors = []Color{ColorDiamonds, ColorHearts, ColorSpades, ColorClubs}

// NewDeck builds the double deck for one round under the given rules.
// Every face of every non-joker colour appears twice; nines are thinned per
// without9 (with_four keeps the red nines); jokers replace the two hearts
// nines so deck size and the 240-eye total stay fixed.
func NewDeck(rs *rules.Ruleset) []Card {
	withJoker := rs.String(rules.Joker) != rules.OptNone

	deck := make([]Card, 0, 48)
	for _, color := range nonJokerColors {
		for _, face := range []Face{FaceNine, FaceJack, FaceQueen, FaceKing, FaceTen, FaceAce} {
			if face == FaceNine && !nineIncluded(rs, color, withJoker) {
				continue
			}
			deck = append(deck, NewCard(color, face), NewCard(color, face))
		}
	}
	if withJoker {
		deck = append(deck, NewCard(ColorJoker, FaceJoker), NewCard(ColorJoker, FaceJoker))
	}
	return deck
}

func nineIncluded(rs *rules.Ruleset, color Color, withJoker bool) bool {
	switch rs.String(rules.Without9) {
	case "without":
		return false
	case "with_four":
		return color == ColorDiamonds || color == ColorHearts
	default:
		if withJoker && color == ColorHearts {
			return false
		}
		return true
	}
}

// HandSize returns the number of cards each seat is dealt, which is also the
// number of tricks in the round.
func HandSize(rs *rules.Ruleset) int {
	switch rs.String(rules.Without9) {
	case "without":
		return 10
	case "with_four":
		return 11
	default:
		return 12
	}
}

// RemoveCard removes the card with the given id from a hand. The second
// return is false when the id is not present.
func RemoveCard(hand []Card, id string) ([]Card, bool) {
	for i := range hand {
		if hand[i].ID == id {
			return append(hand[:i:i], hand[i+1:]...), true
		}
	}
	return hand, false
}

// FindCard returns the card with the given id from a set, or nil.
func FindCard(cards []Card, id string) *Card {
	for i := range cards {
		if cards[i].ID == id {
			return &cards[i]
		}
	}
	return nil
}
