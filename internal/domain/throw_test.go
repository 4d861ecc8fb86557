package domain

import (
	"testing"

	"doppelkopf/internal/rules"
)

func mkHand(cards ...Card) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		c.ID = NewCard(c.Color, c.Face).ID
		out[i] = c
	}
	return out
}

func TestThrowAllowed(t *testing.T) {
	rs := rules.DefaultRuleset().With(rules.ThrowCases, []string{
		"five_nines", "five_kings", "nines_all_colors", "seven_full",
		"no_trump_above_heart_jack",
	})
	scheme := NewTrumpScheme(GameNormal, rs)

	nine := func(c Color) Card { return Card{Color: c, Face: FaceNine} }
	jack := func(c Color) Card { return Card{Color: c, Face: FaceJack} }
	queen := func(c Color) Card { return Card{Color: c, Face: FaceQueen} }
	king := func(c Color) Card { return Card{Color: c, Face: FaceKing} }
	ten := func(c Color) Card { return Card{Color: c, Face: FaceTen} }
	ace := func(c Color) Card { return Card{Color: c, Face: FaceAce} }

	tests := []struct {
		name     string
		hand     []Card
		wantCase string
		allowed  bool
	}{
		{
			name: "five nines",
			hand: mkHand(nine(ColorClubs), nine(ColorClubs), nine(ColorSpades), nine(ColorHearts), nine(ColorDiamonds),
				king(ColorClubs), ace(ColorSpades)),
			wantCase: "five_nines",
			allowed:  true,
		},
		{
			name: "four nines only",
			hand: mkHand(nine(ColorClubs), nine(ColorClubs), nine(ColorSpades), nine(ColorDiamonds),
				queen(ColorClubs), ace(ColorSpades)),
			allowed: false,
		},
		{
			name: "nines in all colors",
			hand: mkHand(nine(ColorClubs), nine(ColorSpades), nine(ColorHearts), nine(ColorDiamonds),
				queen(ColorClubs)),
			wantCase: "nines_all_colors",
			allowed:  true,
		},
		{
			name: "seven tens and aces",
			hand: mkHand(
				ace(ColorClubs), ace(ColorClubs),
				ace(ColorSpades), ten(ColorSpades),
				ten(ColorClubs), ten(ColorClubs),
				ace(ColorHearts), king(ColorClubs)),
			wantCase: "seven_full",
			allowed:  true,
		},
		{
			name: "no trump above heart jack",
			hand: mkHand(
				jack(ColorHearts), jack(ColorDiamonds),
				ace(ColorDiamonds), ace(ColorClubs),
				ace(ColorSpades), king(ColorClubs)),
			wantCase: "no_trump_above_heart_jack",
			allowed:  true,
		},
		{
			name: "spade jack blocks the jack case",
			hand: mkHand(
				jack(ColorSpades), jack(ColorDiamonds),
				ace(ColorDiamonds), ace(ColorClubs),
				ace(ColorSpades), king(ColorClubs)),
			allowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotCase, ok := ThrowAllowed(tt.hand, scheme, rs)
			if ok != tt.allowed {
				t.Fatalf("ThrowAllowed = %v (%s), want %v", ok, gotCase, tt.allowed)
			}
			if ok && gotCase != tt.wantCase {
				t.Errorf("case = %s, want %s", gotCase, tt.wantCase)
			}
		})
	}
}
