package domain

import "doppelkopf/internal/rules"

// ThrowAllowed reports whether the hand realises any of the enabled throw
// cases under a scheme. The returned name identifies the first matching case.
func ThrowAllowed(hand []Card, scheme *TrumpScheme, rs *rules.Ruleset) (string, bool) {
	for _, name := range rs.List(rules.ThrowCases) {
		if throwCase(name, hand, scheme, rs) {
			return name, true
		}
	}
	return "", false
}

func throwCase(name string, hand []Card, scheme *TrumpScheme, rs *rules.Ruleset) bool {
	switch name {
	case "five_nines":
		return countFace(hand, FaceNine) >= 5
	case "five_kings":
		return countFace(hand, FaceKing) >= 5
	case "four_nines_four_kings":
		return countFace(hand, FaceNine) >= 4 && countFace(hand, FaceKing) >= 4
	case "nines_all_colors":
		return faceInAllColors(hand, FaceNine)
	case "kings_all_colors":
		return faceInAllColors(hand, FaceKing)
	case "seven_full":
		return countFace(hand, FaceTen)+countFace(hand, FaceAce) >= 7
	case "no_trump_above_heart_jack":
		return highestTrumpRank(hand, scheme, rs) <= 21 // jack of hearts
	case "no_trump_above_diamond_jack":
		return highestTrumpRank(hand, scheme, rs) <= 20 // jack of diamonds
	default:
		return false
	}
}

func countFace(hand []Card, f Face) int {
	n := 0
	for _, c := range hand {
		if c.Face == f {
			n++
		}
	}
	return n
}

func faceInAllColors(hand []Card, f Face) bool {
	for _, color := range nonJokerColors {
		if CountCard(hand, color, f) == 0 {
			return false
		}
	}
	return true
}

func highestTrumpRank(hand []Card, scheme *TrumpScheme, rs *rules.Ruleset) int {
	high := 0
	for _, c := range hand {
		if r := scheme.TrickRank(c, rs, false, false); r > high {
			high = r
		}
	}
	return high
}

// TrumpCount returns how many cards of the hand are trump.
func TrumpCount(hand []Card, scheme *TrumpScheme) int {
	n := 0
	for _, c := range hand {
		if scheme.IsTrump(c) {
			n++
		}
	}
	return n
}
