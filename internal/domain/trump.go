package domain

import "doppelkopf/internal/rules"

// Trick rank rungs for the special high trumps.
const (
	rankHeart10   = 100
	rankPig       = 200
	rankSuperpig  = 300
	rankJokerH10  = 150
	rankJokerPigs = 250
	rankJokerSup  = 350
)

// TrumpScheme decides, for one game type under one ruleset, which cards are
// trump and how they rank inside a trick. Cards carry no trump knowledge of
// their own.
type TrumpScheme struct {
	GameType GameType

	trumpColor    Color // colour playing the diamonds role
	hasTrumpColor bool
	faceTrump     map[Face]bool // picture groups that are trump
	pure          bool          // pure-colour solo ladder
	h10           bool          // hearts-10 on the superior rung
	shiftTen      bool          // soloed-colour tens swap places with hearts-10
	jokerRank     int           // 0 when jokers are out of the deck
}

// NewTrumpScheme builds the scheme for a game type and ruleset.
func NewTrumpScheme(gt GameType, rs *rules.Ruleset) *TrumpScheme {
	s := &TrumpScheme{
		GameType:  gt,
		faceTrump: map[Face]bool{},
		h10:       rs.Bool(rules.Heart10),
	}
	switch rs.String(rules.Joker) {
	case "over_h10":
		s.jokerRank = rankJokerH10
	case "over_pigs":
		s.jokerRank = rankJokerPigs
	case "over_superpigs":
		s.jokerRank = rankJokerSup
	}

	switch gt {
	case SoloHearts, SoloSpades, SoloClubs:
		s.trumpColor = map[GameType]Color{SoloHearts: ColorHearts, SoloSpades: ColorSpades, SoloClubs: ColorClubs}[gt]
		s.hasTrumpColor = true
		s.faceTrump[FaceJack] = true
		s.faceTrump[FaceQueen] = true
		s.shiftTen = rs.Bool(rules.SoloShiftH10) && s.trumpColor != ColorHearts

	case SoloQueens:
		s.faceTrump[FaceQueen] = true
	case SoloJacks:
		s.faceTrump[FaceJack] = true
	case SoloKings:
		s.faceTrump[FaceKing] = true
	case SoloBrothel:
		s.faceTrump[FaceQueen] = true
		s.faceTrump[FaceJack] = true
	case SoloMonastery:
		s.faceTrump[FaceKing] = true
		s.faceTrump[FaceQueen] = true
	case SoloNobleBrothel:
		s.faceTrump[FaceKing] = true
		s.faceTrump[FaceJack] = true
	case SoloPicture:
		s.faceTrump[FaceKing] = true
		s.faceTrump[FaceQueen] = true
		s.faceTrump[FaceJack] = true

	case SoloFleshless:
		// hearts-10 and jokers only

	case SoloPureDiamonds, SoloPureHearts, SoloPureSpades, SoloPureClubs:
		s.trumpColor = map[GameType]Color{
			SoloPureDiamonds: ColorDiamonds, SoloPureHearts: ColorHearts,
			SoloPureSpades: ColorSpades, SoloPureClubs: ColorClubs,
		}[gt]
		s.hasTrumpColor = true
		s.pure = true
		s.h10 = false
		s.jokerRank = 0

	default:
		// Normal family: normal, silent wedding, poverty, wedding, ramsch,
		// black sow, solo diamonds, null.
		s.trumpColor = ColorDiamonds
		s.hasTrumpColor = true
		s.faceTrump[FaceJack] = true
		s.faceTrump[FaceQueen] = true
	}
	return s
}

// IsTrump reports whether the card belongs to the unified trump suit.
func (s *TrumpScheme) IsTrump(c Card) bool {
	if c.Face == FaceJoker {
		return s.jokerRank > 0
	}
	if s.pure {
		return c.Color == s.trumpColor
	}
	if s.faceTrump[c.Face] {
		return true
	}
	if s.h10 && c.Is(ColorHearts, FaceTen) {
		return true
	}
	if s.hasTrumpColor && c.Color == s.trumpColor {
		return true
	}
	return false
}

// PigColor returns the colour whose aces become pigs, if the scheme has one.
func (s *TrumpScheme) PigColor() (Color, bool) {
	if s.hasTrumpColor && !s.pure {
		return s.trumpColor, true
	}
	return ColorDiamonds, false
}

// IsPig reports whether the card is a pig ace of this scheme.
func (s *TrumpScheme) IsPig(c Card) bool {
	color, ok := s.PigColor()
	return ok && c.Is(color, FaceAce)
}

// SuperpigFace is the face acting as superpig: nines, or kings when nines
// are out of the deck.
func SuperpigFace(rs *rules.Ruleset) Face {
	if rs.String(rules.Without9) == "without" {
		return FaceKing
	}
	return FaceNine
}

// IsSuperpig reports whether the card is a superpig card of this scheme.
func (s *TrumpScheme) IsSuperpig(c Card, rs *rules.Ruleset) bool {
	color, ok := s.PigColor()
	return ok && c.Is(color, SuperpigFace(rs))
}

func colorIndex(c Color) int {
	switch c {
	case ColorDiamonds:
		return 0
	case ColorHearts:
		return 1
	case ColorSpades:
		return 2
	default:
		return 3
	}
}

// TrickRank returns the integer sort key of a trump card; higher wins.
// pigsActive/superpigsActive reflect whether those announcements are live in
// the current round. Non-trump cards rank 0.
func (s *TrumpScheme) TrickRank(c Card, rs *rules.Ruleset, pigsActive, superpigsActive bool) int {
	if !s.IsTrump(c) {
		return 0
	}
	if c.Face == FaceJoker {
		return s.jokerRank
	}
	if superpigsActive && s.IsSuperpig(c, rs) {
		return rankSuperpig
	}
	if pigsActive && s.IsPig(c) {
		if superpigsActive {
			return 13 // called superpigs demote the pig aces
		}
		return rankPig
	}

	if s.pure {
		switch c.Face {
		case FaceNine:
			return 10
		case FaceJack:
			return 11
		case FaceQueen:
			return 12
		case FaceKing:
			return 13
		case FaceTen:
			return 14
		default:
			return 15
		}
	}

	// Superior-rung tens: hearts-10, or the soloed colour's tens when the
	// shift rule swaps the two.
	if s.h10 {
		if s.shiftTen {
			if c.Is(s.trumpColor, FaceTen) {
				return rankHeart10
			}
			if c.Is(ColorHearts, FaceTen) {
				return 12 // takes the vacated ladder slot
			}
		} else if c.Is(ColorHearts, FaceTen) {
			return rankHeart10
		}
	}

	switch c.Face {
	case FaceKing:
		if s.faceTrump[FaceKing] {
			return 40 + colorIndex(c.Color)
		}
	case FaceQueen:
		if s.faceTrump[FaceQueen] {
			return 30 + colorIndex(c.Color)
		}
	case FaceJack:
		if s.faceTrump[FaceJack] {
			return 20 + colorIndex(c.Color)
		}
	}

	// Low ladder of the trump colour.
	switch c.Face {
	case FaceNine:
		return 10
	case FaceKing:
		return 11
	case FaceTen:
		return 12
	default: // ace
		return 13
	}
}

// SideRank ranks a non-trump card within its natural colour: 1-based position
// in the face order 9, J, Q, K, 10, A with trump faces skipped. Trump cards
// rank 0 here.
func (s *TrumpScheme) SideRank(c Card) int {
	if s.IsTrump(c) {
		return 0
	}
	rank := 0
	for _, f := range []Face{FaceNine, FaceJack, FaceQueen, FaceKing, FaceTen, FaceAce} {
		if s.IsTrump(Card{Color: c.Color, Face: f}) {
			continue
		}
		rank++
		if f == c.Face {
			return rank
		}
	}
	return 0
}

// MatchesLead reports whether playing c follows the effective colour of the
// lead card. All trumps count as one colour.
func (s *TrumpScheme) MatchesLead(c, lead Card) bool {
	if s.IsTrump(lead) {
		return s.IsTrump(c)
	}
	return !s.IsTrump(c) && c.Color == lead.Color
}

// HasLeadColor reports whether the hand holds any card following the lead.
func (s *TrumpScheme) HasLeadColor(hand []Card, lead Card) bool {
	for _, c := range hand {
		if s.MatchesLead(c, lead) {
			return true
		}
	}
	return false
}

// trickValue is the comparable strength of a played card given the lead.
func (s *TrumpScheme) trickValue(c, lead Card, rs *rules.Ruleset, pigs, superpigs bool) int {
	if s.IsTrump(c) {
		return s.TrickRank(c, rs, pigs, superpigs)
	}
	if s.IsTrump(lead) {
		return 0
	}
	if c.Color == lead.Color {
		return s.SideRank(c)
	}
	return 0
}

// TrickWinner returns the index of the winning card. Equal-value pairs fall
// to the first card except for the hearts-10 and last-trick charlie rules.
func (s *TrumpScheme) TrickWinner(cards []Card, rs *rules.Ruleset, pigsActive, superpigsActive, lastTrick bool) int {
	if len(cards) == 0 {
		return -1
	}
	lead := cards[0]
	best := 0
	bestVal := s.trickValue(lead, lead, rs, pigsActive, superpigsActive)
	for i := 1; i < len(cards); i++ {
		v := s.trickValue(cards[i], lead, rs, pigsActive, superpigsActive)
		switch {
		case v > bestVal:
			best, bestVal = i, v
		case v == bestVal && v > 0 && s.secondOfPairWins(cards[i], rs, lastTrick):
			best = i
		}
	}
	return best
}

// secondOfPairWins resolves the two-identical-cards tie-breaks.
func (s *TrumpScheme) secondOfPairWins(c Card, rs *rules.Ruleset, lastTrick bool) bool {
	onSuperiorRung := s.h10 && (c.Is(ColorHearts, FaceTen) || (s.shiftTen && c.Is(s.trumpColor, FaceTen)))
	if onSuperiorRung {
		if lastTrick {
			return rs.String(rules.Heart10Lasttrick) == rules.OptSecond
		}
		return rs.String(rules.Heart10Prio) == rules.OptSecond
	}
	if lastTrick && c.Is(ColorClubs, FaceJack) {
		return rs.String(rules.CharliePrio) == rules.OptSecond
	}
	return false
}
