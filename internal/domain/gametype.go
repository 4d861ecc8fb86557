package domain

import "doppelkopf/internal/rules"

// GameType identifies the variant a round is played as. Values double as the
// wire names used in round.change payloads and in the solos gamerule.
type GameType string

const (
	GameNormal        GameType = "normal"
	GameSilentWedding GameType = "silent_wedding"
	GamePoverty       GameType = "poverty"
	GameWedding       GameType = "wedding"
	GameRamsch        GameType = "ramsch"
	GameRamschSW      GameType = "ramsch_sw"
	GameBlackSow      GameType = "black_sow"

	// Early exits. Rounds of these types score nothing.
	GameThrow         GameType = "throw"
	GamePovertyCancel GameType = "poverty_cancel"

	SoloDiamonds     GameType = "solo_diamonds"
	SoloHearts       GameType = "solo_hearts"
	SoloSpades       GameType = "solo_spades"
	SoloClubs        GameType = "solo_clubs"
	SoloQueens       GameType = "solo_queens"
	SoloJacks        GameType = "solo_jacks"
	SoloKings        GameType = "solo_kings"
	SoloBrothel      GameType = "solo_brothel"
	SoloMonastery    GameType = "solo_monastery"
	SoloNobleBrothel GameType = "solo_noble_brothel"
	SoloPicture      GameType = "solo_picture"
	SoloFleshless    GameType = "solo_fleshless"
	SoloNull         GameType = "solo_null"
	SoloPureDiamonds GameType = "solo_pure_diamonds"
	SoloPureHearts   GameType = "solo_pure_hearts"
	SoloPureSpades   GameType = "solo_pure_spades"
	SoloPureClubs    GameType = "solo_pure_clubs"
)

// soloByRuleName maps the solos gamerule option names onto game types.
var soloByRuleName = map[string]GameType{
	"diamonds":      SoloDiamonds,
	"hearts":        SoloHearts,
	"spades":        SoloSpades,
	"clubs":         SoloClubs,
	"queens":        SoloQueens,
	"jacks":         SoloJacks,
	"kings":         SoloKings,
	"brothel":       SoloBrothel,
	"monastery":     SoloMonastery,
	"noble_brothel": SoloNobleBrothel,
	"picture":       SoloPicture,
	"fleshless":     SoloFleshless,
	"null":          SoloNull,
	"pure_diamonds": SoloPureDiamonds,
	"pure_hearts":   SoloPureHearts,
	"pure_spades":   SoloPureSpades,
	"pure_clubs":    SoloPureClubs,
}

// SoloFromRuleName resolves a solos-rule option name to its game type.
func SoloFromRuleName(name string) (GameType, bool) {
	gt, ok := soloByRuleName[name]
	return gt, ok
}

// SoloRuleName is the inverse of SoloFromRuleName.
func SoloRuleName(gt GameType) string {
	for name, t := range soloByRuleName {
		if t == gt {
			return name
		}
	}
	return ""
}

// IsSolo reports whether the game type is an announced or promoted solo
// (one seat against three, solo tariff applies). Silent wedding also scores
// with the solo tariff but is not announced.
func (gt GameType) IsSolo() bool {
	return SoloRuleName(gt) != ""
}

// SoloTariff reports whether round values are tripled per seat: every game
// with a single-seat re party.
func (gt GameType) SoloTariff() bool {
	return gt.IsSolo() || gt == GameSilentWedding
}

// PartiesOpen reports whether re membership is revealed by playing a queen
// of clubs during the round.
func (gt GameType) PartiesOpen() bool {
	switch gt {
	case GameNormal, GameSilentWedding, GameRamsch, GameRamschSW:
		return true
	}
	return false
}

// Discarded reports whether the round ended without being played out.
func (gt GameType) Discarded() bool {
	return gt == GameThrow || gt == GamePovertyCancel
}

// SoloPriority returns the rank of a solo in the announcement-priority order,
// lower is stronger. Non-solos rank below every solo.
func SoloPriority(gt GameType) int {
	name := SoloRuleName(gt)
	for i, n := range rules.SoloNames {
		if n == name {
			return i
		}
	}
	return len(rules.SoloNames)
}
