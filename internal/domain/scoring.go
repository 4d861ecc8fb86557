package domain

import (
	"fmt"

	"doppelkopf/internal/rules"
)

// RoundResult is the outcome of a counted round.
type RoundResult struct {
	GameType   GameType             `json:"game_type"`
	Winner     Party                `json:"winner"`
	Value      int                  `json:"value"` // per-seat magnitude
	SeatValues [4]int               `json:"seat_values"`
	ReEyes     int                  `json:"re_eyes"`
	KontraEyes int                  `json:"kontra_eyes"`
	Parties    [4]Party             `json:"parties"`
	Mods       map[Party]*Modifiers `json:"modifiers"`
	Extras     [4][]Extra           `json:"extras"`
	// Summary is a token list a client localises into the round report.
	Summary      []string `json:"summary"`
	BuckTriggers []string `json:"buck_triggers"`
}

// ScoreRound computes the result of a round in phase counting. Discarded
// rounds (throw, poverty_cancel) score zero everywhere.
func ScoreRound(r *Round) *RoundResult {
	res := &RoundResult{
		GameType: r.GameType,
		Winner:   PartyNone,
		Parties:  r.Parties,
		Mods:     r.Mods,
		Extras:   r.ExtrasBySeat,
	}
	if r.GameType.Discarded() {
		res.Summary = []string{string(r.GameType)}
		return res
	}

	res.ReEyes = r.PartyEyes(PartyRe)
	res.KontraEyes = r.PartyEyes(PartyKontra)

	if r.GameType == GameRamsch || r.GameType == GameRamschSW {
		scoreRamsch(r, res)
		return res
	}

	re, kontra := r.Mods[PartyRe], r.Mods[PartyKontra]
	reWins := res.ReEyes >= WinThreshold(PartyRe, re, kontra)
	kontraWins := res.KontraEyes >= WinThreshold(PartyKontra, re, kontra)

	switch {
	case reWins && !kontraWins:
		res.Winner = PartyRe
	case kontraWins && !reWins:
		res.Winner = PartyKontra
	default:
		// Both cannot win; thresholds guarantee it.
		res.Winner = PartyNone
	}

	if res.Winner == PartyNone {
		res.Summary = append(res.Summary, "draw")
		res.BuckTriggers = buckTriggers(r, res)
		return res
	}

	winnerEyes, loserEyes := res.ReEyes, res.KontraEyes
	winMods, loseMods := re, kontra
	if res.Winner == PartyKontra {
		winnerEyes, loserEyes = res.KontraEyes, res.ReEyes
		winMods, loseMods = kontra, re
	}

	value := 1
	res.Summary = append(res.Summary, string(res.Winner)+"_wins", fmt.Sprintf("eyes_%d", winnerEyes))

	// One point per 30-eye bracket the loser fell under; black counts as a
	// fourth bracket when the losing party took no trick.
	for _, bracket := range []int{90, 60, 30} {
		if loserEyes < bracket {
			value++
			res.Summary = append(res.Summary, fmt.Sprintf("under_%d", bracket))
		}
	}
	if partyTrickless(r, res.Winner.Opponent()) {
		value++
		res.Summary = append(res.Summary, "black")
	}

	// Reached own denials and failed opposing denials, one point each.
	for level := 1; level <= winMods.Denial; level++ {
		if loserEyes < [5]int{0, 90, 60, 30, 1}[level] || (level == DenialBlack && partyTrickless(r, res.Winner.Opponent())) {
			value++
			res.Summary = append(res.Summary, "reached_"+DenialName(level))
		}
	}
	for level := 1; level <= loseMods.Denial; level++ {
		value++
		res.Summary = append(res.Summary, "failed_"+DenialName(level))
	}

	// Overshoot: brackets of 30 eyes the winner reached above the cap an
	// opposing denial promised.
	if loseMods.Denial > 0 {
		cap := [5]int{0, 90, 60, 30, 0}[loseMods.Denial]
		if winnerEyes > cap {
			over := (winnerEyes - cap - 1) / 30
			value += over
			for i := 0; i < over; i++ {
				res.Summary = append(res.Summary, "overshoot_30")
			}
		}
	}

	announcements := 0
	if re.Announced {
		announcements++
	}
	if kontra.Announced {
		announcements++
	}

	mode := r.Rules.String(rules.ReKontra)
	if mode == "+2" {
		value += 2 * announcements
	}

	// Against the queens: kontra beating an open-party game earns one more.
	if res.Winner == PartyKontra && r.GameType.PartiesOpen() {
		value++
		res.Summary = append(res.Summary, "against_queens")
	}

	if mode == "*2" {
		value <<= announcements
	}

	value += partyExtraCount(r, res.Winner) - partyExtraCount(r, res.Winner.Opponent())

	if mode == "*2_extra" {
		value <<= announcements
	}

	if cowardInverts(r, res.Winner, winMods, winnerEyes) {
		value = -value
		res.Summary = append(res.Summary, "coward")
	}

	res.Value = value
	res.SeatValues = distribute(r, res.Winner, value)
	res.BuckTriggers = buckTriggers(r, res)
	return res
}

// scoreRamsch treats the lowest-eye seat as the winner on the solo tariff.
func scoreRamsch(r *Round, res *RoundResult) {
	low := 0
	for s := 1; s < NumSeats; s++ {
		if r.EyesBySeat[s] < r.EyesBySeat[low] {
			low = s
		}
	}
	res.Value = 1
	for s := 0; s < NumSeats; s++ {
		if s == low {
			res.SeatValues[s] = 3
		} else {
			res.SeatValues[s] = -1
		}
	}
	res.Summary = append(res.Summary, "ramsch", fmt.Sprintf("low_seat_%d", low))
	res.BuckTriggers = buckTriggers(r, res)
}

// distribute assigns per-seat values: a single-seat party plays on the solo
// tariff, its lone member carrying three times the value.
func distribute(r *Round, winner Party, value int) [4]int {
	var out [4]int
	loser := winner.Opponent()
	winFactor, loseFactor := 1, 1
	if len(r.PartySeats(winner)) == 1 {
		winFactor = 3
	}
	if len(r.PartySeats(loser)) == 1 {
		loseFactor = 3
	}
	for s := 0; s < NumSeats; s++ {
		switch r.Parties[s] {
		case winner:
			out[s] = value * winFactor
		case loser:
			out[s] = -value * loseFactor
		}
	}
	return out
}

func partyTrickless(r *Round, p Party) bool {
	for _, s := range r.PartySeats(p) {
		if len(r.Slots[SlotTricks(s)]) > 0 {
			return false
		}
	}
	return true
}

func partyExtraCount(r *Round, p Party) int {
	n := 0
	for _, s := range r.PartySeats(p) {
		n += len(r.ExtrasBySeat[s])
	}
	return n
}

func cowardInverts(r *Round, winner Party, winMods *Modifiers, winnerEyes int) bool {
	switch r.Rules.String(rules.Coward) {
	case "210_no_re":
		return winnerEyes >= 211 && !winMods.Announced
	case "240_no_u90":
		return winnerEyes == 240 && !winMods.Announced && winMods.Denial == DenialNone
	default:
		return false
	}
}

func buckTriggers(r *Round, res *RoundResult) []string {
	var out []string
	for _, cause := range r.Rules.List(rules.BuckCause) {
		switch cause {
		case "four_hearts":
			if r.HeartTricksSeen > 0 {
				out = append(out, cause)
			}
		case "draw":
			if res.Winner == PartyNone && !r.GameType.Discarded() && r.GameType != GameRamsch && r.GameType != GameRamschSW {
				out = append(out, cause)
			}
		case "zero_points":
			// Only meaningful when losing rounds are not replayed.
			if res.Value == 0 && !r.Rules.Bool(rules.RepeatGame) && res.Winner != PartyNone {
				out = append(out, cause)
			}
		case "re_kontra_lost":
			for _, p := range []Party{PartyRe, PartyKontra} {
				if r.Mods[p].Announced && res.Winner == p.Opponent() {
					out = append(out, cause)
					break
				}
			}
		case "solo_lost":
			if r.GameType.IsSolo() && r.Soloist >= 0 && res.Winner == PartyKontra {
				out = append(out, cause)
			}
		}
	}
	return out
}
