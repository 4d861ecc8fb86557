package domain

// Party is one side of a round.
type Party string

const (
	PartyRe      Party = "re"
	PartyKontra  Party = "kontra"
	PartyNone    Party = "none"
	PartyUnknown Party = "unknown"
)

// Opponent returns the other playing party.
func (p Party) Opponent() Party {
	switch p {
	case PartyRe:
		return PartyKontra
	case PartyKontra:
		return PartyRe
	default:
		return PartyNone
	}
}

// Denial levels. Level 0 means only the plain re/kontra call.
const (
	DenialNone  = 0
	DenialNo90  = 1
	DenialNo60  = 2
	DenialNo30  = 3
	DenialBlack = 4
)

// DenialName maps a level to its announcement name.
func DenialName(level int) string {
	switch level {
	case DenialNo90:
		return "no90"
	case DenialNo60:
		return "no60"
	case DenialNo30:
		return "no30"
	case DenialBlack:
		return "black"
	default:
		return ""
	}
}

// DenialLevel is the inverse of DenialName; 0 for unknown names.
func DenialLevel(name string) int {
	switch name {
	case "no90":
		return DenialNo90
	case "no60":
		return DenialNo60
	case "no30":
		return DenialNo30
	case "black":
		return DenialBlack
	default:
		return DenialNone
	}
}

// Modifiers collects the announcements one party made during a round.
type Modifiers struct {
	// Announced is true once the party called re or kontra.
	Announced bool `json:"announced"`
	// Denial is the highest declared denial level.
	Denial int `json:"denial"`
	// Calls lists the announcement names in order, for summaries.
	Calls []string `json:"calls"`
}

// WinThreshold returns the eyes this party needs to win, given both parties'
// modifiers. Defaults are 121 for re and 120 for kontra (121 when kontra
// announced without re). An own denial raises the own threshold to
// {151,181,211,240}; when only the opponent declared denials, the own
// threshold drops to {90,60,30,1}. An own commitment is never relieved by
// an opposing one.
func WinThreshold(p Party, re, kontra *Modifiers) int {
	own, opp := re, kontra
	base := 121
	if p == PartyKontra {
		own, opp = kontra, re
		base = 120
		if kontra.Announced && !re.Announced {
			base = 121
		}
	}

	if own.Denial > 0 {
		return [5]int{base, 151, 181, 211, 240}[own.Denial]
	}
	if opp.Denial > 0 {
		return [5]int{base, 90, 60, 30, 1}[opp.Denial]
	}
	return base
}
