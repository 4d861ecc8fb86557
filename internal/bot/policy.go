package bot

import (
	"sort"

	"doppelkopf/internal/app"
	"doppelkopf/internal/domain"
	"doppelkopf/internal/rules"
)

// Policy answers the non-trick questions with fixed rules: throw whenever a
// throw case is realised, answer pig questions truthfully, take no poverty,
// claim a wedding only with both queens of clubs, and announce only a
// configured solo. The search does the interesting work; this does not.
type Policy struct {
	// Solos the bot is willing to announce, strongest first. Empty means
	// the bot never plays a solo.
	Solos []domain.GameType
}

// Answer maps a question to the bot's action. The second return value is
// false for question types the policy cannot answer.
func (p *Policy) Answer(v *View, q app.QuestionPayload) (app.Action, bool) {
	switch q.Type {
	case app.QuestionReady:
		if p.throwRealised(v) {
			return app.Action{Kind: app.ActionThrow}, true
		}
		return app.Action{Kind: app.ActionReady}, true

	case app.QuestionReservation:
		yes := p.wantsWedding(v)
		if _, ok := p.soloChoice(v); ok {
			yes = true
		}
		return app.Action{Kind: app.ActionReservation, Yes: yes}, true

	case app.QuestionSolo:
		if gt, ok := p.soloChoice(v); ok {
			return app.Action{Kind: app.ActionSolo, Yes: true, Game: gt}, true
		}
		return app.Action{Kind: app.ActionSolo, Yes: false}, true

	case app.QuestionThrow:
		_, ok := domain.ThrowAllowed(v.Hand, v.Scheme, v.Rules)
		return app.Action{Kind: app.ActionThrowAnswer, Yes: ok}, true

	case app.QuestionPigs:
		return app.Action{Kind: app.ActionPigsAnswer, Yes: p.holdsPigs(v)}, true

	case app.QuestionSuperpigs:
		return app.Action{Kind: app.ActionSuperpigs, Yes: p.holdsSuperpigs(v)}, true

	case app.QuestionPoverty:
		return app.Action{Kind: app.ActionPovertyAnswer, Yes: false}, true

	case app.QuestionPovertyCards:
		return app.Action{Kind: app.ActionPovertyCards, CardIDs: p.povertyHandOver(v)}, true

	case app.QuestionPovertyAccept:
		return app.Action{Kind: app.ActionPovertyAccept, Yes: false}, true

	case app.QuestionPovertyReturn:
		ids, trumps := p.povertyReturn(v)
		return app.Action{Kind: app.ActionPovertyReturn, CardIDs: ids, Amount: trumps}, true

	case app.QuestionWedding:
		return app.Action{Kind: app.ActionWeddingAnswer, Yes: p.wantsWedding(v)}, true

	case app.QuestionWeddingClarify:
		return app.Action{Kind: app.ActionWeddingClarify, Wish: "foreign"}, true

	case app.QuestionBlackSowSolo:
		for _, name := range v.Rules.List(rules.Solos) {
			if gt, ok := domain.SoloFromRuleName(name); ok {
				return app.Action{Kind: app.ActionBlackSowSolo, Game: gt}, true
			}
		}
		return app.Action{}, false

	case app.QuestionVote:
		return app.Action{Kind: app.ActionVote, Vote: app.VoteContinue}, true
	}
	return app.Action{}, false
}

func (p *Policy) throwRealised(v *View) bool {
	mode := v.Rules.String(rules.Throw)
	if mode != "reservation" && mode != "throw" {
		return false
	}
	_, ok := domain.ThrowAllowed(v.Hand, v.Scheme, v.Rules)
	return ok
}

func (p *Policy) soloChoice(v *View) (domain.GameType, bool) {
	for _, gt := range p.Solos {
		if v.Rules.Active(rules.Solos, domain.SoloRuleName(gt)) {
			return gt, true
		}
	}
	return "", false
}

func (p *Policy) wantsWedding(v *View) bool {
	if v.Rules.String(rules.Wedding) == "none" {
		return false
	}
	return domain.CountCard(v.Hand, domain.ColorClubs, domain.FaceQueen) == 2
}

func (p *Policy) holdsPigs(v *View) bool {
	color, ok := v.Scheme.PigColor()
	return ok && domain.CountCard(v.Hand, color, domain.FaceAce) == 2
}

func (p *Policy) holdsSuperpigs(v *View) bool {
	color, ok := v.Scheme.PigColor()
	return ok && domain.CountCard(v.Hand, color, domain.SuperpigFace(v.Rules)) == 2
}

// povertyHandOver picks the three cards a poor bot hands over: every held
// trump, padded with the cheapest side cards.
func (p *Policy) povertyHandOver(v *View) []string {
	var trumps, side []domain.Card
	for _, c := range v.Hand {
		if v.Scheme.IsTrump(c) {
			trumps = append(trumps, c)
		} else {
			side = append(side, c)
		}
	}
	sort.SliceStable(side, func(i, j int) bool { return side[i].Eyes() < side[j].Eyes() })
	ids := make([]string, 0, 3)
	for _, c := range trumps {
		ids = append(ids, c.ID)
	}
	for _, c := range side {
		if len(ids) == 3 {
			break
		}
		ids = append(ids, c.ID)
	}
	return ids
}

// povertyReturn picks the three cheapest cards to give back, trumps last,
// and declares the trumps among them.
func (p *Policy) povertyReturn(v *View) ([]string, int) {
	hand := append([]domain.Card(nil), v.Hand...)
	sort.SliceStable(hand, func(i, j int) bool {
		ti, tj := v.Scheme.IsTrump(hand[i]), v.Scheme.IsTrump(hand[j])
		if ti != tj {
			return !ti
		}
		return hand[i].Eyes() < hand[j].Eyes()
	})
	ids := make([]string, 0, 3)
	trumps := 0
	for _, c := range hand[:3] {
		ids = append(ids, c.ID)
		if v.Scheme.IsTrump(c) {
			trumps++
		}
	}
	return ids, trumps
}
