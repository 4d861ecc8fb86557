package domain

import "doppelkopf/internal/rules"

// Extra kinds.
const (
	ExtraDoppelkopf    = "doppelkopf"
	ExtraFox           = "fox"
	ExtraFoxLasttrick  = "fox_lasttrick"
	ExtraCharlie       = "charlie"
	ExtraCharlieBroken = "charlie_broken"
	ExtraJane          = "jane"
	ExtraHeartTrick    = "heart_trick"
	ExtraSecBlackTrick = "sec_black_trick"
	ExtraHobgoblin     = "hobgoblin"
)

// ExtrasApply reports whether bonus points are awarded in this game type.
// Solos play without extras.
func (gt GameType) ExtrasApply() bool {
	return !gt.IsSolo() && !gt.Discarded()
}

// EvaluateTrickExtras inspects a finished trick and returns the extras it
// realised plus any fox captures that cannot be settled because a party is
// still unknown. The round's BlackTricksSeen counter is advanced here.
func EvaluateTrickExtras(r *Round, plays []PlayedCard, winnerSeat int, lastTrick bool) ([]Extra, []PendingFox) {
	if !r.GameType.ExtrasApply() {
		return nil, nil
	}
	rs := r.Rules
	var extras []Extra
	var pending []PendingFox

	cards := make([]Card, len(plays))
	for i, pc := range plays {
		cards[i] = pc.Card
	}
	winningIdx := r.Scheme.TrickWinner(cards, rs, r.PigsCalled, r.SuperpigsCalled, lastTrick)
	winningCard := cards[winningIdx]

	if rs.Bool(rules.Doppelkopf) && Eyes(cards) >= 40 {
		extras = append(extras, Extra{Kind: ExtraDoppelkopf, Trick: r.TrickNum, Seat: winnerSeat})
	}

	if rs.Bool(rules.Fox) {
		for _, pc := range plays {
			if pc.Seat == winnerSeat || !r.Scheme.IsPig(pc.Card) {
				continue
			}
			wp, vp := r.PartyOf(winnerSeat), r.PartyOf(pc.Seat)
			if wp == PartyUnknown || vp == PartyUnknown {
				pending = append(pending, PendingFox{Trick: r.TrickNum, Winner: winnerSeat, Victim: pc.Seat})
				continue
			}
			if wp != vp {
				extras = append(extras, foxExtra(r, lastTrick, winnerSeat))
			}
		}
	}

	if lastTrick && rs.Bool(rules.Charlie) && winningCard.Is(ColorClubs, FaceJack) {
		extras = append(extras, Extra{Kind: ExtraCharlie, Trick: r.TrickNum, Seat: winnerSeat})
	}

	if lastTrick && rs.Bool(rules.CharlieBroken) {
		for _, pc := range plays {
			if pc.Seat == winnerSeat || !pc.Card.Is(ColorClubs, FaceJack) {
				continue
			}
			if opposing(r, winnerSeat, pc.Seat) {
				extras = append(extras, Extra{Kind: ExtraCharlieBroken, Trick: r.TrickNum, Seat: winnerSeat})
				if rs.Bool(rules.Jane) && winningCard.Is(ColorDiamonds, FaceQueen) {
					extras = append(extras, Extra{Kind: ExtraJane, Trick: r.TrickNum, Seat: winnerSeat})
				}
			}
		}
	}

	if allOfColor(cards, ColorHearts) {
		r.HeartTricksSeen++
		if rs.Bool(rules.HeartTrick) {
			extras = append(extras, Extra{Kind: ExtraHeartTrick, Trick: r.TrickNum, Seat: winnerSeat})
		}
	}

	if allOfColor(cards, ColorSpades) || allOfColor(cards, ColorClubs) {
		r.BlackTricksSeen++
		if rs.Bool(rules.SecBlackTrick) && r.BlackTricksSeen == 2 {
			extras = append(extras, Extra{Kind: ExtraSecBlackTrick, Trick: r.TrickNum, Seat: winnerSeat})
		}
	}

	if rs.Bool(rules.Hobgoblin) && winningCard.Is(ColorSpades, FaceQueen) {
		for _, pc := range plays {
			if pc.Card.Is(ColorSpades, FaceKing) {
				extras = append(extras, Extra{Kind: ExtraHobgoblin, Trick: r.TrickNum, Seat: winnerSeat})
				break
			}
		}
	}

	return extras, pending
}

// ResolvePendingFoxes settles parked fox captures once every party is known.
func ResolvePendingFoxes(r *Round) []Extra {
	if !r.PartiesComplete() || len(r.PendingFoxes) == 0 {
		return nil
	}
	var extras []Extra
	for _, pf := range r.PendingFoxes {
		if r.PartyOf(pf.Winner) != r.PartyOf(pf.Victim) {
			e := foxExtra(r, pf.Trick == r.MaxTricks, pf.Winner)
			e.Trick = pf.Trick
			extras = append(extras, e)
		}
	}
	r.PendingFoxes = nil
	return extras
}

func foxExtra(r *Round, lastTrick bool, seat int) Extra {
	kind := ExtraFox
	if lastTrick && r.Rules.Bool(rules.FoxLasttrick) {
		kind = ExtraFoxLasttrick
	}
	return Extra{Kind: kind, Trick: r.TrickNum, Seat: seat}
}

func opposing(r *Round, a, b int) bool {
	pa, pb := r.PartyOf(a), r.PartyOf(b)
	return pa != PartyUnknown && pb != PartyUnknown && pa != pb
}

func allOfColor(cards []Card, color Color) bool {
	for _, c := range cards {
		if c.Color != color {
			return false
		}
	}
	return len(cards) > 0
}
