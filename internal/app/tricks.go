package app

import (
	"doppelkopf/internal/domain"
	"doppelkopf/internal/rules"
)

// playCard validates and applies a play_card action. A full trick is left on
// the table; the caller settles it with SettleTrick after the settle delay.
func (s *Service) playCard(r *domain.Round, seat int, cardID string) ([]Event, error) {
	if seat != r.CurrentSeat {
		return nil, ErrNotYourTurn
	}
	if len(r.Trick) >= domain.NumSeats {
		return nil, ErrWrongPhase
	}
	card := domain.FindCard(r.Hand(seat), cardID)
	if card == nil {
		return nil, ErrCardNotInHand
	}

	if len(r.Trick) > 0 {
		lead := r.Trick[0].Card
		if !r.Scheme.MatchesLead(*card, lead) && r.Scheme.HasLeadColor(r.Hand(seat), lead) {
			return nil, ErrSuitDiscipline
		}
	}
	if r.PigsMustPlay && !r.Scheme.IsPig(*card) {
		return nil, ErrPigDuty
	}
	if r.SuperMustPlay && !r.Scheme.IsSuperpig(*card, r.Rules) {
		return nil, ErrSuperpigDuty
	}

	played := *card
	if err := r.MoveCard(cardID, domain.SlotHand(seat), domain.SlotTable); err != nil {
		return nil, err
	}
	r.Trick = append(r.Trick, domain.PlayedCard{Seat: seat, Card: played})
	r.AppendMove(seat, string(ActionPlayCard), map[string]any{"card": cardID})
	r.PigsMustPlay = false
	r.SuperMustPlay = false

	events := []Event{broadcast(EventCardTransfer, CardTransferPayload{
		Card: played,
		From: domain.SlotHand(seat),
		To:   domain.SlotTable,
	})}

	events = append(events, s.revealOnQueenOfClubs(r, seat, played)...)
	if r.GameType == domain.GameBlackSow && played.Is(domain.ColorSpades, domain.FaceQueen) {
		r.SpadeQueensPlayed++
	}

	if len(r.Trick) < domain.NumSeats {
		r.CurrentSeat = domain.NextSeat(r.CurrentSeat)
		events = append(events, broadcast(EventTurn, TurnPayload{
			Trick:     r.TrickNum,
			MaxTricks: r.MaxTricks,
			Seat:      r.CurrentSeat,
		}))
	}
	return events, nil
}

// TrickComplete reports whether the table holds a full trick awaiting
// settlement.
func (s *Service) TrickComplete(r *domain.Round) bool {
	return r.Phase == domain.PhaseTricks && len(r.Trick) == domain.NumSeats
}

// revealOnQueenOfClubs broadcasts re membership when a queen of clubs hits
// the table in a game with open parties; the second queen determines all
// four parties.
func (s *Service) revealOnQueenOfClubs(r *domain.Round, seat int, card domain.Card) []Event {
	if !card.Is(domain.ColorClubs, domain.FaceQueen) || !r.GameType.PartiesOpen() {
		return nil
	}
	events := []Event{broadcast(EventAnnounce, AnnouncePayload{
		Seat: seat, Type: "party", Data: string(domain.PartyRe),
	})}

	r.ClubQueensPlayed++
	if r.ClubQueensPlayed == 2 {
		for other := 0; other < domain.NumSeats; other++ {
			// Ramsch seats play for themselves and have no party to reveal.
			if other == seat || r.PartyOf(other) == domain.PartyUnknown {
				continue
			}
			events = append(events, broadcast(EventAnnounce, AnnouncePayload{
				Seat: other, Type: "party", Data: string(r.PartyOf(other)),
			}))
		}
	}
	return events
}

// SettleTrick resolves a full trick: winner, eyes, extras, capture, then
// wedding partner discovery and the black-sow switch. Broadcast order is
// card.transfer, scoreboard, turn.
func (s *Service) SettleTrick(r *domain.Round) ([]Event, error) {
	if !s.TrickComplete(r) {
		return nil, ErrWrongPhase
	}
	lastTrick := r.TrickNum == r.MaxTricks
	cards := make([]domain.Card, len(r.Trick))
	for i, pc := range r.Trick {
		cards[i] = pc.Card
	}
	winIdx := r.Scheme.TrickWinner(cards, r.Rules, r.PigsCalled, r.SuperpigsCalled, lastTrick)
	winner := r.Trick[winIdx].Seat
	plays := append([]domain.PlayedCard(nil), r.Trick...)

	extras, pending := domain.EvaluateTrickExtras(r, r.Trick, winner, lastTrick)
	r.ExtrasBySeat[winner] = append(r.ExtrasBySeat[winner], extras...)
	r.PendingFoxes = append(r.PendingFoxes, pending...)

	trickEyes := domain.Eyes(cards)
	r.EyesBySeat[winner] += trickEyes

	var events []Event
	for _, c := range cards {
		if err := r.MoveCard(c.ID, domain.SlotTable, domain.SlotTricks(winner)); err != nil {
			return nil, err
		}
		events = append(events, broadcast(EventCardTransfer, CardTransferPayload{
			Card: c,
			From: domain.SlotTable,
			To:   domain.SlotTricks(winner),
		}))
	}
	r.Trick = nil
	for _, e := range extras {
		events = append(events, broadcast(EventAnnounce, AnnouncePayload{
			Seat: winner, Type: "extra", Data: e.Kind,
		}))
	}
	events = append(events, broadcast(EventScoreboard, ScoreboardPayload{
		Seat:   winner,
		Total:  r.EyesBySeat[winner],
		Change: trickEyes,
	}))

	events = append(events, s.afterTrick(r, winner, plays)...)

	if lastTrick {
		r.Phase = domain.PhaseCounting
		return events, nil
	}
	if r.Phase == domain.PhaseBlackSowSolo {
		// Turn resumes once the solo is picked.
		r.TrickNum++
		r.CurrentSeat = winner
		return events, nil
	}

	// Pig elevation in the one_* variants holds for a single trick.
	switch r.Rules.String(rules.Pigs) {
	case "one_first", "one_on_play", "one_on_fox":
		r.PigsCalled = false
	}

	r.TrickNum++
	r.CurrentSeat = winner
	events = append(events, broadcast(EventTurn, TurnPayload{
		Trick:     r.TrickNum,
		MaxTricks: r.MaxTricks,
		Seat:      r.CurrentSeat,
	}))
	return events, nil
}

// afterTrick applies the post-conditions of trick resolution: wedding
// partner discovery and the black-sow solo trigger.
func (s *Service) afterTrick(r *domain.Round, winner int, plays []domain.PlayedCard) []Event {
	var events []Event

	if r.GameType == domain.GameWedding && !r.PartiesComplete() {
		events = append(events, s.weddingDiscovery(r, winner, plays)...)
	}

	if r.GameType == domain.GameBlackSow && r.SpadeQueensPlayed >= 2 {
		r.Phase = domain.PhaseBlackSowSolo
		events = append(events, toSeat(winner, EventQuestion, QuestionPayload{
			Type: QuestionBlackSowSolo,
			Seat: winner,
		}))
	}

	if fox := domain.ResolvePendingFoxes(r); len(fox) > 0 {
		for _, e := range fox {
			r.ExtrasBySeat[e.Seat] = append(r.ExtrasBySeat[e.Seat], e)
			events = append(events, broadcast(EventAnnounce, AnnouncePayload{
				Seat: e.Seat, Type: "extra", Data: e.Kind,
			}))
		}
	}
	return events
}

// weddingDiscovery checks whether the settled trick marries a partner to the
// bride, or promotes the round to a diamond solo after three fruitless
// tricks.
func (s *Service) weddingDiscovery(r *domain.Round, winner int, plays []domain.PlayedCard) []Event {
	if r.TrickNum > 3 {
		return nil
	}
	if winner != r.WeddingBride && s.weddingTrickQualifies(r, plays) {
		r.Parties[winner] = domain.PartyRe
		for seat := 0; seat < domain.NumSeats; seat++ {
			if seat != winner && seat != r.WeddingBride {
				r.Parties[seat] = domain.PartyKontra
			}
		}
		r.WeddingFindTrick = r.TrickNum
		return s.partyReveal(r)
	}
	if r.TrickNum == 3 {
		// No partner found; the bride plays a diamond solo.
		r.SetGameType(domain.SoloDiamonds)
		r.AssignSoloParties(r.WeddingBride)
		r.WeddingFindTrick = r.TrickNum
		return s.partyReveal(r)
	}
	return nil
}

// weddingTrickQualifies applies the clarification wish to the settled trick.
func (s *Service) weddingTrickQualifies(r *domain.Round, plays []domain.PlayedCard) bool {
	if len(plays) != domain.NumSeats {
		return false
	}
	cards := make([]domain.Card, len(plays))
	for i, pc := range plays {
		cards[i] = pc.Card
	}
	winIdx := r.Scheme.TrickWinner(cards, r.Rules, r.PigsCalled, r.SuperpigsCalled, false)
	winning := cards[winIdx]
	lead := cards[0]

	switch r.WeddingWish {
	case "", "foreign":
		return true
	case "trump":
		return r.Scheme.IsTrump(lead)
	case "miss":
		return !r.Scheme.IsTrump(winning)
	case "hearts", "spades", "clubs":
		color := map[string]domain.Color{
			"hearts": domain.ColorHearts,
			"spades": domain.ColorSpades,
			"clubs":  domain.ColorClubs,
		}[r.WeddingWish]
		return !r.Scheme.IsTrump(winning) && winning.Color == color
	case "diamonds":
		for _, c := range cards {
			if c.Color != domain.ColorDiamonds || c.Face == domain.FaceJack || c.Face == domain.FaceQueen {
				return false
			}
		}
		return true
	}
	return false
}

// partyReveal broadcasts every seat's party once the assignment is complete.
func (s *Service) partyReveal(r *domain.Round) []Event {
	var events []Event
	for seat := 0; seat < domain.NumSeats; seat++ {
		events = append(events, broadcast(EventAnnounce, AnnouncePayload{
			Seat: seat, Type: "party", Data: string(r.PartyOf(seat)),
		}))
	}
	return events
}

// pickBlackSowSolo continues a black-sow round as the chosen solo.
func (s *Service) pickBlackSowSolo(r *domain.Round, seat int, gt domain.GameType) ([]Event, error) {
	if seat != r.CurrentSeat {
		return nil, ErrNotYourTurn
	}
	name := domain.SoloRuleName(gt)
	if name == "" || !r.Rules.Active(rules.Solos, name) {
		return nil, ErrInvalidSolo
	}
	r.SetGameType(gt)
	r.AssignSoloParties(seat)
	r.Phase = domain.PhaseTricks
	r.AppendMove(seat, string(ActionBlackSowSolo), map[string]any{"type": string(gt)})

	events := []Event{broadcast(EventAnnounce, AnnouncePayload{
		Seat: seat, Type: string(ActionBlackSowSolo), Data: string(gt),
	})}
	events = append(events, s.partyReveal(r)...)
	events = append(events, broadcast(EventTurn, TurnPayload{
		Trick:     r.TrickNum,
		MaxTricks: r.MaxTricks,
		Seat:      r.CurrentSeat,
	}))
	return events, nil
}

// announceDeadline is the last trick number in which an announcement level
// may still be made. Levels: 0 re/kontra, 1..4 denials. Wedding rounds shift
// every deadline by the trick in which the parties became known.
func announceDeadline(r *domain.Round, level int) int {
	return 2 + level + r.WeddingFindTrick
}

func denialFromAnnounce(typ string) int {
	switch typ {
	case AnnounceNo90:
		return domain.DenialNo90
	case AnnounceNo60:
		return domain.DenialNo60
	case AnnounceNo30:
		return domain.DenialNo30
	case AnnounceBlack:
		return domain.DenialBlack
	}
	return domain.DenialNone
}

// announce applies a re/kontra announcement or a denial.
func (s *Service) announce(r *domain.Round, seat int, typ string) ([]Event, error) {
	if seat != r.CurrentSeat {
		return nil, ErrNotYourTurn
	}
	party := r.PartyOf(seat)
	if party != domain.PartyRe && party != domain.PartyKontra {
		return nil, ErrWrongParty
	}
	mods := r.Mods[party]

	switch typ {
	case AnnounceRe, AnnounceKontra:
		want := domain.PartyRe
		if typ == AnnounceKontra {
			want = domain.PartyKontra
		}
		if party != want {
			return nil, ErrWrongParty
		}
		if mods.Announced {
			return nil, ErrAnnounceOrder
		}
		if r.TrickNum > announceDeadline(r, 0) {
			return nil, ErrAnnounceLate
		}
		mods.Announced = true
		mods.Calls = append(mods.Calls, typ)

	case AnnounceNo90, AnnounceNo60, AnnounceNo30, AnnounceBlack:
		level := denialFromAnnounce(typ)
		if !mods.Announced {
			return nil, ErrAnnounceOrder
		}
		if mods.Denial != level-1 {
			return nil, ErrAnnounceOrder
		}
		if r.TrickNum > announceDeadline(r, level) {
			return nil, ErrAnnounceLate
		}
		mods.Denial = level
		mods.Calls = append(mods.Calls, typ)

	default:
		return nil, ErrUnknownAction
	}

	r.AppendMove(seat, string(ActionAnnounce), map[string]any{"type": typ})
	return []Event{broadcast(EventAnnounce, AnnouncePayload{
		Seat: seat, Type: string(ActionAnnounce), Data: typ,
	})}, nil
}

// callPigs handles a pigs announcement inside the trick phase.
func (s *Service) callPigs(r *domain.Round, seat int) ([]Event, error) {
	if seat != r.CurrentSeat {
		return nil, ErrNotYourTurn
	}
	if r.PigsCalled {
		return nil, ErrNoPigs
	}
	pigColor, ok := r.Scheme.PigColor()
	if !ok {
		return nil, ErrNoPigs
	}
	aces := domain.CountCard(r.Hand(seat), pigColor, domain.FaceAce)

	switch r.Rules.String(rules.Pigs) {
	case "two_on_play":
		if aces != 2 {
			return nil, ErrNoPigs
		}
	case "one_first":
		// A single pig ace, called before either has been played.
		if aces != 1 || pigAcesCaptured(r, pigColor) > 0 {
			return nil, ErrNoPigs
		}
	case "one_on_play":
		if aces < 1 {
			return nil, ErrNoPigs
		}
	case "one_on_fox":
		if aces < 1 || !seatLostFox(r, seat) {
			return nil, ErrNoPigs
		}
	default:
		return nil, ErrNoPigs
	}

	r.PigsCalled, r.PigsSeat = true, seat
	r.PigsMustPlay = true
	r.AppendMove(seat, string(ActionPigsCall), nil)
	return []Event{broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: string(ActionPigsCall)})}, nil
}

// pigAcesCaptured counts pig aces already off the hands: on the table or in
// a trick pile.
func pigAcesCaptured(r *domain.Round, pigColor domain.Color) int {
	n := domain.CountCard(r.Slots[domain.SlotTable], pigColor, domain.FaceAce)
	for seat := 0; seat < domain.NumSeats; seat++ {
		n += domain.CountCard(r.Slots[domain.SlotTricks(seat)], pigColor, domain.FaceAce)
	}
	return n
}

// seatLostFox reports whether one of the seat's pig aces was captured by an
// opposing party, the trigger of the one_on_fox variant.
func seatLostFox(r *domain.Round, seat int) bool {
	for s := 0; s < domain.NumSeats; s++ {
		if s == seat {
			continue
		}
		for _, e := range r.ExtrasBySeat[s] {
			if e.Kind == domain.ExtraFox || e.Kind == domain.ExtraFoxLasttrick {
				return true
			}
		}
	}
	return false
}

// callSuperpigs handles a superpigs announcement inside the trick phase.
func (s *Service) callSuperpigs(r *domain.Round, seat int) ([]Event, error) {
	if seat != r.CurrentSeat {
		return nil, ErrNotYourTurn
	}
	if !r.PigsCalled || r.SuperpigsCalled {
		return nil, ErrNoSuperpigs
	}
	mode := r.Rules.String(rules.Superpigs)
	if mode != "on_play" && mode != "on_pig" {
		return nil, ErrNoSuperpigs
	}
	pigColor, ok := r.Scheme.PigColor()
	if !ok || domain.CountCard(r.Hand(seat), pigColor, domain.SuperpigFace(r.Rules)) != 2 {
		return nil, ErrNoSuperpigs
	}

	r.SuperpigsCalled, r.SuperpigsSeat = true, seat
	if mode == "on_play" {
		r.SuperMustPlay = true
	}
	r.AppendMove(seat, string(ActionSuperpigCall), nil)
	return []Event{broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: string(ActionSuperpigCall)})}, nil
}
