package app

import (
	"fmt"

	"doppelkopf/internal/domain"
	"doppelkopf/internal/rules"
)

// askOrder returns the seats in auction order, dealer's first seat leading.
func askOrder(r *domain.Round) []int {
	order := make([]int, domain.NumSeats)
	for i := range order {
		order[i] = (r.Starter + i) % domain.NumSeats
	}
	return order
}

// startReservations opens the auction: every seat is asked the base
// reservation question in rotation.
func (s *Service) startReservations(r *domain.Round) []Event {
	r.Phase = domain.PhaseReservations
	r.Reservation = domain.Reservations{
		Stage:           domain.StageReservation,
		SoloBids:        map[int]domain.GameType{},
		PovertyHolder:   -1,
		PovertyAcceptor: -1,
		WeddingBride:    -1,
	}
	events := []Event{broadcast(EventRoundChange, RoundChangePayload{
		Phase:    r.Phase,
		GameType: publicGameType(r),
	})}
	return append(events, s.askCurrent(r)...)
}

// askedSeat returns the seat the auction is currently waiting on.
func askedSeat(r *domain.Round) int {
	res := &r.Reservation
	switch res.Stage {
	case domain.StageReservation, domain.StageSuperpigs:
		return askOrder(r)[res.Ask]
	case domain.StagePovertyCards, domain.StagePovertyReturn, domain.StagePovertyDeclare:
		if res.Stage == domain.StagePovertyCards {
			return res.PovertyHolder
		}
		return res.PovertyAcceptor
	case domain.StagePovertyAccept:
		return (res.PovertyHolder + 1 + res.Ask) % domain.NumSeats
	case domain.StageWeddingClarify:
		return res.WeddingBride
	default:
		return res.Claimants[res.Ask]
	}
}

// askCurrent emits the question for the seat the auction waits on.
func (s *Service) askCurrent(r *domain.Round) []Event {
	res := &r.Reservation
	seat := askedSeat(r)
	q := QuestionPayload{Seat: seat}
	switch res.Stage {
	case domain.StageReservation:
		q.Type = QuestionReservation
	case domain.StageSolo:
		q.Type = QuestionSolo
	case domain.StageThrow:
		q.Type = QuestionThrow
	case domain.StagePigs:
		q.Type = QuestionPigs
	case domain.StageSuperpigs:
		q.Type = QuestionSuperpigs
	case domain.StagePoverty:
		q.Type = QuestionPoverty
	case domain.StagePovertyCards:
		q.Type = QuestionPovertyCards
	case domain.StagePovertyAccept:
		q.Type = QuestionPovertyAccept
		if r.Rules.String(rules.Poverty) != "sell" {
			cards := r.Slots[domain.SlotPoverty]
			shown := make([]map[string]any, len(cards))
			for i, c := range cards {
				shown[i] = map[string]any{"id": c.ID, "color": c.Color.String(), "face": c.Face.String()}
			}
			q.Data = map[string]any{"cards": shown}
		}
	case domain.StagePovertyReturn:
		q.Type = QuestionPovertyReturn
	case domain.StageWedding:
		q.Type = QuestionWedding
	case domain.StageWeddingClarify:
		q.Type = QuestionWeddingClarify
	}
	return []Event{toSeat(seat, EventQuestion, q)}
}

// handleReservationAction dispatches an auction answer to the stage handler.
func (s *Service) handleReservationAction(r *domain.Round, seat int, act Action) ([]Event, error) {
	if seat != askedSeat(r) {
		return nil, ErrNotAsked
	}
	switch r.Reservation.Stage {
	case domain.StageReservation:
		if act.Kind != ActionReservation {
			return nil, ErrUnknownAction
		}
		return s.answerReservation(r, seat, act.Yes)
	case domain.StageSolo:
		if act.Kind != ActionSolo {
			return nil, ErrUnknownAction
		}
		return s.answerSolo(r, seat, act.Yes, act.Game)
	case domain.StageThrow:
		if act.Kind != ActionThrowAnswer {
			return nil, ErrUnknownAction
		}
		return s.answerThrow(r, seat, act.Yes)
	case domain.StagePigs:
		if act.Kind != ActionPigsAnswer {
			return nil, ErrUnknownAction
		}
		return s.answerPigs(r, seat, act.Yes)
	case domain.StageSuperpigs:
		if act.Kind != ActionSuperpigs {
			return nil, ErrUnknownAction
		}
		return s.answerSuperpigs(r, seat, act.Yes)
	case domain.StagePoverty:
		if act.Kind != ActionPovertyAnswer {
			return nil, ErrUnknownAction
		}
		return s.answerPoverty(r, seat, act.Yes)
	case domain.StagePovertyCards:
		if act.Kind != ActionPovertyCards {
			return nil, ErrUnknownAction
		}
		return s.povertyHandOver(r, seat, act.CardIDs)
	case domain.StagePovertyAccept:
		if act.Kind != ActionPovertyAccept {
			return nil, ErrUnknownAction
		}
		return s.answerPovertyAccept(r, seat, act.Yes)
	case domain.StagePovertyReturn:
		if act.Kind != ActionPovertyReturn {
			return nil, ErrUnknownAction
		}
		return s.povertyReturn(r, seat, act.CardIDs, act.Amount)
	case domain.StageWedding:
		if act.Kind != ActionWeddingAnswer {
			return nil, ErrUnknownAction
		}
		return s.answerWedding(r, seat, act.Yes)
	case domain.StageWeddingClarify:
		if act.Kind != ActionWeddingClarify {
			return nil, ErrUnknownAction
		}
		return s.answerWeddingClarify(r, seat, act.Wish)
	}
	return nil, ErrWrongPhase
}

func yesNo(prefix string, yes bool) string {
	if yes {
		return prefix + "_yes"
	}
	return prefix + "_no"
}

func (s *Service) answerReservation(r *domain.Round, seat int, yes bool) ([]Event, error) {
	res := &r.Reservation
	if yes {
		res.Claimants = append(res.Claimants, seat)
	}
	r.AppendMove(seat, yesNo("reservation", yes), nil)
	events := []Event{broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: yesNo("reservation", yes)})}

	res.Ask++
	if res.Ask < domain.NumSeats {
		return append(events, s.askCurrent(r)...), nil
	}
	if len(res.Claimants) == 0 {
		return append(events, s.startNormal(r)...), nil
	}
	return append(events, s.beginStage(r, domain.StageSolo)...), nil
}

// beginStage advances the auction to the first applicable stage at or after
// the given one, emitting its opening question, or concludes with the normal
// game when every stage is exhausted.
func (s *Service) beginStage(r *domain.Round, stage domain.ReservationStage) []Event {
	res := &r.Reservation
	for {
		switch stage {
		case domain.StageSolo:
			res.Stage, res.Ask = stage, 0
			return s.askCurrent(r)
		case domain.StageThrow:
			if r.Rules.String(rules.Throw) == "reservation" {
				res.Stage, res.Ask = stage, 0
				return s.askCurrent(r)
			}
			stage = domain.StagePigs
		case domain.StagePigs:
			if r.Rules.String(rules.Pigs) == "two_reservation" && !r.PigsCalled {
				res.Stage, res.Ask = stage, 0
				return s.askCurrent(r)
			}
			stage = domain.StagePoverty
		case domain.StageSuperpigs:
			if r.Rules.String(rules.Superpigs) == "reservation" && r.PigsCalled && !r.SuperpigsCalled {
				res.Stage, res.Ask = stage, 0
				return s.askCurrent(r)
			}
			stage = domain.StagePoverty
		case domain.StagePoverty:
			if r.Rules.String(rules.Poverty) != rules.OptNone {
				res.Stage, res.Ask = stage, 0
				return s.askCurrent(r)
			}
			stage = domain.StageWedding
		case domain.StageWedding:
			if r.Rules.String(rules.Wedding) != rules.OptNone {
				res.Stage, res.Ask = stage, 0
				return s.askCurrent(r)
			}
			return s.startNormal(r)
		default:
			return s.startNormal(r)
		}
	}
}

// advanceClaimant moves to the next claimant in the current stage or on to
// the next stage when the list is exhausted.
func (s *Service) advanceClaimant(r *domain.Round, next domain.ReservationStage) []Event {
	res := &r.Reservation
	res.Ask++
	if res.Ask < len(res.Claimants) {
		return s.askCurrent(r)
	}
	return s.beginStage(r, next)
}

func (s *Service) answerSolo(r *domain.Round, seat int, yes bool, gt domain.GameType) ([]Event, error) {
	res := &r.Reservation
	var events []Event
	if yes {
		name := domain.SoloRuleName(gt)
		if name == "" || !r.Rules.Active(rules.Solos, name) {
			return nil, ErrInvalidSolo
		}
		res.SoloBids[seat] = gt
		r.AppendMove(seat, "solo_yes", map[string]any{"type": string(gt)})
		events = append(events, broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: "solo_yes", Data: string(gt)}))
		if r.Rules.String(rules.SoloPrio) == rules.OptFirst {
			return append(events, s.startSolo(r, seat, gt)...), nil
		}
	} else {
		r.AppendMove(seat, "solo_no", nil)
		events = append(events, broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: "solo_no"}))
	}

	res.Ask++
	if res.Ask < len(res.Claimants) {
		return append(events, s.askCurrent(r)...), nil
	}
	// Every claimant answered; in prio mode the highest-priority bid wins.
	if len(res.SoloBids) > 0 {
		winner, winGame := -1, domain.GameType("")
		for _, claimant := range res.Claimants {
			bid, has := res.SoloBids[claimant]
			if !has {
				continue
			}
			if winner == -1 || domain.SoloPriority(bid) < domain.SoloPriority(winGame) {
				winner, winGame = claimant, bid
			}
		}
		return append(events, s.startSolo(r, winner, winGame)...), nil
	}
	return append(events, s.beginStage(r, domain.StageThrow)...), nil
}

func (s *Service) answerThrow(r *domain.Round, seat int, yes bool) ([]Event, error) {
	if yes {
		caseName, ok := domain.ThrowAllowed(r.Hand(seat), r.Scheme, r.Rules)
		if !ok {
			return nil, ErrThrowNotRealised
		}
		r.AppendMove(seat, "throw_yes", map[string]any{"case": caseName})
		return s.discardRound(r, seat, domain.GameThrow, caseName), nil
	}
	r.AppendMove(seat, "throw_no", nil)
	events := []Event{broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: "throw_no"})}
	return append(events, s.advanceClaimant(r, domain.StagePigs)...), nil
}

func (s *Service) answerPigs(r *domain.Round, seat int, yes bool) ([]Event, error) {
	if yes {
		pigColor, ok := r.Scheme.PigColor()
		if !ok || domain.CountCard(r.Hand(seat), pigColor, domain.FaceAce) != 2 {
			return nil, ErrNoPigs
		}
		r.PigsCalled, r.PigsSeat = true, seat
		r.AppendMove(seat, "pigs_yes", nil)
		events := []Event{broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: "pigs_yes"})}
		return append(events, s.beginStage(r, domain.StageSuperpigs)...), nil
	}
	r.AppendMove(seat, "pigs_no", nil)
	events := []Event{broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: "pigs_no"})}
	return append(events, s.advanceClaimant(r, domain.StagePoverty)...), nil
}

func (s *Service) answerSuperpigs(r *domain.Round, seat int, yes bool) ([]Event, error) {
	res := &r.Reservation
	if yes {
		pigColor, ok := r.Scheme.PigColor()
		if !ok || domain.CountCard(r.Hand(seat), pigColor, domain.SuperpigFace(r.Rules)) != 2 {
			return nil, ErrNoSuperpigs
		}
		r.SuperpigsCalled, r.SuperpigsSeat = true, seat
		r.AppendMove(seat, "superpigs_yes", nil)
		events := []Event{broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: "superpigs_yes"})}
		return append(events, s.beginStage(r, domain.StagePoverty)...), nil
	}
	r.AppendMove(seat, "superpigs_no", nil)
	events := []Event{broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: "superpigs_no"})}
	res.Ask++
	if res.Ask < domain.NumSeats {
		return append(events, s.askCurrent(r)...), nil
	}
	return append(events, s.beginStage(r, domain.StagePoverty)...), nil
}

func (s *Service) answerPoverty(r *domain.Round, seat int, yes bool) ([]Event, error) {
	res := &r.Reservation
	if yes {
		if domain.TrumpCount(r.Hand(seat), r.Scheme) > 3 {
			return nil, ErrNotPoor
		}
		res.PovertyHolder = seat
		r.AppendMove(seat, "poverty_yes", nil)
		events := []Event{broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: "poverty_yes"})}
		res.Stage = domain.StagePovertyCards
		return append(events, s.askCurrent(r)...), nil
	}
	r.AppendMove(seat, "poverty_no", nil)
	events := []Event{broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: "poverty_no"})}
	return append(events, s.advanceClaimant(r, domain.StageWedding)...), nil
}

func (s *Service) povertyHandOver(r *domain.Round, seat int, cardIDs []string) ([]Event, error) {
	if len(cardIDs) != 3 {
		return nil, ErrPovertyCards
	}
	hand := r.Hand(seat)
	selected := map[string]bool{}
	for _, id := range cardIDs {
		if domain.FindCard(hand, id) == nil {
			return nil, ErrPovertyCards
		}
		selected[id] = true
	}
	if len(selected) != 3 {
		return nil, ErrPovertyCards
	}
	// Every trump still held must be part of the hand-over.
	for _, c := range hand {
		if r.Scheme.IsTrump(c) && !selected[c.ID] {
			return nil, ErrPovertyCards
		}
	}

	res := &r.Reservation
	res.PovertyTrumps = 0
	var events []Event
	for _, id := range cardIDs {
		c := *domain.FindCard(hand, id)
		if r.Scheme.IsTrump(c) {
			res.PovertyTrumps++
		}
		if err := r.MoveCard(id, domain.SlotHand(seat), domain.SlotPoverty); err != nil {
			return nil, err
		}
		visible := []int{seat}
		events = append(events, broadcast(EventCardTransfer, CardTransferPayload{
			Card:      c,
			From:      domain.SlotHand(seat),
			To:        domain.SlotPoverty,
			VisibleTo: visible,
		}))
		hand = r.Hand(seat)
	}
	r.AppendMove(seat, string(ActionPovertyCards), map[string]any{"cards": cardIDs})

	res.Stage, res.Ask = domain.StagePovertyAccept, 0
	return append(events, s.askCurrent(r)...), nil
}

func (s *Service) answerPovertyAccept(r *domain.Round, seat int, yes bool) ([]Event, error) {
	res := &r.Reservation
	mode := r.Rules.String(rules.Poverty)
	if !yes {
		if mode == "circulate_duty" && res.Ask == domain.NumSeats-2 {
			return nil, ErrMustAccept
		}
		r.AppendMove(seat, "poverty_decline", nil)
		events := []Event{broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: "poverty_decline"})}
		res.Ask++
		if res.Ask < domain.NumSeats-1 {
			return append(events, s.askCurrent(r)...), nil
		}
		return append(events, s.povertyUnsold(r)...), nil
	}

	res.PovertyAcceptor = seat
	r.AppendMove(seat, "poverty_accept", nil)
	events := []Event{broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: "poverty_accept"})}
	for _, c := range append([]domain.Card(nil), r.Slots[domain.SlotPoverty]...) {
		if err := r.MoveCard(c.ID, domain.SlotPoverty, domain.SlotHand(seat)); err != nil {
			return nil, err
		}
		events = append(events, broadcast(EventCardTransfer, CardTransferPayload{
			Card:      c,
			From:      domain.SlotPoverty,
			To:        domain.SlotHand(seat),
			VisibleTo: []int{seat, res.PovertyHolder},
		}))
	}
	res.Stage = domain.StagePovertyReturn
	return append(events, s.askCurrent(r)...), nil
}

// povertyUnsold applies poverty_consequence after three declines. The three
// handed-over cards go back to the holder first.
func (s *Service) povertyUnsold(r *domain.Round) []Event {
	res := &r.Reservation
	var events []Event
	for _, c := range append([]domain.Card(nil), r.Slots[domain.SlotPoverty]...) {
		if err := r.MoveCard(c.ID, domain.SlotPoverty, domain.SlotHand(res.PovertyHolder)); err != nil {
			continue
		}
		events = append(events, broadcast(EventCardTransfer, CardTransferPayload{
			Card:      c,
			From:      domain.SlotPoverty,
			To:        domain.SlotHand(res.PovertyHolder),
			VisibleTo: []int{res.PovertyHolder},
		}))
	}

	switch r.Rules.String(rules.PovertyConsequence) {
	case "redeal":
		return append(events, s.discardRound(r, res.PovertyHolder, domain.GamePovertyCancel, "")...)
	case "black_sow":
		r.SetGameType(domain.GameBlackSow)
		return append(events, s.startTricks(r)...)
	case "ramsch":
		// A seat sitting on both club queens turns the ramsch into its
		// silent-wedding variant.
		gt := domain.GameRamsch
		for seat := 0; seat < domain.NumSeats; seat++ {
			if domain.CountCard(r.Hand(seat), domain.ColorClubs, domain.FaceQueen) == 2 {
				gt = domain.GameRamschSW
				break
			}
		}
		r.SetGameType(gt)
		return append(events, s.startTricks(r)...)
	default:
		// Poverty simply lapses; the auction resumes with the claimant after
		// the holder, so the accept-rotation cursor must be rewound first.
		for i, c := range res.Claimants {
			if c == res.PovertyHolder {
				res.Ask = i
				break
			}
		}
		res.Stage = domain.StagePoverty
		res.PovertyHolder, res.PovertyAcceptor = -1, -1
		return append(events, s.advanceClaimant(r, domain.StageWedding)...)
	}
}

func (s *Service) povertyReturn(r *domain.Round, seat int, cardIDs []string, declared int) ([]Event, error) {
	if len(cardIDs) != 3 {
		return nil, ErrPovertyCards
	}
	hand := r.Hand(seat)
	trumps := 0
	seen := map[string]bool{}
	for _, id := range cardIDs {
		c := domain.FindCard(hand, id)
		if c == nil || seen[id] {
			return nil, ErrPovertyCards
		}
		seen[id] = true
		if r.Scheme.IsTrump(*c) {
			trumps++
		}
	}
	if trumps != declared {
		return nil, ErrPovertyDeclare
	}

	res := &r.Reservation
	var events []Event
	for _, id := range cardIDs {
		c := *domain.FindCard(r.Hand(seat), id)
		if err := r.MoveCard(id, domain.SlotHand(seat), domain.SlotHand(res.PovertyHolder)); err != nil {
			return nil, err
		}
		events = append(events, broadcast(EventCardTransfer, CardTransferPayload{
			Card:      c,
			From:      domain.SlotHand(seat),
			To:        domain.SlotHand(res.PovertyHolder),
			VisibleTo: []int{seat, res.PovertyHolder},
		}))
	}
	r.AppendMove(seat, string(ActionPovertyReturn), map[string]any{"cards": cardIDs, "amount": declared})
	events = append(events, broadcast(EventAnnounce, AnnouncePayload{
		Seat: seat, Type: string(ActionPovertyReturn), Data: fmt.Sprintf("%d", declared),
	}))

	// Holder and acceptor form re, the bystanders kontra.
	for s := 0; s < domain.NumSeats; s++ {
		if s == res.PovertyHolder || s == res.PovertyAcceptor {
			r.Parties[s] = domain.PartyRe
		} else {
			r.Parties[s] = domain.PartyKontra
		}
	}
	r.SetGameType(domain.GamePoverty)
	return append(events, s.startTricks(r)...), nil
}

func (s *Service) answerWedding(r *domain.Round, seat int, yes bool) ([]Event, error) {
	res := &r.Reservation
	if yes {
		if domain.CountCard(r.Hand(seat), domain.ColorClubs, domain.FaceQueen) != 2 {
			return nil, ErrNoWedding
		}
		res.WeddingBride = seat
		r.WeddingBride = seat
		r.AppendMove(seat, "wedding_yes", nil)
		events := []Event{broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: "wedding_yes"})}
		if r.Rules.String(rules.Wedding) == "wish_trick" {
			res.Stage = domain.StageWeddingClarify
			return append(events, s.askCurrent(r)...), nil
		}
		return append(events, s.startWedding(r, seat, "foreign")...), nil
	}
	r.AppendMove(seat, "wedding_no", nil)
	events := []Event{broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: "wedding_no"})}
	return append(events, s.advanceClaimant(r, domain.StageDone)...), nil
}

var weddingWishes = map[string]bool{
	"foreign": true, "trump": true, "miss": true,
	"hearts": true, "spades": true, "clubs": true, "diamonds": true,
}

func (s *Service) answerWeddingClarify(r *domain.Round, seat int, wish string) ([]Event, error) {
	if !weddingWishes[wish] {
		return nil, ErrBadWish
	}
	r.AppendMove(seat, string(ActionWeddingClarify), map[string]any{"wish": wish})
	events := []Event{broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: string(ActionWeddingClarify), Data: wish})}
	return append(events, s.startWedding(r, seat, wish)...), nil
}

func (s *Service) startWedding(r *domain.Round, bride int, wish string) []Event {
	r.SetGameType(domain.GameWedding)
	r.WeddingWish = wish
	r.Parties[bride] = domain.PartyRe
	for s := 0; s < domain.NumSeats; s++ {
		if s != bride {
			r.Parties[s] = domain.PartyUnknown
		}
	}
	return s.startTricks(r)
}

// startNormal closes the auction with no reservation outcome. Parties come
// from the queens of clubs; a single holder of both makes it a silent
// wedding under the hood.
func (s *Service) startNormal(r *domain.Round) []Event {
	r.AssignNormalParties()
	if r.GameType == domain.GameSilentWedding {
		r.Scheme = domain.NewTrumpScheme(r.GameType, r.Rules)
	}
	return s.startTricks(r)
}

func (s *Service) startSolo(r *domain.Round, soloist int, gt domain.GameType) []Event {
	r.SetGameType(gt)
	r.AssignSoloParties(soloist)
	events := []Event{broadcast(EventAnnounce, AnnouncePayload{
		Seat: soloist, Type: "solo", Data: string(gt),
	})}
	return append(events, s.startTricks(r)...)
}

// publicGameType hides the silent wedding: clients see a normal game until
// the round is counted.
func publicGameType(r *domain.Round) domain.GameType {
	if r.GameType == domain.GameSilentWedding && r.Phase != domain.PhaseEnd {
		return domain.GameNormal
	}
	return r.GameType
}

// startTricks enters the trick phase and announces the first turn.
func (s *Service) startTricks(r *domain.Round) []Event {
	r.Phase = domain.PhaseTricks
	r.TrickNum = 1
	r.CurrentSeat = r.Starter
	if r.Rules.Bool(rules.SolistBegins) && r.GameType.IsSolo() && r.GameType != domain.GameSilentWedding && r.Soloist >= 0 {
		r.CurrentSeat = r.Soloist
	}
	return []Event{
		broadcast(EventRoundChange, RoundChangePayload{
			Phase:    r.Phase,
			GameType: publicGameType(r),
		}),
		broadcast(EventTurn, TurnPayload{
			Trick:     r.TrickNum,
			MaxTricks: r.MaxTricks,
			Seat:      r.CurrentSeat,
		}),
	}
}
