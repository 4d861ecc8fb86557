package app

import (
	"errors"
	"math/rand"
	"time"

	"doppelkopf/internal/domain"
	"doppelkopf/internal/rules"
)

// Service contains the round use-cases: it applies inbound actions to a
// round and returns the events the transition produced. State mutation is
// funnelled through HandleAction; the caller serialises access.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrWrongPhase       = errors.New("action not valid in current phase")
	ErrNotYourTurn      = errors.New("not the acting seat's turn")
	ErrUnknownAction    = errors.New("unknown action kind")
	ErrNotAsked         = errors.New("seat was not asked this question")
	ErrAlreadyAnswered  = errors.New("seat already answered")
	ErrCardNotInHand    = errors.New("card not in hand")
	ErrSuitDiscipline   = errors.New("must follow the led colour")
	ErrPigDuty          = errors.New("a pig must be played after the call")
	ErrSuperpigDuty     = errors.New("a superpig must be played after the call")
	ErrThrowNotRealised = errors.New("no throw case on this hand")
	ErrInvalidSolo      = errors.New("solo not enabled")
	ErrNoPigs           = errors.New("pig condition not met")
	ErrNoSuperpigs      = errors.New("superpig condition not met")
	ErrNotPoor          = errors.New("too many trumps for poverty")
	ErrPovertyCards     = errors.New("invalid poverty card selection")
	ErrMustAccept       = errors.New("last seat must accept the poverty")
	ErrPovertyDeclare   = errors.New("poverty return declaration mismatch")
	ErrNoWedding        = errors.New("wedding requires both queens of clubs")
	ErrBadWish          = errors.New("unknown clarification wish")
	ErrWrongParty       = errors.New("announcement not open to this party")
	ErrAnnounceLate     = errors.New("announcement deadline passed")
	ErrAnnounceOrder    = errors.New("denials must increase strictly")
)

// statusKeys maps sentinel errors to localisation keys for status.message.
var statusKeys = map[error]string{
	ErrWrongPhase:       "err_wrong_phase",
	ErrNotYourTurn:      "err_not_your_turn",
	ErrUnknownAction:    "err_unknown_action",
	ErrNotAsked:         "err_not_asked",
	ErrAlreadyAnswered:  "err_already_answered",
	ErrCardNotInHand:    "err_card_not_in_hand",
	ErrSuitDiscipline:   "err_suit_discipline",
	ErrPigDuty:          "err_pig_duty",
	ErrSuperpigDuty:     "err_superpig_duty",
	ErrThrowNotRealised: "err_throw_not_realised",
	ErrInvalidSolo:      "err_invalid_solo",
	ErrNoPigs:           "err_no_pigs",
	ErrNoSuperpigs:      "err_no_superpigs",
	ErrNotPoor:          "err_not_poor",
	ErrPovertyCards:     "err_poverty_cards",
	ErrMustAccept:       "err_must_accept",
	ErrPovertyDeclare:   "err_poverty_declare",
	ErrNoWedding:        "err_no_wedding",
	ErrBadWish:          "err_bad_wish",
	ErrWrongParty:       "err_wrong_party",
	ErrAnnounceLate:     "err_announce_late",
	ErrAnnounceOrder:    "err_announce_order",
}

// StatusKey returns the localisation key for an action error.
func StatusKey(err error) string {
	for sentinel, key := range statusKeys {
		if errors.Is(err, sentinel) {
			return key
		}
	}
	return "err_internal"
}

// StatusEvent builds the status.message event a rejected action produces for
// the acting seat.
func StatusEvent(seat int, err error) Event {
	return toSeat(seat, EventStatusMessage, StatusMessagePayload{
		Severity: StatusWarn,
		Key:      StatusKey(err),
	})
}

// StartRound shuffles the stack and enters the dealing phase. Cards are
// handed out by subsequent DealStep calls so the transport can pace them.
func (s *Service) StartRound(r *domain.Round, roundNumber int) []Event {
	s.rng.Shuffle(len(r.Slots[domain.SlotStack]), func(i, j int) {
		stack := r.Slots[domain.SlotStack]
		stack[i], stack[j] = stack[j], stack[i]
	})
	r.Phase = domain.PhaseDealing
	return []Event{broadcast(EventRoundChange, RoundChangePayload{
		Phase:       r.Phase,
		GameType:    r.GameType,
		RoundNumber: roundNumber,
	})}
}

// dealGroups returns the per-rotation card counts of the deal.
func dealGroups(handSize int) []int {
	var groups []int
	for left := handSize; left > 0; left -= 3 {
		if left < 3 {
			groups = append(groups, left)
			break
		}
		groups = append(groups, 3)
	}
	return groups
}

// DealStep deals one rotation of cards (up to three per seat, dealer's left
// first) and emits the targeted card.transfer events. When the last rotation
// completes the round advances to w_for_ready and every seat is asked to
// confirm.
func (s *Service) DealStep(r *domain.Round) ([]Event, error) {
	if r.Phase != domain.PhaseDealing {
		return nil, ErrWrongPhase
	}
	groups := dealGroups(domain.HandSize(r.Rules))
	if r.DealtGroups >= len(groups) {
		return nil, ErrWrongPhase
	}
	count := groups[r.DealtGroups]

	var events []Event
	for i := 0; i < domain.NumSeats; i++ {
		seat := (r.Starter + i) % domain.NumSeats
		for c := 0; c < count; c++ {
			stack := r.Slots[domain.SlotStack]
			card := stack[len(stack)-1]
			if err := r.MoveCard(card.ID, domain.SlotStack, domain.SlotHand(seat)); err != nil {
				return nil, err
			}
			events = append(events, broadcast(EventCardTransfer, CardTransferPayload{
				Card:      card,
				From:      domain.SlotStack,
				To:        domain.SlotHand(seat),
				VisibleTo: []int{seat},
			}))
		}
	}
	r.DealtGroups++

	if r.DealtGroups == len(groups) {
		r.Phase = domain.PhaseWForReady
		for seat := 0; seat < domain.NumSeats; seat++ {
			events = append(events, toSeat(seat, EventQuestion, QuestionPayload{
				Type: QuestionReady,
				Seat: seat,
			}))
		}
	}
	return events, nil
}

// DealDone reports whether every card has been dealt.
func (s *Service) DealDone(r *domain.Round) bool {
	return r.DealtGroups >= len(dealGroups(domain.HandSize(r.Rules)))
}

// HandleAction applies one inbound action to the round. It returns the
// emitted events, or an error that the caller turns into a status.message
// for the acting seat; on error the round state is unchanged.
func (s *Service) HandleAction(r *domain.Round, seat int, act Action) ([]Event, error) {
	switch r.Phase {
	case domain.PhaseWForReady:
		switch act.Kind {
		case ActionReady:
			return s.handleReady(r, seat)
		case ActionThrow:
			return s.handleThrow(r, seat)
		}
		return nil, ErrWrongPhase

	case domain.PhaseReservations:
		return s.handleReservationAction(r, seat, act)

	case domain.PhaseTricks:
		switch act.Kind {
		case ActionPlayCard:
			return s.playCard(r, seat, act.CardID)
		case ActionAnnounce:
			return s.announce(r, seat, act.Announce)
		case ActionPigsCall:
			return s.callPigs(r, seat)
		case ActionSuperpigCall:
			return s.callSuperpigs(r, seat)
		}
		return nil, ErrWrongPhase

	case domain.PhaseBlackSowSolo:
		if act.Kind == ActionBlackSowSolo {
			return s.pickBlackSowSolo(r, seat, act.Game)
		}
		return nil, ErrWrongPhase
	}
	return nil, ErrWrongPhase
}

func (s *Service) handleReady(r *domain.Round, seat int) ([]Event, error) {
	if r.ReadySeats[seat] {
		return nil, ErrAlreadyAnswered
	}
	r.ReadySeats[seat] = true
	r.AppendMove(seat, string(ActionReady), nil)
	events := []Event{broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: string(ActionReady)})}

	for s := 0; s < domain.NumSeats; s++ {
		if !r.ReadySeats[s] {
			return events, nil
		}
	}
	return append(events, s.startReservations(r)...), nil
}

func (s *Service) handleThrow(r *domain.Round, seat int) ([]Event, error) {
	mode := r.Rules.String(rules.Throw)
	if mode != "reservation" && mode != "throw" {
		return nil, ErrThrowNotRealised
	}
	caseName, ok := domain.ThrowAllowed(r.Hand(seat), r.Scheme, r.Rules)
	if !ok {
		return nil, ErrThrowNotRealised
	}
	r.AppendMove(seat, string(ActionThrow), map[string]any{"case": caseName})
	return s.discardRound(r, seat, domain.GameThrow, caseName), nil
}

// discardRound ends the round immediately without scoring.
func (s *Service) discardRound(r *domain.Round, seat int, gt domain.GameType, caseName string) []Event {
	r.SetGameType(gt)
	r.Phase = domain.PhaseEnd
	events := []Event{
		broadcast(EventAnnounce, AnnouncePayload{Seat: seat, Type: string(gt), Data: caseName}),
		broadcast(EventRoundChange, RoundChangePayload{
			Phase:    r.Phase,
			GameType: r.GameType,
		}),
	}
	return events
}

// FinishRound counts the round and emits scoreboard plus round.change. It is
// called once the last trick has settled.
func (s *Service) FinishRound(r *domain.Round) ([]Event, *domain.RoundResult, error) {
	if r.Phase != domain.PhaseCounting {
		return nil, nil, ErrWrongPhase
	}
	if err := r.CheckInvariants(); err != nil {
		return nil, nil, err
	}
	res := domain.ScoreRound(r)
	r.Phase = domain.PhaseEnd

	var events []Event
	for seat := 0; seat < domain.NumSeats; seat++ {
		events = append(events, broadcast(EventScoreboard, ScoreboardPayload{
			Seat:   seat,
			Total:  r.EyesBySeat[seat],
			Change: res.SeatValues[seat],
		}))
	}
	events = append(events, broadcast(EventRoundChange, RoundChangePayload{
		Phase:            r.Phase,
		GameType:         r.GameType,
		WeddingFindTrick: r.WeddingFindTrick,
		Result:           res,
	}))
	return events, res, nil
}
