package domain

import (
	"fmt"

	"doppelkopf/internal/rules"
)

// Seats around the table.
const NumSeats = 4

// Phase is the lifecycle stage of a round.
type Phase string

const (
	PhaseLoading      Phase = "loading"
	PhaseDealing      Phase = "dealing"
	PhaseWForReady    Phase = "w_for_ready"
	PhaseReservations Phase = "reservations"
	PhaseTricks       Phase = "tricks"
	PhaseBlackSowSolo Phase = "black_sow_solo"
	PhaseCounting     Phase = "counting"
	PhaseEnd          Phase = "end"
)

// Slot names the bins cards live in during a round.
type Slot string

const (
	SlotStack   Slot = "stack"
	SlotPoverty Slot = "poverty"
	SlotTable   Slot = "table"
)

// SlotHand is the hand slot of a seat.
func SlotHand(seat int) Slot { return Slot(fmt.Sprintf("hand%d", seat)) }

// SlotTricks is the won-tricks slot of a seat.
func SlotTricks(seat int) Slot { return Slot(fmt.Sprintf("tricks%d", seat)) }

// AllSlots lists every slot of a round.
func AllSlots() []Slot {
	slots := []Slot{SlotStack, SlotPoverty, SlotTable}
	for s := 0; s < NumSeats; s++ {
		slots = append(slots, SlotHand(s), SlotTricks(s))
	}
	return slots
}

// PlayedCard is one card played to the table.
type PlayedCard struct {
	Seat int  `json:"seat"`
	Card Card `json:"card"`
}

// Move is one accepted action in the append-only move log.
type Move struct {
	Seat    int            `json:"seat"`
	Kind    string         `json:"kind"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Extra is a bonus point condition realised during the trick phase.
type Extra struct {
	Kind  string `json:"kind"`
	Trick int    `json:"trick"`
	Seat  int    `json:"seat"`
}

// PendingFox is a captured trump ace whose extra cannot be settled until the
// parties of catcher and victim are both known.
type PendingFox struct {
	Trick  int
	Winner int
	Victim int
}

// ReservationStage names the current question inside the reservation
// sub-state machine.
type ReservationStage string

const (
	StageReservation    ReservationStage = "reservation"
	StageSolo           ReservationStage = "solo"
	StageThrow          ReservationStage = "throw"
	StagePigs           ReservationStage = "pigs"
	StageSuperpigs      ReservationStage = "superpigs"
	StagePoverty        ReservationStage = "poverty"
	StagePovertyCards   ReservationStage = "poverty_cards"
	StagePovertyAccept  ReservationStage = "poverty_accept"
	StagePovertyReturn  ReservationStage = "poverty_return"
	StagePovertyDeclare ReservationStage = "poverty_declare"
	StageWedding        ReservationStage = "wedding"
	StageWeddingClarify ReservationStage = "wedding_clarify"
	StageDone           ReservationStage = ""
)

// Reservations is the mutable state of the reservation auction. It is only
// meaningful while the round phase is reservations.
type Reservations struct {
	Stage ReservationStage

	// Claimants holds, in ask order, the seats that answered the base
	// reservation question with yes.
	Claimants []int
	// Ask is the index into Claimants (or seat number for all-seat stages)
	// currently being asked.
	Ask int

	// Solo auction bookkeeping.
	SoloBids map[int]GameType

	// Poverty exchange bookkeeping.
	PovertyHolder   int
	PovertyAcceptor int
	PovertyTrumps   int // trumps handed over, for the return declaration

	// Wedding bookkeeping.
	WeddingBride int
}

// Round is the authoritative state of one Doppelkopf round.
type Round struct {
	ID       string
	Rules    *rules.Ruleset
	GameType GameType
	Phase    Phase
	Scheme   *TrumpScheme

	Slots map[Slot][]Card

	Starter     int // seat leading the first trick
	CurrentSeat int
	TrickNum    int // 1-based
	MaxTricks   int
	Trick       []PlayedCard

	EyesBySeat   [4]int
	ExtrasBySeat [4][]Extra
	Parties      [4]Party
	Mods         map[Party]*Modifiers
	Soloist      int // -1 unless a solo or silent wedding

	// Announcement state during tricks.
	PigsCalled      bool
	PigsSeat        int
	PigsMustPlay    bool // a pig call was the most recent move
	SuperpigsCalled bool
	SuperpigsSeat   int
	SuperMustPlay   bool

	// Wedding state.
	WeddingBride     int
	WeddingWish      string
	WeddingFindTrick int // trick in which parties became known; 0 until then

	// Black sow state.
	SpadeQueensPlayed int
	// Queens of clubs played, for the open-party reveal.
	ClubQueensPlayed int

	// Count of all-spades / all-clubs tricks, for sec_black_trick.
	BlackTricksSeen int
	// Count of all-hearts tricks, for the four_hearts buck cause.
	HeartTricksSeen int

	PendingFoxes []PendingFox

	Reservation Reservations

	MoveLog []Move

	DealtGroups int // three-card groups already dealt
	ReadySeats  [4]bool
}

// NewRound creates a round in phase loading with the full stack unshuffled.
// The caller shuffles the stack before dealing.
func NewRound(id string, rs *rules.Ruleset, starter int) *Round {
	r := &Round{
		ID:        id,
		Rules:     rs,
		GameType:  GameNormal,
		Phase:     PhaseLoading,
		Scheme:    NewTrumpScheme(GameNormal, rs),
		Slots:     map[Slot][]Card{},
		Starter:   starter,
		MaxTricks: HandSize(rs),
		Soloist:   -1,
		Mods: map[Party]*Modifiers{
			PartyRe:     {},
			PartyKontra: {},
		},
		WeddingBride: -1,
	}
	for _, s := range AllSlots() {
		r.Slots[s] = nil
	}
	r.Slots[SlotStack] = NewDeck(rs)
	for s := 0; s < NumSeats; s++ {
		r.Parties[s] = PartyUnknown
	}
	return r
}

// SetGameType switches the round to a variant and rebuilds the trump scheme.
func (r *Round) SetGameType(gt GameType) {
	r.GameType = gt
	r.Scheme = NewTrumpScheme(gt, r.Rules)
}

// Hand returns the cards of a seat.
func (r *Round) Hand(seat int) []Card {
	return r.Slots[SlotHand(seat)]
}

// MoveCard moves a card by id between slots. It is an error if the card is
// not in the source slot.
func (r *Round) MoveCard(id string, from, to Slot) error {
	src := r.Slots[from]
	for i := range src {
		if src[i].ID == id {
			c := src[i]
			r.Slots[from] = append(src[:i:i], src[i+1:]...)
			r.Slots[to] = append(r.Slots[to], c)
			return nil
		}
	}
	return fmt.Errorf("card %s not in slot %s", id, from)
}

// AppendMove records an accepted action in the move log.
func (r *Round) AppendMove(seat int, kind string, payload map[string]any) {
	r.MoveLog = append(r.MoveLog, Move{Seat: seat, Kind: kind, Payload: payload})
}

// LastMoveKind returns the kind of the most recent logged move.
func (r *Round) LastMoveKind() string {
	if len(r.MoveLog) == 0 {
		return ""
	}
	return r.MoveLog[len(r.MoveLog)-1].Kind
}

// PartyOf returns the party of a seat.
func (r *Round) PartyOf(seat int) Party {
	return r.Parties[seat]
}

// PartiesComplete reports whether every seat has a playing party.
func (r *Round) PartiesComplete() bool {
	for s := 0; s < NumSeats; s++ {
		if r.Parties[s] != PartyRe && r.Parties[s] != PartyKontra {
			return false
		}
	}
	return true
}

// PartySeats returns the seats of a party.
func (r *Round) PartySeats(p Party) []int {
	var seats []int
	for s := 0; s < NumSeats; s++ {
		if r.Parties[s] == p {
			seats = append(seats, s)
		}
	}
	return seats
}

// PartyEyes sums the trick eyes of a party's seats.
func (r *Round) PartyEyes(p Party) int {
	sum := 0
	for _, s := range r.PartySeats(p) {
		sum += r.EyesBySeat[s]
	}
	return sum
}

// AssignNormalParties gives queen-of-clubs holders re and everyone else
// kontra, detecting the silent wedding (one seat holding both).
func (r *Round) AssignNormalParties() {
	both := -1
	for s := 0; s < NumSeats; s++ {
		n := CountCard(r.Hand(s), ColorClubs, FaceQueen)
		if n == 2 {
			both = s
		}
		if n > 0 {
			r.Parties[s] = PartyRe
		} else {
			r.Parties[s] = PartyKontra
		}
	}
	if both >= 0 && r.GameType == GameNormal {
		r.GameType = GameSilentWedding
		r.Soloist = both
	}
}

// AssignSoloParties makes the soloist re and everyone else kontra.
func (r *Round) AssignSoloParties(soloist int) {
	r.Soloist = soloist
	for s := 0; s < NumSeats; s++ {
		if s == soloist {
			r.Parties[s] = PartyRe
		} else {
			r.Parties[s] = PartyKontra
		}
	}
}

// CheckInvariants verifies the fatal invariants: every card id in exactly one
// slot, hand parity outside poverty exchange, and the 240-eye total once the
// round is counted. A non-nil error means the round state is corrupt.
func (r *Round) CheckInvariants() error {
	seen := map[string]Slot{}
	total := 0
	for _, slot := range AllSlots() {
		for _, c := range r.Slots[slot] {
			if prev, dup := seen[c.ID]; dup {
				return fmt.Errorf("card %s in both %s and %s", c.ID, prev, slot)
			}
			seen[c.ID] = slot
			total++
		}
	}
	want := NumSeats * HandSize(r.Rules)
	if total != want {
		return fmt.Errorf("deck has %d cards, want %d", total, want)
	}

	if r.Phase == PhaseTricks && len(r.Slots[SlotPoverty]) == 0 {
		size := -1
		for s := 0; s < NumSeats; s++ {
			n := len(r.Hand(s)) + r.seatCardsOnTable(s)
			if size == -1 {
				size = n
			} else if n != size {
				return fmt.Errorf("hand parity broken at seat %d", s)
			}
		}
	}

	if r.Phase == PhaseCounting || r.Phase == PhaseEnd {
		if !r.GameType.Discarded() && r.Phase == PhaseCounting {
			eyes := 0
			for s := 0; s < NumSeats; s++ {
				eyes += Eyes(r.Slots[SlotTricks(s)])
			}
			if eyes != 240 {
				return fmt.Errorf("trick eyes sum to %d, want 240", eyes)
			}
		}
	}
	return nil
}

func (r *Round) seatCardsOnTable(seat int) int {
	n := 0
	for _, pc := range r.Trick {
		if pc.Seat == seat {
			n++
		}
	}
	return n
}

// NextSeat returns the seat after the given one in play order.
func NextSeat(seat int) int { return (seat + 1) % NumSeats }
