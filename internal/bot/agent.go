package bot

import (
	"sync"
	"time"

	"doppelkopf/internal/app"
	"doppelkopf/internal/rules"
)

// Submit delivers a bot action to the state machine. It is called from the
// agent's goroutine; the receiver serialises it into the match loop.
type Submit func(seat int, act app.Action)

// Agent runs one bot seat. It consumes the same event stream a human client
// receives, keeps a View of the visible state, answers questions with the
// Policy and plays tricks with its Brain. All work happens on the agent's
// own goroutine; Stop is cooperative and waits for at most one decision.
type Agent struct {
	Seat     int
	Identity BotIdentity
	Brain    Brain
	Policy   Policy

	view     *View
	submit   Submit
	mailbox  chan app.Event
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	// minWait paces replies; tests shorten it.
	minWait time.Duration
}

// NewAgent wires an agent for a seat. Start must be called before events are
// delivered.
func NewAgent(seat int, rs *rules.Ruleset, identity BotIdentity, submit Submit) *Agent {
	return &Agent{
		Seat:     seat,
		Identity: identity,
		Brain:    NewSearcher(),
		view:     NewView(seat, rs),
		submit:   submit,
		mailbox:  make(chan app.Event, 256),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		minWait:  MinTime,
	}
}

// Start launches the worker goroutine.
func (a *Agent) Start() {
	go a.loop()
}

// Stop signals the worker and blocks until it has drained. Safe to call more
// than once.
func (a *Agent) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
	<-a.done
}

// Notify queues an event for the agent. It never blocks past Stop.
func (a *Agent) Notify(ev app.Event) {
	select {
	case a.mailbox <- ev:
	case <-a.stop:
	}
}

// View exposes the agent's mirror of the round, for inspection in tests.
func (a *Agent) View() *View { return a.view }

func (a *Agent) loop() {
	defer close(a.done)
	for {
		select {
		case <-a.stop:
			return
		case ev := <-a.mailbox:
			a.handle(ev)
		}
	}
}

func (a *Agent) handle(ev app.Event) {
	if !a.addressed(ev) {
		// Questions for other seats pass by silently.
		return
	}
	a.view.Apply(ev)
	a.Brain.OnEvent(ev)

	switch ev.Kind {
	case app.EventQuestion:
		if q, ok := ev.Payload.(app.QuestionPayload); ok && q.Seat == a.Seat {
			if act, ok := a.Policy.Answer(a.view, q); ok {
				a.respond(time.Now(), act)
			}
		}
	case app.EventTurn:
		if t, ok := ev.Payload.(app.TurnPayload); ok && t.Seat == a.Seat {
			a.playTurn()
		}
	case app.EventStatusMessage:
		// A forced poverty accept is the one rejection the policy must
		// answer differently on the retry.
		if m, ok := ev.Payload.(app.StatusMessagePayload); ok && m.Key == app.StatusKey(app.ErrMustAccept) {
			a.respond(time.Now(), app.Action{Kind: app.ActionPovertyAccept, Yes: true})
		}
	}
}

func (a *Agent) addressed(ev app.Event) bool {
	if len(ev.Seats) == 0 {
		return true
	}
	for _, s := range ev.Seats {
		if s == a.Seat {
			return true
		}
	}
	return false
}

func (a *Agent) playTurn() {
	start := time.Now()
	mv, err := a.Brain.ChooseCard(a.view)
	if err != nil {
		legal := a.view.LegalCards()
		if len(legal) == 0 {
			return
		}
		mv = Move{CardID: legal[0].ID}
	}
	a.respond(start, app.Action{Kind: app.ActionPlayCard, CardID: mv.CardID})
}

// respond paces the reply so at least minWait passes since start, then
// submits. A stop signal cancels the wait and drops the action.
func (a *Agent) respond(start time.Time, act app.Action) {
	if wait := a.minWait - time.Since(start); wait > 0 {
		t := time.NewTimer(wait)
		select {
		case <-t.C:
		case <-a.stop:
			t.Stop()
			return
		}
	}
	a.submit(a.Seat, act)
}
