// Package workflow implements the decision workflow state machine: the
// cyclic sequence of screens from onboarding through situation input,
// AI-assisted reflection, advice synthesis, and the persisted record.
//
// Free navigation is a pure transition table (Next); transitions that carry
// effects (gateway calls, persistence) are Machine methods that run the
// effect first and move state only on success, so a failure always leaves
// the session in its current, recoverable state.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harrison/compass/internal/journal"
	"github.com/harrison/compass/internal/logger"
	"github.com/harrison/compass/internal/models"
)

// State enumerates the application screens.
type State int

const (
	StateOnboarding State = iota
	StateDashboard
	StatePrinciples
	StateSituation
	StateReflection
	StateResult
	StateHistory
	StateHistoryDetail
)

// String returns the screen name.
func (s State) String() string {
	switch s {
	case StateOnboarding:
		return "onboarding"
	case StateDashboard:
		return "dashboard"
	case StatePrinciples:
		return "principles"
	case StateSituation:
		return "situation"
	case StateReflection:
		return "reflection"
	case StateResult:
		return "result"
	case StateHistory:
		return "history"
	case StateHistoryDetail:
		return "history-detail"
	default:
		return "unknown"
	}
}

// Event enumerates user intents that drive navigation.
type Event int

const (
	EventFinishOnboarding Event = iota
	EventNewDecision
	EventOpenPrinciples
	EventOpenHistory
	EventOpenDetail
	EventAcknowledge
	EventBack
)

// Next is the pure navigation table: (state, event) -> state. The second
// return value is false for transitions the machine does not define.
// Guarded transitions (credential checks, gateway calls) appear here too;
// the Machine methods consult the table only after their guards pass.
func Next(s State, e Event) (State, bool) {
	type key struct {
		s State
		e Event
	}
	transitions := map[key]State{
		{StateOnboarding, EventFinishOnboarding}: StateDashboard,
		{StateDashboard, EventNewDecision}:       StateSituation,
		{StateDashboard, EventOpenPrinciples}:    StatePrinciples,
		{StateDashboard, EventOpenHistory}:       StateHistory,
		{StatePrinciples, EventBack}:             StateDashboard,
		{StateSituation, EventBack}:              StateDashboard,
		{StateReflection, EventBack}:             StateDashboard,
		{StateResult, EventAcknowledge}:          StateDashboard,
		{StateHistory, EventOpenDetail}:          StateHistoryDetail,
		{StateHistory, EventBack}:                StateDashboard,
		{StateHistoryDetail, EventBack}:          StateHistory,
	}
	next, ok := transitions[key{s, e}]
	return next, ok
}

// Guard and precondition errors. These are surfaced before any external
// call and keep the machine in its current state.
var (
	ErrCredentialRequired = errors.New("an API credential is required before starting a decision")
	ErrEmptySituation     = errors.New("situation text cannot be empty")
	ErrUnanswered         = errors.New("every reflection must be answered first")
	ErrNoReflections      = errors.New("no reflections to answer")
)

// Gateway is the subset of the AI gateway the workflow depends on.
type Gateway interface {
	AnalyzeSituation(ctx context.Context, credential, situation string, principles []models.Principle) ([]models.Reflection, error)
	SynthesizeAdvice(ctx context.Context, credential, situation string, reflections []models.Reflection) (string, error)
}

// Machine orchestrates one session of the decision workflow. It is cyclic:
// there is no terminal state, a session is a sequence of decisions.
// Not safe for concurrent use; the session loop is single-threaded and
// allows at most one outstanding gateway call.
type Machine struct {
	state   State
	journal *journal.Journal
	gateway Gateway
	log     logger.Logger

	principles  []models.Principle
	situation   string
	reflections []models.Reflection
	advice      string
	detailID    string

	// now is a test hook for record timestamps.
	now func() time.Time
}

// NewMachine builds a Machine and determines the initial state: Onboarding
// when no persisted principle set exists (first run offers the seed set),
// Dashboard otherwise.
func NewMachine(ctx context.Context, j *journal.Journal, gw Gateway, log logger.Logger) *Machine {
	if log == nil {
		log = logger.Nop{}
	}
	m := &Machine{
		journal: j,
		gateway: gw,
		log:     log,
		now:     time.Now,
	}

	principles, found := j.Principles(ctx)
	m.principles = principles
	if found {
		m.state = StateDashboard
	} else {
		m.state = StateOnboarding
	}

	return m
}

// State returns the current screen.
func (m *Machine) State() State { return m.state }

// Principles returns the in-memory principle set.
func (m *Machine) Principles() []models.Principle { return m.principles }

// Situation returns the situation text of the in-flight decision.
func (m *Machine) Situation() string { return m.situation }

// Reflections returns the reflections of the in-flight decision.
func (m *Machine) Reflections() []models.Reflection { return m.reflections }

// Advice returns the synthesized advice of the in-flight decision.
func (m *Machine) Advice() string { return m.advice }

// DetailID returns the record id selected on the history screen.
func (m *Machine) DetailID() string { return m.detailID }

// FinishOnboarding persists the finalized principle set and moves to the
// dashboard. Validation failure keeps the machine in onboarding.
func (m *Machine) FinishOnboarding(ctx context.Context, principles []models.Principle) error {
	if m.state != StateOnboarding {
		return fmt.Errorf("not in onboarding (state: %s)", m.state)
	}
	if err := m.journal.SavePrinciples(ctx, principles); err != nil {
		return err
	}
	m.principles = principles
	m.state, _ = Next(m.state, EventFinishOnboarding)
	return nil
}

// StartDecision moves from the dashboard to situation input. The transition
// requires a present credential; without one the caller should redirect to
// credential entry and the state does not change.
func (m *Machine) StartDecision(ctx context.Context) error {
	next, ok := Next(m.state, EventNewDecision)
	if !ok {
		return fmt.Errorf("cannot start a decision from %s", m.state)
	}
	if m.journal.Credential(ctx) == "" {
		return ErrCredentialRequired
	}
	m.situation = ""
	m.reflections = nil
	m.advice = ""
	m.state = next
	return nil
}

// SubmitSituation runs the analysis phase. On success the machine moves to
// reflection, even with zero returned reflections (a valid, if degenerate,
// outcome). On any failure the machine stays in situation input.
func (m *Machine) SubmitSituation(ctx context.Context, text string) error {
	if m.state != StateSituation {
		return fmt.Errorf("not in situation input (state: %s)", m.state)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptySituation
	}
	credential := m.journal.Credential(ctx)
	if credential == "" {
		return ErrCredentialRequired
	}

	reflections, err := m.gateway.AnalyzeSituation(ctx, credential, text, m.principles)
	if err != nil {
		return err
	}

	m.situation = text
	m.reflections = reflections
	m.state = StateReflection
	m.log.LogInfo(fmt.Sprintf("analysis selected %d principles", len(reflections)))
	return nil
}

// Answer records the user's answer for one reflection.
func (m *Machine) Answer(index int, answer string) error {
	if m.state != StateReflection {
		return fmt.Errorf("not in reflection (state: %s)", m.state)
	}
	if index < 0 || index >= len(m.reflections) {
		return fmt.Errorf("reflection index %d out of range", index)
	}
	m.reflections[index].Answer = strings.TrimSpace(answer)
	return nil
}

// Unanswered returns the indexes of reflections still missing an answer.
func (m *Machine) Unanswered() []int {
	var missing []int
	for i, r := range m.reflections {
		if !r.Answered() {
			missing = append(missing, i)
		}
	}
	return missing
}

// Synthesize runs the synthesis phase and, on success, constructs the
// decision record, prepends it to history, and moves to the result screen.
// A record is persisted if and only if every reflection was answered and
// synthesis succeeded; on failure the machine stays in reflection and the
// history is untouched.
func (m *Machine) Synthesize(ctx context.Context) (models.DecisionRecord, error) {
	if m.state != StateReflection {
		return models.DecisionRecord{}, fmt.Errorf("not in reflection (state: %s)", m.state)
	}
	if len(m.reflections) > 0 && len(m.Unanswered()) > 0 {
		return models.DecisionRecord{}, ErrUnanswered
	}
	credential := m.journal.Credential(ctx)
	if credential == "" {
		return models.DecisionRecord{}, ErrCredentialRequired
	}

	advice, err := m.gateway.SynthesizeAdvice(ctx, credential, m.situation, m.reflections)
	if err != nil {
		return models.DecisionRecord{}, err
	}

	rec := models.NewDecisionRecord(m.now(), m.situation, m.reflections, advice)
	m.journal.AppendDecision(ctx, rec)

	m.advice = advice
	m.state = StateResult
	m.log.LogInfo(fmt.Sprintf("decision recorded: %s", rec.ID))
	return rec, nil
}

// Acknowledge returns from the result screen to the dashboard.
func (m *Machine) Acknowledge() error {
	next, ok := Next(m.state, EventAcknowledge)
	if !ok {
		return fmt.Errorf("nothing to acknowledge from %s", m.state)
	}
	m.situation = ""
	m.reflections = nil
	m.advice = ""
	m.state = next
	return nil
}

// Navigate performs a free (unguarded) navigation event.
func (m *Machine) Navigate(e Event) error {
	next, ok := Next(m.state, e)
	if !ok {
		return fmt.Errorf("no transition for %s from %s", eventName(e), m.state)
	}
	m.state = next
	return nil
}

// OpenDetail opens one history record on the detail screen.
func (m *Machine) OpenDetail(ctx context.Context, id string) (models.DecisionRecord, error) {
	rec, err := m.journal.Decision(ctx, id)
	if err != nil {
		return models.DecisionRecord{}, err
	}
	if err := m.Navigate(EventOpenDetail); err != nil {
		return models.DecisionRecord{}, err
	}
	m.detailID = id
	return rec, nil
}

// ReplacePrinciples persists an edited principle set from the principles
// manager. The manager edits in memory; this is its explicit save action.
func (m *Machine) ReplacePrinciples(ctx context.Context, principles []models.Principle) error {
	if err := m.journal.SavePrinciples(ctx, principles); err != nil {
		return err
	}
	m.principles = principles
	return nil
}

func eventName(e Event) string {
	switch e {
	case EventFinishOnboarding:
		return "finish-onboarding"
	case EventNewDecision:
		return "new-decision"
	case EventOpenPrinciples:
		return "open-principles"
	case EventOpenHistory:
		return "open-history"
	case EventOpenDetail:
		return "open-detail"
	case EventAcknowledge:
		return "acknowledge"
	case EventBack:
		return "back"
	default:
		return "unknown"
	}
}
