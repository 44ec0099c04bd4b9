package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/harrison/compass/internal/display"
	"github.com/harrison/compass/internal/gateway"
	"github.com/harrison/compass/internal/models"
	"github.com/harrison/compass/internal/workflow"
)

// LineReader defines the input source for the interactive session
// (injectable for tests).
type LineReader interface {
	ReadString(delim byte) (string, error)
}

// stdinReader wraps bufio.Reader over os.Stdin.
type stdinReader struct {
	reader *bufio.Reader
}

func (s *stdinReader) ReadString(delim byte) (string, error) {
	return s.reader.ReadString(delim)
}

func newStdinReader() LineReader {
	return &stdinReader{reader: bufio.NewReader(os.Stdin)}
}

// Session drives the interactive view loop: it renders the screen for the
// machine's current state, reads one user intent, dispatches it, and
// repeats. The loop is synchronous, so at most one gateway call is ever
// outstanding and re-submission during a call is impossible.
type Session struct {
	app     *app
	machine *workflow.Machine
	reader  LineReader

	// detail is the record shown on the history-detail screen.
	detail models.DecisionRecord
}

// NewSession builds a session over an initialized machine.
func NewSession(a *app, m *workflow.Machine, reader LineReader) *Session {
	return &Session{app: a, machine: m, reader: reader}
}

// Run loops until the user quits from the dashboard or input is closed.
func (s *Session) Run(ctx context.Context) error {
	for {
		var (
			quit bool
			err  error
		)

		switch s.machine.State() {
		case workflow.StateOnboarding:
			err = s.screenOnboarding(ctx)
		case workflow.StateDashboard:
			quit, err = s.screenDashboard(ctx)
		case workflow.StateSituation:
			err = s.screenSituation(ctx)
		case workflow.StateReflection:
			err = s.screenReflection(ctx)
		case workflow.StateResult:
			err = s.screenResult()
		case workflow.StateHistory:
			err = s.screenHistory(ctx)
		case workflow.StateHistoryDetail:
			err = s.screenHistoryDetail()
		case workflow.StatePrinciples:
			err = s.screenPrinciples(ctx)
		default:
			return fmt.Errorf("unknown state: %s", s.machine.State())
		}

		if errors.Is(err, io.EOF) || quit {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// readLine reads and trims one line of input.
func (s *Session) readLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readBlock reads lines until an empty line, joining them with newlines.
func (s *Session) readBlock() (string, error) {
	var lines []string
	for {
		line, err := s.readLine()
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// screenOnboarding runs first-run setup: accept the seed principles or
// enter a custom set, then persist and move to the dashboard.
func (s *Session) screenOnboarding(ctx context.Context) error {
	display.Header("Welcome to Compass")
	display.Info("Decisions here are weighed against your own principles.")
	display.Info("Here is a starter set:")
	fmt.Println()
	display.PrincipleList(s.machine.Principles())
	display.Prompt("\n[enter] keep this set  [c] write my own: ")

	choice, err := s.readLine()
	if err != nil {
		return err
	}

	principles := s.machine.Principles()
	if strings.EqualFold(strings.TrimSpace(choice), "c") {
		principles, err = s.collectPrinciples()
		if err != nil {
			return err
		}
		if len(principles) == 0 {
			display.Warn("No principles entered, keeping the starter set.")
			principles = s.machine.Principles()
		}
	}

	if err := s.machine.FinishOnboarding(ctx, principles); err != nil {
		display.ErrorLine("Could not save principles: %v", err)
		return nil
	}
	display.Success("Principles saved.")
	return nil
}

// collectPrinciples reads title/description pairs until a blank title or
// the set cap.
func (s *Session) collectPrinciples() ([]models.Principle, error) {
	var principles []models.Principle
	for len(principles) < models.MaxPrinciples {
		display.Prompt("Principle %d title (empty to finish): ", len(principles)+1)
		title, err := s.readLine()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(title) == "" {
			break
		}
		display.Prompt("Description: ")
		desc, err := s.readLine()
		if err != nil {
			return nil, err
		}
		principles = append(principles, models.NewPrinciple(strings.TrimSpace(title), strings.TrimSpace(desc)))
	}
	return principles, nil
}

// screenDashboard is the stable hub state. Returns quit=true when the user
// exits the session.
func (s *Session) screenDashboard(ctx context.Context) (bool, error) {
	history := s.app.journal.History(ctx)
	credential := s.app.journal.Credential(ctx)

	display.Header("Compass")
	display.Info("  Principles: %d   Decisions: %d   Credential: %s",
		len(s.machine.Principles()), len(history), credentialLabel(credential))
	fmt.Println()
	display.Info("  [1] New decision")
	display.Info("  [2] Manage principles")
	display.Info("  [3] History")
	display.Info("  [4] Set credential")
	display.Info("  [q] Quit")
	display.Prompt("\nChoose: ")

	choice, err := s.readLine()
	if err != nil {
		return false, err
	}

	switch strings.TrimSpace(choice) {
	case "1":
		if err := s.machine.StartDecision(ctx); err != nil {
			if errors.Is(err, workflow.ErrCredentialRequired) {
				display.Warn("A valid API credential is needed first.")
				if err := s.promptCredential(ctx); err != nil {
					return false, err
				}
				// The transition was aborted; the user retriggers it.
				return false, nil
			}
			display.ErrorLine("%v", err)
		}
	case "2":
		return false, s.machine.Navigate(workflow.EventOpenPrinciples)
	case "3":
		return false, s.machine.Navigate(workflow.EventOpenHistory)
	case "4":
		return false, s.promptCredential(ctx)
	case "q":
		return true, nil
	default:
		display.Warn("Unknown choice.")
	}
	return false, nil
}

func credentialLabel(credential string) string {
	if credential == "" {
		return models.CredentialUnset.String()
	}
	return "set"
}

// promptCredential reads, validates, and persists a credential. An invalid
// credential is never stored and never auto-retried.
func (s *Session) promptCredential(ctx context.Context) error {
	display.Prompt("API key (empty to cancel): ")
	candidate, err := s.readLine()
	if err != nil {
		return err
	}
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return nil
	}

	display.Working(fmt.Sprintf("Credential status: %s", models.CredentialTesting))
	if !s.app.gateway.ValidateCredential(ctx, candidate) {
		display.ErrorLine("Credential status: %s. Key was not saved.", models.CredentialInvalid)
		return nil
	}

	s.app.journal.SaveCredential(ctx, candidate)
	display.Success("Credential status: %s. Key saved.", models.CredentialValid)
	return nil
}

// screenSituation reads the dilemma and runs the analysis phase. Any
// failure keeps the session on this screen.
func (s *Session) screenSituation(ctx context.Context) error {
	display.Header("New Decision")
	display.Info("Describe your dilemma. Finish with an empty line ('b' alone to go back).")
	display.Prompt("> ")

	text, err := s.readBlock()
	if err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(text), "b") {
		return s.machine.Navigate(workflow.EventBack)
	}

	display.Working("Weighing your principles against the situation...")
	if err := s.machine.SubmitSituation(ctx, text); err != nil {
		display.ErrorLine("%v", err)
		return nil
	}

	if len(s.machine.Reflections()) == 0 {
		display.Warn("None of your principles seemed directly relevant; you can still ask for advice.")
	}
	return nil
}

// screenReflection collects an answer per question and runs synthesis.
// On synthesis failure the session stays here with answers intact.
func (s *Session) screenReflection(ctx context.Context) error {
	reflections := s.machine.Reflections()

	display.Header("Reflection")
	for i, r := range reflections {
		if r.Answered() {
			continue
		}
		display.Info("\n%d/%d  %s", i+1, len(reflections), r.PrincipleTitle)
		display.Info("      %s", r.Question)
		for {
			display.Prompt("Your answer: ")
			answer, err := s.readLine()
			if err != nil {
				return err
			}
			if strings.TrimSpace(answer) == "" {
				display.Warn("An answer is required before moving on.")
				continue
			}
			if err := s.machine.Answer(i, answer); err != nil {
				return err
			}
			break
		}
	}

	display.Prompt("\n[enter] get advice  [b] discard and go back: ")
	choice, err := s.readLine()
	if err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(choice), "b") {
		return s.machine.Navigate(workflow.EventBack)
	}

	display.Working("Synthesizing advice from your reflections...")
	if _, err := s.machine.Synthesize(ctx); err != nil {
		if errors.Is(err, gateway.ErrNoCredential) || errors.Is(err, workflow.ErrCredentialRequired) {
			display.ErrorLine("The stored credential is no longer usable; set it again from the dashboard.")
			return nil
		}
		display.ErrorLine("%v", err)
		return nil
	}
	return nil
}

// screenResult shows the synthesized advice; the record is already saved.
func (s *Session) screenResult() error {
	display.Header("Advice")
	display.Info("%s", s.machine.Advice())
	display.Success("\nThis decision has been added to your history.")
	display.Prompt("[enter] back to dashboard: ")

	if _, err := s.readLine(); err != nil {
		return err
	}
	return s.machine.Acknowledge()
}

// screenHistory lists past decisions and opens one, or deletes one whole
// record after confirmation.
func (s *Session) screenHistory(ctx context.Context) error {
	records := s.app.journal.History(ctx)

	display.Header("History")
	display.HistoryList(records)
	display.Prompt("\nOpen (number), 'd <number>' to delete, 'b' back: ")

	choice, err := s.readLine()
	if err != nil {
		return err
	}
	choice = strings.TrimSpace(choice)

	switch {
	case choice == "b":
		return s.machine.Navigate(workflow.EventBack)
	case strings.HasPrefix(choice, "d "):
		idx, err := strconv.Atoi(strings.TrimSpace(choice[2:]))
		if err != nil || idx < 1 || idx > len(records) {
			display.Warn("Unknown entry.")
			return nil
		}
		rec := records[idx-1]
		display.Prompt("Delete the decision from %s? [y/N]: ", rec.Date.Format("2006-01-02"))
		confirm, err := s.readLine()
		if err != nil {
			return err
		}
		if strings.EqualFold(strings.TrimSpace(confirm), "y") {
			if err := s.app.journal.DeleteDecision(ctx, rec.ID); err != nil {
				display.ErrorLine("%v", err)
			} else {
				display.Success("Deleted.")
			}
		}
		return nil
	default:
		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(records) {
			display.Warn("Unknown entry.")
			return nil
		}
		rec, err := s.machine.OpenDetail(ctx, records[idx-1].ID)
		if err != nil {
			display.ErrorLine("%v", err)
			return nil
		}
		s.detail = rec
		return nil
	}
}

// screenHistoryDetail shows one full record.
func (s *Session) screenHistoryDetail() error {
	display.DecisionDetail(s.detail)
	display.Prompt("\n[enter] back to history: ")
	if _, err := s.readLine(); err != nil {
		return err
	}
	return s.machine.Navigate(workflow.EventBack)
}

// screenPrinciples is the principles manager: edits are in-memory until the
// explicit save action.
func (s *Session) screenPrinciples(ctx context.Context) error {
	working := append([]models.Principle(nil), s.machine.Principles()...)
	dirty := false

	for {
		display.Header(fmt.Sprintf("Principles (%d/%d)", len(working), models.MaxPrinciples))
		display.PrincipleList(working)
		if len(working) < models.MaxPrinciples {
			display.Prompt("\n[a] add  [e <n>] edit  [d <n>] delete  [s] save  [b] back: ")
		} else {
			// Add control is hidden at the cap.
			display.Prompt("\n[e <n>] edit  [d <n>] delete  [s] save  [b] back: ")
		}

		choice, err := s.readLine()
		if err != nil {
			return err
		}
		choice = strings.TrimSpace(choice)

		switch {
		case choice == "a":
			if len(working) >= models.MaxPrinciples {
				display.Warn("The set is limited to %d principles.", models.MaxPrinciples)
				continue
			}
			display.Prompt("Title: ")
			title, err := s.readLine()
			if err != nil {
				return err
			}
			if strings.TrimSpace(title) == "" {
				display.Warn("Title cannot be empty.")
				continue
			}
			display.Prompt("Description: ")
			desc, err := s.readLine()
			if err != nil {
				return err
			}
			working = append(working, models.NewPrinciple(strings.TrimSpace(title), strings.TrimSpace(desc)))
			dirty = true

		case strings.HasPrefix(choice, "e "):
			idx, ok := parseIndex(choice[2:], len(working))
			if !ok {
				display.Warn("Unknown entry.")
				continue
			}
			display.Prompt("New title (empty keeps %q): ", working[idx].Title)
			title, err := s.readLine()
			if err != nil {
				return err
			}
			display.Prompt("New description (empty keeps current): ")
			desc, err := s.readLine()
			if err != nil {
				return err
			}
			if strings.TrimSpace(title) != "" {
				working[idx].Title = strings.TrimSpace(title)
			}
			if strings.TrimSpace(desc) != "" {
				working[idx].Description = strings.TrimSpace(desc)
			}
			dirty = true

		case strings.HasPrefix(choice, "d "):
			idx, ok := parseIndex(choice[2:], len(working))
			if !ok {
				display.Warn("Unknown entry.")
				continue
			}
			display.Prompt("Delete %q? [y/N]: ", working[idx].Title)
			confirm, err := s.readLine()
			if err != nil {
				return err
			}
			if strings.EqualFold(strings.TrimSpace(confirm), "y") {
				working = append(working[:idx], working[idx+1:]...)
				dirty = true
			}

		case choice == "s":
			if err := s.machine.ReplacePrinciples(ctx, working); err != nil {
				display.ErrorLine("%v", err)
				continue
			}
			display.Success("Principles saved.")
			dirty = false

		case choice == "b":
			if dirty {
				display.Prompt("Discard unsaved changes? [y/N]: ")
				confirm, err := s.readLine()
				if err != nil {
					return err
				}
				if !strings.EqualFold(strings.TrimSpace(confirm), "y") {
					continue
				}
			}
			return s.machine.Navigate(workflow.EventBack)

		default:
			display.Warn("Unknown choice.")
		}
	}
}

// parseIndex parses a 1-based list index against the list length.
func parseIndex(s string, length int) (int, bool) {
	idx, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || idx < 1 || idx > length {
		return 0, false
	}
	return idx - 1, true
}
