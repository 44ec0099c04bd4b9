// Package display holds console rendering helpers for the interactive
// session and the read-only subcommands.
package display

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/compass/internal/models"
)

const ruleWidth = 70

// init disables color when stdout is not a terminal (piped output, CI).
func init() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

// Header prints a bold section header with a rule underneath.
func Header(title string) {
	bold := color.New(color.Bold)
	bold.Printf("\n%s\n", title)
	fmt.Println(strings.Repeat("-", ruleWidth))
}

// Info prints a neutral status line.
func Info(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// Success prints a green confirmation line.
func Success(format string, args ...interface{}) {
	color.Green(format, args...)
}

// Warn prints a yellow warning line.
func Warn(format string, args ...interface{}) {
	color.Yellow(format, args...)
}

// ErrorLine prints a red error line.
func ErrorLine(format string, args ...interface{}) {
	color.Red(format, args...)
}

// Prompt prints a cyan input prompt without a trailing newline.
func Prompt(format string, args ...interface{}) {
	cyan := color.New(color.FgCyan)
	cyan.Printf(format, args...)
}

// Working prints the loading indicator shown while a gateway call is
// outstanding. The session loop is synchronous, so this doubles as the
// guard against re-submission.
func Working(message string) {
	color.New(color.Faint).Printf("%s\n", message)
}

// PrincipleList renders a numbered principle list.
func PrincipleList(principles []models.Principle) {
	yellow := color.New(color.FgYellow)
	if len(principles) == 0 {
		Info("  (no principles yet)")
		return
	}
	for i, p := range principles {
		fmt.Printf("  %s %s\n", yellow.Sprintf("[%d]", i+1), p.Title)
		if p.Description != "" {
			fmt.Printf("      %s\n", p.Description)
		}
	}
}

// HistoryList renders a numbered history listing, most-recent-first.
func HistoryList(records []models.DecisionRecord) {
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)
	if len(records) == 0 {
		Info("  (no decisions recorded yet)")
		return
	}
	for i, rec := range records {
		fmt.Printf("  %s %s %s\n",
			yellow.Sprintf("[%d]", i+1),
			green.Sprint(rec.Date.Format("2006-01-02 15:04")),
			summarize(rec.Situation, 48),
		)
	}
}

// DecisionDetail renders a full decision record.
func DecisionDetail(rec models.DecisionRecord) {
	bold := color.New(color.Bold)
	Header(fmt.Sprintf("Decision on %s", rec.Date.Format("2006-01-02 15:04")))
	bold.Println("Situation")
	fmt.Printf("%s\n\n", rec.Situation)
	bold.Println("Reflections")
	for i, r := range rec.Reflections {
		fmt.Printf("  %d. %s\n     Q: %s\n     A: %s\n", i+1, r.PrincipleTitle, r.Question, r.Answer)
	}
	fmt.Println()
	bold.Println("Advice")
	fmt.Printf("%s\n", rec.Advice)
}

// summarize truncates a situation text to a single display line.
func summarize(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
