package gateway

import (
	"fmt"
	"strings"

	"github.com/harrison/compass/internal/models"
)

// localeName maps a language code to the name used in prompt instructions.
// Unknown codes are passed through so the model can still interpret them.
func localeName(code string) string {
	switch strings.ToLower(code) {
	case "ko":
		return "Korean"
	case "en":
		return "English"
	case "ja":
		return "Japanese"
	case "de":
		return "German"
	case "fr":
		return "French"
	case "es":
		return "Spanish"
	default:
		return code
	}
}

// analysisSystemPrompt frames the ranking call. Output must be pure JSON
// matching the response schema; the locale applies to the question text only.
func analysisSystemPrompt(locale string) string {
	return fmt.Sprintf("You are a thoughtful decision coach. "+
		"Given a person's life principles and a dilemma they face, select the 3-4 principles "+
		"most relevant to the dilemma and write one probing reflection question per selected principle. "+
		"Reference principles strictly by their id. "+
		"Write every reflection question in %s. "+
		"Respond with JSON only, matching the provided schema.", localeName(locale))
}

// analysisPrompt lists the principles with their ids and the situation text.
func analysisPrompt(situation string, principles []models.Principle) string {
	var sb strings.Builder
	sb.WriteString("My principles:\n")
	for i, p := range principles {
		fmt.Fprintf(&sb, "%d. id=%s title=%q description=%q\n", i+1, p.ID, p.Title, p.Description)
	}
	sb.WriteString("\nMy dilemma:\n")
	sb.WriteString(situation)
	sb.WriteString("\n\nSelect the 3-4 most relevant principles by id and give one reflection question for each.")
	return sb.String()
}

// synthesisSystemPrompt frames the advice call. Free prose, no schema.
func synthesisSystemPrompt(locale string) string {
	return fmt.Sprintf("You are a thoughtful decision coach. "+
		"Using the person's dilemma and their own answers to principle-grounded reflection questions, "+
		"write advice that (1) summarizes the underlying conflict, (2) explains how each principle applies, "+
		"and (3) ends with one direct recommendation. "+
		"Ground everything in their answers; do not invent facts they did not state. "+
		"Write in %s, in plain prose.", localeName(locale))
}

// synthesisPrompt concatenates the situation with each
// principle/question/answer triple.
func synthesisPrompt(situation string, reflections []models.Reflection) string {
	var sb strings.Builder
	sb.WriteString("My dilemma:\n")
	sb.WriteString(situation)
	sb.WriteString("\n\nMy reflections:\n")
	for i, r := range reflections {
		fmt.Fprintf(&sb, "%d. Principle: %s (%s)\n   Question: %s\n   My answer: %s\n",
			i+1, r.PrincipleTitle, r.PrincipleDescription, r.Question, r.Answer)
	}
	sb.WriteString("\nGive me your advice.")
	return sb.String()
}
