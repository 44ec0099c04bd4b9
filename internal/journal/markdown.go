package journal

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/harrison/compass/internal/models"
)

// ImportPrinciplesMarkdown parses a markdown document into a principle set.
// Each level-2 heading becomes a principle title; the paragraphs that follow
// it (up to the next heading) become its description. The MaxPrinciples cap
// applies to the parsed document as a whole.
func ImportPrinciplesMarkdown(source []byte) ([]models.Principle, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var principles []models.Principle
	var title string
	var body strings.Builder
	inPrinciple := false

	flush := func() {
		if !inPrinciple {
			return
		}
		principles = append(principles, models.NewPrinciple(title, strings.TrimSpace(body.String())))
		body.Reset()
	}

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 2 {
				flush()
				title = extractText(node, source)
				inPrinciple = true
				return ast.WalkSkipChildren, nil
			}
			// Any other heading ends the current principle section.
			flush()
			inPrinciple = false
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			if inPrinciple {
				if body.Len() > 0 {
					body.WriteString("\n")
				}
				body.WriteString(extractText(node, source))
			}
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}
	flush()

	if len(principles) == 0 {
		return nil, fmt.Errorf("no principles found: expected level-2 headings")
	}
	if err := ValidatePrinciples(principles); err != nil {
		return nil, err
	}

	return principles, nil
}

// extractText extracts plain text from an AST node.
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
		}
	}
	return buf.String()
}

// ExportPrinciplesMarkdown renders a principle set in the format accepted by
// ImportPrinciplesMarkdown, so export and re-import round-trip.
func ExportPrinciplesMarkdown(principles []models.Principle) []byte {
	var sb strings.Builder
	sb.WriteString("# Principles\n\n")
	for _, p := range principles {
		fmt.Fprintf(&sb, "## %s\n\n%s\n\n", p.Title, p.Description)
	}
	return []byte(sb.String())
}

// ExportHistoryMarkdown renders the decision history as a readable document,
// most-recent-first, matching the stored order.
func ExportHistoryMarkdown(records []models.DecisionRecord) []byte {
	var sb strings.Builder
	sb.WriteString("# Decision History\n\n")
	for _, rec := range records {
		fmt.Fprintf(&sb, "## %s\n\n", rec.Date.Format("2006-01-02 15:04"))
		fmt.Fprintf(&sb, "**Situation**\n\n%s\n\n", rec.Situation)
		for i, r := range rec.Reflections {
			fmt.Fprintf(&sb, "%d. **%s**\n   - Q: %s\n   - A: %s\n", i+1, r.PrincipleTitle, r.Question, r.Answer)
		}
		fmt.Fprintf(&sb, "\n**Advice**\n\n%s\n\n", rec.Advice)
	}
	return []byte(sb.String())
}
