package journal

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/compass/internal/models"
)

func TestImportPrinciplesMarkdown(t *testing.T) {
	source := []byte(`# My Principles

## Integrity

Act in line with my stated values.

Even when nobody is watching.

## Growth

Prefer the option that teaches me something.
`)

	principles, err := ImportPrinciplesMarkdown(source)
	require.NoError(t, err)
	require.Len(t, principles, 2)

	assert.Equal(t, "Integrity", principles[0].Title)
	assert.Equal(t, "Act in line with my stated values.\nEven when nobody is watching.", principles[0].Description)
	assert.Equal(t, "Growth", principles[1].Title)
	assert.NotEmpty(t, principles[0].ID)
	assert.NotEqual(t, principles[0].ID, principles[1].ID)
}

func TestImportPrinciplesMarkdownNoHeadings(t *testing.T) {
	_, err := ImportPrinciplesMarkdown([]byte("just a paragraph, no headings"))
	assert.Error(t, err)
}

func TestImportPrinciplesMarkdownEnforcesCap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < models.MaxPrinciples+1; i++ {
		fmt.Fprintf(&sb, "## Principle %d\n\nDescription %d.\n\n", i, i)
	}

	_, err := ImportPrinciplesMarkdown([]byte(sb.String()))
	assert.ErrorIs(t, err, ErrPrincipleLimit)
}

func TestImportPrinciplesMarkdownIgnoresOtherHeadings(t *testing.T) {
	source := []byte(`# Document title

## Courage

Choose the braver option.

### A sub-note

This paragraph belongs to the level-3 section, not the principle.
`)

	principles, err := ImportPrinciplesMarkdown(source)
	require.NoError(t, err)
	require.Len(t, principles, 1)
	assert.Equal(t, "Courage", principles[0].Title)
	assert.Equal(t, "Choose the braver option.", principles[0].Description)
}

func TestExportImportRoundTrip(t *testing.T) {
	original := []models.Principle{
		models.NewPrinciple("Integrity", "Act in line with my values."),
		models.NewPrinciple("Health", "Sleep is not negotiable."),
	}

	exported := ExportPrinciplesMarkdown(original)
	reimported, err := ImportPrinciplesMarkdown(exported)
	require.NoError(t, err)
	require.Len(t, reimported, len(original))

	for i := range original {
		assert.Equal(t, original[i].Title, reimported[i].Title)
		assert.Equal(t, original[i].Description, reimported[i].Description)
	}
}

func TestExportHistoryMarkdown(t *testing.T) {
	date := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	records := []models.DecisionRecord{
		{
			ID:        "r1",
			Date:      date,
			Situation: "Should I move cities?",
			Reflections: []models.Reflection{
				{PrincipleTitle: "Relationships", Question: "Who do you leave behind?", Answer: "My brother."},
			},
			Advice: "Stay one more year.",
		},
	}

	out := string(ExportHistoryMarkdown(records))
	assert.Contains(t, out, "# Decision History")
	assert.Contains(t, out, "## 2026-03-14 09:30")
	assert.Contains(t, out, "Should I move cities?")
	assert.Contains(t, out, "Who do you leave behind?")
	assert.Contains(t, out, "My brother.")
	assert.Contains(t, out, "Stay one more year.")
}
