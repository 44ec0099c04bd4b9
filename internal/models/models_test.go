package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrinciple(t *testing.T) {
	p := NewPrinciple("Integrity", "Act in line with my values.")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Integrity", p.Title)

	q := NewPrinciple("Integrity", "Act in line with my values.")
	assert.NotEqual(t, p.ID, q.ID, "each principle gets its own id")
}

func TestDefaultPrinciples(t *testing.T) {
	seeds := DefaultPrinciples()
	require.Len(t, seeds, 5)
	assert.LessOrEqual(t, len(seeds), MaxPrinciples)

	seen := map[string]bool{}
	for _, p := range seeds {
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Description)
		assert.False(t, seen[p.ID], "seed ids must be unique")
		seen[p.ID] = true
	}
}

func TestReflectionAnswered(t *testing.T) {
	r := Reflection{Question: "Q?"}
	assert.False(t, r.Answered())
	r.Answer = "A."
	assert.True(t, r.Answered())
}

func TestNewDecisionRecord(t *testing.T) {
	date := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	reflections := []Reflection{{PrincipleID: "p1", Question: "Q?", Answer: "A."}}

	rec := NewDecisionRecord(date, "my dilemma", reflections, "my advice")
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, date, rec.Date)
	assert.Equal(t, "my dilemma", rec.Situation)
	assert.Equal(t, "my advice", rec.Advice)
	require.Len(t, rec.Reflections, 1)
}

// TestDecisionRecordEncoding pins the stored field names; existing journals
// depend on them.
func TestDecisionRecordEncoding(t *testing.T) {
	rec := DecisionRecord{
		ID:        "r1",
		Date:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Situation: "s",
		Reflections: []Reflection{
			{PrincipleID: "p1", Question: "Q?", Answer: "A."},
		},
		Advice: "a",
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "relevantPrinciples")
	assert.Contains(t, raw, "finalAdvice")

	var items []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["relevantPrinciples"], &items))
	require.Len(t, items, 1)
	assert.Contains(t, items[0], "principleId")
	assert.Contains(t, items[0], "reflectionQuestion")
	assert.Contains(t, items[0], "userAnswer")
}

func TestCredentialStatusString(t *testing.T) {
	assert.Equal(t, "not set", CredentialUnset.String())
	assert.Equal(t, "testing", CredentialTesting.String())
	assert.Equal(t, "valid", CredentialValid.String())
	assert.Equal(t, "invalid", CredentialInvalid.String())
	assert.Equal(t, "unknown", CredentialStatus(42).String())
}
