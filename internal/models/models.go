// Package models defines the core data types for the compass decision journal.
package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxPrinciples is the upper bound on the size of the principle set.
// Adding beyond this limit is rejected everywhere principles are edited.
const MaxPrinciples = 10

// Principle is a user-authored value statement used as a lens for decisions.
// Order within the set is display-significant (insertion order).
type Principle struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Reflection links one principle to a generated question and the user's answer.
// Title and description are copies captured at analysis time so that later
// edits to the principle set do not rewrite past records.
type Reflection struct {
	PrincipleID          string `json:"principleId"`
	PrincipleTitle       string `json:"principleTitle"`
	PrincipleDescription string `json:"principleDescription"`
	Question             string `json:"reflectionQuestion"`
	Answer               string `json:"userAnswer,omitempty"`
}

// Answered reports whether the reflection has a non-empty answer.
func (r Reflection) Answered() bool {
	return r.Answer != ""
}

// DecisionRecord is the immutable archived outcome of one full workflow pass.
// A record is only ever created with every reflection answered; history keeps
// records most-recent-first and supports whole-record deletion only.
type DecisionRecord struct {
	ID          string       `json:"id"`
	Date        time.Time    `json:"date"`
	Situation   string       `json:"situation"`
	Reflections []Reflection `json:"relevantPrinciples"`
	Advice      string       `json:"finalAdvice"`
}

// NewDecisionRecord builds a record with a fresh id and the given timestamp.
func NewDecisionRecord(date time.Time, situation string, reflections []Reflection, advice string) DecisionRecord {
	return DecisionRecord{
		ID:          uuid.NewString(),
		Date:        date,
		Situation:   situation,
		Reflections: reflections,
		Advice:      advice,
	}
}

// NewPrinciple builds a principle with a fresh id.
func NewPrinciple(title, description string) Principle {
	return Principle{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
	}
}

// DefaultPrinciples returns the fixed five-item seed set offered on first run.
func DefaultPrinciples() []Principle {
	return []Principle{
		NewPrinciple("Integrity", "Act in line with my stated values even when nobody is watching."),
		NewPrinciple("Growth", "Prefer the option that teaches me something, even at short-term cost."),
		NewPrinciple("Relationships", "Protect the trust of the people who depend on me."),
		NewPrinciple("Health", "Do not trade long-term physical or mental health for convenience."),
		NewPrinciple("Courage", "When two options are otherwise equal, choose the braver one."),
	}
}

// CredentialStatus tracks the lifecycle of an entered API credential.
type CredentialStatus int

const (
	// CredentialUnset means no credential has been entered yet.
	CredentialUnset CredentialStatus = iota
	// CredentialTesting means a probe request is in flight.
	CredentialTesting
	// CredentialValid means the last probe succeeded.
	CredentialValid
	// CredentialInvalid means the last probe was rejected.
	CredentialInvalid
)

// String returns a human-readable status label.
func (s CredentialStatus) String() string {
	switch s {
	case CredentialUnset:
		return "not set"
	case CredentialTesting:
		return "testing"
	case CredentialValid:
		return "valid"
	case CredentialInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}
