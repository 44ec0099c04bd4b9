// Package journal implements the typed record operations of the decision
// journal on top of the key-value store: the principle set, the decision
// history, and the obfuscated API credential.
//
// Storage failures are handled fail-soft per the journal's design: a failed
// load degrades to the absent/default value and a failed save is a logged
// no-op. Validation failures (principle cap, duplicate ids) are real errors.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harrison/compass/internal/logger"
	"github.com/harrison/compass/internal/models"
	"github.com/harrison/compass/internal/secret"
	"github.com/harrison/compass/internal/store"
)

var (
	// ErrPrincipleLimit is returned when a save would exceed MaxPrinciples.
	ErrPrincipleLimit = fmt.Errorf("principle set cannot exceed %d entries", models.MaxPrinciples)

	// ErrDuplicatePrinciple is returned when two principles share an id.
	ErrDuplicatePrinciple = errors.New("principle ids must be unique")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
)

// Journal exposes the persisted journal records.
type Journal struct {
	store *store.Store
	log   logger.Logger
}

// New creates a Journal over the given store. A nil logger is replaced with
// a no-op logger.
func New(st *store.Store, log logger.Logger) *Journal {
	if log == nil {
		log = logger.Nop{}
	}
	return &Journal{store: st, log: log}
}

// Principles returns the persisted principle set. The second return value
// reports whether a persisted set was found; when false the fixed default
// seed set is returned (first run, or an unreadable record).
func (j *Journal) Principles(ctx context.Context) ([]models.Principle, bool) {
	raw, found, err := j.store.Load(ctx, store.KeyPrinciples)
	if err != nil {
		j.log.LogError(fmt.Sprintf("load principles: %v", err))
		return models.DefaultPrinciples(), false
	}
	if !found {
		return models.DefaultPrinciples(), false
	}

	var principles []models.Principle
	if err := json.Unmarshal([]byte(raw), &principles); err != nil {
		j.log.LogError(fmt.Sprintf("decode principles: %v", err))
		return models.DefaultPrinciples(), false
	}

	return principles, true
}

// SavePrinciples validates and persists the principle set, replacing the
// previous one. Validation errors are returned; storage errors are logged
// and swallowed.
func (j *Journal) SavePrinciples(ctx context.Context, principles []models.Principle) error {
	if err := ValidatePrinciples(principles); err != nil {
		return err
	}

	data, err := json.Marshal(principles)
	if err != nil {
		j.log.LogError(fmt.Sprintf("encode principles: %v", err))
		return nil
	}
	if err := j.store.Save(ctx, store.KeyPrinciples, string(data)); err != nil {
		j.log.LogError(fmt.Sprintf("save principles: %v", err))
	}
	return nil
}

// ValidatePrinciples checks the size bound and id uniqueness.
func ValidatePrinciples(principles []models.Principle) error {
	if len(principles) > models.MaxPrinciples {
		return ErrPrincipleLimit
	}
	seen := make(map[string]bool, len(principles))
	for _, p := range principles {
		if seen[p.ID] {
			return ErrDuplicatePrinciple
		}
		seen[p.ID] = true
	}
	return nil
}

// History returns the decision records, most-recent-first. Absent or
// unreadable history degrades to empty.
func (j *Journal) History(ctx context.Context) []models.DecisionRecord {
	raw, found, err := j.store.Load(ctx, store.KeyDecisions)
	if err != nil {
		j.log.LogError(fmt.Sprintf("load history: %v", err))
		return nil
	}
	if !found {
		return nil
	}

	var records []models.DecisionRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		j.log.LogError(fmt.Sprintf("decode history: %v", err))
		return nil
	}

	return records
}

// AppendDecision prepends a new record to the history. History is
// append-only; existing records are never edited.
func (j *Journal) AppendDecision(ctx context.Context, rec models.DecisionRecord) {
	history := append([]models.DecisionRecord{rec}, j.History(ctx)...)
	j.saveHistory(ctx, history)
}

// Decision returns a single record by id.
func (j *Journal) Decision(ctx context.Context, id string) (models.DecisionRecord, error) {
	for _, rec := range j.History(ctx) {
		if rec.ID == id {
			return rec, nil
		}
	}
	return models.DecisionRecord{}, ErrNotFound
}

// DeleteDecision removes a whole record from the history. Records are only
// deletable as a whole, never edited in place.
func (j *Journal) DeleteDecision(ctx context.Context, id string) error {
	history := j.History(ctx)
	kept := history[:0]
	found := false
	for _, rec := range history {
		if rec.ID == id {
			found = true
			continue
		}
		kept = append(kept, rec)
	}
	if !found {
		return ErrNotFound
	}
	j.saveHistory(ctx, kept)
	return nil
}

func (j *Journal) saveHistory(ctx context.Context, records []models.DecisionRecord) {
	data, err := json.Marshal(records)
	if err != nil {
		j.log.LogError(fmt.Sprintf("encode history: %v", err))
		return
	}
	if err := j.store.Save(ctx, store.KeyDecisions, string(data)); err != nil {
		j.log.LogError(fmt.Sprintf("save history: %v", err))
	}
}

// Credential returns the stored API credential in the clear, or "" when no
// usable credential exists (absent, unreadable, or malformed token).
func (j *Journal) Credential(ctx context.Context) string {
	token, found, err := j.store.Load(ctx, store.KeyCredential)
	if err != nil {
		j.log.LogError(fmt.Sprintf("load credential: %v", err))
		return ""
	}
	if !found {
		return ""
	}
	return secret.Reveal(token)
}

// SaveCredential obfuscates and stores the credential, overwriting any
// previous value.
func (j *Journal) SaveCredential(ctx context.Context, credential string) {
	if err := j.store.Save(ctx, store.KeyCredential, secret.Obfuscate(credential)); err != nil {
		j.log.LogError(fmt.Sprintf("save credential: %v", err))
	}
}

// ClearCredential removes the stored credential.
func (j *Journal) ClearCredential(ctx context.Context) {
	if err := j.store.Delete(ctx, store.KeyCredential); err != nil {
		j.log.LogError(fmt.Sprintf("clear credential: %v", err))
	}
}
