package engine

import (
	"fmt"

	"tradedocs/api/internal/docmodel"
)

// Phase tracks where a transaction is in its lifecycle. Edits only land
// during PhaseApply; the integrity guards run exactly once at commit, so a
// guard can never re-trigger itself through the edit path.
type Phase int

const (
	PhaseApply Phase = iota
	PhaseGuards
	PhaseCommitted
)

// Transaction wraps one editing pass over a document. Begin, apply edits,
// then Commit; Commit runs the guard pipeline (placeholder restoration,
// provenance tracking, linked-field state, auto-calculation) in order and
// seals the transaction.
type Transaction struct {
	doc     *docmodel.Node
	phase   Phase
	changed bool
}

func Begin(doc *docmodel.Node) *Transaction {
	return &Transaction{doc: doc, phase: PhaseApply}
}

func (tx *Transaction) Phase() Phase { return tx.phase }

// Edit applies a mutation to the document. The callback reports whether it
// changed anything. Editing after the guards started is an error.
func (tx *Transaction) Edit(fn func(doc *docmodel.Node) bool) error {
	if tx.phase != PhaseApply {
		return fmt.Errorf("edit in phase %d: transaction already committing", tx.phase)
	}
	if fn(tx.doc) {
		tx.changed = true
	}
	return nil
}

// Commit runs the guard pipeline once and seals the transaction. editedFieldID
// names the field the triggering edit touched, when known. Returns whether
// the document changed during the whole transaction. Committing twice is a
// no-op.
func (tx *Transaction) Commit(editedFieldID string) bool {
	if tx.phase != PhaseApply {
		return tx.changed
	}
	tx.phase = PhaseGuards
	if RunGuards(tx.doc, editedFieldID) {
		tx.changed = true
	}
	tx.phase = PhaseCommitted
	return tx.changed
}

// RunGuards executes the integrity passes in their fixed order. Each pass is
// idempotent and none can empty a field, so one ordered sweep reaches the
// fixed point.
func RunGuards(doc *docmodel.Node, editedFieldID string) bool {
	changed := RestorePlaceholders(doc)
	if TrackProvenance(doc, editedFieldID) {
		changed = true
	}
	if SyncLinkedFieldState(doc) {
		changed = true
	}
	if Recalculate(doc) {
		changed = true
	}
	return changed
}
