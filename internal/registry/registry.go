// Package registry maintains the shared field registry of a trade: the
// authoritative value per field id, collected from the documents and pushed
// back into them on load and save.
package registry

import (
	"sync"

	"tradedocs/api/internal/docmodel"
	"tradedocs/api/internal/engine"
	"tradedocs/api/internal/template"
)

// Registry holds the shared values of one trade. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	values map[string]string
}

func New() *Registry {
	return &Registry{values: map[string]string{}}
}

// FromValues wraps an existing value map, copying it.
func FromValues(values map[string]string) *Registry {
	r := New()
	r.MergeFrom(values)
	return r
}

// Snapshot returns a copy of the current values.
func (r *Registry) Snapshot() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Get returns the value for a field id.
func (r *Registry) Get(fieldID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[fieldID]
	return v, ok
}

// Set stores one value. An empty value deletes the entry.
func (r *Registry) Set(fieldID, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if value == "" {
		delete(r.values, fieldID)
		return
	}
	r.values[fieldID] = value
}

// MergeFrom overlays extracted values onto the registry. Non-empty values
// overwrite; empty values are ignored.
func (r *Registry) MergeFrom(extracted map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range extracted {
		if v == "" {
			continue
		}
		r.values[k] = v
	}
}

// Replace swaps the whole value set, copying the input.
func (r *Registry) Replace(values map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = make(map[string]string, len(values))
	for k, v := range values {
		if v != "" {
			r.values[k] = v
		}
	}
}

// Clear drops every value.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = map[string]string{}
}

// Rebuild scans the trade's documents in workflow order and returns the
// authoritative shared values. Extraction walks the sequence and stops after
// the first incomplete document, so half-finished later steps never leak
// values backwards. Later documents overwrite earlier ones for shared ids.
func Rebuild(docs map[template.Slot]*docmodel.Node) map[string]string {
	values := map[string]string{}
	for _, slot := range template.Order {
		doc := docs[slot]
		if doc == nil {
			break
		}
		for k, v := range engine.ExtractFields(doc) {
			values[k] = v
		}
		if !engine.IsComplete(doc) {
			break
		}
	}
	return values
}
