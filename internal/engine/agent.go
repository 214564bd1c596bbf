package engine

import "tradedocs/api/internal/docmodel"

// FieldChange is one assistant-provided field assignment. Batches are ordered
// and may repeat a field id; the later assignment wins.
type FieldChange struct {
	FieldID string `json:"fieldId"`
	Value   string `json:"value"`
}

// ApplyAgentValues writes an assistant change batch into a document, in batch
// order. Every instance of a known field id gets the value with agent
// provenance; computed fields and unknown ids are left alone and reported as
// ignored. Each id appears at most once in the returned slices.
func ApplyAgentValues(doc *docmodel.Node, changes []FieldChange) (applied, ignored []string) {
	seenApplied := map[string]bool{}
	seenIgnored := map[string]bool{}
	for _, change := range changes {
		fields := fieldInstances(doc, change.FieldID)
		wrote := false
		for _, f := range fields {
			if f.Prov == docmodel.ProvAuto {
				continue
			}
			f.SetText(change.Value)
			f.Prov = docmodel.ProvAgent
			wrote = true
		}
		if wrote {
			if !seenApplied[change.FieldID] {
				seenApplied[change.FieldID] = true
				applied = append(applied, change.FieldID)
			}
		} else if !seenApplied[change.FieldID] && !seenIgnored[change.FieldID] {
			seenIgnored[change.FieldID] = true
			ignored = append(ignored, change.FieldID)
		}
	}
	return applied, ignored
}
