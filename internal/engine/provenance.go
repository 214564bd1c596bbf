package engine

import (
	"strings"

	"tradedocs/api/internal/docmodel"
)

// TrackProvenance promotes untagged user input and synchronizes same-id field
// instances within one document. editedFieldID, when known, names the field
// the user last touched; its first instance becomes the source of truth for
// that id so that reverting it to a placeholder also clears its copies.
// Returns whether anything changed.
func TrackProvenance(doc *docmodel.Node, editedFieldID string) bool {
	changed := promoteUserInput(doc)
	if editedFieldID != "" {
		if syncInstances(doc, editedFieldID) {
			changed = true
		}
	}
	if syncSharedFields(doc, editedFieldID) {
		changed = true
	}
	return changed
}

// promoteUserInput tags fields holding real content but no provenance as
// user-entered.
func promoteUserInput(doc *docmodel.Node) bool {
	changed := false
	for _, f := range doc.Fields() {
		if f.Prov != docmodel.ProvNone {
			continue
		}
		text := f.TextContent()
		if f.IsPlaceholder() || strings.TrimSpace(text) == "" {
			continue
		}
		f.Prov = docmodel.ProvUser
		changed = true
	}
	return changed
}

// syncInstances propagates the first instance of fieldID to every other
// instance of the same id. A source holding its placeholder resets the copies
// to placeholders too.
func syncInstances(doc *docmodel.Node, fieldID string) bool {
	instances := fieldInstances(doc, fieldID)
	if len(instances) < 2 {
		return false
	}
	source := instances[0]
	changed := false
	for _, f := range instances[1:] {
		if f.TextContent() == source.TextContent() {
			continue
		}
		f.SetText(source.TextContent())
		if source.IsPlaceholder() {
			f.Prov = docmodel.ProvNone
		} else {
			f.Prov = docmodel.ProvMapped
		}
		changed = true
	}
	return changed
}

// syncSharedFields aligns every remaining duplicated field id on its first
// non-placeholder value. Ids already handled by syncInstances are skipped.
func syncSharedFields(doc *docmodel.Node, skipID string) bool {
	values := map[string]string{}
	for _, f := range doc.Fields() {
		if f.FieldID == skipID {
			continue
		}
		if _, ok := values[f.FieldID]; ok {
			continue
		}
		if !f.IsPlaceholder() && strings.TrimSpace(f.TextContent()) != "" {
			values[f.FieldID] = f.TextContent()
		}
	}
	changed := false
	for _, f := range doc.Fields() {
		if f.FieldID == skipID {
			continue
		}
		v, ok := values[f.FieldID]
		if !ok || f.TextContent() == v {
			continue
		}
		f.SetText(v)
		f.Prov = docmodel.ProvMapped
		changed = true
	}
	return changed
}

func fieldInstances(doc *docmodel.Node, fieldID string) []*docmodel.Node {
	var out []*docmodel.Node
	for _, f := range doc.Fields() {
		if f.FieldID == fieldID {
			out = append(out, f)
		}
	}
	return out
}
