// Package engine implements the field synchronization and editor integrity
// passes: placeholder restoration, provenance tracking, auto-calculation,
// toggle cascades, row replication, and step completion. All passes operate
// on docmodel trees and are idempotent.
package engine

import (
	"tradedocs/api/internal/docmodel"
)

// RestorePlaceholders scans the document for field nodes whose text content
// has become empty and restores each to its placeholder, clearing provenance.
// Returns whether anything changed.
func RestorePlaceholders(doc *docmodel.Node) bool {
	changed := false
	for _, f := range doc.Fields() {
		if f.TextContent() != "" {
			continue
		}
		f.SetText(docmodel.Placeholder(f.FieldID))
		f.Prov = docmodel.ProvNone
		changed = true
	}
	return changed
}

// DeleteFieldRange applies a delete/backspace edit to a field node's text,
// removing the characters in [from, to). When the deletion would leave zero
// characters the field keeps its node and is restored to its placeholder
// instead, and the full placeholder range is returned for re-selection so the
// next character typed overwrites it cleanly. A field already holding its
// placeholder never shrinks; it only reports the selection range.
func DeleteFieldRange(field *docmodel.Node, from, to int) (selStart, selEnd int, restored bool) {
	text := field.TextContent()
	placeholder := docmodel.Placeholder(field.FieldID)

	if text == placeholder {
		return 0, len(placeholder), true
	}

	if from < 0 {
		from = 0
	}
	if to > len(text) {
		to = len(text)
	}
	if from >= to {
		return from, from, false
	}

	remaining := text[:from] + text[to:]
	if remaining == "" {
		field.SetText(placeholder)
		field.Prov = docmodel.ProvNone
		return 0, len(placeholder), true
	}

	field.SetText(remaining)
	return from, from, false
}
