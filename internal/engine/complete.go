package engine

import (
	"strings"

	"tradedocs/api/internal/docmodel"
)

// IsComplete reports whether a document is ready for the next workflow step:
// every toggle group has a selection and every field that still matters holds
// real content. Fields linked to unselected payment radios, disabled fields,
// and notice fields are exempt.
func IsComplete(doc *docmodel.Node) bool {
	if doc == nil {
		return false
	}

	groups := map[string]bool{}
	linked := map[string]bool{}
	selectedLinked := map[string]bool{}
	for _, t := range doc.Toggles() {
		if t.Group == "" {
			continue
		}
		if t.Checked {
			groups[t.Group] = true
		} else if _, ok := groups[t.Group]; !ok {
			groups[t.Group] = false
		}
		if t.LinkedField != "" {
			linked[t.LinkedField] = true
			if t.Checked {
				selectedLinked[t.LinkedField] = true
			}
		}
	}
	for _, selected := range groups {
		if !selected {
			return false
		}
	}

	for _, f := range doc.Fields() {
		if strings.HasPrefix(f.FieldID, "notice") || f.Disabled {
			continue
		}
		if linked[f.FieldID] && !selectedLinked[f.FieldID] {
			continue
		}
		if f.IsPlaceholder() || strings.TrimSpace(f.TextContent()) == "" {
			return false
		}
	}
	return true
}
