package engine

import (
	"strings"

	"tradedocs/api/internal/docmodel"
)

// ExtractFields collects the authoritative value for every field id in the
// document: the first instance holding real content. Placeholders, blank
// text, and auto-calculated fields contribute nothing.
func ExtractFields(doc *docmodel.Node) map[string]string {
	out := map[string]string{}
	for _, f := range doc.Fields() {
		if _, ok := out[f.FieldID]; ok {
			continue
		}
		if f.Prov == docmodel.ProvAuto {
			continue
		}
		if f.IsPlaceholder() || strings.TrimSpace(f.TextContent()) == "" {
			continue
		}
		out[f.FieldID] = f.TextContent()
	}
	return out
}

// FieldIDs returns every distinct field id present in the document, in
// document order.
func FieldIDs(doc *docmodel.Node) []string {
	var ids []string
	seen := map[string]bool{}
	for _, f := range doc.Fields() {
		if seen[f.FieldID] {
			continue
		}
		seen[f.FieldID] = true
		ids = append(ids, f.FieldID)
	}
	return ids
}

// ApplyRegistry fills fields from the shared registry: a field whose id has a
// non-empty registry value and whose content differs is overwritten and
// tagged as mapped. Auto-calculated fields are never overwritten. Returns
// whether the document changed.
func ApplyRegistry(doc *docmodel.Node, registry map[string]string) bool {
	changed := false
	for _, f := range doc.Fields() {
		if f.Prov == docmodel.ProvAuto {
			continue
		}
		v, ok := registry[f.FieldID]
		if !ok || v == "" || f.TextContent() == v {
			continue
		}
		f.SetText(v)
		f.Prov = docmodel.ProvMapped
		changed = true
	}
	return changed
}
