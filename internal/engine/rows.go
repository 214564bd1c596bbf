package engine

import (
	"sort"
	"strconv"
	"strings"

	"tradedocs/api/internal/docmodel"
)

// itemMarkerBases identify a table row as an item row eligible for
// replication.
var itemMarkerBases = []string{
	"item_no", "unit_price", "quantity", "description",
	"sub_total_price", "marks_and_numbers",
}

// unitSuffixes names the cell text a replicated numeric field must keep
// beside it.
var unitSuffixes = map[string]string{
	"net_weight":   " KG",
	"gross_weight": " KG",
	"measurement":  " CBM",
}

// FindTemplateRow locates the row new item rows are cloned from: the last
// table row holding at least three fields, at least one field from the item
// marker family, and no totals text.
func FindTemplateRow(doc *docmodel.Node) *docmodel.Node {
	var match *docmodel.Node
	for _, row := range doc.Rows() {
		if isTemplateRow(row) {
			match = row
		}
	}
	return match
}

func isTemplateRow(row *docmodel.Node) bool {
	fields := row.Fields()
	if len(fields) < 3 {
		return false
	}
	hasMarker := false
	for _, f := range fields {
		for _, marker := range itemMarkerBases {
			if strings.HasPrefix(f.FieldID, marker) {
				hasMarker = true
				break
			}
		}
	}
	if !hasMarker {
		return false
	}
	text := row.TextContent()
	return !strings.Contains(text, "Total ") && !strings.Contains(text, "TOTAL :")
}

// AddRowAfter clones the template row, renames its fields to fresh ids, and
// inserts the clone directly after the template row. Cloned fields reset to
// placeholders; currency fields keep their id and inherit the template row's
// value. Returns the new field ids in document order, or ok=false when the
// document has no template row.
func AddRowAfter(doc *docmodel.Node) (newIDs []string, ok bool) {
	tpl := FindTemplateRow(doc)
	if tpl == nil {
		return nil, false
	}
	existing := map[string]bool{}
	for _, f := range doc.Fields() {
		existing[f.FieldID] = true
	}

	clone := tpl.Clone()
	for _, f := range clone.Fields() {
		if docmodel.BaseName(f.FieldID) == "currency" {
			continue
		}
		id := nextFieldID(existing, docmodel.BaseName(f.FieldID))
		existing[id] = true
		f.FieldID = id
		f.SetText(docmodel.Placeholder(id))
		f.Prov = docmodel.ProvNone
		newIDs = append(newIDs, id)
	}
	ensureUnitText(clone)

	parent, idx := findParent(doc, tpl)
	if parent == nil {
		return nil, false
	}
	insertChild(parent, idx+1, clone)
	return newIDs, true
}

// ReplicateRowAdd mirrors a row addition made in another document: the clone
// reuses the given field ids where their base names match, minting fresh ids
// for any base not covered. Missing template rows are skipped silently.
func ReplicateRowAdd(doc *docmodel.Node, fieldIDs []string) bool {
	tpl := FindTemplateRow(doc)
	if tpl == nil {
		return false
	}
	byBase := map[string]string{}
	for _, id := range fieldIDs {
		base := docmodel.BaseName(id)
		if _, ok := byBase[base]; !ok {
			byBase[base] = id
		}
	}
	existing := map[string]bool{}
	for _, f := range doc.Fields() {
		existing[f.FieldID] = true
	}

	clone := tpl.Clone()
	for _, f := range clone.Fields() {
		base := docmodel.BaseName(f.FieldID)
		if base == "currency" {
			continue
		}
		id, ok := byBase[base]
		if !ok || existing[id] {
			id = nextFieldID(existing, base)
		}
		existing[id] = true
		f.FieldID = id
		f.SetText(docmodel.Placeholder(id))
		f.Prov = docmodel.ProvNone
	}
	ensureUnitText(clone)

	parent, idx := findParent(doc, tpl)
	if parent == nil {
		return false
	}
	insertChild(parent, idx+1, clone)
	return true
}

// DiffDeletedRows compares two versions of a document and reports the field
// ids of item rows removed between them. Currency fields are ignored so a
// shared currency id never links unrelated rows.
func DiffDeletedRows(before, after *docmodel.Node) []string {
	afterIDs := map[string]bool{}
	for _, row := range after.Rows() {
		for _, id := range rowFieldIDs(row) {
			afterIDs[id] = true
		}
	}
	beforeRows := itemRowIDSets(before)
	afterRows := itemRowIDSets(after)
	if len(afterRows) >= len(beforeRows) {
		return nil
	}

	var deleted []string
	for _, ids := range beforeRows {
		survives := false
		for _, id := range ids {
			if afterIDs[id] {
				survives = true
				break
			}
		}
		if !survives {
			deleted = append(deleted, ids...)
		}
	}
	sort.Strings(deleted)
	return deleted
}

// DeleteRowsByFields removes every table row holding any of the given field
// ids. Returns whether rows were removed.
func DeleteRowsByFields(doc *docmodel.Node, fieldIDs []string) bool {
	if len(fieldIDs) == 0 {
		return false
	}
	targets := map[string]bool{}
	for _, id := range fieldIDs {
		targets[id] = true
	}
	changed := false
	for {
		removed := false
		for _, row := range doc.Rows() {
			hit := false
			for _, id := range rowFieldIDs(row) {
				if targets[id] {
					hit = true
					break
				}
			}
			if !hit {
				continue
			}
			if parent, idx := findParent(doc, row); parent != nil {
				removeChild(parent, idx)
				removed = true
				changed = true
				break
			}
		}
		if !removed {
			return changed
		}
	}
}

// nextFieldID mints the smallest unused id of the form base_n with n >= 2,
// scanning the whole document's ids.
func nextFieldID(existing map[string]bool, base string) string {
	for n := 2; ; n++ {
		id := base + "_" + strconv.Itoa(n)
		if !existing[id] {
			return id
		}
	}
}

// itemRowIDSets lists the non-currency field ids of each item row.
func itemRowIDSets(doc *docmodel.Node) [][]string {
	var out [][]string
	for _, row := range doc.Rows() {
		var ids []string
		for _, id := range rowFieldIDs(row) {
			if docmodel.BaseName(id) == "currency" {
				continue
			}
			ids = append(ids, id)
		}
		if len(ids) > 0 {
			out = append(out, ids)
		}
	}
	return out
}

func rowFieldIDs(row *docmodel.Node) []string {
	var ids []string
	for _, f := range row.Fields() {
		if id := strings.TrimSpace(f.FieldID); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// ensureUnitText re-appends the unit text beside weight and measurement
// fields when a cloned cell lost it.
func ensureUnitText(row *docmodel.Node) {
	for _, cell := range cells(row) {
		for _, f := range cell.Fields() {
			suffix, ok := unitSuffixes[docmodel.BaseName(f.FieldID)]
			if !ok {
				continue
			}
			if strings.Contains(cell.TextContent(), strings.TrimSpace(suffix)) {
				continue
			}
			cell.Children = append(cell.Children, &docmodel.Node{
				Kind: docmodel.KindText,
				Text: suffix,
			})
		}
	}
}

func cells(row *docmodel.Node) []*docmodel.Node {
	var out []*docmodel.Node
	docmodel.Walk(row, func(n *docmodel.Node) bool {
		if n.Kind == docmodel.KindCell {
			out = append(out, n)
		}
		return true
	})
	return out
}
