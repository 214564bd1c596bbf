package engine

import (
	"strings"

	"tradedocs/api/internal/docmodel"
)

// PaymentCategory classifies the selected payment term on the sales contract.
type PaymentCategory int

const (
	CategoryNone PaymentCategory = iota
	CategoryLC
	CategoryNonLC
)

var lcLabels = map[string]bool{
	"Sight Credit":            true,
	"Deferred Payment Credit": true,
	"Acceptance Credit":       true,
}

var nonLCLabels = map[string]bool{
	"D/P": true,
	"D/A": true,
	"T/T": true,
}

// lcFieldsBySlot names the letter-of-credit fields each downstream document
// carries.
var lcFieldsBySlot = map[string][]string{
	"ci": {"l/c_no", "l/c_date", "l/c_bank"},
	"pl": {"l/c_no", "l/c_date"},
}

// CheckRadio checks the ordinal-th radio of a group, unchecking the rest and
// enabling only the checked radio's linked field. Returns whether anything
// changed; an out-of-range ordinal is a no-op.
func CheckRadio(doc *docmodel.Node, group string, ordinal int) bool {
	radios := groupToggles(doc, group, docmodel.ToggleRadio)
	if ordinal < 0 || ordinal >= len(radios) {
		return false
	}
	changed := false
	for i, r := range radios {
		want := i == ordinal
		if r.Checked != want {
			r.Checked = want
			changed = true
		}
	}
	if SyncLinkedFieldState(doc) {
		changed = true
	}
	return changed
}

// SetCheckbox sets the checked state of the ordinal-th checkbox in a group.
// Checking one unchecks the rest of its group.
func SetCheckbox(doc *docmodel.Node, group string, ordinal int, checked bool) bool {
	boxes := groupToggles(doc, group, docmodel.ToggleCheckbox)
	if ordinal < 0 || ordinal >= len(boxes) {
		return false
	}
	changed := false
	for i, b := range boxes {
		want := b.Checked
		if i == ordinal {
			want = checked
		} else if checked {
			want = false
		}
		if b.Checked != want {
			b.Checked = want
			changed = true
		}
	}
	return changed
}

// SyncLinkedFieldState aligns every linked field's disabled flag with its
// radio's checked state: the field tied to an unchecked radio is disabled.
func SyncLinkedFieldState(doc *docmodel.Node) bool {
	changed := false
	for _, t := range doc.Toggles() {
		if t.Toggle != docmodel.ToggleRadio || t.LinkedField == "" {
			continue
		}
		for _, f := range fieldInstances(doc, t.LinkedField) {
			want := !t.Checked
			if f.Disabled != want {
				f.Disabled = want
				changed = true
			}
		}
	}
	return changed
}

// SelectedPaymentCategory reads the checked payment radio off the sales
// contract and classifies it by the label text beside it.
func SelectedPaymentCategory(contract *docmodel.Node) PaymentCategory {
	for _, t := range groupToggles(contract, "payment", docmodel.ToggleRadio) {
		if !t.Checked {
			continue
		}
		label := radioLabel(contract, t)
		switch {
		case lcLabels[label]:
			return CategoryLC
		case nonLCLabels[label]:
			return CategoryNonLC
		}
	}
	return CategoryNone
}

// ApplyPaymentCascade propagates the contract's payment category into a
// downstream document's letter-of-credit fields. Under a non-L/C term they
// are stamped "N/A" with auto provenance; under an L/C term a previously
// stamped "N/A" reverts to its placeholder. The remarks field is never
// touched. Returns whether the document changed.
func ApplyPaymentCascade(doc *docmodel.Node, slot string, cat PaymentCategory) bool {
	fields := lcFieldsBySlot[slot]
	if len(fields) == 0 || cat == CategoryNone {
		return false
	}
	changed := false
	for _, id := range fields {
		for _, f := range fieldInstances(doc, id) {
			text := strings.TrimSpace(f.TextContent())
			switch cat {
			case CategoryNonLC:
				if text != "N/A" {
					f.SetText("N/A")
					f.Prov = docmodel.ProvAuto
					changed = true
				}
			case CategoryLC:
				if text == "N/A" || f.Prov == docmodel.ProvAuto {
					f.SetText(docmodel.Placeholder(f.FieldID))
					f.Prov = docmodel.ProvNone
					changed = true
				}
			}
		}
	}
	return changed
}

func groupToggles(doc *docmodel.Node, group string, kind docmodel.ToggleKind) []*docmodel.Node {
	var out []*docmodel.Node
	for _, t := range doc.Toggles() {
		if t.Toggle == kind && t.Group == group {
			out = append(out, t)
		}
	}
	return out
}

// radioLabel resolves the label text beside a payment radio. The radio sits
// inside a wrapper cell whose preceding sibling holds the label.
func radioLabel(doc *docmodel.Node, radio *docmodel.Node) string {
	wrapper, _ := findParent(doc, radio)
	if wrapper == nil {
		return ""
	}
	row, idx := findParent(doc, wrapper)
	if row == nil {
		return ""
	}
	for _, c := range row.Children {
		if hasClass(c, "pay-label") {
			return strings.TrimSpace(c.TextContent())
		}
	}
	if idx > 0 {
		return strings.TrimSpace(row.Children[idx-1].TextContent())
	}
	return ""
}

func hasClass(n *docmodel.Node, class string) bool {
	for _, a := range n.Attrs {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Value) {
			if c == class {
				return true
			}
		}
	}
	return false
}
