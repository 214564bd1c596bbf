// Package docmodel defines the typed document tree used by the field
// synchronization engine. Persisted document content is HTML; Parse converts
// it into a tree of typed nodes and Render serializes it back, preserving
// markup the engine does not interpret.
package docmodel

import "strings"

// Kind classifies a node in the document tree.
type Kind uint8

const (
	KindBlock Kind = iota // any element the engine does not interpret
	KindText
	KindField
	KindToggle
	KindTable
	KindRow
	KindCell
)

// Provenance records who or what last set a field's value.
type Provenance uint8

const (
	ProvNone Provenance = iota // untouched placeholder
	ProvUser                   // typed by the human
	ProvMapped                 // copied from the registry or another instance
	ProvAgent                  // set by the external assistant
	ProvAuto                   // computed (totals, N/A substitution)
)

// String returns the wire value stored in the data-source attribute.
func (p Provenance) String() string {
	switch p {
	case ProvUser:
		return "user"
	case ProvMapped:
		return "mapped"
	case ProvAgent:
		return "agent"
	case ProvAuto:
		return "auto"
	case ProvNone:
		return ""
	}
	return ""
}

// ParseProvenance maps a data-source attribute value to a Provenance.
// Unknown values are treated as none.
func ParseProvenance(s string) Provenance {
	switch s {
	case "user":
		return ProvUser
	case "mapped":
		return ProvMapped
	case "agent":
		return ProvAgent
	case "auto":
		return ProvAuto
	}
	return ProvNone
}

// ToggleKind distinguishes checkbox and radio toggle nodes.
type ToggleKind uint8

const (
	ToggleCheckbox ToggleKind = iota
	ToggleRadio
)

// Attr is a passthrough HTML attribute preserved for round-tripping.
type Attr struct {
	Key   string
	Value string
}

// Node is one node in the document tree.
type Node struct {
	Kind  Kind
	Tag   string // element name for block/table/row/cell nodes
	Attrs []Attr // attributes the engine does not interpret, in order

	// KindField
	FieldID  string
	Prov     Provenance
	Disabled bool

	// KindToggle
	Toggle      ToggleKind
	Checked     bool
	Group       string
	LinkedField string

	// KindText
	Text string

	Children []*Node
}

// Placeholder returns the placeholder text for a field identifier.
func Placeholder(fieldID string) string {
	return "[" + fieldID + "]"
}

// BaseName strips a trailing _<n> row suffix from a field identifier.
func BaseName(fieldID string) string {
	i := strings.LastIndex(fieldID, "_")
	if i <= 0 || i == len(fieldID)-1 {
		return fieldID
	}
	for _, r := range fieldID[i+1:] {
		if r < '0' || r > '9' {
			return fieldID
		}
	}
	return fieldID[:i]
}

// TextContent returns the concatenated text of the node's subtree.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	if n.Kind == KindText {
		b.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		c.writeText(b)
	}
}

// IsPlaceholder reports whether a field node still holds its placeholder text.
func (n *Node) IsPlaceholder() bool {
	return n.Kind == KindField && n.TextContent() == Placeholder(n.FieldID)
}

// SetText replaces the node's content with a single text child.
func (n *Node) SetText(s string) {
	n.Children = []*Node{{Kind: KindText, Text: s}}
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	cp := *n
	cp.Attrs = append([]Attr(nil), n.Attrs...)
	cp.Children = make([]*Node, len(n.Children))
	for i, c := range n.Children {
		cp.Children[i] = c.Clone()
	}
	return &cp
}

// Walk visits the subtree in document order. If fn returns false the node's
// children are skipped.
func Walk(n *Node, fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Fields returns every field node in document order.
func (n *Node) Fields() []*Node {
	var out []*Node
	Walk(n, func(c *Node) bool {
		if c.Kind == KindField {
			out = append(out, c)
		}
		return true
	})
	return out
}

// FieldByID returns the first field node with the given identifier, or nil.
func (n *Node) FieldByID(fieldID string) *Node {
	var found *Node
	Walk(n, func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Kind == KindField && c.FieldID == fieldID {
			found = c
			return false
		}
		return true
	})
	return found
}

// Toggles returns every toggle node in document order.
func (n *Node) Toggles() []*Node {
	var out []*Node
	Walk(n, func(c *Node) bool {
		if c.Kind == KindToggle {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Rows returns every table row node in document order.
func (n *Node) Rows() []*Node {
	var out []*Node
	Walk(n, func(c *Node) bool {
		if c.Kind == KindRow {
			out = append(out, c)
		}
		return true
	})
	return out
}
