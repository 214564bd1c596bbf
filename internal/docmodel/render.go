package docmodel

import (
	"html"
	"strings"
)

var voidTags = map[string]bool{
	"br": true, "hr": true, "col": true, "img": true, "input": true,
}

// Render serializes a node tree back to HTML. Content the engine never
// touched renders byte-for-byte from its preserved tags and attributes.
func Render(n *Node) string {
	var b strings.Builder
	renderNode(&b, n)
	return b.String()
}

func renderNode(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindText:
		b.WriteString(html.EscapeString(n.Text))
		return
	case KindBlock:
		if n.Tag == "" { // synthetic root
			renderChildren(b, n)
			return
		}
	}

	b.WriteByte('<')
	b.WriteString(n.Tag)
	renderTypedAttrs(b, n)
	for _, a := range n.Attrs {
		writeAttr(b, a.Key, a.Value)
	}
	b.WriteByte('>')
	if voidTags[n.Tag] {
		return
	}
	renderChildren(b, n)
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

func renderChildren(b *strings.Builder, n *Node) {
	for _, c := range n.Children {
		renderNode(b, c)
	}
}

func renderTypedAttrs(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindField:
		writeAttr(b, "data-field-id", n.FieldID)
		if n.Prov != ProvNone {
			writeAttr(b, "data-source", n.Prov.String())
		}
		if n.Disabled {
			writeAttr(b, "data-disabled", "true")
		}
	case KindToggle:
		switch n.Toggle {
		case ToggleCheckbox:
			writeAttr(b, "class", "checkbox-widget")
		case ToggleRadio:
			class := "radio-circle"
			if n.Checked {
				class += " checked"
			}
			writeAttr(b, "class", class)
		}
		if n.Checked {
			writeAttr(b, "data-checked", "true")
		}
		if n.Group != "" {
			writeAttr(b, "data-group", n.Group)
		}
		if n.LinkedField != "" {
			writeAttr(b, "data-linked-field", n.LinkedField)
		}
	}
}

func writeAttr(b *strings.Builder, key, value string) {
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteByte('"')
}
