package docmodel

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse converts serialized document content into a node tree. The returned
// root is a synthetic block holding the top-level nodes.
func Parse(content string) (*Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	fragments, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, fmt.Errorf("parse document content: %w", err)
	}

	root := &Node{Kind: KindBlock}
	for _, f := range fragments {
		if n := convert(f); n != nil {
			root.Children = append(root.Children, n)
		}
	}
	return root, nil
}

func convert(h *html.Node) *Node {
	switch h.Type {
	case html.TextNode:
		return &Node{Kind: KindText, Text: h.Data}
	case html.ElementNode:
		return convertElement(h)
	}
	// Comments and doctypes are dropped.
	return nil
}

func convertElement(h *html.Node) *Node {
	attrs := func(key string) string {
		for _, a := range h.Attr {
			if a.Key == key {
				return a.Val
			}
		}
		return ""
	}

	var n *Node
	switch {
	case h.Data == "span" && attrs("data-field-id") != "":
		n = &Node{
			Kind:     KindField,
			Tag:      "span",
			FieldID:  attrs("data-field-id"),
			Prov:     ParseProvenance(attrs("data-source")),
			Disabled: attrs("data-disabled") == "true",
		}
	case h.Data == "span" && hasClass(attrs("class"), "checkbox-widget"):
		n = &Node{
			Kind:    KindToggle,
			Tag:     "span",
			Toggle:  ToggleCheckbox,
			Checked: attrs("data-checked") == "true",
			Group:   attrs("data-group"),
		}
	case h.Data == "span" && hasClass(attrs("class"), "radio-circle"):
		n = &Node{
			Kind:        KindToggle,
			Tag:         "span",
			Toggle:      ToggleRadio,
			Checked:     attrs("data-checked") == "true" || hasClass(attrs("class"), "checked"),
			Group:       attrs("data-group"),
			LinkedField: attrs("data-linked-field"),
		}
	case h.Data == "table":
		n = &Node{Kind: KindTable, Tag: "table"}
	case h.Data == "tr":
		n = &Node{Kind: KindRow, Tag: "tr"}
	case h.Data == "td" || h.Data == "th":
		n = &Node{Kind: KindCell, Tag: h.Data}
	default:
		n = &Node{Kind: KindBlock, Tag: h.Data}
	}

	for _, a := range h.Attr {
		if consumedAttr(n, a.Key) {
			continue
		}
		n.Attrs = append(n.Attrs, Attr{Key: a.Key, Value: a.Val})
	}

	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if child := convert(c); child != nil {
			n.Children = append(n.Children, child)
		}
	}
	return n
}

// consumedAttr reports whether an attribute is represented by typed node
// state rather than carried through Attrs.
func consumedAttr(n *Node, key string) bool {
	switch n.Kind {
	case KindField:
		return key == "data-field-id" || key == "data-source" || key == "data-disabled"
	case KindToggle:
		return key == "data-checked" || key == "data-group" ||
			key == "data-linked-field" || key == "class"
	}
	return false
}

func hasClass(classAttr, class string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}
