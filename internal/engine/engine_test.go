package engine

import (
	"testing"

	"tradedocs/api/internal/docmodel"
)

func mustParse(t *testing.T, content string) *docmodel.Node {
	t.Helper()
	doc, err := docmodel.Parse(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func mustField(t *testing.T, doc *docmodel.Node, id string) *docmodel.Node {
	t.Helper()
	f := doc.FieldByID(id)
	if f == nil {
		t.Fatalf("field %q not found", id)
	}
	return f
}

func TestRestorePlaceholders(t *testing.T) {
	doc := mustParse(t, `<p><span data-field-id="buyer_name" data-source="user"></span></p>`)

	if !RestorePlaceholders(doc) {
		t.Fatal("expected a restoration")
	}
	f := mustField(t, doc, "buyer_name")
	if got := f.TextContent(); got != "[buyer_name]" {
		t.Fatalf("text = %q, want placeholder", got)
	}
	if f.Prov != docmodel.ProvNone {
		t.Fatalf("provenance = %v, want none", f.Prov)
	}
	if RestorePlaceholders(doc) {
		t.Fatal("second pass should be a no-op")
	}
}

func TestDeleteFieldRange(t *testing.T) {
	doc := mustParse(t, `<p><span data-field-id="quantity" data-source="user">2500</span></p>`)
	f := mustField(t, doc, "quantity")

	start, end, restored := DeleteFieldRange(f, 0, 2)
	if restored {
		t.Fatal("partial deletion should not restore")
	}
	if got := f.TextContent(); got != "00" {
		t.Fatalf("text = %q, want %q", got, "00")
	}
	if start != 0 || end != 0 {
		t.Fatalf("selection = (%d, %d), want collapsed at 0", start, end)
	}

	start, end, restored = DeleteFieldRange(f, 0, 2)
	if !restored {
		t.Fatal("deleting the last characters should restore the placeholder")
	}
	if got := f.TextContent(); got != "[quantity]" {
		t.Fatalf("text = %q, want placeholder", got)
	}
	if f.Prov != docmodel.ProvNone {
		t.Fatalf("provenance = %v, want none", f.Prov)
	}
	if start != 0 || end != len("[quantity]") {
		t.Fatalf("selection = (%d, %d), want full placeholder", start, end)
	}

	// A placeholder never shrinks further.
	_, _, restored = DeleteFieldRange(f, 0, 3)
	if !restored || f.TextContent() != "[quantity]" {
		t.Fatalf("placeholder mutated: %q", f.TextContent())
	}
}

func TestTrackProvenancePromotesUserInput(t *testing.T) {
	doc := mustParse(t, `<p><span data-field-id="buyer_name">ACME Corp</span></p>`+
		`<p><span data-field-id="seller_name">[seller_name]</span></p>`)

	if !TrackProvenance(doc, "") {
		t.Fatal("expected a change")
	}
	if got := mustField(t, doc, "buyer_name").Prov; got != docmodel.ProvUser {
		t.Fatalf("buyer_name provenance = %v, want user", got)
	}
	if got := mustField(t, doc, "seller_name").Prov; got != docmodel.ProvNone {
		t.Fatalf("seller_name provenance = %v, want none", got)
	}
}

func TestTrackProvenanceSyncsInstances(t *testing.T) {
	doc := mustParse(t, `<p><span data-field-id="buyer_name" data-source="user">ACME Corp</span></p>`+
		`<p><span data-field-id="buyer_name">[buyer_name]</span></p>`)

	if !TrackProvenance(doc, "buyer_name") {
		t.Fatal("expected a change")
	}
	fields := doc.Fields()
	if got := fields[1].TextContent(); got != "ACME Corp" {
		t.Fatalf("copy text = %q, want synced value", got)
	}
	if fields[1].Prov != docmodel.ProvMapped {
		t.Fatalf("copy provenance = %v, want mapped", fields[1].Prov)
	}
	if TrackProvenance(doc, "buyer_name") {
		t.Fatal("second pass should be a no-op")
	}
}

func TestTrackProvenanceRevertClearsCopies(t *testing.T) {
	doc := mustParse(t, `<p><span data-field-id="buyer_name">[buyer_name]</span></p>`+
		`<p><span data-field-id="buyer_name" data-source="mapped">ACME Corp</span></p>`)

	if !TrackProvenance(doc, "buyer_name") {
		t.Fatal("expected a change")
	}
	for i, f := range doc.Fields() {
		if got := f.TextContent(); got != "[buyer_name]" {
			t.Fatalf("instance %d text = %q, want placeholder", i, got)
		}
		if f.Prov != docmodel.ProvNone {
			t.Fatalf("instance %d provenance = %v, want none", i, f.Prov)
		}
	}
}

func TestExtractFields(t *testing.T) {
	doc := mustParse(t, `<p><span data-field-id="buyer_name" data-source="user">ACME Corp</span></p>`+
		`<p><span data-field-id="seller_name">[seller_name]</span></p>`+
		`<p><span data-field-id="total_price" data-source="auto">12.50</span></p>`+
		`<p><span data-field-id="buyer_name" data-source="mapped">Stale Value</span></p>`)

	got := ExtractFields(doc)
	want := map[string]string{"buyer_name": "ACME Corp"}
	if len(got) != len(want) || got["buyer_name"] != want["buyer_name"] {
		t.Fatalf("extracted = %v, want %v", got, want)
	}
}

func TestApplyRegistry(t *testing.T) {
	doc := mustParse(t, `<p><span data-field-id="buyer_name">[buyer_name]</span></p>`+
		`<p><span data-field-id="total_price" data-source="auto">0.00</span></p>`+
		`<p><span data-field-id="notice">Keep me</span></p>`)

	registry := map[string]string{
		"buyer_name":  "ACME Corp",
		"total_price": "99.99",
		"notice":      "Keep me",
		"missing":     "",
	}
	if !ApplyRegistry(doc, registry) {
		t.Fatal("expected a change")
	}
	f := mustField(t, doc, "buyer_name")
	if f.TextContent() != "ACME Corp" || f.Prov != docmodel.ProvMapped {
		t.Fatalf("buyer_name = %q (%v), want mapped value", f.TextContent(), f.Prov)
	}
	if got := mustField(t, doc, "total_price").TextContent(); got != "0.00" {
		t.Fatalf("auto field overwritten to %q", got)
	}
	if ApplyRegistry(doc, registry) {
		t.Fatal("second pass should be a no-op")
	}
}

func TestApplyAgentValues(t *testing.T) {
	doc := mustParse(t, `<p>
		<span data-field-id="buyer_name">[buyer_name]</span>
		<span data-field-id="buyer_name">[buyer_name]</span>
		<span data-field-id="total_price" data-source="auto">10.00</span>
	</p>`)

	applied, ignored := ApplyAgentValues(doc, []FieldChange{
		{FieldID: "buyer_name", Value: "ACME Trading"},
		{FieldID: "total_price", Value: "99"},
		{FieldID: "bogus", Value: "x"},
	})
	if len(applied) != 1 || applied[0] != "buyer_name" {
		t.Fatalf("applied = %v", applied)
	}
	if len(ignored) != 2 || ignored[0] != "total_price" || ignored[1] != "bogus" {
		t.Fatalf("ignored = %v", ignored)
	}
	for _, f := range doc.Fields() {
		if f.FieldID != "buyer_name" {
			continue
		}
		if f.TextContent() != "ACME Trading" || f.Prov != docmodel.ProvAgent {
			t.Fatalf("instance = %q (%v)", f.TextContent(), f.Prov)
		}
	}
	if mustField(t, doc, "total_price").TextContent() != "10.00" {
		t.Fatal("computed field must not be overwritten")
	}
}

func TestApplyAgentValuesOrdered(t *testing.T) {
	doc := mustParse(t, `<p>
		<span data-field-id="buyer_name">[buyer_name]</span>
	</p>`)

	applied, ignored := ApplyAgentValues(doc, []FieldChange{
		{FieldID: "buyer_name", Value: "First Corp"},
		{FieldID: "buyer_name", Value: "Second Corp"},
	})
	if len(applied) != 1 || applied[0] != "buyer_name" {
		t.Fatalf("applied = %v", applied)
	}
	if len(ignored) != 0 {
		t.Fatalf("ignored = %v", ignored)
	}
	if got := mustField(t, doc, "buyer_name").TextContent(); got != "Second Corp" {
		t.Fatalf("buyer_name = %q, want the later assignment", got)
	}
}
