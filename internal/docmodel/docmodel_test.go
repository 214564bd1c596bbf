package docmodel

import "testing"

func TestParseFieldNode(t *testing.T) {
	content := `<p><span data-field-id="buyer_name" data-source="mapped" class="data-field">Acme Trading</span></p>`
	root, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	field := root.FieldByID("buyer_name")
	if field == nil {
		t.Fatal("expected buyer_name field node")
	}
	if field.Prov != ProvMapped {
		t.Errorf("provenance = %v, want mapped", field.Prov)
	}
	if got := field.TextContent(); got != "Acme Trading" {
		t.Errorf("text = %q, want %q", got, "Acme Trading")
	}
	if field.IsPlaceholder() {
		t.Error("field with real value reported as placeholder")
	}
}

func TestParseToggleNodes(t *testing.T) {
	content := `<div>` +
		`<span class="radio-circle checked" data-group="payment" data-linked-field="days_dpc"></span>` +
		`<span class="checkbox-widget" data-group="partial_shipment" data-checked="true"></span>` +
		`</div>`
	root, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	toggles := root.Toggles()
	if len(toggles) != 2 {
		t.Fatalf("got %d toggles, want 2", len(toggles))
	}

	radio := toggles[0]
	if radio.Toggle != ToggleRadio || !radio.Checked {
		t.Errorf("radio parsed as %+v, want checked radio", radio)
	}
	if radio.Group != "payment" || radio.LinkedField != "days_dpc" {
		t.Errorf("radio group/linked = %q/%q", radio.Group, radio.LinkedField)
	}

	checkbox := toggles[1]
	if checkbox.Toggle != ToggleCheckbox || !checkbox.Checked {
		t.Errorf("checkbox parsed as %+v, want checked checkbox", checkbox)
	}
}

func TestParseTableStructure(t *testing.T) {
	content := `<table><tbody><tr><td><span data-field-id="item_no">[item_no]</span></td></tr></tbody></table>`
	root, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	rows := root.Rows()
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if len(rows[0].Children) != 1 || rows[0].Children[0].Kind != KindCell {
		t.Fatalf("row children = %+v, want one cell", rows[0].Children)
	}
	if field := rows[0].FieldByID("item_no"); field == nil || !field.IsPlaceholder() {
		t.Error("expected item_no placeholder field inside row")
	}
}

func TestRenderRoundTrip(t *testing.T) {
	content := `<div class="meta" style="margin:0"><p>Date : <span data-field-id="offer_date">[offer_date]</span></p></div>`
	root, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := Render(root); got != content {
		t.Errorf("round trip mismatch:\n got  %s\n want %s", got, content)
	}
}

func TestRenderAfterMutation(t *testing.T) {
	root, err := Parse(`<p><span data-field-id="quantity">[quantity]</span></p>`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	field := root.FieldByID("quantity")
	field.SetText("25")
	field.Prov = ProvUser

	want := `<p><span data-field-id="quantity" data-source="user">25</span></p>`
	if got := Render(root); got != want {
		t.Errorf("Render() = %s, want %s", got, want)
	}
}

func TestBaseName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"unit_price", "unit_price"},
		{"unit_price_2", "unit_price"},
		{"quantity_14", "quantity"},
		{"l/c_no", "l/c_no"},
		{"box_2a", "box_2a"},
		{"currency", "currency"},
	}
	for _, tc := range cases {
		if got := BaseName(tc.in); got != tc.want {
			t.Errorf("BaseName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestProvenanceRoundTrip(t *testing.T) {
	for _, p := range []Provenance{ProvNone, ProvUser, ProvMapped, ProvAgent, ProvAuto} {
		if got := ParseProvenance(p.String()); got != p {
			t.Errorf("ParseProvenance(%q) = %v, want %v", p.String(), got, p)
		}
	}
	if got := ParseProvenance("bogus"); got != ProvNone {
		t.Errorf("unknown provenance = %v, want none", got)
	}
}
