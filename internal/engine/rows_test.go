package engine

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"tradedocs/api/internal/docmodel"
	"tradedocs/api/internal/template"
)

func TestFindTemplateRow(t *testing.T) {
	offer := hydrated(t, template.SlotOffer)

	row := FindTemplateRow(offer)
	if row == nil {
		t.Fatal("no template row found")
	}
	ids := rowFieldIDs(row)
	joined := strings.Join(ids, ",")
	if !strings.Contains(joined, "quantity") || !strings.Contains(joined, "unit_price") {
		t.Fatalf("unexpected template row fields: %v", ids)
	}
	if strings.Contains(row.TextContent(), "Total ") {
		t.Fatal("template row must not be the totals row")
	}
}

func TestAddRowAfter(t *testing.T) {
	offer := hydrated(t, template.SlotOffer)
	mustField(t, offer, "currency").SetText("USD")
	before := len(offer.Rows())

	newIDs, ok := AddRowAfter(offer)
	if !ok {
		t.Fatal("expected a new row")
	}
	if got := len(offer.Rows()); got != before+1 {
		t.Fatalf("rows = %d, want %d", got, before+1)
	}
	for _, id := range newIDs {
		f := mustField(t, offer, id)
		if !strings.HasSuffix(id, "_2") {
			t.Errorf("new id %q should carry the _2 suffix", id)
		}
		if !f.IsPlaceholder() {
			t.Errorf("new field %s = %q, want placeholder", id, f.TextContent())
		}
	}

	// Currency is cloned without renaming and inherits the value.
	currencies := fieldInstances(offer, "currency")
	if len(currencies) != 2 {
		t.Fatalf("currency instances = %d, want 2", len(currencies))
	}
	if got := currencies[1].TextContent(); got != "USD" {
		t.Fatalf("cloned currency = %q, want USD", got)
	}

	// A second addition mints _3 ids.
	thirdIDs, _ := AddRowAfter(offer)
	for _, id := range thirdIDs {
		if !strings.HasSuffix(id, "_3") {
			t.Errorf("id %q should carry the _3 suffix", id)
		}
	}
}

func TestAddRowSkipsGaps(t *testing.T) {
	doc := mustParse(t, `<table><tbody>
<tr>
<td><span data-field-id="description">[description]</span></td>
<td><span data-field-id="quantity">[quantity]</span></td>
<td><span data-field-id="unit_price">[unit_price]</span></td>
<td><span data-field-id="quantity_3">[quantity_3]</span></td>
</tr>
</tbody></table>`)

	newIDs, ok := AddRowAfter(doc)
	if !ok {
		t.Fatal("expected a new row")
	}
	sort.Strings(newIDs)
	// quantity_2 is free, quantity_3 is taken elsewhere, so the clone of
	// quantity_3 itself gets quantity_4.
	want := []string{"description_2", "quantity_2", "quantity_4", "unit_price_2"}
	if !reflect.DeepEqual(newIDs, want) {
		t.Fatalf("new ids = %v, want %v", newIDs, want)
	}
}

func TestReplicateRowAdd(t *testing.T) {
	pl := hydrated(t, template.SlotPL)
	before := len(pl.Rows())

	if !ReplicateRowAdd(pl, []string{"description_2", "quantity_2", "unit_price_2"}) {
		t.Fatal("expected a replicated row")
	}
	if got := len(pl.Rows()); got != before+1 {
		t.Fatalf("rows = %d, want %d", got, before+1)
	}
	if f := pl.FieldByID("quantity_2"); f == nil || !f.IsPlaceholder() {
		t.Fatal("replicated quantity_2 missing or not a placeholder")
	}
	// Bases the source row does not cover still get fresh ids here.
	if pl.FieldByID("net_weight_2") == nil {
		t.Fatal("net_weight_2 should have been minted")
	}

	// Unit text survives replication.
	row := pl.Rows()[2]
	for _, cell := range cells(row) {
		for _, f := range cell.Fields() {
			switch docmodel.BaseName(f.FieldID) {
			case "net_weight", "gross_weight":
				if !strings.Contains(cell.TextContent(), "KG") {
					t.Errorf("cell for %s lost its KG unit", f.FieldID)
				}
			case "measurement":
				if !strings.Contains(cell.TextContent(), "CBM") {
					t.Errorf("cell for %s lost its CBM unit", f.FieldID)
				}
			}
		}
	}
}

func TestReplicateRowAddWithoutTemplateRow(t *testing.T) {
	doc := mustParse(t, `<p><span data-field-id="buyer_name">[buyer_name]</span></p>`)
	if ReplicateRowAdd(doc, []string{"quantity_2"}) {
		t.Fatal("documents without a template row must be skipped silently")
	}
}

func TestDiffDeletedRowsAndDelete(t *testing.T) {
	offer := hydrated(t, template.SlotOffer)
	AddRowAfter(offer)
	snapshot := offer.Clone()

	// Remove the replicated row the way an editor would.
	var removed []string
	for _, row := range offer.Rows() {
		ids := rowFieldIDs(row)
		if len(ids) > 0 && strings.HasSuffix(ids[0], "_2") {
			removed = ids
			parent, idx := findParent(offer, row)
			removeChild(parent, idx)
			break
		}
	}
	if len(removed) == 0 {
		t.Fatal("no replicated row to remove")
	}

	deleted := DiffDeletedRows(snapshot, offer)
	if len(deleted) == 0 {
		t.Fatal("expected deleted field ids")
	}
	for _, id := range deleted {
		if docmodel.BaseName(id) == "currency" {
			t.Fatal("currency ids must be ignored in row diffs")
		}
		if !strings.HasSuffix(id, "_2") {
			t.Errorf("unexpected deleted id %q", id)
		}
	}

	// Replicate the deletion into another document.
	pi := hydrated(t, template.SlotPI)
	ReplicateRowAdd(pi, deleted)
	if !DeleteRowsByFields(pi, deleted) {
		t.Fatal("expected replicated deletion")
	}
	if pi.FieldByID("quantity_2") != nil {
		t.Fatal("quantity_2 should be gone after deletion")
	}
}

func TestDiffDeletedRowsIgnoresAdditions(t *testing.T) {
	offer := hydrated(t, template.SlotOffer)
	grown := offer.Clone()
	AddRowAfter(grown)

	if got := DiffDeletedRows(offer, grown); got != nil {
		t.Fatalf("additions reported as deletions: %v", got)
	}
}
