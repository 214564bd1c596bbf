package engine

import (
	"testing"

	"tradedocs/api/internal/docmodel"
	"tradedocs/api/internal/template"
)

func hydrated(t *testing.T, slot template.Slot) *docmodel.Node {
	t.Helper()
	return mustParse(t, template.Hydrate(template.ForSlot(slot), nil))
}

func paymentOrdinal(t *testing.T, contract *docmodel.Node, label string) int {
	t.Helper()
	for i, r := range groupToggles(contract, "payment", docmodel.ToggleRadio) {
		if radioLabel(contract, r) == label {
			return i
		}
	}
	t.Fatalf("payment option %q not found", label)
	return -1
}

func TestCheckRadioIsExclusive(t *testing.T) {
	contract := hydrated(t, template.SlotContract)

	if !CheckRadio(contract, "payment", paymentOrdinal(t, contract, "D/A")) {
		t.Fatal("expected a change")
	}
	CheckRadio(contract, "payment", paymentOrdinal(t, contract, "T/T"))

	checked := 0
	for _, r := range groupToggles(contract, "payment", docmodel.ToggleRadio) {
		if r.Checked {
			checked++
			if got := radioLabel(contract, r); got != "T/T" {
				t.Fatalf("checked radio label = %q, want T/T", got)
			}
		}
	}
	if checked != 1 {
		t.Fatalf("checked radios = %d, want 1", checked)
	}
}

func TestCheckRadioTogglesLinkedFields(t *testing.T) {
	contract := hydrated(t, template.SlotContract)

	CheckRadio(contract, "payment", paymentOrdinal(t, contract, "Acceptance Credit"))
	if mustField(t, contract, "days_ac").Disabled {
		t.Fatal("days_ac should be enabled while Acceptance Credit is selected")
	}
	if !mustField(t, contract, "days_dpc").Disabled {
		t.Fatal("days_dpc should stay disabled")
	}

	CheckRadio(contract, "payment", paymentOrdinal(t, contract, "Sight Credit"))
	if !mustField(t, contract, "days_ac").Disabled {
		t.Fatal("days_ac should be disabled after switching away")
	}
}

func TestSelectedPaymentCategory(t *testing.T) {
	cases := []struct {
		label string
		want  PaymentCategory
	}{
		{"Sight Credit", CategoryLC},
		{"Deferred Payment Credit", CategoryLC},
		{"Acceptance Credit", CategoryLC},
		{"D/P", CategoryNonLC},
		{"D/A", CategoryNonLC},
		{"T/T", CategoryNonLC},
	}
	for _, tc := range cases {
		contract := hydrated(t, template.SlotContract)
		CheckRadio(contract, "payment", paymentOrdinal(t, contract, tc.label))
		if got := SelectedPaymentCategory(contract); got != tc.want {
			t.Errorf("%s: category = %v, want %v", tc.label, got, tc.want)
		}
	}

	contract := hydrated(t, template.SlotContract)
	if got := SelectedPaymentCategory(contract); got != CategoryNone {
		t.Errorf("no selection: category = %v, want none", got)
	}
}

func TestApplyPaymentCascade(t *testing.T) {
	ci := hydrated(t, template.SlotCI)
	mustField(t, ci, "remarks").SetText("N/A")
	mustField(t, ci, "remarks").Prov = docmodel.ProvUser

	if !ApplyPaymentCascade(ci, "ci", CategoryNonLC) {
		t.Fatal("expected a change")
	}
	for _, id := range []string{"l/c_no", "l/c_date", "l/c_bank"} {
		f := mustField(t, ci, id)
		if got := f.TextContent(); got != "N/A" {
			t.Errorf("%s = %q, want N/A", id, got)
		}
		if f.Prov != docmodel.ProvAuto {
			t.Errorf("%s provenance = %v, want auto", id, f.Prov)
		}
	}
	if got := mustField(t, ci, "remarks").TextContent(); got != "N/A" {
		t.Fatalf("remarks touched: %q", got)
	}

	// Switching back to an L/C term reverts the stamps to placeholders.
	if !ApplyPaymentCascade(ci, "ci", CategoryLC) {
		t.Fatal("expected a change")
	}
	for _, id := range []string{"l/c_no", "l/c_date", "l/c_bank"} {
		f := mustField(t, ci, id)
		if !f.IsPlaceholder() {
			t.Errorf("%s = %q, want placeholder", id, f.TextContent())
		}
		if f.Prov != docmodel.ProvNone {
			t.Errorf("%s provenance = %v, want none", id, f.Prov)
		}
	}
	if got := mustField(t, ci, "remarks").TextContent(); got != "N/A" {
		t.Fatalf("remarks touched: %q", got)
	}
}

func TestApplyPaymentCascadeKeepsUserValuesUnderLC(t *testing.T) {
	pl := hydrated(t, template.SlotPL)
	f := mustField(t, pl, "l/c_no")
	f.SetText("LC-2024-001")
	f.Prov = docmodel.ProvUser

	if ApplyPaymentCascade(pl, "pl", CategoryLC) {
		t.Fatal("user content should not change under an L/C term")
	}
	if got := f.TextContent(); got != "LC-2024-001" {
		t.Fatalf("l/c_no = %q", got)
	}
}
