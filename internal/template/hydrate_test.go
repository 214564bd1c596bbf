package template

import (
	"strings"
	"testing"

	"tradedocs/api/internal/docmodel"
)

func TestHydratePlaceholders(t *testing.T) {
	tpl := `<p>Date : <mark>[offer_date]</mark></p>`
	got := Hydrate(tpl, nil)
	want := `<p>Date : <span data-field-id="offer_date">[offer_date]</span></p>`
	if got != want {
		t.Errorf("Hydrate() = %s, want %s", got, want)
	}
}

func TestHydrateRegistryValue(t *testing.T) {
	tpl := `<p><mark>[buyer_name]</mark></p>`
	got := Hydrate(tpl, map[string]string{"buyer_name": "Acme Trading"})
	want := `<p><span data-field-id="buyer_name" data-source="mapped">Acme Trading</span></p>`
	if got != want {
		t.Errorf("Hydrate() = %s, want %s", got, want)
	}
}

func TestHydrateEmptyRegistryValueKeepsPlaceholder(t *testing.T) {
	got := Hydrate(`<mark>[quantity]</mark>`, map[string]string{"quantity": ""})
	if !strings.Contains(got, "[quantity]") {
		t.Errorf("empty registry value should keep placeholder, got %s", got)
	}
	if strings.Contains(got, "data-source") {
		t.Errorf("placeholder field should have no provenance, got %s", got)
	}
}

func TestHydrateDaysFieldsDisabled(t *testing.T) {
	got := Hydrate(`<mark>[days_dpc]</mark>`, nil)
	want := `<span data-field-id="days_dpc" data-disabled="true">[days_dpc]</span>`
	if got != want {
		t.Errorf("Hydrate() = %s, want %s", got, want)
	}
}

func TestAllTemplatesHydrateAndParse(t *testing.T) {
	for _, slot := range Order {
		tpl := ForSlot(slot)
		if tpl == "" {
			t.Fatalf("missing template for slot %s", slot)
		}
		hydrated := Hydrate(tpl, nil)
		if strings.Contains(hydrated, "<mark>") {
			t.Errorf("slot %s: unhydrated markers remain", slot)
		}

		root, err := docmodel.Parse(hydrated)
		if err != nil {
			t.Fatalf("slot %s: parse hydrated template: %v", slot, err)
		}
		if len(root.Fields()) == 0 {
			t.Errorf("slot %s: no field nodes after hydration", slot)
		}
		for _, f := range root.Fields() {
			if !f.IsPlaceholder() {
				t.Errorf("slot %s: field %s not a placeholder after bare hydration", slot, f.FieldID)
			}
		}
	}
}

func TestContractTemplateCarriesPaymentGroup(t *testing.T) {
	root, err := docmodel.Parse(Hydrate(ForSlot(SlotContract), nil))
	if err != nil {
		t.Fatalf("parse contract: %v", err)
	}

	var paymentRadios int
	for _, toggle := range root.Toggles() {
		if toggle.Group == "payment" {
			paymentRadios++
		}
	}
	if paymentRadios != 6 {
		t.Errorf("payment radios = %d, want 6", paymentRadios)
	}

	for _, id := range []string{"days_dpc", "days_ac", "days_da"} {
		f := root.FieldByID(id)
		if f == nil {
			t.Fatalf("missing %s field", id)
		}
		if !f.Disabled {
			t.Errorf("%s should hydrate disabled", id)
		}
	}
}
