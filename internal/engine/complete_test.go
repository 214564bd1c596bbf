package engine

import (
	"testing"

	"tradedocs/api/internal/docmodel"
	"tradedocs/api/internal/template"
)

// fillAll replaces every remaining placeholder on enabled fields with dummy
// content.
func fillAll(doc *docmodel.Node) {
	for _, f := range doc.Fields() {
		if f.IsPlaceholder() && !f.Disabled {
			f.SetText("x")
			f.Prov = docmodel.ProvUser
		}
	}
}

func TestIsCompleteNilDocument(t *testing.T) {
	if IsComplete(nil) {
		t.Fatal("nil document must be incomplete")
	}
}

func TestIsCompleteRequiresFilledFields(t *testing.T) {
	doc := mustParse(t, `<p><span data-field-id="buyer_name">[buyer_name]</span></p>`+
		`<p><span data-field-id="seller_name" data-source="user">ACME</span></p>`)

	if IsComplete(doc) {
		t.Fatal("placeholder left, must be incomplete")
	}
	fillAll(doc)
	if !IsComplete(doc) {
		t.Fatal("all filled, must be complete")
	}
}

func TestIsCompleteExemptsNoticeAndDisabled(t *testing.T) {
	doc := mustParse(t, `<p><span data-field-id="notice">[notice]</span></p>`+
		`<p><span data-field-id="notice_2">[notice_2]</span></p>`+
		`<p><span data-field-id="days_dpc" data-disabled="true">[days_dpc]</span></p>`+
		`<p><span data-field-id="buyer_name" data-source="user">ACME</span></p>`)

	if !IsComplete(doc) {
		t.Fatal("notice and disabled placeholders must not block completion")
	}
}

func TestIsCompleteRequiresToggleSelections(t *testing.T) {
	contract := hydrated(t, template.SlotContract)
	fillAll(contract)

	if IsComplete(contract) {
		t.Fatal("unchecked toggle groups must block completion")
	}

	CheckRadio(contract, "payment", paymentOrdinal(t, contract, "T/T"))
	CheckRadio(contract, "partial_shipment", 0)
	CheckRadio(contract, "transhipment", 1)
	if !IsComplete(contract) {
		t.Fatal("every group selected and fields filled, must be complete")
	}
}

func TestIsCompleteExemptsUnselectedLinkedFields(t *testing.T) {
	contract := hydrated(t, template.SlotContract)
	CheckRadio(contract, "payment", paymentOrdinal(t, contract, "Acceptance Credit"))
	CheckRadio(contract, "partial_shipment", 0)
	CheckRadio(contract, "transhipment", 0)
	fillAll(contract)

	// days_dpc and days_da belong to unselected radios and stay placeholders,
	// but days_ac belongs to the selection and was filled by fillAll.
	if !IsComplete(contract) {
		t.Fatal("unselected linked placeholders must not block completion")
	}

	// Reverting the selected linked field blocks completion again.
	f := mustField(t, contract, "days_ac")
	f.SetText(docmodel.Placeholder("days_ac"))
	f.Prov = docmodel.ProvNone
	if IsComplete(contract) {
		t.Fatal("selected linked placeholder must block completion")
	}
}
