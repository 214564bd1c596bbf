// Package template holds the built-in document templates and the hydrator
// that turns placeholder markers into editable field markup.
package template

// Slot identifies one of the five document slots of a trade.
type Slot string

const (
	SlotOffer    Slot = "offer"
	SlotPI       Slot = "pi"
	SlotContract Slot = "contract"
	SlotCI       Slot = "ci"
	SlotPL       Slot = "pl"
)

// Order is the sequential workflow order of the five documents.
var Order = []Slot{SlotOffer, SlotPI, SlotContract, SlotCI, SlotPL}

// ForSlot returns the raw template for a document slot, or "" for an unknown
// slot.
func ForSlot(slot Slot) string {
	switch slot {
	case SlotOffer:
		return offerSheetTemplate
	case SlotPI:
		return proformaInvoiceTemplate
	case SlotContract:
		return salesContractTemplate
	case SlotCI:
		return commercialInvoiceTemplate
	case SlotPL:
		return packingListTemplate
	}
	return ""
}

const offerSheetTemplate = `
<h1 style="text-align: center;">OFFER SHEET</h1>
<div style="text-align: center; margin-bottom: 24px;"><mark>[seller_name]</mark></div>
<div class="meta">
    <p>Date : <mark>[offer_date]</mark></p>
    <p>Ref No. : <mark>[offer_no]</mark></p>
    <p>MESSRS. : <mark>[buyer_name]</mark></p>
</div>
<p>We are pleased to offer you as follows;</p>
<table class="items-table" style="width: 100%; border-collapse: collapse;">
    <thead>
        <tr>
            <th>Item No.</th><th>HS-CODE</th><th>Product</th><th>C/O</th><th>Q&#39;ty</th><th>Unit Price</th><th>Amount</th>
        </tr>
    </thead>
    <tbody>
        <tr>
            <td><mark>[item_no]</mark></td>
            <td><mark>[hscode]</mark></td>
            <td><mark>[description]</mark></td>
            <td><mark>[coo]</mark></td>
            <td><mark>[quantity]</mark></td>
            <td><mark>[currency]</mark> <mark>[unit_price]</mark></td>
            <td><mark>[sub_total_price]</mark></td>
        </tr>
        <tr>
            <td colspan="4" style="font-weight: bold;">Total :</td>
            <td><mark>[total_quantity]</mark></td>
            <td></td>
            <td><mark>[total_price]</mark></td>
        </tr>
    </tbody>
</table>
<div class="terms">
    <p>Shipment : <mark>[shipment_term]</mark></p>
    <p>Payment : <mark>[payment_term]</mark></p>
    <p>Validity : <mark>[offer_validity]</mark></p>
    <p>Inspection : <mark>[inspection]</mark></p>
    <p>Remarks : <mark>[remarks]</mark></p>
    <p>Notice : <mark>[notice]</mark></p>
</div>
`

const proformaInvoiceTemplate = `
<h1 style="text-align: center;">PROFORMA INVOICE</h1>
<div class="parties" style="display: flex;">
    <div style="width: 50%;">
        <p style="font-weight: bold;">Shipper / Exporter</p>
        <p><mark>[seller_name]</mark></p>
        <p><mark>[seller_address]</mark></p>
        <p>Tel : <mark>[seller_tel]</mark> Fax : <mark>[seller_fax]</mark></p>
    </div>
    <div style="width: 50%;">
        <p style="font-weight: bold;">For Account &amp; Risk of Messrs</p>
        <p><mark>[buyer_name]</mark></p>
        <p><mark>[buyer_address]</mark></p>
        <p>Attn : <mark>[buyer_human_name]</mark></p>
    </div>
</div>
<div class="meta">
    <p>No. : <mark>[pi_no]</mark></p>
    <p>Date : <mark>[pi_date]</mark></p>
    <p>Carrier : <mark>[carrier]</mark></p>
    <p>Transportation : <mark>[transportation_term]</mark></p>
    <p>Reason of Export : <mark>[export_reason]</mark></p>
</div>
<table class="items-table" style="width: 100%; border-collapse: collapse;">
    <thead>
        <tr>
            <th>HS-CODE</th><th>Description</th><th>C/O</th><th>Q&#39;ty</th><th>Unit</th><th>Unit Price</th><th>Amount</th>
        </tr>
    </thead>
    <tbody>
        <tr>
            <td><mark>[hscode]</mark></td>
            <td><mark>[description]</mark></td>
            <td><mark>[coo]</mark></td>
            <td><mark>[quantity]</mark></td>
            <td><mark>[unit]</mark></td>
            <td><mark>[currency]</mark> <mark>[unit_price]</mark></td>
            <td><mark>[sub_total_price]</mark></td>
        </tr>
        <tr>
            <td colspan="3" style="font-weight: bold;">Total :</td>
            <td><mark>[total_quantity]</mark></td>
            <td></td>
            <td></td>
            <td><mark>[total_price]</mark></td>
        </tr>
    </tbody>
</table>
<div class="weights">
    <p>Net Weight : <mark>[total_net_weight]</mark></p>
    <p>Gross Weight : <mark>[total_gross_weight]</mark></p>
</div>
`

const salesContractTemplate = `
<h1 style="text-align: center;">SALES CONTRACT</h1>
<div class="meta">
    <p>Date : <mark>[contract_date]</mark></p>
</div>
<div class="parties" style="display: flex;">
    <div style="width: 50%;">
        <p style="font-weight: bold;">Seller</p>
        <p><mark>[seller_name]</mark></p>
        <p><mark>[seller_address]</mark></p>
        <p>CEO : <mark>[seller_ceo]</mark></p>
    </div>
    <div style="width: 50%;">
        <p style="font-weight: bold;">Buyer</p>
        <p><mark>[buyer_name]</mark></p>
        <p><mark>[buyer_address]</mark></p>
        <p>CEO : <mark>[buyer_ceo]</mark></p>
    </div>
</div>
<table class="items-table" style="width: 100%; border-collapse: collapse;">
    <thead>
        <tr>
            <th>Item No.</th><th>HS-CODE</th><th>Description</th><th>C/O</th><th>Q&#39;ty</th><th>Unit</th><th>Unit Price</th><th>Amount</th>
        </tr>
    </thead>
    <tbody>
        <tr>
            <td><mark>[item_no]</mark></td>
            <td><mark>[hscode]</mark></td>
            <td><mark>[description]</mark></td>
            <td><mark>[coo]</mark></td>
            <td><mark>[quantity]</mark></td>
            <td><mark>[unit]</mark></td>
            <td><mark>[currency]</mark> <mark>[unit_price]</mark></td>
            <td><mark>[sub_total_price]</mark></td>
        </tr>
        <tr>
            <td colspan="6" style="font-weight: bold;">Total Amount :</td>
            <td></td>
            <td><mark>[total_price]</mark></td>
        </tr>
    </tbody>
</table>
<h2>Payment</h2>
<div class="payment">
    <div style="display: flex;">
        <div class="pay-label">Sight Credit</div>
        <div class="pay-radio"><span class="radio-circle" data-group="payment"></span></div>
        <div class="pay-desc">irrevocable documentary credit payable at sight</div>
    </div>
    <div style="display: flex;">
        <div class="pay-label">Deferred Payment Credit</div>
        <div class="pay-radio"><span class="radio-circle" data-group="payment" data-linked-field="days_dpc"></span></div>
        <div class="pay-desc">irrevocable documentary credit with deferred payment at <mark>[days_dpc]</mark> days from B/L(AWB) date</div>
    </div>
    <div style="display: flex;">
        <div class="pay-label">Acceptance Credit</div>
        <div class="pay-radio"><span class="radio-circle" data-group="payment" data-linked-field="days_ac"></span></div>
        <div class="pay-desc">irrevocable documentary credit with acceptance of drafts at <mark>[days_ac]</mark> days from B/L(AWB) date</div>
    </div>
    <div style="display: flex;">
        <div class="pay-label">D/P</div>
        <div class="pay-radio"><span class="radio-circle" data-group="payment"></span></div>
        <div class="pay-desc">documents against payment</div>
    </div>
    <div style="display: flex;">
        <div class="pay-label">D/A</div>
        <div class="pay-radio"><span class="radio-circle" data-group="payment" data-linked-field="days_da"></span></div>
        <div class="pay-desc">documents against acceptance payable at <mark>[days_da]</mark> days from B/L(AWB) date</div>
    </div>
    <div style="display: flex;">
        <div class="pay-label">T/T</div>
        <div class="pay-radio"><span class="radio-circle" data-group="payment"></span></div>
        <div class="pay-desc">Telegraphic Transfer</div>
    </div>
</div>
<h2>Shipment</h2>
<div class="shipment">
    <p>Port of Loading : <mark>[pol]</mark></p>
    <p>Port of Discharge : <mark>[pod]</mark></p>
    <p>Shipment Deadline : <mark>[shipment_deadline]</mark></p>
    <p>Cancellation Date : <mark>[shipment_cancellation_date]</mark></p>
    <p>Lead Time : <mark>[lead_time]</mark></p>
    <p>Price Term : <mark>[incoterms]</mark> <mark>[incoterms_port]</mark></p>
    <p>Partial Shipment :
        Allowed <span class="radio-circle" data-group="partial_shipment"></span>
        Not Allowed <span class="radio-circle" data-group="partial_shipment"></span>
    </p>
    <p>Transhipment :
        Allowed <span class="radio-circle" data-group="transhipment"></span>
        Not Allowed <span class="radio-circle" data-group="transhipment"></span>
    </p>
</div>
<p>Notice : <mark>[notice]</mark></p>
`

const commercialInvoiceTemplate = `
<h1 style="text-align: center;">COMMERCIAL INVOICE</h1>
<div class="parties" style="display: flex;">
    <div style="width: 50%;">
        <p style="font-weight: bold;">Shipper / Exporter</p>
        <p><mark>[seller_name]</mark></p>
        <p><mark>[seller_address]</mark></p>
    </div>
    <div style="width: 50%;">
        <p style="font-weight: bold;">Consignee</p>
        <p><mark>[buyer_name]</mark></p>
        <p><mark>[buyer_address]</mark></p>
    </div>
</div>
<div class="meta">
    <p>No. &amp; Date of Invoice : <mark>[ci_no]</mark> <mark>[ci_date]</mark></p>
    <p>No. &amp; Date of L/C : <mark>[l/c_no]</mark> <mark>[l/c_date]</mark></p>
    <p>L/C Issuing Bank : <mark>[l/c_bank]</mark></p>
    <p>Carrier : <mark>[carrier]</mark></p>
    <p>Port of Loading : <mark>[pol]</mark></p>
    <p>Final Destination : <mark>[final_destination]</mark></p>
    <p>Sailing on or about : <mark>[shipment_deadline]</mark></p>
    <p>Price Term : <mark>[incoterms]</mark> <mark>[incoterms_port]</mark></p>
</div>
<table class="items-table" style="width: 100%; border-collapse: collapse;">
    <thead>
        <tr>
            <th>Marks &amp; Numbers</th><th>Description of Goods</th><th>Q&#39;ty</th><th>EA/Box</th><th>Box</th><th>Unit Price</th><th>Amount</th>
        </tr>
    </thead>
    <tbody>
        <tr>
            <td><mark>[marks_and_numbers]</mark></td>
            <td><mark>[description]</mark></td>
            <td><mark>[quantity]</mark></td>
            <td><mark>[ea_box]</mark></td>
            <td><mark>[box]</mark></td>
            <td><mark>[currency]</mark> <mark>[unit_price]</mark></td>
            <td><mark>[sub_total_price]</mark></td>
        </tr>
        <tr>
            <td colspan="2" style="font-weight: bold;">Total :</td>
            <td><mark>[total_quantity]</mark></td>
            <td><mark>[total_ea/box]</mark></td>
            <td><mark>[total_box]</mark></td>
            <td></td>
            <td><mark>[total_price]</mark></td>
        </tr>
    </tbody>
</table>
<p>Remarks : <mark>[remarks]</mark></p>
`

const packingListTemplate = `
<h1 style="text-align: center;">PACKING LIST</h1>
<div class="parties" style="display: flex;">
    <div style="width: 50%;">
        <p style="font-weight: bold;">Shipper / Exporter</p>
        <p><mark>[seller_name]</mark></p>
    </div>
    <div style="width: 50%;">
        <p style="font-weight: bold;">Consignee</p>
        <p><mark>[buyer_name]</mark></p>
        <p><mark>[buyer_address]</mark></p>
    </div>
</div>
<div class="meta">
    <p>No. &amp; Date of PL : <mark>[pl_no]</mark> <mark>[pl_date]</mark></p>
    <p>Invoice No. : <mark>[invoice_no]</mark></p>
    <p>Ref No. : <mark>[ref_no]</mark></p>
    <p>No. &amp; Date of L/C : <mark>[l/c_no]</mark> <mark>[l/c_date]</mark></p>
    <p>Notify Party : <mark>[pl_notify_party]</mark> <mark>[pl_notify_party_address]</mark></p>
    <p>Carrier : <mark>[carrier]</mark></p>
    <p>Port of Loading : <mark>[port_of_loading]</mark></p>
    <p>Final Destination : <mark>[final_destination]</mark></p>
    <p>Sailing on or about : <mark>[sailing_date]</mark></p>
</div>
<table class="items-table" style="width: 100%; border-collapse: collapse;">
    <thead>
        <tr>
            <th>Marks &amp; Numbers</th><th>Description of Goods</th><th>Q&#39;ty</th><th>Net Weight</th><th>Gross Weight</th><th>Measurement</th>
        </tr>
    </thead>
    <tbody>
        <tr>
            <td><mark>[marks_and_numbers]</mark></td>
            <td><mark>[description]</mark></td>
            <td><mark>[quantity]</mark></td>
            <td><mark>[net_weight]</mark> KG</td>
            <td><mark>[gross_weight]</mark> KG</td>
            <td><mark>[measurement]</mark> CBM</td>
        </tr>
        <tr>
            <td colspan="3" style="font-weight: bold;">Total :</td>
            <td><mark>[total_net_weight]</mark></td>
            <td><mark>[total_gross_weight]</mark></td>
            <td><mark>[total_measurement]</mark></td>
        </tr>
    </tbody>
</table>
<p>Remarks : <mark>[remarks]</mark></p>
`
