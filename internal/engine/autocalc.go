package engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"tradedocs/api/internal/docmodel"
)

// rowFieldPattern matches per-row numeric field ids with an optional
// replicated-row suffix, e.g. quantity, quantity_2, unit_price_3.
var rowFieldPattern = regexp.MustCompile(`^(quantity|unit_price|sub_total_price|ea_box|box|net_weight|gross_weight|measurement)(_\d+)?$`)

var nonNumericPattern = regexp.MustCompile(`[^\d.-]`)

type rowValues struct {
	quantity    float64
	unitPrice   float64
	eaBox       float64
	box         float64
	netWeight   float64
	grossWeight float64
	measurement float64
	subTotal    *docmodel.Node
	order       int
}

// Recalculate recomputes every derived numeric field in the document:
// per-row sub_total_price values and the document totals. Fields grouped into
// rows by their id suffix; a written field always carries auto provenance.
// Returns whether any value changed.
func Recalculate(doc *docmodel.Node) bool {
	rows := map[string]*rowValues{}
	totals := map[string]*docmodel.Node{}
	order := 0

	for _, f := range doc.Fields() {
		switch f.FieldID {
		case "total_quantity", "total_price", "total_ea/box", "total_box",
			"total_net_weight", "total_gross_weight", "total_measurement":
			if _, ok := totals[f.FieldID]; !ok {
				totals[f.FieldID] = f
			}
			continue
		}

		m := rowFieldPattern.FindStringSubmatch(f.FieldID)
		if m == nil {
			continue
		}
		base, suffix := m[1], m[2]
		row, ok := rows[suffix]
		if !ok {
			row = &rowValues{order: order}
			order++
			rows[suffix] = row
		}
		switch base {
		case "quantity":
			row.quantity = numericValue(f)
		case "unit_price":
			row.unitPrice = numericValue(f)
		case "ea_box":
			row.eaBox = numericValue(f)
		case "box":
			row.box = numericValue(f)
		case "net_weight":
			row.netWeight = numericValue(f)
		case "gross_weight":
			row.grossWeight = numericValue(f)
		case "measurement":
			row.measurement = numericValue(f)
		case "sub_total_price":
			if row.subTotal == nil {
				row.subTotal = f
			}
		}
	}

	changed := false
	var sumQuantity, sumPrice, sumEaBox, sumBox float64
	var sumNet, sumGross, sumMeasure float64

	for _, row := range rows {
		subTotal := row.quantity * row.unitPrice
		if row.subTotal != nil {
			if writeValue(row.subTotal, strconv.FormatFloat(subTotal, 'f', 2, 64)) {
				changed = true
			}
		}
		sumQuantity += row.quantity
		sumPrice += subTotal
		sumEaBox += row.eaBox
		sumBox += row.box
		sumNet += row.netWeight
		sumGross += row.grossWeight
		sumMeasure += row.measurement
	}

	formatted := map[string]string{
		"total_quantity":     plainNumber(sumQuantity),
		"total_price":        strconv.FormatFloat(sumPrice, 'f', 2, 64),
		"total_ea/box":       plainNumber(sumEaBox),
		"total_box":          plainNumber(sumBox),
		"total_net_weight":   strconv.FormatFloat(sumNet, 'f', 2, 64) + " KG",
		"total_gross_weight": strconv.FormatFloat(sumGross, 'f', 2, 64) + " KG",
		"total_measurement":  strconv.FormatFloat(sumMeasure, 'f', 3, 64) + " CBM",
	}
	for id, node := range totals {
		if writeValue(node, formatted[id]) {
			changed = true
		}
	}
	return changed
}

// numericValue parses a field's content as a float. Placeholders and
// non-numeric content count as zero.
func numericValue(f *docmodel.Node) float64 {
	if f.IsPlaceholder() {
		return 0
	}
	cleaned := nonNumericPattern.ReplaceAllString(f.TextContent(), "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// plainNumber renders a float without trailing zeros, matching how whole
// quantities are displayed ("5" rather than "5.00").
func plainNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeValue(f *docmodel.Node, value string) bool {
	if strings.TrimSpace(f.TextContent()) == value {
		return false
	}
	f.SetText(value)
	f.Prov = docmodel.ProvAuto
	return true
}
