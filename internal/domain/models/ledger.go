package models

import (
	"strings"

	"github.com/google/uuid"
)

// LineItem is one named expense or income row of the working ledger.
type LineItem struct {
	ID     string  `bson:"id" json:"id"`
	Name   string  `bson:"name" json:"name"`
	Qty    float64 `bson:"qty" json:"qty"`
	Rate   float64 `bson:"rate" json:"rate"`
	Amount float64 `bson:"amount" json:"amount"` // Always Qty * Rate
}

// OutputItem records the out-turn contribution of one mill by-product.
type OutputItem struct {
	Product string  `bson:"product" json:"product"`
	OutTurn float64 `bson:"out_turn" json:"out_turn"`
}

// Totals holds the derived summary of one ledger.
type Totals struct {
	TotalExpense float64 `bson:"total_expense" json:"total_expense"`
	TotalIncome  float64 `bson:"total_income" json:"total_income"`
	GrossCost    float64 `bson:"gross_cost" json:"gross_cost"`
	RiceCost     float64 `bson:"rice_cost" json:"rice_cost"`
	TotalOutTurn float64 `bson:"total_out_turn" json:"total_out_turn"`
}

// ItemPatch carries a partial line-item edit. Nil fields are untouched.
type ItemPatch struct {
	Name *string
	Qty  *float64
	Rate *float64
}

// AddItem appends a zeroed line item with a fresh id. A blank name is a
// silent no-op; empty-named items are never created.
func AddItem(items []LineItem, name string) []LineItem {
	if strings.TrimSpace(name) == "" {
		return items
	}
	return append(items, LineItem{ID: uuid.NewString(), Name: name})
}

// UpdateItem applies the patch to the item matching id. A qty or rate edit
// recomputes Amount in the same update so the derived field never lags the
// edit that caused it. An unknown id is a silent no-op; deletions can race
// in-flight edits and that is harmless.
func UpdateItem(items []LineItem, id string, patch ItemPatch) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)

	for i := range out {
		if out[i].ID != id {
			continue
		}
		if patch.Name != nil {
			out[i].Name = *patch.Name
		}
		if patch.Qty != nil {
			out[i].Qty = *patch.Qty
		}
		if patch.Rate != nil {
			out[i].Rate = *patch.Rate
		}
		if patch.Qty != nil || patch.Rate != nil {
			out[i].Amount = out[i].Qty * out[i].Rate
		}
		break
	}

	return out
}

// RemoveItem drops the item matching id, keeping the order of the rest.
// An unknown id is a silent no-op.
func RemoveItem(items []LineItem, id string) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.ID == id {
			continue
		}
		out = append(out, item)
	}
	return out
}

// SetOutTurn updates the out-turn value of the named product. An unknown
// product is a silent no-op.
func SetOutTurn(outputs []OutputItem, product string, value float64) []OutputItem {
	out := make([]OutputItem, len(outputs))
	copy(out, outputs)

	for i := range out {
		if out[i].Product == product {
			out[i].OutTurn = value
			break
		}
	}

	return out
}

// ComputeTotals derives the ledger summary from the full collections. It is
// always a from-scratch recompute; items may be added, edited, or removed in
// any order and the totals must never drift from their sources.
func ComputeTotals(expenses, incomes []LineItem, outputs []OutputItem, riceBags int) Totals {
	var t Totals

	for _, item := range expenses {
		t.TotalExpense += item.Amount
	}
	for _, item := range incomes {
		t.TotalIncome += item.Amount
	}
	for _, output := range outputs {
		t.TotalOutTurn += output.OutTurn
	}

	t.GrossCost = t.TotalIncome - t.TotalExpense
	if riceBags > 0 {
		t.RiceCost = t.GrossCost / float64(riceBags)
	}

	return t
}
