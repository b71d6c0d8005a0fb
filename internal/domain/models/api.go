package models

// LoginRequest carries the Google ID token obtained by the web client.
type LoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// LoginResponse returns the app session token and the signed-in identity.
type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AddItemRequest creates a new expense or income row. A blank name is
// tolerated; the engine ignores it and the unchanged workbook is returned.
type AddItemRequest struct {
	Name string `json:"name"`
}

// UpdateItemRequest is a partial line-item edit; omitted fields are untouched.
type UpdateItemRequest struct {
	Name *string  `json:"name"`
	Qty  *float64 `json:"qty"`
	Rate *float64 `json:"rate"`
}

// SetOutTurnRequest updates one output product's out-turn value.
type SetOutTurnRequest struct {
	OutTurn *float64 `json:"out_turn" binding:"required"`
}

// SetRiceBagsRequest updates the processed bag count.
type SetRiceBagsRequest struct {
	RiceBags *int `json:"rice_bags" binding:"required,gte=0"`
}

// WorkbookView is the full draft ledger returned after every read or edit,
// with totals recomputed from the collections.
type WorkbookView struct {
	Expenses []LineItem   `json:"expenses"`
	Incomes  []LineItem   `json:"incomes"`
	Outputs  []OutputItem `json:"outputs"`
	RiceBags int          `json:"rice_bags"`
	Totals   Totals       `json:"totals"`
}

// ReportRow is one table line of the reports view.
type ReportRow struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	TotalExpense float64 `json:"total_expense"`
	TotalIncome  float64 `json:"total_income"`
	GrossCost    float64 `json:"gross_cost"`
	RiceCost     float64 `json:"rice_cost"`
	RiceBags     int     `json:"rice_bags"`
	TotalOutTurn float64 `json:"total_out_turn"`
}

// ReportPage is one page of the reports table, newest record first.
type ReportPage struct {
	Rows       []ReportRow `json:"rows"`
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
}

// ChartPoint is one record projected for the analytics charts, oldest first.
type ChartPoint struct {
	Label        string  `json:"label"`
	TotalExpense float64 `json:"total_expense"`
	TotalIncome  float64 `json:"total_income"`
	RiceBags     int     `json:"rice_bags"`
	TotalOutTurn float64 `json:"total_out_turn"`
}
