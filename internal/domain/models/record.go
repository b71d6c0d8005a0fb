package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MillRecord is one saved ledger snapshot. Records are written once and never
// updated or deleted; the totals are recomputed from the collections at save
// time rather than trusted from the client.
type MillRecord struct {
	Expenses []LineItem   `bson:"expenses" json:"expenses"`
	Incomes  []LineItem   `bson:"incomes" json:"incomes"`
	Outputs  []OutputItem `bson:"outputs" json:"outputs"`
	RiceBags int          `bson:"rice_bags" json:"rice_bags"`

	Totals `bson:",inline"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// StoredRecord pairs a persisted record with its document id.
type StoredRecord struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	MillRecord `bson:",inline"`
}

// DailyDigest is the aggregated view of one day's saved records, written by
// the scheduler.
type DailyDigest struct {
	Date         time.Time `bson:"date" json:"date"`
	Records      int       `bson:"records" json:"records"`
	TotalExpense float64   `bson:"total_expense" json:"total_expense"`
	TotalIncome  float64   `bson:"total_income" json:"total_income"`
	GrossCost    float64   `bson:"gross_cost" json:"gross_cost"`
	RiceBags     int       `bson:"rice_bags" json:"rice_bags"`
	AvgRiceCost  float64   `bson:"avg_rice_cost" json:"avg_rice_cost"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
