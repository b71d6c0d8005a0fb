package workbook

import (
	"testing"

	"github.com/mamadbah2/ricemill/internal/domain/models"
)

func f64(v float64) *float64 { return &v }

func TestGetSeedsDefaults(t *testing.T) {
	svc := NewService(nil)
	view := svc.Get("miller@example.com")

	if len(view.Expenses) != 3 {
		t.Fatalf("expected 3 default expenses, got %d", len(view.Expenses))
	}
	if view.Expenses[0].Name != "Paddy" {
		t.Fatalf("expected Paddy first, got %q", view.Expenses[0].Name)
	}
	if len(view.Incomes) != 7 {
		t.Fatalf("expected 7 default incomes, got %d", len(view.Incomes))
	}
	if len(view.Outputs) != 4 {
		t.Fatalf("expected 4 default outputs, got %d", len(view.Outputs))
	}
	if view.Totals != (models.Totals{}) {
		t.Fatalf("fresh workbook must have zero totals, got %+v", view.Totals)
	}
}

func TestWorkbooksAreIndependentPerUser(t *testing.T) {
	svc := NewService(nil)
	svc.SetRiceBags("a@example.com", 50)

	if view := svc.Get("b@example.com"); view.RiceBags != 0 {
		t.Fatalf("users must not share workbooks, got %d bags", view.RiceBags)
	}
}

func TestEditFlowRecomputesTotals(t *testing.T) {
	svc := NewService(nil)
	user := "miller@example.com"

	view := svc.Get(user)
	paddy := view.Expenses[0].ID
	bran := view.Incomes[0].ID

	svc.UpdateItem(user, KindExpense, paddy, models.ItemPatch{Qty: f64(100), Rate: f64(20)})
	svc.UpdateItem(user, KindIncome, bran, models.ItemPatch{Qty: f64(10), Rate: f64(5)})
	view = svc.SetRiceBags(user, 50)

	if view.Totals.TotalExpense != 2000 || view.Totals.TotalIncome != 50 {
		t.Fatalf("unexpected totals %+v", view.Totals)
	}
	if view.Totals.GrossCost != -1950 || view.Totals.RiceCost != -39.0 {
		t.Fatalf("unexpected derived costs %+v", view.Totals)
	}
}

func TestAddAndRemoveItems(t *testing.T) {
	svc := NewService(nil)
	user := "miller@example.com"

	view := svc.AddItem(user, KindExpense, "Transport")
	if len(view.Expenses) != 4 || view.Expenses[3].Name != "Transport" {
		t.Fatalf("expected Transport appended, got %+v", view.Expenses)
	}

	view = svc.AddItem(user, KindExpense, "  ")
	if len(view.Expenses) != 4 {
		t.Fatal("blank names must not create items")
	}

	view = svc.RemoveItem(user, KindExpense, view.Expenses[3].ID)
	if len(view.Expenses) != 3 {
		t.Fatalf("expected 3 expenses after removal, got %d", len(view.Expenses))
	}

	view = svc.RemoveItem(user, KindExpense, "missing")
	if len(view.Expenses) != 3 {
		t.Fatal("removing a missing id must change nothing")
	}
}

func TestDeleteThenEditRace(t *testing.T) {
	svc := NewService(nil)
	user := "miller@example.com"

	view := svc.Get(user)
	id := view.Expenses[0].ID
	svc.RemoveItem(user, KindExpense, id)

	// The in-flight edit lands after the delete; it must be harmless.
	view = svc.UpdateItem(user, KindExpense, id, models.ItemPatch{Qty: f64(10)})
	if len(view.Expenses) != 2 {
		t.Fatalf("stale edit must not resurrect or break anything, got %d expenses", len(view.Expenses))
	}
}

func TestSetOutTurn(t *testing.T) {
	svc := NewService(nil)
	user := "miller@example.com"

	view := svc.SetOutTurn(user, "Rice", 60)
	view = svc.SetOutTurn(user, "Husk", 22.5)
	if view.Totals.TotalOutTurn != 82.5 {
		t.Fatalf("expected total out-turn 82.5, got %v", view.Totals.TotalOutTurn)
	}

	view = svc.SetOutTurn(user, "Gold", 5)
	if view.Totals.TotalOutTurn != 82.5 {
		t.Fatal("unknown product must change nothing")
	}
}

func TestReset(t *testing.T) {
	svc := NewService(nil)
	user := "miller@example.com"

	svc.SetRiceBags(user, 50)
	svc.AddItem(user, KindIncome, "Extra Bran")

	view := svc.Reset(user)
	if view.RiceBags != 0 || len(view.Incomes) != 7 {
		t.Fatalf("reset must reseed defaults, got %d bags, %d incomes", view.RiceBags, len(view.Incomes))
	}
}

func TestParseItemKind(t *testing.T) {
	if _, ok := ParseItemKind("expenses"); !ok {
		t.Fatal("expenses should parse")
	}
	if _, ok := ParseItemKind("incomes"); !ok {
		t.Fatal("incomes should parse")
	}
	if _, ok := ParseItemKind("outputs"); ok {
		t.Fatal("outputs is not a line-item kind")
	}
}
