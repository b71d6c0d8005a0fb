package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/ricemill/internal/domain/models"
)

type fakeRepo struct {
	saved   []models.MillRecord
	saveErr error
}

func (f *fakeRepo) SaveRecord(ctx context.Context, record models.MillRecord) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.saved = append(f.saved, record)
	return primitive.NewObjectID().Hex(), nil
}

func (f *fakeRepo) ListRecords(ctx context.Context) ([]models.StoredRecord, error) {
	return nil, nil
}

func (f *fakeRepo) SaveDigest(ctx context.Context, digest models.DailyDigest) error {
	return nil
}

type fakeMirror struct {
	appended int
	err      error
}

func (f *fakeMirror) AppendRecord(ctx context.Context, record models.MillRecord) error {
	if f.err != nil {
		return f.err
	}
	f.appended++
	return nil
}

func sampleView() models.WorkbookView {
	return models.WorkbookView{
		Expenses: []models.LineItem{{ID: "1", Name: "Paddy", Qty: 100, Rate: 20, Amount: 2000}},
		Incomes:  []models.LineItem{{ID: "2", Name: "Bran", Qty: 10, Rate: 5, Amount: 50}},
		Outputs:  []models.OutputItem{{Product: "Rice", OutTurn: 65}},
		RiceBags: 50,
		// Stale cached totals that must be ignored at save time.
		Totals: models.Totals{TotalExpense: 1, TotalIncome: 1, GrossCost: 1, RiceCost: 1, TotalOutTurn: 1},
	}
}

func TestSaveRecomputesTotalsFromCollections(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil, nil)

	id, record, err := svc.Save(context.Background(), "miller@example.com", sampleView())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected a record id")
	}

	if record.TotalExpense != 2000 || record.TotalIncome != 50 {
		t.Fatalf("totals must be rebuilt from the collections, got %+v", record.Totals)
	}
	if record.GrossCost != -1950 || record.RiceCost != -39.0 {
		t.Fatalf("unexpected derived costs %+v", record.Totals)
	}
	if record.TotalOutTurn != 65 {
		t.Fatalf("expected out-turn 65, got %v", record.TotalOutTurn)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected one persisted record, got %d", len(repo.saved))
	}
}

func TestSaveStampsCreationTime(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil, nil)
	fixed := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	_, record, err := svc.Save(context.Background(), "miller@example.com", sampleView())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !record.CreatedAt.Equal(fixed) {
		t.Fatalf("expected creation time %v, got %v", fixed, record.CreatedAt)
	}
}

func TestSaveSurfacesGatewayFailure(t *testing.T) {
	repo := &fakeRepo{saveErr: errors.New("gateway down")}
	svc := NewService(repo, nil, nil)

	if _, _, err := svc.Save(context.Background(), "miller@example.com", sampleView()); err == nil {
		t.Fatal("persistence failures must be surfaced")
	}
}

func TestSaveRejectsNegativeBags(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil, nil)

	view := sampleView()
	view.RiceBags = -1
	if _, _, err := svc.Save(context.Background(), "miller@example.com", view); !errors.Is(err, ErrNegativeRiceBags) {
		t.Fatalf("expected ErrNegativeRiceBags, got %v", err)
	}
	if len(repo.saved) != 0 {
		t.Fatal("nothing should be persisted on validation failure")
	}
}

func TestSaveMirrorsWhenConfigured(t *testing.T) {
	repo := &fakeRepo{}
	mirror := &fakeMirror{}
	svc := NewService(repo, mirror, nil)

	if _, _, err := svc.Save(context.Background(), "miller@example.com", sampleView()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mirror.appended != 1 {
		t.Fatalf("expected one mirrored row, got %d", mirror.appended)
	}
}

func TestSaveMirrorFailureIsNotFatal(t *testing.T) {
	repo := &fakeRepo{}
	mirror := &fakeMirror{err: errors.New("sheet unavailable")}
	svc := NewService(repo, mirror, nil)

	if _, _, err := svc.Save(context.Background(), "miller@example.com", sampleView()); err != nil {
		t.Fatalf("mirror failure must not fail the save, got %v", err)
	}
	if len(repo.saved) != 1 {
		t.Fatal("record must still be persisted")
	}
}
