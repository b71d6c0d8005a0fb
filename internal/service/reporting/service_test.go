package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/ricemill/internal/domain/models"
)

type fakeRepo struct {
	records []models.StoredRecord
	listErr error
	digests []models.DailyDigest
}

func (f *fakeRepo) SaveRecord(ctx context.Context, record models.MillRecord) (string, error) {
	f.records = append(f.records, models.StoredRecord{ID: primitive.NewObjectID(), MillRecord: record})
	return f.records[len(f.records)-1].ID.Hex(), nil
}

func (f *fakeRepo) ListRecords(ctx context.Context) ([]models.StoredRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func (f *fakeRepo) SaveDigest(ctx context.Context, digest models.DailyDigest) error {
	f.digests = append(f.digests, digest)
	return nil
}

func storedAt(t time.Time, expense, income float64, bags int) models.StoredRecord {
	return models.StoredRecord{
		ID: primitive.NewObjectID(),
		MillRecord: models.MillRecord{
			RiceBags:  bags,
			CreatedAt: t,
			Totals: models.Totals{
				TotalExpense: expense,
				TotalIncome:  income,
				GrossCost:    income - expense,
			},
		},
	}
}

func TestTableViewNewestFirst(t *testing.T) {
	now := day(2024, time.March, 15)
	repo := &fakeRepo{records: []models.StoredRecord{
		storedAt(day(2024, time.March, 10), 100, 50, 5),
		storedAt(day(2024, time.March, 14), 200, 80, 8),
		storedAt(day(2024, time.January, 1), 999, 999, 1),
	}}

	svc := NewService(repo, nil)
	page, err := svc.TableView(context.Background(), WindowLast30, 1, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.TotalPages != 1 || len(page.Rows) != 2 {
		t.Fatalf("expected one page of 2 rows, got %d rows over %d pages", len(page.Rows), page.TotalPages)
	}
	if page.Rows[0].Label != "Mar 14" || page.Rows[1].Label != "Mar 10" {
		t.Fatalf("table must be newest first, got %q then %q", page.Rows[0].Label, page.Rows[1].Label)
	}
	if page.Rows[0].GrossCost != -120 {
		t.Fatalf("expected gross cost -120, got %v", page.Rows[0].GrossCost)
	}
}

func TestChartSeriesOldestFirst(t *testing.T) {
	now := day(2024, time.March, 15)
	repo := &fakeRepo{records: []models.StoredRecord{
		storedAt(day(2024, time.March, 14), 200, 80, 8),
		storedAt(day(2024, time.March, 10), 100, 50, 5),
	}}

	svc := NewService(repo, nil)
	points, err := svc.ChartSeries(context.Background(), WindowLast30, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Label != "Mar 10" || points[1].Label != "Mar 14" {
		t.Fatalf("charts must be oldest first, got %q then %q", points[0].Label, points[1].Label)
	}
}

func TestTableViewPropagatesFetchError(t *testing.T) {
	repo := &fakeRepo{listErr: errors.New("gateway down")}
	svc := NewService(repo, nil)

	if _, err := svc.TableView(context.Background(), WindowLast30, 1, time.Now()); err == nil {
		t.Fatal("fetch failures must be surfaced, not swallowed")
	}
	if _, err := svc.ChartSeries(context.Background(), WindowLast30, time.Now()); err == nil {
		t.Fatal("fetch failures must be surfaced, not swallowed")
	}
}

func TestBuildDailyDigest(t *testing.T) {
	today := day(2024, time.March, 15)
	repo := &fakeRepo{records: []models.StoredRecord{
		storedAt(today.Add(-2*time.Hour), 100, 40, 4),
		storedAt(today.Add(3*time.Hour), 50, 10, 2),
		storedAt(day(2024, time.March, 14), 999, 999, 9),
	}}
	repo.records[0].RiceCost = -15
	repo.records[1].RiceCost = -20

	svc := NewService(repo, nil)
	digest, err := svc.BuildDailyDigest(context.Background(), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if digest.Records != 2 {
		t.Fatalf("expected 2 records in digest, got %d", digest.Records)
	}
	if digest.TotalExpense != 150 || digest.TotalIncome != 50 {
		t.Fatalf("unexpected digest sums: %+v", digest)
	}
	if digest.RiceBags != 6 {
		t.Fatalf("expected 6 bags, got %d", digest.RiceBags)
	}
	if digest.AvgRiceCost != -17.5 {
		t.Fatalf("expected avg rice cost -17.5, got %v", digest.AvgRiceCost)
	}
}
