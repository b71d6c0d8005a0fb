package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/domain/models"
	"github.com/mamadbah2/ricemill/internal/repository/mongodb"
)

// PageSize is the number of rows per reports page.
const PageSize = 20

// Service builds the windowed report and analytics views over stored records.
type Service struct {
	repo   mongodb.Repository
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(repo mongodb.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// TableView returns one page of the reports table, newest record first.
func (s *Service) TableView(ctx context.Context, w Window, page int, now time.Time) (*models.ReportPage, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load mill records: %w", err)
	}

	filtered := FilterByWindow(records, w, now)
	pageItems, totalPages := Paginate(ReverseForTable(filtered), page, PageSize)

	rows := make([]models.ReportRow, 0, len(pageItems))
	for _, r := range pageItems {
		rows = append(rows, models.ReportRow{
			ID:           r.ID.Hex(),
			Label:        Label(r.CreatedAt),
			TotalExpense: r.TotalExpense,
			TotalIncome:  r.TotalIncome,
			GrossCost:    r.GrossCost,
			RiceCost:     r.RiceCost,
			RiceBags:     r.RiceBags,
			TotalOutTurn: r.TotalOutTurn,
		})
	}

	return &models.ReportPage{
		Rows:       rows,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// ChartSeries returns the filtered records oldest first, labeled for the
// analytics charts. Income vs expense, rice bags and out-turn are all plotted
// from this one set.
func (s *Service) ChartSeries(ctx context.Context, w Window, now time.Time) ([]models.ChartPoint, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load mill records: %w", err)
	}

	ordered := SortChronological(FilterByWindow(records, w, now))

	points := make([]models.ChartPoint, 0, len(ordered))
	for _, r := range ordered {
		points = append(points, models.ChartPoint{
			Label:        Label(r.CreatedAt),
			TotalExpense: r.TotalExpense,
			TotalIncome:  r.TotalIncome,
			RiceBags:     r.RiceBags,
			TotalOutTurn: r.TotalOutTurn,
		})
	}

	return points, nil
}

// BuildDailyDigest aggregates the records created on the given day.
func (s *Service) BuildDailyDigest(ctx context.Context, day time.Time) (*models.DailyDigest, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load mill records: %w", err)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	digest := &models.DailyDigest{Date: start}
	for _, r := range records {
		if r.CreatedAt.Before(start) || !r.CreatedAt.Before(end) {
			continue
		}
		digest.Records++
		digest.TotalExpense += r.TotalExpense
		digest.TotalIncome += r.TotalIncome
		digest.GrossCost += r.GrossCost
		digest.RiceBags += r.RiceBags
		digest.AvgRiceCost += r.RiceCost
	}

	if digest.Records > 0 {
		digest.AvgRiceCost /= float64(digest.Records)
	}

	return digest, nil
}
