package records

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/domain/models"
	"github.com/mamadbah2/ricemill/internal/repository/mongodb"
	"github.com/mamadbah2/ricemill/internal/repository/sheets"
)

// ErrNegativeRiceBags indicates a save attempt with a negative bag count.
var ErrNegativeRiceBags = errors.New("rice bags must not be negative")

// Service finalizes draft ledgers into immutable stored records.
type Service struct {
	repo   mongodb.Repository
	mirror sheets.Mirror
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a record service. The mirror may be nil when the
// spreadsheet backup is not configured.
func NewService(repo mongodb.Repository, mirror sheets.Mirror, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		mirror: mirror,
		logger: logger,
		now:    time.Now,
	}
}

// Save snapshots the draft ledger into a stored record. The five derived
// totals are rebuilt from the collections here; totals carried in the view
// may be stale and are never trusted. The caller's draft is left untouched
// on both success and failure so a failed save can simply be retried.
func (s *Service) Save(ctx context.Context, user string, view models.WorkbookView) (string, *models.MillRecord, error) {
	if view.RiceBags < 0 {
		return "", nil, ErrNegativeRiceBags
	}

	record := models.MillRecord{
		Expenses:  view.Expenses,
		Incomes:   view.Incomes,
		Outputs:   view.Outputs,
		RiceBags:  view.RiceBags,
		Totals:    models.ComputeTotals(view.Expenses, view.Incomes, view.Outputs, view.RiceBags),
		CreatedAt: s.now().UTC(),
	}

	id, err := s.repo.SaveRecord(ctx, record)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("mill record saved",
		zap.String("user", user),
		zap.String("record_id", id),
		zap.Float64("gross_cost", record.GrossCost),
		zap.Int("rice_bags", record.RiceBags))

	if s.mirror != nil {
		// The mirror is a best-effort backup; the record is already durable.
		if err := s.mirror.AppendRecord(ctx, record); err != nil {
			s.logger.Error("failed mirroring record to sheet", zap.String("record_id", id), zap.Error(err))
		}
	}

	return id, &record, nil
}
