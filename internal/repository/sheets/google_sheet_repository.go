package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/ricemill/internal/config"
	"github.com/mamadbah2/ricemill/internal/domain/models"
)

const recordsRange = "Records!A:H"

// Mirror defines the optional spreadsheet backup of saved ledger records.
type Mirror interface {
	AppendRecord(ctx context.Context, record models.MillRecord) error
}

// GoogleSheetRepository implements the Mirror interface using the official
// Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed mirror instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Mirror, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendRecord appends one summary row for the saved record.
func (r *GoogleSheetRepository) AppendRecord(ctx context.Context, record models.MillRecord) error {
	row := []interface{}{
		record.CreatedAt.Format("2006-01-02 15:04:05"),
		record.TotalExpense,
		record.TotalIncome,
		record.GrossCost,
		record.RiceCost,
		record.RiceBags,
		record.TotalOutTurn,
		len(record.Expenses) + len(record.Incomes),
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{row}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, recordsRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append record row into range %s: %w", recordsRange, err)
	}

	r.logger.Debug("record mirrored to sheet", zap.Time("created_at", record.CreatedAt))
	return nil
}
