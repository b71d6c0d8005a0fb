package workbook

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/domain/models"
)

// ItemKind selects which line-item collection an operation targets.
type ItemKind string

const (
	KindExpense ItemKind = "expenses"
	KindIncome  ItemKind = "incomes"
)

// ParseItemKind maps a path segment to an ItemKind.
func ParseItemKind(raw string) (ItemKind, bool) {
	switch ItemKind(raw) {
	case KindExpense:
		return KindExpense, true
	case KindIncome:
		return KindIncome, true
	}
	return "", false
}

// workbook is one user's draft ledger. Each user is the only writer of their
// own workbook; the service mutex guards the map and the entries.
type workbook struct {
	expenses []models.LineItem
	incomes  []models.LineItem
	outputs  []models.OutputItem
	riceBags int
}

// Service manages per-user draft ledgers. All mutations are synchronous and
// in-memory; totals are recomputed from the collections on every view.
type Service struct {
	workbooks map[string]*workbook
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewService creates a new workbook session service.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		workbooks: make(map[string]*workbook),
		logger:    logger,
	}
}

// defaultWorkbook seeds the mill's usual cost heads and by-products.
func defaultWorkbook() *workbook {
	wb := &workbook{}
	for _, name := range []string{"Paddy", "Mill Labour", "Other Expenses"} {
		wb.expenses = models.AddItem(wb.expenses, name)
	}
	for _, name := range []string{"Bran", "Broken Rice", "Black Rice", "Silky Bran", "Small Broken Rice", "Pather", "Extra"} {
		wb.incomes = models.AddItem(wb.incomes, name)
	}
	for _, product := range []string{"Rice", "Broken", "Black Rice", "Husk"} {
		wb.outputs = append(wb.outputs, models.OutputItem{Product: product})
	}
	return wb
}

func (s *Service) get(user string) *workbook {
	if wb, exists := s.workbooks[user]; exists {
		return wb
	}
	wb := defaultWorkbook()
	s.workbooks[user] = wb
	return wb
}

func (wb *workbook) view() models.WorkbookView {
	return models.WorkbookView{
		Expenses: wb.expenses,
		Incomes:  wb.incomes,
		Outputs:  wb.outputs,
		RiceBags: wb.riceBags,
		Totals:   models.ComputeTotals(wb.expenses, wb.incomes, wb.outputs, wb.riceBags),
	}
}

// Get returns the user's current draft ledger, seeding defaults on first use.
func (s *Service) Get(user string) models.WorkbookView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(user).view()
}

// AddItem appends a named line item to the selected collection. A blank name
// leaves the workbook unchanged.
func (s *Service) AddItem(user string, kind ItemKind, name string) models.WorkbookView {
	s.mu.Lock()
	defer s.mu.Unlock()

	wb := s.get(user)
	switch kind {
	case KindExpense:
		wb.expenses = models.AddItem(wb.expenses, name)
	case KindIncome:
		wb.incomes = models.AddItem(wb.incomes, name)
	}
	return wb.view()
}

// UpdateItem applies a partial edit to the matching line item. Unknown ids
// leave the workbook unchanged.
func (s *Service) UpdateItem(user string, kind ItemKind, id string, patch models.ItemPatch) models.WorkbookView {
	s.mu.Lock()
	defer s.mu.Unlock()

	wb := s.get(user)
	switch kind {
	case KindExpense:
		wb.expenses = models.UpdateItem(wb.expenses, id, patch)
	case KindIncome:
		wb.incomes = models.UpdateItem(wb.incomes, id, patch)
	}
	return wb.view()
}

// RemoveItem deletes the matching line item. Unknown ids leave the workbook
// unchanged.
func (s *Service) RemoveItem(user string, kind ItemKind, id string) models.WorkbookView {
	s.mu.Lock()
	defer s.mu.Unlock()

	wb := s.get(user)
	switch kind {
	case KindExpense:
		wb.expenses = models.RemoveItem(wb.expenses, id)
	case KindIncome:
		wb.incomes = models.RemoveItem(wb.incomes, id)
	}
	return wb.view()
}

// SetOutTurn updates the out-turn of the named output product.
func (s *Service) SetOutTurn(user string, product string, value float64) models.WorkbookView {
	s.mu.Lock()
	defer s.mu.Unlock()

	wb := s.get(user)
	wb.outputs = models.SetOutTurn(wb.outputs, product, value)
	return wb.view()
}

// SetRiceBags updates the processed bag count.
func (s *Service) SetRiceBags(user string, bags int) models.WorkbookView {
	s.mu.Lock()
	defer s.mu.Unlock()

	wb := s.get(user)
	wb.riceBags = bags
	return wb.view()
}

// Reset discards the user's draft and reseeds the defaults.
func (s *Service) Reset(user string) models.WorkbookView {
	s.mu.Lock()
	defer s.mu.Unlock()

	wb := defaultWorkbook()
	s.workbooks[user] = wb
	s.logger.Debug("workbook reset", zap.String("user", user))
	return wb.view()
}
