package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/domain/models"
	recordsvc "github.com/mamadbah2/ricemill/internal/service/records"
	reportingsvc "github.com/mamadbah2/ricemill/internal/service/reporting"
	workbooksvc "github.com/mamadbah2/ricemill/internal/service/workbook"
)

// UserKey is the gin context key under which the auth middleware stores the
// signed-in user's email.
const UserKey = "user"

// LedgerHandler handles the workbook, record and reporting HTTP surface.
type LedgerHandler struct {
	workbooks *workbooksvc.Service
	records   *recordsvc.Service
	reporting *reportingsvc.Service
	logger    *zap.Logger
	now       func() time.Time
}

// NewLedgerHandler constructs the HTTP handler adapter.
func NewLedgerHandler(workbooks *workbooksvc.Service, records *recordsvc.Service, reporting *reportingsvc.Service, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{
		workbooks: workbooks,
		records:   records,
		reporting: reporting,
		logger:    logger,
		now:       time.Now,
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(UserKey)
}

// GetWorkbook returns the caller's draft ledger with freshly derived totals.
func (h *LedgerHandler) GetWorkbook(c *gin.Context) {
	c.JSON(http.StatusOK, h.workbooks.Get(currentUser(c)))
}

// AddItem appends a new expense or income row. Blank names are tolerated as
// no-ops and still answer with the unchanged workbook.
func (h *LedgerHandler) AddItem(c *gin.Context) {
	kind, ok := workbooksvc.ParseItemKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown item kind"})
		return
	}

	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid add item payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, h.workbooks.AddItem(currentUser(c), kind, req.Name))
}

// UpdateItem applies a partial edit to one row. Edits to ids that were
// deleted underneath the client are tolerated as no-ops.
func (h *LedgerHandler) UpdateItem(c *gin.Context) {
	kind, ok := workbooksvc.ParseItemKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown item kind"})
		return
	}

	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update item payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	patch := models.ItemPatch{Name: req.Name, Qty: req.Qty, Rate: req.Rate}
	c.JSON(http.StatusOK, h.workbooks.UpdateItem(currentUser(c), kind, c.Param("id"), patch))
}

// RemoveItem deletes one row; absent ids are tolerated as no-ops.
func (h *LedgerHandler) RemoveItem(c *gin.Context) {
	kind, ok := workbooksvc.ParseItemKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown item kind"})
		return
	}

	c.JSON(http.StatusOK, h.workbooks.RemoveItem(currentUser(c), kind, c.Param("id")))
}

// SetOutTurn updates one output product's out-turn value.
func (h *LedgerHandler) SetOutTurn(c *gin.Context) {
	var req models.SetOutTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid out-turn payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, h.workbooks.SetOutTurn(currentUser(c), c.Param("product"), *req.OutTurn))
}

// SetRiceBags updates the processed bag count.
func (h *LedgerHandler) SetRiceBags(c *gin.Context) {
	var req models.SetRiceBagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid rice bags payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, h.workbooks.SetRiceBags(currentUser(c), *req.RiceBags))
}

// ResetWorkbook discards the draft and reseeds the default items.
func (h *LedgerHandler) ResetWorkbook(c *gin.Context) {
	c.JSON(http.StatusOK, h.workbooks.Reset(currentUser(c)))
}

// SaveRecord snapshots the caller's workbook into an immutable stored record.
// The draft is kept as-is so a failed save can be retried without re-entry.
func (h *LedgerHandler) SaveRecord(c *gin.Context) {
	user := currentUser(c)
	view := h.workbooks.Get(user)

	id, record, err := h.records.Save(c.Request.Context(), user, view)
	if err != nil {
		h.logger.Error("failed saving mill record", zap.String("user", user), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to save record"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "record": record})
}

// Reports returns one page of the windowed report table.
func (h *LedgerHandler) Reports(c *gin.Context) {
	window, err := reportingsvc.ParseWindow(c.DefaultQuery("window", string(reportingsvc.WindowLast30)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}

	view, err := h.reporting.TableView(c.Request.Context(), window, page, h.now())
	if err != nil {
		h.logger.Error("failed building report page", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load records"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// Analytics returns the windowed chart series, oldest record first.
func (h *LedgerHandler) Analytics(c *gin.Context) {
	window, err := reportingsvc.ParseWindow(c.DefaultQuery("window", string(reportingsvc.WindowLast30)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	points, err := h.reporting.ChartSeries(c.Request.Context(), window, h.now())
	if err != nil {
		h.logger.Error("failed building chart series", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": points})
}
