package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/salespulse/internal/domain/dto"
	"github.com/guttosm/salespulse/internal/service"
)

// Seeder is the part of the ingestion layer the HTTP handlers need.
type Seeder interface {
	Reseed(ctx context.Context) (int, error)
	FetchRaw(ctx context.Context) (json.RawMessage, error)
}

// Handler provides HTTP handlers for the dashboard endpoints.
//
// Responsibilities:
//   - Bind and validate filter query parameters
//   - Call the aggregation service or the seeder
//   - Attach failures with c.Error so middleware.ErrorHandler renders them
type Handler struct {
	svc    service.AggregateService
	seeder Seeder
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.AggregateService, seeder Seeder) *Handler {
	useFormTagNames()
	return &Handler{svc: svc, seeder: seeder}
}

// fail attaches err for middleware.ErrorHandler with a summary message.
func fail(c *gin.Context, message string, err error) {
	_ = c.Error(err).SetMeta(message)
	c.Abort()
}

// Init godoc
// @Summary      Reseed the database
// @Description  Fetches the external feed and replaces every stored transaction with it
// @Tags         seed
// @Produce      json
// @Success      200  {object}  dto.InitResponse
// @Failure      500  {object}  dto.ErrorResponse  "Storage failure"
// @Failure      502  {object}  dto.ErrorResponse  "Feed unreachable"
// @Router       /api/init [get]
func (h *Handler) Init(c *gin.Context) {
	n, err := h.seeder.Reseed(c.Request.Context())
	if err != nil {
		fail(c, "failed to seed database", err)
		return
	}
	c.JSON(http.StatusOK, dto.InitResponse{Message: "Database seeded", Count: n})
}

// Combined godoc
// @Summary      Dashboard snapshot
// @Description  Returns the page of transactions, total, statistics, price histogram and category counts for one filter
// @Tags         transactions
// @Produce      json
// @Param        month    query     int     false  "Month 1-12, 0 or omitted for all"  minimum(0) maximum(12)
// @Param        search   query     string  false  "Substring of title, description or price"
// @Param        page     query     int     false  "1-based page"  minimum(1) default(1)
// @Param        perPage  query     int     false  "Page size"     minimum(1) maximum(100) default(10)
// @Param        offset   query     int     false  "Explicit row offset, overrides page"  minimum(0)
// @Success      200      {object}  models.Snapshot
// @Failure      400      {object}  dto.ErrorResponse  "Invalid filter"
// @Failure      500      {object}  dto.ErrorResponse  "Storage failure"
// @Router       /api/combined [get]
func (h *Handler) Combined(c *gin.Context) {
	f, err := bindFilter(c)
	if err != nil {
		fail(c, "invalid filter", err)
		return
	}
	snap, err := h.svc.GetSnapshot(c.Request.Context(), f)
	if err != nil {
		fail(c, "failed to fetch combined data", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Transactions godoc
// @Summary      List transactions
// @Description  Returns one page of matching transactions ordered by id, plus the total match count
// @Tags         transactions
// @Produce      json
// @Param        month    query     int     false  "Month 1-12, 0 or omitted for all"  minimum(0) maximum(12)
// @Param        search   query     string  false  "Substring of title, description or price"
// @Param        page     query     int     false  "1-based page"  minimum(1) default(1)
// @Param        perPage  query     int     false  "Page size"     minimum(1) maximum(100) default(10)
// @Param        offset   query     int     false  "Explicit row offset, overrides page"  minimum(0)
// @Success      200      {object}  models.TransactionPage
// @Failure      400      {object}  dto.ErrorResponse  "Invalid filter"
// @Failure      500      {object}  dto.ErrorResponse  "Storage failure"
// @Router       /api/transactions [get]
func (h *Handler) Transactions(c *gin.Context) {
	f, err := bindFilter(c)
	if err != nil {
		fail(c, "invalid filter", err)
		return
	}
	page, err := h.svc.ListTransactions(c.Request.Context(), f)
	if err != nil {
		fail(c, "failed to fetch transactions", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Statistics godoc
// @Summary      Sales statistics
// @Tags         charts
// @Produce      json
// @Param        month   query     int     false  "Month 1-12, 0 or omitted for all"  minimum(0) maximum(12)
// @Param        search  query     string  false  "Substring of title, description or price"
// @Success      200     {object}  models.SalesStatistics
// @Failure      400     {object}  dto.ErrorResponse  "Invalid filter"
// @Failure      500     {object}  dto.ErrorResponse  "Storage failure"
// @Router       /api/statistics [get]
func (h *Handler) Statistics(c *gin.Context) {
	f, err := bindFilter(c)
	if err != nil {
		fail(c, "invalid filter", err)
		return
	}
	stats, err := h.svc.GetStatistics(c.Request.Context(), f)
	if err != nil {
		fail(c, "failed to fetch statistics", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// BarChart godoc
// @Summary      Price histogram
// @Description  Ten fixed price buckets in ascending order, zero counts included
// @Tags         charts
// @Produce      json
// @Param        month   query     int     false  "Month 1-12, 0 or omitted for all"  minimum(0) maximum(12)
// @Param        search  query     string  false  "Substring of title, description or price"
// @Success      200     {array}   models.PriceRangeCount
// @Failure      400     {object}  dto.ErrorResponse  "Invalid filter"
// @Failure      500     {object}  dto.ErrorResponse  "Storage failure"
// @Router       /api/barchart [get]
func (h *Handler) BarChart(c *gin.Context) {
	f, err := bindFilter(c)
	if err != nil {
		fail(c, "invalid filter", err)
		return
	}
	hist, err := h.svc.GetPriceHistogram(c.Request.Context(), f)
	if err != nil {
		fail(c, "failed to fetch bar chart", err)
		return
	}
	c.JSON(http.StatusOK, hist)
}

// PieChart godoc
// @Summary      Category counts
// @Description  One entry per category present in the filtered slice; blank categories are reported as "Unknown"
// @Tags         charts
// @Produce      json
// @Param        month   query     int     false  "Month 1-12, 0 or omitted for all"  minimum(0) maximum(12)
// @Param        search  query     string  false  "Substring of title, description or price"
// @Success      200     {array}   models.CategoryCount
// @Failure      400     {object}  dto.ErrorResponse  "Invalid filter"
// @Failure      500     {object}  dto.ErrorResponse  "Storage failure"
// @Router       /api/piechart [get]
func (h *Handler) PieChart(c *gin.Context) {
	f, err := bindFilter(c)
	if err != nil {
		fail(c, "invalid filter", err)
		return
	}
	cats, err := h.svc.GetCategoryCounts(c.Request.Context(), f)
	if err != nil {
		fail(c, "failed to fetch pie chart", err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// External godoc
// @Summary      Feed passthrough
// @Description  Returns the external feed body as-is, bypassing storage
// @Tags         seed
// @Produce      json
// @Success      200  {array}   object
// @Failure      502  {object}  dto.ErrorResponse  "Feed unreachable"
// @Router       /api/external [get]
func (h *Handler) External(c *gin.Context) {
	raw, err := h.seeder.FetchRaw(c.Request.Context())
	if err != nil {
		fail(c, "failed to fetch external data", err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
