package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/marketpulse/internal/domain/dto"
	"github.com/guttosm/marketpulse/internal/domain/models"
	"github.com/guttosm/marketpulse/internal/service"
)

const dateLayout = "2006-01-02"

// Handler provides HTTP handlers for the market data endpoints.
//
// Responsibilities:
//   - Parse path and query parameters
//   - Delegate to the market service with the request context
//   - Map service and provider errors to HTTP status codes (see statusFor)
//   - Return structured JSON responses
type Handler struct {
	svc service.MarketService
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (service.MarketService): the service every route delegates to.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.MarketService) *Handler {
	return &Handler{svc: svc}
}

// GetQuote godoc
// @Summary      Latest quote
// @Description  Returns the quote of the first provider, in priority order, that answers
// @Tags         quotes
// @Produce      json
// @Param        symbol  path      string  true  "Ticker symbol" example(AAPL)
// @Success      200     {object}  models.Quote
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse  "Symbol not found"
// @Failure      502     {object}  dto.ErrorResponse  "Provider error"
// @Failure      503     {object}  dto.ErrorResponse  "All providers failed"
// @Router       /api/v1/quotes/{symbol} [get]
func (h *Handler) GetQuote(c *gin.Context) {
	q, err := h.svc.GetQuote(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// GetComprehensive handles GET /api/v1/quotes/:symbol/comprehensive.
//
// Every configured provider is queried concurrently; each answer is kept
// under its provider id. Partial failures are listed in the record's errors
// and still return 200. Only when no provider answered is the request failed.
//
// GetComprehensive godoc
// @Summary      Quote and profile from every provider
// @Description  Fans out to all providers concurrently and returns each provider's answer side by side
// @Tags         quotes
// @Produce      json
// @Param        symbol  path      string  true  "Ticker symbol" example(AAPL)
// @Success      200     {object}  models.ComprehensiveRecord
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse  "Symbol not found"
// @Failure      503     {object}  dto.ErrorResponse  "All providers failed"
// @Router       /api/v1/quotes/{symbol}/comprehensive [get]
func (h *Handler) GetComprehensive(c *gin.Context) {
	rec, err := h.svc.GetComprehensive(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetQuoteHistory godoc
// @Summary      Archived quotes
// @Description  Returns the most recent quotes served for a symbol, newest first. Requires storage.
// @Tags         quotes
// @Produce      json
// @Param        symbol  path      string  true   "Ticker symbol" example(AAPL)
// @Param        limit   query     int     false  "Maximum rows (1-500)" default(20)
// @Success      200     {array}   models.Quote
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      501     {object}  dto.ErrorResponse  "Storage disabled"
// @Router       /api/v1/quotes/{symbol}/history [get]
func (h *Handler) GetQuoteHistory(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid limit, expected an integer", err))
			return
		}
		if n <= 0 {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("limit must be positive", nil))
			return
		}
		limit = n
	}

	quotes, err := h.svc.GetQuoteHistory(c.Request.Context(), c.Param("symbol"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

// GetTimeSeries godoc
// @Summary      Daily price history
// @Description  Daily OHLCV bars. compact returns the latest 100 points, full everything the provider has.
// @Tags         timeseries
// @Produce      json
// @Param        symbol  path      string  true   "Ticker symbol" example(AAPL)
// @Param        size    query     string  false  "compact or full" Enums(compact, full) default(compact)
// @Param        order   query     string  false  "Date order" Enums(asc, desc) default(asc)
// @Success      200     {array}   models.Bar
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse  "Symbol not found"
// @Failure      503     {object}  dto.ErrorResponse  "All providers failed"
// @Router       /api/v1/timeseries/{symbol} [get]
func (h *Handler) GetTimeSeries(c *gin.Context) {
	size, ok := models.ParseOutputSize(c.Query("size"))
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid size, expected compact or full", nil))
		return
	}
	order, ok := models.ParseSortOrder(c.Query("order"))
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid order, expected asc or desc", nil))
		return
	}

	bars, err := h.svc.GetTimeSeries(c.Request.Context(), c.Param("symbol"), size, order)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bars)
}

// Search godoc
// @Summary      Symbol search
// @Tags         search
// @Produce      json
// @Param        keywords  query     string  true  "Company name or ticker fragment" example(apple)
// @Success      200       {array}   models.SearchResult
// @Failure      400       {object}  dto.ErrorResponse  "Bad Request"
// @Failure      503       {object}  dto.ErrorResponse  "All providers failed"
// @Router       /api/v1/search [get]
func (h *Handler) Search(c *gin.Context) {
	results, err := h.svc.Search(c.Request.Context(), c.Query("keywords"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetMarketNews godoc
// @Summary      Market news
// @Tags         news
// @Produce      json
// @Param        category  query     string  false  "News category" default(general)
// @Success      200       {array}   models.NewsArticle
// @Failure      503       {object}  dto.ErrorResponse  "All providers failed"
// @Router       /api/v1/news [get]
func (h *Handler) GetMarketNews(c *gin.Context) {
	articles, err := h.svc.GetMarketNews(c.Request.Context(), c.Query("category"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// GetCompanyNews handles GET /api/v1/news/:symbol.
//
// Query Parameters:
//   - from (string, optional): first day, YYYY-MM-DD.
//   - to (string, optional): last day, YYYY-MM-DD.
//
// Omitted bounds are defaulted by the provider (the last week).
//
// GetCompanyNews godoc
// @Summary      Company news
// @Tags         news
// @Produce      json
// @Param        symbol  path      string  true   "Ticker symbol" example(AAPL)
// @Param        from    query     string  false  "Start date in YYYY-MM-DD" example(2025-09-01)
// @Param        to      query     string  false  "End date in YYYY-MM-DD" example(2025-09-07)
// @Success      200     {array}   models.NewsArticle
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      503     {object}  dto.ErrorResponse  "All providers failed"
// @Router       /api/v1/news/{symbol} [get]
func (h *Handler) GetCompanyNews(c *gin.Context) {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid from format, expected YYYY-MM-DD", err))
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid to format, expected YYYY-MM-DD", err))
		return
	}

	articles, err := h.svc.GetCompanyNews(c.Request.Context(), c.Param("symbol"), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// GetProfile godoc
// @Summary      Company profile
// @Description  Returns the first company profile in provider priority order.
// @Tags         quotes
// @Produce      json
// @Param        symbol  path      string  true  "Ticker symbol" example(IBM)
// @Success      200     {object}  models.Profile
// @Failure      400     {object}  dto.ErrorResponse  "Invalid symbol"
// @Failure      404     {object}  dto.ErrorResponse  "Symbol not found"
// @Failure      503     {object}  dto.ErrorResponse  "All providers failed"
// @Router       /api/v1/profile/{symbol} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.svc.GetProfile(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetSentiment godoc
// @Summary      Social sentiment
// @Tags         news
// @Produce      json
// @Param        symbol  path      string  true  "Ticker symbol" example(AAPL)
// @Success      200     {object}  models.SocialSentiment
// @Failure      404     {object}  dto.ErrorResponse  "Symbol not found"
// @Failure      503     {object}  dto.ErrorResponse  "All providers failed"
// @Router       /api/v1/sentiment/{symbol} [get]
func (h *Handler) GetSentiment(c *gin.Context) {
	s, err := h.svc.GetSocialSentiment(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ProvidersHealth godoc
// @Summary      Probe every provider
// @Description  Fetches a sample quote from each provider concurrently and reports a 0-100 score. Always 200.
// @Tags         health
// @Produce      json
// @Success      200  {object}  models.HealthReport
// @Router       /api/v1/providers/health [get]
func (h *Handler) ProvidersHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.TestAllProviders(c.Request.Context()))
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
