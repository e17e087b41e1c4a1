package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"EquitySight/internal/domain/models"
	domrepo "EquitySight/internal/domain/repository"
	icache "EquitySight/internal/service/cache"
	"EquitySight/internal/service/metrics"
	"EquitySight/internal/service/news"
	"EquitySight/internal/service/ratelimit"
	"EquitySight/internal/usecase"
	xhttp "EquitySight/pkg/http"
	xlogger "EquitySight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StocksEchoHandler exposes the acquisition and analysis pipeline over HTTP.
type StocksEchoHandler struct {
	logger       *xlogger.Logger
	prices       *usecase.PricesUseCase
	features     *usecase.FeaturesUseCase
	predict      *usecase.PredictUseCase
	valuation    *usecase.ValuationUseCase
	quotes       *usecase.QuoteBoard
	newsSource   domrepo.NewsSource
	fundamentals domrepo.FundamentalsSource
	rl           *ratelimit.Limiter
	respCache    icache.BytesCache
	respTTL      time.Duration
}

func NewStocksEchoHandler(
	logger *xlogger.Logger,
	prices *usecase.PricesUseCase,
	features *usecase.FeaturesUseCase,
	predict *usecase.PredictUseCase,
	valuation *usecase.ValuationUseCase,
	quotes *usecase.QuoteBoard,
	newsSource domrepo.NewsSource,
	fundamentals domrepo.FundamentalsSource,
) *StocksEchoHandler {
	metrics.Register()
	return &StocksEchoHandler{
		logger:       logger,
		prices:       prices,
		features:     features,
		predict:      predict,
		valuation:    valuation,
		quotes:       quotes,
		newsSource:   newsSource,
		fundamentals: fundamentals,
		rl:           ratelimit.New(),
		respTTL:      30 * time.Second,
	}
}

// SetResponseCache enables byte-level caching of endpoint payloads.
func (h *StocksEchoHandler) SetResponseCache(c icache.BytesCache) { h.respCache = c }

func (h *StocksEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/stocks/:symbol/prices", h.Prices)
	g.GET("/stocks/:symbol/metadata", h.Metadata)
	g.GET("/stocks/:symbol/news", h.StockNews)
	g.GET("/stocks/:symbol/features", h.Features)
	g.GET("/stocks/:symbol/predict", h.Predict)
	g.GET("/stocks/:symbol/valuation", h.Valuation)
	g.GET("/stocks/:symbol/quote", h.Quote)
	g.GET("/news/search", h.SearchNews)
}

type scoredHeadline struct {
	models.NewsItem
	Impact float64 `json:"impact"`
}

type newsResponse struct {
	Query string           `json:"query"`
	Count int              `json:"count"`
	Items []scoredHeadline `json:"items"`
}

type valuationResponse struct {
	Score  *models.ValuationScore  `json:"score"`
	DCF    *models.DCFValuation    `json:"dcf,omitempty"`
	Graham *models.GrahamValuation `json:"graham,omitempty"`
}

func (h *StocksEchoHandler) Prices(c echo.Context) error {
	endpoint := "prices"
	defer h.observe(endpoint, time.Now())

	req := &models.PricesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 10, 5) {
		return tooManyRequests(c)
	}
	key := "prices:" + req.Symbol + ":" + req.Interval + ":" + itoa(req.Limit)
	if done, err := h.fromCache(c, key); done {
		return err
	}

	res, err := h.prices.GetPrices(c.Request().Context(), usecase.GetPricesParams{
		Symbol:   req.Symbol,
		Interval: models.Interval(req.Interval),
		Limit:    req.Limit,
	})
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("stocks.prices usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, upstreamError(err))
	}
	h.storeCache(key, res)
	return xhttp.SuccessResponse(c, res)
}

func (h *StocksEchoHandler) Metadata(c echo.Context) error {
	endpoint := "metadata"
	defer h.observe(endpoint, time.Now())

	req := &models.MetadataRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 5, 2) {
		return tooManyRequests(c)
	}

	res, err := h.fundamentals.Get(c.Request().Context(), req.Symbol)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("stocks.metadata usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, upstreamError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *StocksEchoHandler) StockNews(c echo.Context) error {
	endpoint := "stock_news"
	defer h.observe(endpoint, time.Now())

	req := &models.StockNewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 5, 2) {
		return tooManyRequests(c)
	}

	items, err := h.newsSource.Search(c.Request().Context(), req.Symbol, req.MaxItems)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("stocks.news usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, upstreamError(err))
	}
	return xhttp.SuccessResponse(c, scoreHeadlines(req.Symbol, items))
}

func (h *StocksEchoHandler) Features(c echo.Context) error {
	endpoint := "features"
	defer h.observe(endpoint, time.Now())

	req := &models.FeaturesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 5, 2) {
		return tooManyRequests(c)
	}
	key := "features:" + req.Symbol + ":" + req.Interval + ":" + itoa(req.Limit) + ":" + itoa(req.MaxNews)
	if done, err := h.fromCache(c, key); done {
		return err
	}

	res, err := h.features.GetFeatures(c.Request().Context(), usecase.GetFeaturesParams{
		Symbol:   req.Symbol,
		Interval: models.Interval(req.Interval),
		Limit:    req.Limit,
		MaxNews:  req.MaxNews,
	})
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("stocks.features usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, upstreamError(err))
	}
	h.storeCache(key, res)
	return xhttp.SuccessResponse(c, res)
}

func (h *StocksEchoHandler) Predict(c echo.Context) error {
	endpoint := "predict"
	defer h.observe(endpoint, time.Now())

	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 3, 1) {
		return tooManyRequests(c)
	}

	res, err := h.predict.Predict(c.Request().Context(), usecase.PredictParams{
		Symbol:      req.Symbol,
		Temperature: req.Temperature,
	})
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("stocks.predict usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, upstreamError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *StocksEchoHandler) Valuation(c echo.Context) error {
	endpoint := "valuation"
	defer h.observe(endpoint, time.Now())

	req := &models.ValuationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 5, 2) {
		return tooManyRequests(c)
	}

	ctx := c.Request().Context()
	score, err := h.valuation.Score(ctx, req.Symbol)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("stocks.valuation usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, upstreamError(err))
	}
	res := &valuationResponse{Score: score}
	if dcf, derr := h.valuation.DCF(ctx, req.Symbol); derr != nil {
		h.logger.Warn("stocks.valuation dcf skipped", xlogger.Error(derr))
	} else {
		res.DCF = dcf
	}
	if graham, gerr := h.valuation.Graham(ctx, req.Symbol); gerr != nil {
		h.logger.Warn("stocks.valuation graham skipped", xlogger.Error(gerr))
	} else {
		res.Graham = graham
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *StocksEchoHandler) Quote(c echo.Context) error {
	endpoint := "quote"
	defer h.observe(endpoint, time.Now())

	req := &models.QuoteRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.quotes == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("live quotes are not enabled"))
	}
	q, ok := h.quotes.Latest(req.Symbol)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no live quote for %s", req.Symbol))
	}
	return xhttp.SuccessResponse(c, q)
}

func (h *StocksEchoHandler) SearchNews(c echo.Context) error {
	endpoint := "news_search"
	defer h.observe(endpoint, time.Now())

	req := &models.SearchNewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 5, 2) {
		return tooManyRequests(c)
	}

	items, err := h.newsSource.Search(c.Request().Context(), req.Query, req.MaxItems)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("news.search usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, upstreamError(err))
	}
	return xhttp.SuccessResponse(c, scoreHeadlines(req.Query, items))
}

func (h *StocksEchoHandler) observe(endpoint string, start time.Time) {
	metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (h *StocksEchoHandler) allow(c echo.Context, endpoint string, capacity, refill float64) bool {
	if h.rl.Allow(c.RealIP()+":"+endpoint, capacity, refill) {
		return true
	}
	h.logger.Warn("stocks.ratelimit rejected",
		xlogger.String("endpoint", endpoint),
		xlogger.String("remote", c.RealIP()))
	return false
}

// fromCache replays a cached payload when present. The bool reports whether
// the request was already answered.
func (h *StocksEchoHandler) fromCache(c echo.Context, key string) (bool, error) {
	if h.respCache == nil {
		return false, nil
	}
	b, ok, err := h.respCache.GetBytes(key)
	if err != nil {
		h.logger.Warn("stocks.cache get error", xlogger.Error(err))
		return false, nil
	}
	if !ok {
		metrics.CacheLookups.WithLabelValues("response", "miss").Inc()
		return false, nil
	}
	metrics.CacheLookups.WithLabelValues("response", "hit").Inc()
	h.logger.Debug("stocks.cache hit", xlogger.String("key", key))
	return true, xhttp.SuccessResponse(c, json.RawMessage(b))
}

func (h *StocksEchoHandler) storeCache(key string, res interface{}) {
	if h.respCache == nil {
		return
	}
	b, err := json.Marshal(res)
	if err != nil {
		h.logger.Warn("stocks.cache marshal error", xlogger.Error(err))
		return
	}
	if err := h.respCache.SetBytes(key, b, h.respTTL); err != nil {
		h.logger.Warn("stocks.cache set error", xlogger.Error(err))
	}
}

func scoreHeadlines(query string, items []models.NewsItem) *newsResponse {
	now := time.Now()
	scored := make([]scoredHeadline, 0, len(items))
	for _, it := range items {
		scored = append(scored, scoredHeadline{NewsItem: it, Impact: news.HeadlineImpact(it, now)})
	}
	return &newsResponse{Query: query, Count: len(scored), Items: scored}
}

// upstreamError maps cascade exhaustion and empty-history failures to 502 so
// callers can tell provider outages from our own faults.
func upstreamError(err error) error {
	var allFailed *usecase.AllProvidersFailedError
	var noData *usecase.NoPriceDataError
	if errors.As(err, &allFailed) || errors.As(err, &noData) {
		return xhttp.NewAppError("ERR_UPSTREAM", "", err.Error(), http.StatusBadGateway).WithError(err)
	}
	return err
}

func tooManyRequests(c echo.Context) error {
	return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
}

func itoa(v int) string { return strconv.Itoa(v) }
