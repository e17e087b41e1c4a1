package news

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"EquitySight/internal/domain/models"
	"EquitySight/internal/domain/repository"
	"EquitySight/internal/service/cache"
	phttp "EquitySight/pkg/http"
	xutil "EquitySight/pkg/util"
)

const (
	gnewsBaseURL     = "https://gnews.io/api/v4/search"
	defaultSearchTTL = 15 * time.Minute
)

// Client searches GNews and enriches each article with lexicon sentiment.
type Client struct {
	apiKey  string
	baseURL string
	ttl     time.Duration
	httpc   *phttp.Client
	store   *cache.TTLCache
	now     func() time.Time
}

func NewClient(apiKey, baseURL string, ttl time.Duration, httpc *phttp.Client) repository.NewsSource {
	if baseURL == "" {
		baseURL = gnewsBaseURL
	}
	if ttl <= 0 {
		ttl = defaultSearchTTL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		ttl:     ttl,
		httpc:   httpc,
		store:   cache.NewTTLCache(),
		now:     time.Now,
	}
}

type gnewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

type gnewsResponse struct {
	Articles []gnewsArticle `json:"articles"`
}

func (c *Client) Search(ctx context.Context, query string, maxItems int) ([]models.NewsItem, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("news search: missing api key")
	}
	if query == "" {
		return nil, fmt.Errorf("news search: empty query")
	}
	if maxItems <= 0 {
		maxItems = 20
	}

	key := query + "|" + strconv.Itoa(maxItems)
	if v, ok := c.store.Get(key); ok {
		return v.([]models.NewsItem), nil
	}

	pageSize := maxItems
	if pageSize > 100 {
		pageSize = 100
	}

	var payload gnewsResponse
	err := c.httpc.SendAndParse(ctx, &phttp.RequestOptions{
		Method: phttp.MethodGet,
		URL:    c.baseURL,
		QueryParams: map[string][]string{
			"q":     {query},
			"token": {c.apiKey},
			"lang":  {"en"},
			"max":   {strconv.Itoa(pageSize)},
		},
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("news search %q: %w", query, err)
	}

	items := make([]models.NewsItem, 0, len(payload.Articles))
	for i, art := range payload.Articles {
		if i >= maxItems {
			break
		}
		item := models.NewsItem{
			Title:       art.Title,
			Source:      art.Source.Name,
			PublishedAt: parsePublishedAt(art.PublishedAt),
			URL:         art.URL,
			Description: art.Description,
			Tickers:     extractTickers(art.Title),
		}
		item.Sentiment = Analyze(item.Title + ". " + item.Description)
		items = append(items, item)
	}

	c.store.Set(key, items, c.ttl)
	return items, nil
}

func parsePublishedAt(s string) int64 {
	t, ok := xutil.ParseTime(s)
	if !ok {
		return 0
	}
	return t.Unix()
}

var (
	dollarTickerRe   = regexp.MustCompile(`\$([A-Z]{1,5})\b`)
	exchangeTickerRe = regexp.MustCompile(`\((?:NASDAQ|NYSE|AMEX):([A-Z]{1,5})\)`)
)

// extractTickers pulls $TSLA and (NASDAQ:AAPL) style mentions out of a title.
func extractTickers(text string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, re := range []*regexp.Regexp{dollarTickerRe, exchangeTickerRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if _, ok := seen[m[1]]; ok {
				continue
			}
			seen[m[1]] = struct{}{}
			out = append(out, m[1])
		}
	}
	return out
}
