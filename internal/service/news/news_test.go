package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"EquitySight/internal/domain/models"
	phttp "EquitySight/pkg/http"
)

func TestAnalyze(t *testing.T) {
	s := Analyze("")
	if s.Score != 0 || s.Words != 0 {
		t.Fatalf("empty text: %+v", s)
	}

	s = Analyze("Company beats estimates, record profit growth")
	if s.Pos == 0 || s.Neg != 0 {
		t.Fatalf("positive headline: %+v", s)
	}
	if s.Score <= 0 || s.Score > 1 {
		t.Fatalf("score = %v, want (0, 1]", s.Score)
	}

	s = Analyze("Regulator opens fraud probe, lawsuit and fine expected")
	if s.Score >= 0 {
		t.Fatalf("negative headline scored %v", s.Score)
	}
	if s.Score < -1 {
		t.Fatalf("score must be clamped, got %v", s.Score)
	}
}

func TestHeadlineImpact(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	fresh := models.NewsItem{
		Title:       "Company beats estimates",
		Source:      "Reuters",
		PublishedAt: now.Unix(),
	}
	stale := fresh
	stale.PublishedAt = now.Add(-10 * 24 * time.Hour).Unix()

	fi := HeadlineImpact(fresh, now)
	si := HeadlineImpact(stale, now)
	if fi <= si {
		t.Fatalf("fresh %v must outrank stale %v", fi, si)
	}
	if fi < 0 || fi > 1 || si < 0 || si > 1 {
		t.Fatalf("impact out of bounds: %v %v", fi, si)
	}

	noSource := fresh
	noSource.Source = ""
	if HeadlineImpact(noSource, now) >= fi {
		t.Fatalf("missing source must weigh less")
	}
}

func TestExtractTickers(t *testing.T) {
	got := extractTickers("Why $TSLA and (NASDAQ:AAPL) moved today, $TSLA again")
	if len(got) != 2 || got[0] != "TSLA" || got[1] != "AAPL" {
		t.Fatalf("tickers = %v", got)
	}
	if extractTickers("no symbols here") != nil {
		t.Fatalf("expected nil for plain text")
	}
}

func TestSearchNormalizesAndCaches(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("lang") != "en" {
			t.Errorf("lang = %s", r.URL.Query().Get("lang"))
		}
		if r.URL.Query().Get("token") != "key" {
			t.Errorf("token missing")
		}
		w.Write([]byte(`{"articles": [
			{"title": "Company beats estimates $ACME", "description": "record growth",
			 "url": "https://example.com/a", "publishedAt": "2024-01-02T15:04:05Z",
			 "source": {"name": "Newswire"}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, time.Minute, phttp.NewClient())
	items, err := c.Search(context.Background(), "ACME", 20)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d", len(items))
	}
	it := items[0]
	if it.Source != "Newswire" || it.PublishedAt != 1704207845 {
		t.Fatalf("item = %+v", it)
	}
	if it.Sentiment == nil || it.Sentiment.Score <= 0 {
		t.Fatalf("sentiment not enriched: %+v", it.Sentiment)
	}
	if len(it.Tickers) != 1 || it.Tickers[0] != "ACME" {
		t.Fatalf("tickers = %v", it.Tickers)
	}

	if _, err := c.Search(context.Background(), "ACME", 20); err != nil {
		t.Fatalf("cached Search: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected cache hit, upstream called %d times", calls)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	c := NewClient("key", "", time.Minute, phttp.NewClient())
	if _, err := c.Search(context.Background(), "", 10); err == nil {
		t.Fatalf("expected error on empty query")
	}
}
