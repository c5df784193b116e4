package aggregator

import (
	"context"
	"errors"
	"testing"

	"github.com/iWorld-y/news_digest/internal/crawler"
	"github.com/iWorld-y/news_digest/internal/model"
)

type stubCrawler struct {
	name     string
	articles []model.Article
	err      error
}

func (c *stubCrawler) Name() string { return c.name }

func (c *stubCrawler) Crawl(_ context.Context, _ string, _ int) ([]model.Article, error) {
	return c.articles, c.err
}

func newStubAggregator(crawlers map[string]*stubCrawler) *Aggregator {
	a := New(crawler.Deps{}, 0)
	a.resolve = func(name string, _ crawler.Deps) crawler.Crawler {
		return crawlers[name]
	}
	return a
}

func TestAggregatePreservesRequestOrder(t *testing.T) {
	a := newStubAggregator(map[string]*stubCrawler{
		"s1": {name: "s1", articles: []model.Article{{ID: "a1"}, {ID: "a2"}}},
		"s2": {name: "s2", articles: []model.Article{{ID: "b1"}}},
		"s3": {name: "s3", articles: []model.Article{{ID: "c1"}, {ID: "c2"}}},
	})

	got := a.Aggregate(context.Background(), []string{"s1", "s2", "s3"}, "人工智能", 5)
	wantIDs := []string{"a1", "a2", "b1", "c1", "c2"}
	if len(got) != len(wantIDs) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestAggregateSkipsFailingSource(t *testing.T) {
	a := newStubAggregator(map[string]*stubCrawler{
		"ok1": {name: "ok1", articles: []model.Article{{ID: "a1"}}},
		"bad": {name: "bad", err: errors.New("爬虫崩溃")},
		"ok2": {name: "ok2", articles: []model.Article{{ID: "b1"}}},
	})

	got := a.Aggregate(context.Background(), []string{"ok1", "bad", "ok2"}, "人工智能", 5)
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].ID != "a1" || got[1].ID != "b1" {
		t.Errorf("got IDs = [%s %s], want [a1 b1]", got[0].ID, got[1].ID)
	}
}

func TestAggregateEmptySources(t *testing.T) {
	a := newStubAggregator(nil)
	if got := a.Aggregate(context.Background(), nil, "人工智能", 5); len(got) != 0 {
		t.Errorf("len(got) = %d, want 0", len(got))
	}
}
