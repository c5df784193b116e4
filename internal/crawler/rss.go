package crawler

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/news_digest/internal/logger"
	"github.com/iWorld-y/news_digest/internal/model"
)

// rssCrawler 通过 Google News RSS 聚合抓取的适配器，
// 抓取或解析失败时与站点适配器一样退回模拟数据
type rssCrawler struct {
	fetcher ContentFetcher
	pacer   *rate.Limiter
	parser  *gofeed.Parser
}

func newRSS(deps Deps) *rssCrawler {
	return &rssCrawler{
		fetcher: deps.Fetcher,
		pacer:   newPacer(deps.ArticleDelay),
		parser:  gofeed.NewParser(),
	}
}

func (c *rssCrawler) Name() string { return "Google News" }

func (c *rssCrawler) Crawl(ctx context.Context, topic string, maxArticles int) ([]model.Article, error) {
	logger.Log.Infof("开始爬取Google News关于 '%s' 的文章", topic)

	feedURL := fmt.Sprintf("https://news.google.com/rss/search?q=%s", url.QueryEscape(topic))

	if err := c.pacer.Wait(ctx); err != nil {
		return c.mockArticles(topic, maxArticles), nil
	}
	raw, err := c.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		logger.Log.Warnf("Google News爬虫失败，使用模拟数据")
		return c.mockArticles(topic, maxArticles), nil
	}

	feed, err := c.parser.ParseString(raw)
	if err != nil {
		logger.Log.Warnf("Google News feed 解析失败，使用模拟数据: %v", err)
		return c.mockArticles(topic, maxArticles), nil
	}

	articles := make([]model.Article, 0, maxArticles)
	for i, item := range feed.Items {
		if len(articles) >= maxArticles {
			break
		}
		content := item.Content
		if content == "" {
			content = item.Description
		}
		articles = append(articles, cleanArticle(model.Article{
			ID:            fmt.Sprintf("googlenews-%d", i),
			Title:         item.Title,
			Content:       content,
			URL:           item.Link,
			PublishedDate: item.Published,
			Source:        "Google News",
		}))
	}

	if len(articles) == 0 {
		logger.Log.Warnf("Google News feed 为空，使用模拟数据")
		return c.mockArticles(topic, maxArticles), nil
	}

	logger.Log.Infof("Google News爬虫完成，成功获取 %d 篇文章", len(articles))
	return articles, nil
}

func (c *rssCrawler) mockArticles(topic string, maxArticles int) []model.Article {
	articles := make([]model.Article, 0, maxArticles)
	for i := 0; i < maxArticles; i++ {
		articles = append(articles, cleanArticle(model.Article{
			ID:            fmt.Sprintf("googlenews-mock-%d", i),
			Title:         fmt.Sprintf("Google News: %s 聚合报道 #%d", topic, i+1),
			Content:       fmt.Sprintf("这是Google News聚合的关于%s的第%d篇报道。\n\n多家媒体的报道显示，该领域近期动态频繁。综合各方信息来看，相关进展值得持续关注。\n\n本文由聚合来源整理，详情请参阅原始报道。", topic, i+1),
			URL:           fmt.Sprintf("https://news.google.com/articles/%s-%d", topicSlug(topic), i),
			PublishedDate: time.Now().Format("2006-01-02 15:04:05"),
			Source:        "Google News",
		}))
	}
	return articles
}
