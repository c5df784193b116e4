package crawler

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/news_digest/internal/logger"
	"github.com/iWorld-y/news_digest/internal/model"
	"github.com/iWorld-y/news_digest/internal/tavily"
)

// tavilySearcher 搜索能力抽象，便于测试替换
type tavilySearcher interface {
	Search(ctx context.Context, req tavily.SearchRequest) (*tavily.SearchResponse, error)
}

// tavilyCrawler 基于 Tavily 搜索 API 的来源适配器。
// 未配置 API 密钥或搜索失败时退回模拟数据。
type tavilyCrawler struct {
	search tavilySearcher
	pacer  *rate.Limiter
}

func newTavily(deps Deps) *tavilyCrawler {
	c := &tavilyCrawler{pacer: newPacer(deps.ArticleDelay)}
	if deps.TavilyAPIKey != "" {
		timeout := deps.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		c.search = tavily.NewClient(deps.TavilyAPIKey, timeout)
	}
	return c
}

func (c *tavilyCrawler) Name() string { return "Tavily" }

func (c *tavilyCrawler) Crawl(ctx context.Context, topic string, maxArticles int) ([]model.Article, error) {
	logger.Log.Infof("开始通过Tavily检索关于 '%s' 的文章", topic)

	if c.search == nil {
		logger.Log.Warn("未配置 Tavily API 密钥，使用模拟数据")
		return c.mockArticles(topic, maxArticles), nil
	}

	if err := c.pacer.Wait(ctx); err != nil {
		return c.mockArticles(topic, maxArticles), nil
	}
	resp, err := c.search.Search(ctx, tavily.SearchRequest{
		Query:             topic,
		Topic:             "news",
		MaxResults:        maxArticles,
		IncludeRawContent: true,
	})
	if err != nil {
		logger.Log.Warnf("Tavily检索失败，使用模拟数据: %v", err)
		return c.mockArticles(topic, maxArticles), nil
	}
	if len(resp.Results) == 0 {
		logger.Log.Warn("Tavily检索结果为空，使用模拟数据")
		return c.mockArticles(topic, maxArticles), nil
	}

	articles := make([]model.Article, 0, maxArticles)
	for i, result := range resp.Results {
		if len(articles) >= maxArticles {
			break
		}
		content := result.RawContent
		if content == "" {
			content = result.Content
		}
		published := result.PublishedDate
		if published == "" {
			published = time.Now().Format("2006-01-02 15:04:05")
		}
		articles = append(articles, cleanArticle(model.Article{
			ID:            fmt.Sprintf("tavily-%d", i),
			Title:         result.Title,
			Content:       content,
			URL:           result.URL,
			PublishedDate: published,
			Source:        "Tavily",
		}))
	}

	logger.Log.Infof("Tavily检索完成，成功获取 %d 篇文章", len(articles))
	return articles, nil
}

func (c *tavilyCrawler) mockArticles(topic string, maxArticles int) []model.Article {
	articles := make([]model.Article, 0, maxArticles)
	for i := 0; i < maxArticles; i++ {
		articles = append(articles, cleanArticle(model.Article{
			ID:            fmt.Sprintf("tavily-mock-%d", i),
			Title:         fmt.Sprintf("Tavily: %s 检索报道 #%d", topic, i+1),
			Content:       fmt.Sprintf("这是Tavily检索到的关于%s的第%d篇报道。\n\n搜索结果显示，该领域近期受到广泛关注，多家媒体进行了跟踪报道。综合各方信息，相关技术和应用正在快速演进。\n\n本文由搜索聚合整理，详情请参阅原始链接。", topic, i+1),
			URL:           fmt.Sprintf("https://example.com/tavily/%s-%d", topicSlug(topic), i),
			PublishedDate: time.Now().Format("2006-01-02 15:04:05"),
			Source:        "Tavily",
		}))
	}
	return articles
}
