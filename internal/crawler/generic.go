package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iWorld-y/news_digest/internal/logger"
	"github.com/iWorld-y/news_digest/internal/model"
)

// 通用适配器轮换使用的来源展示名
var genericSources = []string{"BBC News", "CNN", "The New York Times", "Reuters", "Xinhua News"}

// genericCrawler 通用适配器，适用于没有专用实现的来源。
// 不发起网络请求，始终生成模拟数据。
type genericCrawler struct {
	sourceName string
}

func newGeneric(sourceName string, _ Deps) *genericCrawler {
	return &genericCrawler{sourceName: strings.TrimSpace(sourceName)}
}

func (c *genericCrawler) Name() string { return c.sourceName }

// Crawl 生成恰好 maxArticles 篇模拟文章，来源展示名按固定列表轮换
func (c *genericCrawler) Crawl(_ context.Context, topic string, maxArticles int) ([]model.Article, error) {
	logger.Log.Infof("开始使用通用爬虫爬取 %s 关于 '%s' 的文章", c.sourceName, topic)

	now := time.Now()
	articles := make([]model.Article, 0, maxArticles)
	for i := 0; i < maxArticles; i++ {
		articles = append(articles, cleanArticle(model.Article{
			ID:            fmt.Sprintf("%s-mock-%d-%d", strings.ToLower(c.sourceName), now.Unix(), i),
			Title:         fmt.Sprintf("%s相关报道 #%d", topic, i+1),
			Content:       fmt.Sprintf("这是关于%s的模拟文章内容 #%d。\n\n本文详细讨论了%s的最新进展、影响和未来展望。专家表示，这一领域的发展将对社会产生深远影响。\n\n据报道，相关技术在过去一年取得了突破性进展，特别是在应用领域。研究人员正在努力解决面临的挑战，推动技术进一步发展。", topic, i+1, topic),
			URL:           fmt.Sprintf("https://example.com/article/mock-%d-%d", now.Unix(), i),
			PublishedDate: now.Format("2006-01-02 15:04:05"),
			Source:        genericSources[i%len(genericSources)],
		}))
	}

	logger.Log.Infof("通用爬虫完成，成功获取 %d 篇文章", len(articles))
	return articles, nil
}
