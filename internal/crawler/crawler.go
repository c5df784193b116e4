package crawler

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/news_digest/internal/model"
)

// Crawler 来源适配器接口，每个新闻来源实现一个
type Crawler interface {
	// Name 返回来源展示名
	Name() string
	// Crawl 抓取某主题下最多 maxArticles 篇文章。
	// 抓取失败时返回模拟数据而非错误，error 仅用于不可恢复的内部问题。
	Crawl(ctx context.Context, topic string, maxArticles int) ([]model.Article, error)
}

// ContentFetcher 抓取能力抽象，便于测试替换
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Deps 各适配器共享的依赖
type Deps struct {
	Fetcher      ContentFetcher
	ArticleDelay time.Duration // 同一来源内两次请求之间的礼貌间隔
	Timeout      time.Duration
	TavilyAPIKey string
}

// For 根据来源名解析适配器。已知来源使用专用适配器，
// 未知来源回落到通用适配器（不发起网络请求）。
func For(name string, deps Deps) Crawler {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bbc":
		return newSite(bbcSpec, deps)
	case "cnn":
		return newSite(cnnSpec, deps)
	case "nytimes":
		return newSite(nytimesSpec, deps)
	case "reuters":
		return newSite(reutersSpec, deps)
	case "xinhua":
		return newSite(xinhuaSpec, deps)
	case "googlenews":
		return newRSS(deps)
	case "tavily":
		return newTavily(deps)
	default:
		return newGeneric(name, deps)
	}
}

// newPacer 构造请求间隔限速器：首个请求立即放行，后续按 delay 间隔
func newPacer(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// cleanArticle 清理文章：保证五个必需字段存在（Go 下字符串零值即空串），
// 并去掉所有字符串字段的首尾空白
func cleanArticle(a model.Article) model.Article {
	a.ID = strings.TrimSpace(a.ID)
	a.Title = strings.TrimSpace(a.Title)
	a.Content = strings.TrimSpace(a.Content)
	a.URL = strings.TrimSpace(a.URL)
	a.PublishedDate = strings.TrimSpace(a.PublishedDate)
	a.Source = strings.TrimSpace(a.Source)
	return a
}

func topicSlug(topic string) string {
	return strings.ReplaceAll(topic, " ", "-")
}
