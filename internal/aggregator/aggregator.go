package aggregator

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/news_digest/internal/crawler"
	"github.com/iWorld-y/news_digest/internal/logger"
	"github.com/iWorld-y/news_digest/internal/model"
)

// Aggregator 依次调用各来源适配器并汇总结果。
// 单个来源失败只记录日志并跳过，不影响其余来源。
type Aggregator struct {
	deps    crawler.Deps
	pacer   *rate.Limiter // 来源之间的礼貌间隔
	resolve func(name string, deps crawler.Deps) crawler.Crawler
}

// New 创建聚合器，sourceDelay 为相邻来源之间的等待时间
func New(deps crawler.Deps, sourceDelay time.Duration) *Aggregator {
	var pacer *rate.Limiter
	if sourceDelay <= 0 {
		pacer = rate.NewLimiter(rate.Inf, 1)
	} else {
		pacer = rate.NewLimiter(rate.Every(sourceDelay), 1)
	}
	return &Aggregator{
		deps:    deps,
		pacer:   pacer,
		resolve: crawler.For,
	}
}

// Aggregate 按请求顺序抓取全部来源并串接结果。
// 不去重、不排序，这两步由后续处理器完成。
func (a *Aggregator) Aggregate(ctx context.Context, sources []string, topic string, maxPerSource int) []model.Article {
	var all []model.Article

	for _, source := range sources {
		if err := a.pacer.Wait(ctx); err != nil {
			logger.Log.Errorf("聚合中断: %v", err)
			break
		}

		logger.Log.Infof("开始从 %s 爬取文章", source)
		c := a.resolve(source, a.deps)

		articles, err := c.Crawl(ctx, topic, maxPerSource)
		if err != nil {
			logger.Log.Errorf("从 %s 爬取时出错: %v", source, err)
			continue
		}

		all = append(all, articles...)
		logger.Log.Infof("从 %s 成功获取 %d 篇文章", source, len(articles))
	}

	logger.Log.Infof("爬取完成，共获取 %d 篇文章", len(all))
	return all
}
