package pipeline

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/news_digest/internal/aggregator"
	"github.com/iWorld-y/news_digest/internal/analyzer"
	"github.com/iWorld-y/news_digest/internal/config"
	"github.com/iWorld-y/news_digest/internal/crawler"
	"github.com/iWorld-y/news_digest/internal/fetcher"
	"github.com/iWorld-y/news_digest/internal/llm"
	"github.com/iWorld-y/news_digest/internal/logger"
	"github.com/iWorld-y/news_digest/internal/processor"
	"github.com/iWorld-y/news_digest/internal/report"
)

// ErrNoArticles 表示规范化后没有任何文章存活，本次运行不产出报告
var ErrNoArticles = errors.New("没有可用文章")

// Pipeline 单次摘要生成流程：爬取 → 预处理 → 分析 → 渲染。
// 流程内部严格串行，运行之间不保留任何状态。
type Pipeline struct {
	cfg        *config.Config
	aggregator *aggregator.Aggregator
	processor  *processor.Processor
	analyzer   *analyzer.Analyzer
	reporter   *report.Generator
}

// New 按配置装配流水线
func New(ctx context.Context, cfg *config.Config) *Pipeline {
	f := fetcher.New(
		time.Duration(cfg.Crawl.TimeoutSeconds)*time.Second,
		cfg.Crawl.FetchRetries,
		time.Duration(cfg.Crawl.FetchRetryDelaySeconds)*time.Second,
	)
	deps := crawler.Deps{
		Fetcher:      f,
		ArticleDelay: time.Duration(cfg.Crawl.ArticleDelaySeconds) * time.Second,
		Timeout:      time.Duration(cfg.Crawl.TimeoutSeconds) * time.Second,
		TavilyAPIKey: cfg.Search.TavilyAPIKey,
	}

	// LLM 限流：Limit 取 RPM/60，Burst 取 QPS
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.Concurrency.RPM)/60.0), cfg.Concurrency.QPS)

	var capability llm.Capability
	client, err := llm.NewClient(ctx, cfg.LLM, limiter)
	if err != nil {
		if errors.Is(err, llm.ErrUnavailable) {
			logger.Log.Warn("未提供 API 密钥，将使用模拟数据")
		} else {
			logger.Log.Errorf("LLM 客户端初始化失败: %v", err)
		}
	} else {
		capability = client
	}

	return &Pipeline{
		cfg:        cfg,
		aggregator: aggregator.New(deps, time.Duration(cfg.Crawl.SourceDelaySeconds)*time.Second),
		processor:  processor.New(cfg.MinTextLength),
		analyzer:   analyzer.New(llm.WithFallback(capability), cfg.Topic),
		reporter:   report.NewGenerator(cfg.OutputDir),
	}
}

// Run 执行一次完整的摘要生成流程，返回生成的报告路径。
// 没有文章存活时返回 ErrNoArticles，不产出报告。
func (p *Pipeline) Run(ctx context.Context) (string, error) {
	logger.Log.Infof("开始为主题 '%s' 生成自动摘要", p.cfg.Topic)
	start := time.Now()

	// 步骤1: 爬取文章
	articles := p.aggregator.Aggregate(ctx, p.cfg.Sources, p.cfg.Topic, p.cfg.MaxArticlesPerSource)
	if len(articles) == 0 {
		logger.Log.Error("未能获取任何文章，程序终止")
		return "", ErrNoArticles
	}

	// 步骤2: 预处理、去重并按时间排序
	processed := p.processor.Process(articles)
	unique := p.processor.Dedupe(processed, p.cfg.SimilarityThreshold)
	processor.SortByRecency(unique)
	if len(unique) == 0 {
		logger.Log.Error("规范化后没有文章存活，程序终止")
		return "", ErrNoArticles
	}

	// 步骤3: 综合分析
	result := p.analyzer.Analyze(ctx, unique, p.cfg.TopNEntities, p.cfg.TopNThemes)

	// 步骤4: 生成摘要页面
	outputFile, err := p.reporter.Generate(result, unique, p.cfg.Topic)
	if err != nil {
		return "", err
	}

	logger.Log.Infof("摘要生成完成，总耗时: %.2f秒", time.Since(start).Seconds())
	return outputFile, nil
}
