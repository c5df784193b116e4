package analyzer

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/iWorld-y/news_digest/internal/llm"
	"github.com/iWorld-y/news_digest/internal/logger"
	dm "github.com/iWorld-y/news_digest/internal/model"
)

// 提交给外部能力前的截断长度（按字符计），控制提示词体积
const (
	entityTextLimit  = 2000
	summaryTextLimit = 3000
	eventTextLimit   = 1000

	summaryMaxLength = 500

	// 时间线：至多对最早的 10 篇文章逐篇提取事件，最终保留 20 条
	timelineArticleLimit = 10
	timelineEventLimit   = 20
)

// 兜底时间线的叙事模板与领域标签，按文章位置循环取用
var (
	eventTemplates = []string{
		"研究人员发布了关于{topic}的重要研究成果",
		"{topic}技术在{field}领域取得突破",
		"主要科技公司发布新一代{topic}产品",
		"专家召开关于{topic}发展趋势的研讨会",
		"相关监管机构提出{topic}监管框架草案",
	}
	eventFields = []string{"医疗健康", "金融服务", "智能制造", "交通运输", "教育科技"}
)

// Analyzer 综合分析器：在规范化语料上生成实体、摘要、主题和时间线
type Analyzer struct {
	capability llm.Capability
	topic      string
}

// New 创建分析器。capability 通常为 llm.WithFallback 包装后的能力。
func New(capability llm.Capability, topic string) *Analyzer {
	return &Analyzer{capability: capability, topic: topic}
}

// Analyze 分析多篇文章。每个子操作在自身边界内兜底，
// 本方法不对外失败，返回的结果四个字段始终填充。
func (a *Analyzer) Analyze(ctx context.Context, articles []dm.NormalizedArticle, topNEntities, topNThemes int) dm.AnalysisResult {
	logger.Log.Infof("开始分析 %d 篇文章", len(articles))

	contents := make([]string, 0, len(articles))
	for _, article := range articles {
		contents = append(contents, article.Content)
	}
	combined := strings.Join(contents, "\n\n")

	entities, err := a.capability.ExtractEntities(ctx, truncateRunes(combined, entityTextLimit), topNEntities)
	if err != nil {
		logger.Log.Errorf("实体提取失败: %v", err)
		entities = llm.FallbackEntities(topNEntities)
	}

	summary, err := a.capability.Summarize(ctx, truncateRunes(combined, summaryTextLimit), summaryMaxLength)
	if err != nil {
		logger.Log.Errorf("摘要生成失败: %v", err)
		summary = llm.FallbackSummary
	}

	themes, err := a.capability.IdentifyThemes(ctx, truncateRunes(combined, entityTextLimit), topNThemes)
	if err != nil {
		logger.Log.Errorf("主题识别失败: %v", err)
		themes = llm.FallbackThemes(topNThemes)
	}

	timeline := a.buildTimeline(ctx, articles)

	logger.Log.Info("分析完成")
	return dm.AnalysisResult{
		Summary:  summary,
		Entities: entities,
		Themes:   themes,
		Timeline: timeline,
	}
}

// buildTimeline 构建事件时间线。文章先按日期升序排列，对最早的若干篇
// 逐篇提取事件；能力不可用或任一调用失败时，整条时间线退回为按文章
// 生成的模板事件。最终统一按日期字符串升序并截断。
func (a *Analyzer) buildTimeline(ctx context.Context, articles []dm.NormalizedArticle) []dm.TimelineEvent {
	sorted := make([]dm.NormalizedArticle, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NormalizedDate.Before(sorted[j].NormalizedDate)
	})

	limit := len(sorted)
	if limit > timelineArticleLimit {
		limit = timelineArticleLimit
	}

	var timeline []dm.TimelineEvent
	failed := false
	for _, article := range sorted[:limit] {
		events, err := a.capability.ExtractEvents(ctx, article.Title, truncateRunes(article.Content, eventTextLimit))
		if err != nil {
			if !errors.Is(err, llm.ErrUnavailable) {
				logger.Log.Errorf("使用LLM构建时间线时出错: %v", err)
			}
			failed = true
			break
		}
		timeline = append(timeline, events...)
	}

	if failed {
		timeline = a.syntheticTimeline(sorted)
	}

	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Date < timeline[j].Date
	})
	if len(timeline) > timelineEventLimit {
		timeline = timeline[:timelineEventLimit]
	}
	return timeline
}

// syntheticTimeline 基于文章日期生成模板事件，每篇一条
func (a *Analyzer) syntheticTimeline(sorted []dm.NormalizedArticle) []dm.TimelineEvent {
	timeline := make([]dm.TimelineEvent, 0, len(sorted))
	for i, article := range sorted {
		event := strings.ReplaceAll(eventTemplates[i%len(eventTemplates)], "{topic}", a.topic)
		event = strings.ReplaceAll(event, "{field}", eventFields[i%len(eventFields)])
		timeline = append(timeline, dm.TimelineEvent{
			Date:  article.NormalizedDate.Format("2006-01-02"),
			Event: event,
		})
	}
	return timeline
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
