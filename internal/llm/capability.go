package llm

import (
	"context"
	"errors"

	dm "github.com/iWorld-y/news_digest/internal/model"
)

// ErrUnavailable 表示文本生成能力未配置或不可用
var ErrUnavailable = errors.New("文本生成能力不可用")

// Capability 抽象的文本生成能力边界，任何具体供应商都可替换实现
type Capability interface {
	// ExtractEntities 从文本中提取按重要性排序的关键实体
	ExtractEntities(ctx context.Context, text string, topN int) ([]dm.Entity, error)
	// Summarize 生成不超过 maxLength 字符的综合摘要
	Summarize(ctx context.Context, text string, maxLength int) (string, error)
	// IdentifyThemes 识别文本中最重要的主题
	IdentifyThemes(ctx context.Context, text string, topN int) ([]dm.Theme, error)
	// ExtractEvents 从单篇文章中提取带日期的子事件
	ExtractEvents(ctx context.Context, title, content string) ([]dm.TimelineEvent, error)
}
