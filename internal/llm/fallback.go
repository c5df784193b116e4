package llm

import (
	"context"

	"github.com/iWorld-y/news_digest/internal/logger"
	dm "github.com/iWorld-y/news_digest/internal/model"
)

// FallbackSummary 能力不可用时的固定摘要。兜底内容为手工撰写的占位文本，
// 只保证结构完整，不反映实际语料。
const FallbackSummary = "这是关于人工智能最新进展的综合摘要。近期研究表明，人工智能技术在多个领域取得了重大突破，包括大型语言模型、计算机视觉和机器人技术。专家预测，这些技术将在未来几年对社会和经济产生深远影响。"

var fallbackEntities = []dm.Entity{
	{Name: "大型语言模型", Type: "技术", Description: "能够理解和生成人类语言的AI系统"},
	{Name: "GPT-4", Type: "产品", Description: "OpenAI开发的最新一代大型语言模型"},
	{Name: "计算机视觉", Type: "技术领域", Description: "让计算机理解和解释图像的技术"},
	{Name: "深度学习", Type: "技术方法", Description: "基于神经网络的机器学习方法"},
	{Name: "人工智能伦理", Type: "研究领域", Description: "研究AI技术的道德和社会影响"},
	{Name: "OpenAI", Type: "组织", Description: "领先的人工智能研究公司"},
	{Name: "Google DeepMind", Type: "组织", Description: "专注于人工智能研究的公司"},
	{Name: "自然语言处理", Type: "技术领域", Description: "让计算机处理人类语言的技术"},
	{Name: "强化学习", Type: "技术方法", Description: "通过奖惩机制学习最优策略的方法"},
	{Name: "自动驾驶", Type: "应用领域", Description: "使用AI技术实现车辆自动行驶"},
}

var fallbackThemes = []dm.Theme{
	{Name: "大型语言模型的发展", Description: "大型语言模型在规模、能力和应用方面的最新进展"},
	{Name: "人工智能的伦理挑战", Description: "AI技术发展带来的隐私、偏见和安全等伦理问题"},
	{Name: "跨模态AI系统", Description: "能够处理文本、图像、音频等多种数据类型的AI系统"},
	{Name: "AI在医疗领域的应用", Description: "人工智能技术在医疗诊断、药物研发等方面的应用"},
	{Name: "AI监管与政策", Description: "全球范围内对人工智能技术的监管框架和政策讨论"},
}

// FallbackEntities 返回前 topN 条固定实体
func FallbackEntities(topN int) []dm.Entity {
	if topN > len(fallbackEntities) {
		topN = len(fallbackEntities)
	}
	out := make([]dm.Entity, topN)
	copy(out, fallbackEntities[:topN])
	return out
}

// FallbackThemes 返回前 topN 条固定主题
func FallbackThemes(topN int) []dm.Theme {
	if topN > len(fallbackThemes) {
		topN = len(fallbackThemes)
	}
	out := make([]dm.Theme, topN)
	copy(out, fallbackThemes[:topN])
	return out
}

// WithFallback 包装底层能力：inner 为 nil 或调用失败时提供固定兜底内容，
// 使上层分析逻辑无需关心兜底细节。事件提取的兜底由分析器基于文章
// 自身生成，此处仅上报 ErrUnavailable。
func WithFallback(inner Capability) Capability {
	return &fallbackCapability{inner: inner}
}

type fallbackCapability struct {
	inner Capability
}

func (f *fallbackCapability) ExtractEntities(ctx context.Context, text string, topN int) ([]dm.Entity, error) {
	if f.inner == nil {
		logger.Log.Warn("未配置文本生成能力，实体提取使用兜底数据")
		return FallbackEntities(topN), nil
	}
	entities, err := f.inner.ExtractEntities(ctx, text, topN)
	if err != nil {
		logger.Log.Errorf("使用LLM提取实体时出错: %v", err)
		return FallbackEntities(topN), nil
	}
	return entities, nil
}

func (f *fallbackCapability) Summarize(ctx context.Context, text string, maxLength int) (string, error) {
	if f.inner == nil {
		logger.Log.Warn("未配置文本生成能力，摘要使用兜底数据")
		return FallbackSummary, nil
	}
	summary, err := f.inner.Summarize(ctx, text, maxLength)
	if err != nil {
		logger.Log.Errorf("使用LLM生成摘要时出错: %v", err)
		return FallbackSummary, nil
	}
	return summary, nil
}

func (f *fallbackCapability) IdentifyThemes(ctx context.Context, text string, topN int) ([]dm.Theme, error) {
	if f.inner == nil {
		logger.Log.Warn("未配置文本生成能力，主题识别使用兜底数据")
		return FallbackThemes(topN), nil
	}
	themes, err := f.inner.IdentifyThemes(ctx, text, topN)
	if err != nil {
		logger.Log.Errorf("使用LLM识别主题时出错: %v", err)
		return FallbackThemes(topN), nil
	}
	return themes, nil
}

func (f *fallbackCapability) ExtractEvents(ctx context.Context, title, content string) ([]dm.TimelineEvent, error) {
	if f.inner == nil {
		return nil, ErrUnavailable
	}
	return f.inner.ExtractEvents(ctx, title, content)
}
