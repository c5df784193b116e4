package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/news_digest/internal/config"
	dm "github.com/iWorld-y/news_digest/internal/model"
)

// Client 基于 OpenAI 协议聊天模型的能力实现
type Client struct {
	cm      model.ChatModel
	limiter *rate.Limiter
}

var _ Capability = (*Client)(nil)

// NewClient 创建 LLM 客户端。未配置 API Key 时返回 ErrUnavailable，
// 调用方应转用兜底能力而非中止流程。
func NewClient(ctx context.Context, cfg config.LLMConfig, limiter *rate.Limiter) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrUnavailable
	}

	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	return &Client{cm: cm, limiter: limiter}, nil
}

// ExtractEntities 提取关键实体
func (c *Client) ExtractEntities(ctx context.Context, text string, topN int) ([]dm.Entity, error) {
	system := "你是一个实体提取专家。请从文本中提取关键实体，并按重要性排序。"
	user := fmt.Sprintf(`请从以下文本中提取最重要的%d个实体。为每个实体提供类型（如人物、组织、地点、技术等）和简要描述。以JSON数组格式返回：[{"name": "实体名", "type": "实体类型", "description": "简要描述"}, ...]

文本：%s`, topN, text)

	content, err := c.generate(ctx, system, user)
	if err != nil {
		return nil, err
	}

	var entities []dm.Entity
	if err := json.Unmarshal([]byte(content), &entities); err != nil {
		return nil, fmt.Errorf("解析实体列表失败: %w", err)
	}
	if len(entities) > topN {
		entities = entities[:topN]
	}
	return entities, nil
}

// Summarize 生成综合摘要
func (c *Client) Summarize(ctx context.Context, text string, maxLength int) (string, error) {
	system := "你是一个专业的摘要生成器。请生成简洁、全面且信息丰富的摘要。"
	user := fmt.Sprintf(`请为以下文本生成一个全面的摘要，长度不超过%d个字符。摘要应包含关键事件、重要发现和主要结论。

文本：%s`, maxLength, text)

	return c.generate(ctx, system, user)
}

// IdentifyThemes 识别主要主题
func (c *Client) IdentifyThemes(ctx context.Context, text string, topN int) ([]dm.Theme, error) {
	system := "你是一个主题分析专家。请从文本中识别主要主题和趋势。"
	user := fmt.Sprintf(`请从以下文本中识别最重要的%d个主题。为每个主题提供名称和简要描述。以JSON数组格式返回：[{"name": "主题名称", "description": "主题描述"}, ...]

文本：%s`, topN, text)

	content, err := c.generate(ctx, system, user)
	if err != nil {
		return nil, err
	}

	var themes []dm.Theme
	if err := json.Unmarshal([]byte(content), &themes); err != nil {
		return nil, fmt.Errorf("解析主题列表失败: %w", err)
	}
	if len(themes) > topN {
		themes = themes[:topN]
	}
	return themes, nil
}

// ExtractEvents 从单篇文章中提取事件信息
func (c *Client) ExtractEvents(ctx context.Context, title, content string) ([]dm.TimelineEvent, error) {
	system := "你是一个时间线分析专家。请从文章中提取具体的事件和时间信息。"
	user := fmt.Sprintf(`请从以下文章中提取具体的事件信息。以JSON数组格式返回：[{"date": "日期", "event": "事件描述"}, ...]

文章标题：%s
文章内容：%s`, title, content)

	raw, err := c.generate(ctx, system, user)
	if err != nil {
		return nil, err
	}

	var events []dm.TimelineEvent
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		return nil, fmt.Errorf("解析事件列表失败: %w", err)
	}
	return events, nil
}

// generate 调用聊天模型并清理返回内容，429 时指数退避重试
func (c *Client) generate(ctx context.Context, system, user string) (string, error) {
	maxRetries := 3
	baseDelay := 2 * time.Second
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		messages := []*schema.Message{
			{Role: schema.System, Content: system},
			{Role: schema.User, Content: user},
		}

		resp, err := c.cm.Generate(ctx, messages)
		if err != nil {
			if strings.Contains(err.Error(), "429") || strings.Contains(strings.ToLower(err.Error()), "too many requests") {
				lastErr = err
				if i < maxRetries {
					time.Sleep(baseDelay * time.Duration(1<<i))
					continue
				}
			}
			return "", err
		}

		content := strings.TrimSpace(resp.Content)
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		return strings.TrimSpace(content), nil
	}
	return "", lastErr
}
