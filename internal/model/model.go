package model

import "time"

// Article 单篇原始文章，由来源爬虫产出
type Article struct {
	ID            string // 带来源前缀的唯一标识
	Title         string
	Content       string
	URL           string
	PublishedDate string // 来源原始格式，规范化前不解析
	Source        string // 来源展示名
}

// NormalizedArticle 预处理后的文章，在原始字段之上附加派生字段
type NormalizedArticle struct {
	Article
	CleanedTitle   string
	CleanedContent string
	Tokens         []string
	Sentences      []string
	Keywords       []string
	NormalizedDate time.Time // 解析失败时为处理时刻，保证非零
}

// Entity 关键实体
type Entity struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Theme 主要主题
type Theme struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TimelineEvent 时间线上的单个事件
type TimelineEvent struct {
	Date  string `json:"date"`
	Event string `json:"event"`
}

// AnalysisResult 综合分析结果，四个字段始终填充（可能为兜底内容）
type AnalysisResult struct {
	Summary  string
	Entities []Entity
	Themes   []Theme
	Timeline []TimelineEvent
}
