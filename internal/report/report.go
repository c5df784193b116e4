package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iWorld-y/news_digest/internal/logger"
	"github.com/iWorld-y/news_digest/internal/model"
)

// 报告页面最多展示的文章数
const maxDisplayArticles = 10

// PageData 模板渲染数据，字段集合即渲染边界的数据契约
type PageData struct {
	Topic          string
	GenerationTime string
	Summary        string
	Entities       []model.Entity
	Themes         []model.Theme
	Timeline       []model.TimelineEvent
	Articles       []model.NormalizedArticle
}

// Generator 页面生成器，将分析结果渲染为静态 HTML 报告
type Generator struct {
	outputDir string
}

// NewGenerator 创建页面生成器
func NewGenerator(outputDir string) *Generator {
	return &Generator{outputDir: outputDir}
}

// Generate 渲染摘要页面并写入输出目录，返回生成文件路径
func (g *Generator) Generate(result model.AnalysisResult, articles []model.NormalizedArticle, topic string) (string, error) {
	logger.Log.Infof("开始生成关于 '%s' 的摘要页面", topic)

	if len(articles) > maxDisplayArticles {
		articles = articles[:maxDisplayArticles]
	}

	data := PageData{
		Topic:          topic,
		GenerationTime: time.Now().Format("2006-01-02 15:04:05"),
		Summary:        result.Summary,
		Entities:       result.Entities,
		Themes:         result.Themes,
		Timeline:       result.Timeline,
		Articles:       articles,
	}

	t, err := template.New("summary").Parse(pageTemplate)
	if err != nil {
		return "", fmt.Errorf("解析模板失败: %w", err)
	}

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}

	outputFile := filepath.Join(g.outputDir, fmt.Sprintf("summary_%s.html", strings.ReplaceAll(topic, " ", "_")))
	f, err := os.Create(outputFile)
	if err != nil {
		return "", fmt.Errorf("创建输出文件失败: %w", err)
	}
	defer f.Close()

	if err := t.Execute(f, data); err != nil {
		return "", fmt.Errorf("渲染模板失败: %w", err)
	}

	logger.Log.Infof("摘要页面已保存至: %s", outputFile)
	return outputFile, nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Topic}} - 自动生成摘要页面</title>
    <style>
        :root {
            --primary-color: #2563eb;
            --bg-color: #f8fafc;
            --card-bg: #ffffff;
            --text-main: #1e293b;
            --text-secondary: #64748b;
            --border-color: #e2e8f0;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            background-color: var(--bg-color);
            color: var(--text-main);
            line-height: 1.6;
            margin: 0;
            padding: 20px;
        }
        .container { max-width: 900px; margin: 0 auto; }
        header { text-align: center; margin-bottom: 40px; padding: 20px 0; }
        h1 { font-size: 2.2rem; margin: 0 0 10px 0; }
        .date-info { color: var(--text-secondary); }
        .card {
            background: var(--card-bg);
            border-radius: 12px;
            padding: 24px;
            margin-bottom: 30px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.05);
            border: 1px solid var(--border-color);
        }
        .card h2 {
            margin-top: 0;
            border-bottom: 2px solid var(--primary-color);
            padding-bottom: 10px;
            display: inline-block;
        }
        .entity-grid { display: grid; gap: 16px; grid-template-columns: 1fr; }
        @media (min-width: 768px) { .entity-grid { grid-template-columns: 1fr 1fr; } }
        .entity {
            background: #f8fafc;
            padding: 14px;
            border-radius: 8px;
            border-left: 4px solid var(--primary-color);
        }
        .entity .type {
            font-size: 0.8rem;
            color: var(--text-secondary);
            margin-left: 8px;
        }
        .theme { margin-bottom: 14px; }
        .theme .name { font-weight: bold; }
        .timeline { list-style: none; padding: 0; }
        .timeline li {
            padding: 10px 0 10px 20px;
            border-left: 3px solid var(--border-color);
        }
        .timeline .date { font-weight: bold; color: var(--primary-color); margin-right: 10px; }
        .article-list { list-style: none; padding: 0; }
        .article-list li { margin-bottom: 12px; }
        .article-list a { color: var(--primary-color); text-decoration: none; }
        .article-list a:hover { text-decoration: underline; }
        .article-list .meta { color: var(--text-secondary); font-size: 0.85rem; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>📰 {{.Topic}}</h1>
            <div class="date-info">生成时间：{{.GenerationTime}}</div>
        </header>

        <div class="card">
            <h2>📝 综合摘要</h2>
            <p>{{.Summary}}</p>
        </div>

        <div class="card">
            <h2>🏷️ 关键实体</h2>
            <div class="entity-grid">
                {{range .Entities}}
                <div class="entity">
                    <strong>{{.Name}}</strong><span class="type">{{.Type}}</span>
                    <div>{{.Description}}</div>
                </div>
                {{end}}
            </div>
        </div>

        <div class="card">
            <h2>💡 主要主题</h2>
            {{range .Themes}}
            <div class="theme">
                <span class="name">{{.Name}}</span> — {{.Description}}
            </div>
            {{end}}
        </div>

        <div class="card">
            <h2>🕒 事件时间线</h2>
            <ul class="timeline">
                {{range .Timeline}}
                <li><span class="date">{{.Date}}</span>{{.Event}}</li>
                {{end}}
            </ul>
        </div>

        <div class="card">
            <h2>🔗 参考文章</h2>
            <ul class="article-list">
                {{range .Articles}}
                <li>
                    <a href="{{.URL}}" target="_blank">{{.Title}}</a>
                    <div class="meta">{{.Source}} • {{.PublishedDate}}</div>
                </li>
                {{end}}
            </ul>
        </div>
    </div>
</body>
</html>
`
