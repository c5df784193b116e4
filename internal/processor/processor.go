package processor

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/iWorld-y/news_digest/internal/logger"
	"github.com/iWorld-y/news_digest/internal/model"
)

var (
	htmlTagRe = regexp.MustCompile(`<[^>]+>`)
	// 只保留字母、数字和空白（\p{L} 覆盖中日韩表意文字）
	nonWordRe  = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	spaceRe    = regexp.MustCompile(`\s+`)
	sentenceRe = regexp.MustCompile(`[.!?。！？]+`)
)

// 日期格式按固定顺序尝试，第一个解析成功的生效
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2 January 2006",
	"January 2, 2006",
	"2006/01/02",
	"02/01/2006",
}

// Processor 文章预处理器：清洗、分词、关键词提取、日期规范化与去重
type Processor struct {
	minTextLength int
	topNKeywords  int
	lower         cases.Caser
}

// New 创建处理器，minTextLength 为正文最短长度（按字符计，含中文）
func New(minTextLength int) *Processor {
	return &Processor{
		minTextLength: minTextLength,
		topNKeywords:  10,
		lower:         cases.Lower(language.Und),
	}
}

// Process 预处理文章列表：过滤过短文章并计算全部派生字段。
// 单篇文章处理失败时丢弃该篇并记录日志，不向上传播。
func (p *Processor) Process(articles []model.Article) []model.NormalizedArticle {
	logger.Log.Infof("开始处理 %d 篇文章", len(articles))

	processed := make([]model.NormalizedArticle, 0, len(articles))
	for _, article := range articles {
		if utf8.RuneCountInString(article.Content) < p.minTextLength {
			logger.Log.Warnf("文章过短，跳过: %s", article.Title)
			continue
		}
		processed = append(processed, p.normalize(article))
	}

	logger.Log.Infof("处理完成，保留 %d 篇有效文章", len(processed))
	return processed
}

// normalize 计算单篇文章的派生字段
func (p *Processor) normalize(article model.Article) model.NormalizedArticle {
	cleanedContent := p.CleanText(article.Content)
	cleanedTitle := p.CleanText(article.Title)
	tokens := p.Tokenize(cleanedContent)

	return model.NormalizedArticle{
		Article:        article,
		CleanedTitle:   cleanedTitle,
		CleanedContent: cleanedContent,
		Tokens:         tokens,
		Sentences:      splitSentences(cleanedContent),
		Keywords:       ExtractKeywords(tokens, p.topNKeywords),
		NormalizedDate: NormalizeDate(article.PublishedDate),
	}
}

// CleanText 清理文本：小写化、去 HTML 标签、去特殊字符、压缩空白
func (p *Processor) CleanText(text string) string {
	text = p.lower.String(text)
	text = htmlTagRe.ReplaceAllString(text, "")
	text = nonWordRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Tokenize 分词并过滤停用词、标点和单字符词
func (p *Processor) Tokenize(cleaned string) []string {
	var tokens []string
	for _, token := range strings.Fields(cleaned) {
		if _, ok := englishStopwords[token]; ok {
			continue
		}
		if _, ok := chineseStopwords[token]; ok {
			continue
		}
		if utf8.RuneCountInString(token) <= 1 {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// ExtractKeywords 基于词频提取前 topN 个关键词，
// 频次相同时按首次出现顺序排序
func ExtractKeywords(tokens []string, topN int) []string {
	type wordStat struct {
		word     string
		count    int
		firstIdx int
	}

	stats := make(map[string]*wordStat, len(tokens))
	var order []*wordStat
	for i, token := range tokens {
		if s, ok := stats[token]; ok {
			s.count++
			continue
		}
		s := &wordStat{word: token, count: 1, firstIdx: i}
		stats[token] = s
		order = append(order, s)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].firstIdx < order[j].firstIdx
	})

	if topN > len(order) {
		topN = len(order)
	}
	keywords := make([]string, 0, topN)
	for _, s := range order[:topN] {
		keywords = append(keywords, s.word)
	}
	return keywords
}

// NormalizeDate 按固定格式列表解析日期，全部失败时取当前时间
func NormalizeDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	logger.Log.Warnf("无法解析日期格式: %s", raw)
	return time.Now()
}

// Dedupe 移除重复或高度相似的文章。贪心增量：第一篇无条件保留，
// 之后每篇与所有已保留文章比较标题相似度，超过阈值即丢弃。
// 结果对输入顺序敏感，与历史行为保持一致。
func (p *Processor) Dedupe(articles []model.NormalizedArticle, threshold float64) []model.NormalizedArticle {
	if len(articles) <= 1 {
		return articles
	}

	logger.Log.Info("开始移除重复文章")
	unique := articles[:1:1]

	for _, article := range articles[1:] {
		isDuplicate := false
		for _, kept := range unique {
			if TitleSimilarity(article.CleanedTitle, kept.CleanedTitle) > threshold {
				isDuplicate = true
				break
			}
		}
		if !isDuplicate {
			unique = append(unique, article)
		}
	}

	logger.Log.Infof("移除了 %d 篇重复文章", len(articles)-len(unique))
	return unique
}

// TitleSimilarity 计算两个标题词集合的 Jaccard 相似度
func TitleSimilarity(a, b string) float64 {
	return Jaccard(strings.Fields(a), strings.Fields(b))
}

// Jaccard 计算两个词集合的 Jaccard 相似度，并集为空时定义为 0
func Jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, w := range a {
		setA[w] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, w := range b {
		setB[w] = struct{}{}
	}

	union := len(setA)
	intersection := 0
	for w := range setB {
		if _, ok := setA[w]; ok {
			intersection++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// SortByRecency 按规范化日期降序稳定排序（最新在前）
func SortByRecency(articles []model.NormalizedArticle) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].NormalizedDate.After(articles[j].NormalizedDate)
	})
}

func splitSentences(cleaned string) []string {
	var sentences []string
	for _, s := range sentenceRe.Split(cleaned, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
