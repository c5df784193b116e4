package processor

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/iWorld-y/news_digest/internal/model"
)

func TestCleanText(t *testing.T) {
	p := New(0)
	tests := []struct {
		in   string
		want string
	}{
		{"<p>Hello, World!</p>", "hello world"},
		{"AI  改变   世界。", "ai 改变 世界"},
		{"  <div>Mixed 内容 123!</div>  ", "mixed 内容 123"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := p.CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokenizeFiltersStopwordsAndShortTokens(t *testing.T) {
	p := New(0)
	got := p.Tokenize("the quick brown fox a is 的 数据 x")
	want := []string{"quick", "brown", "fox", "数据"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}

func TestExtractKeywordsFrequencyThenFirstOccurrence(t *testing.T) {
	tokens := []string{"ai", "ai", "data", "data", "data", "x"}
	got := ExtractKeywords(tokens, 2)
	want := []string{"data", "ai"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractKeywords() = %v, want %v", got, want)
	}
}

func TestExtractKeywordsTiesKeepFirstSeen(t *testing.T) {
	tokens := []string{"beta", "alpha", "beta", "alpha", "gamma"}
	got := ExtractKeywords(tokens, 3)
	// beta 与 alpha 同频，beta 先出现
	want := []string{"beta", "alpha", "gamma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractKeywords() = %v, want %v", got, want)
	}
}

func TestExtractKeywordsTopNLargerThanVocabulary(t *testing.T) {
	got := ExtractKeywords([]string{"only", "only"}, 10)
	if !reflect.DeepEqual(got, []string{"only"}) {
		t.Errorf("ExtractKeywords() = %v, want [only]", got)
	}
}

func TestNormalizeDateLayouts(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2023-10-05 14:30:00", time.Date(2023, 10, 5, 14, 30, 0, 0, time.UTC)},
		{"2023-10-05", time.Date(2023, 10, 5, 0, 0, 0, 0, time.UTC)},
		{"5 October 2023", time.Date(2023, 10, 5, 0, 0, 0, 0, time.UTC)},
		{"October 5, 2023", time.Date(2023, 10, 5, 0, 0, 0, 0, time.UTC)},
		{"2023/10/05", time.Date(2023, 10, 5, 0, 0, 0, 0, time.UTC)},
		{"05/10/2023", time.Date(2023, 10, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := NormalizeDate(tt.raw); !got.Equal(tt.want) {
			t.Errorf("NormalizeDate(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeDateUnparseableFallsBackToNow(t *testing.T) {
	before := time.Now()
	got := NormalizeDate("昨天下午")
	after := time.Now()
	if got.Before(before) || got.After(after) {
		t.Errorf("NormalizeDate() = %v, 应落在 [%v, %v] 之间", got, before, after)
	}
}

func TestProcessFiltersShortArticles(t *testing.T) {
	p := New(200)
	articles := []model.Article{
		{ID: "short", Title: "短文", Content: strings.Repeat("短", 150)},
		{ID: "exact", Title: "刚好", Content: strings.Repeat("好", 200)},
		{ID: "long", Title: "长文", Content: strings.Repeat("长", 300)},
	}

	got := p.Process(articles)
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].ID != "exact" || got[1].ID != "long" {
		t.Errorf("保留的文章 = [%s %s], want [exact long]", got[0].ID, got[1].ID)
	}
}

func TestProcessPopulatesDerivedFields(t *testing.T) {
	p := New(0)
	got := p.Process([]model.Article{{
		ID:            "a1",
		Title:         "AI Research Update!",
		Content:       "Machine learning research continues. Research drives progress.",
		PublishedDate: "2023-10-05",
	}})
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}

	a := got[0]
	if a.CleanedTitle != "ai research update" {
		t.Errorf("CleanedTitle = %q", a.CleanedTitle)
	}
	if len(a.Tokens) == 0 {
		t.Error("Tokens 为空")
	}
	if len(a.Keywords) == 0 || a.Keywords[0] != "research" {
		t.Errorf("Keywords = %v, 首位应为出现两次的 research", a.Keywords)
	}
	want := time.Date(2023, 10, 5, 0, 0, 0, 0, time.UTC)
	if !a.NormalizedDate.Equal(want) {
		t.Errorf("NormalizedDate = %v, want %v", a.NormalizedDate, want)
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"相同集合", []string{"ai", "news"}, []string{"news", "ai"}, 1.0},
		{"不相交", []string{"ai"}, []string{"quantum"}, 0.0},
		{"双空集", nil, nil, 0.0},
		{"半重叠", []string{"a", "b"}, []string{"b", "c"}, 1.0 / 3.0},
	}
	for _, tt := range tests {
		if got := Jaccard(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: Jaccard() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDedupeRemovesNearIdenticalTitles(t *testing.T) {
	p := New(0)
	articles := []model.NormalizedArticle{
		{Article: model.Article{ID: "a1"}, CleanedTitle: "ai 改变 医疗 行业"},
		{Article: model.Article{ID: "a2"}, CleanedTitle: "ai 改变 医疗 行业"},
		{Article: model.Article{ID: "a3"}, CleanedTitle: "量子 计算 最新 进展"},
	}

	got := p.Dedupe(articles, 0.8)
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].ID != "a1" || got[1].ID != "a3" {
		t.Errorf("保留的文章 = [%s %s], want [a1 a3]", got[0].ID, got[1].ID)
	}
}

func TestDedupeIdempotent(t *testing.T) {
	p := New(0)
	articles := []model.NormalizedArticle{
		{Article: model.Article{ID: "a1"}, CleanedTitle: "苹果 发布 新品"},
		{Article: model.Article{ID: "a2"}, CleanedTitle: "苹果 发布 新品 消息"},
		{Article: model.Article{ID: "a3"}, CleanedTitle: "特斯拉 财报 公布"},
	}

	once := p.Dedupe(articles, 0.5)
	twice := p.Dedupe(once, 0.5)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Dedupe 不幂等: once=%v twice=%v", ids(once), ids(twice))
	}
}

func TestDedupeThresholdIsExclusive(t *testing.T) {
	p := New(0)
	// 相似度恰好 0.5，阈值 0.5 时不算重复
	articles := []model.NormalizedArticle{
		{Article: model.Article{ID: "a1"}, CleanedTitle: "alpha beta"},
		{Article: model.Article{ID: "a2"}, CleanedTitle: "alpha beta gamma delta"},
	}
	if got := p.Dedupe(articles, 0.5); len(got) != 2 {
		t.Errorf("len(got) = %d, want 2（相似度等于阈值时保留）", len(got))
	}
}

func TestSortByRecencyStableDescending(t *testing.T) {
	d1 := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2023, 10, 2, 0, 0, 0, 0, time.UTC)
	articles := []model.NormalizedArticle{
		{Article: model.Article{ID: "old"}, NormalizedDate: d1},
		{Article: model.Article{ID: "new1"}, NormalizedDate: d2},
		{Article: model.Article{ID: "new2"}, NormalizedDate: d2},
	}

	SortByRecency(articles)
	want := []string{"new1", "new2", "old"}
	if !reflect.DeepEqual(ids(articles), want) {
		t.Errorf("SortByRecency() 顺序 = %v, want %v", ids(articles), want)
	}
}

func ids(articles []model.NormalizedArticle) []string {
	out := make([]string, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.ID)
	}
	return out
}
