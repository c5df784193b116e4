package llm

import (
	"context"
	"errors"
	"reflect"
	"testing"

	dm "github.com/iWorld-y/news_digest/internal/model"
)

// brokenCapability 所有调用均失败的能力桩
type brokenCapability struct{}

var errBroken = errors.New("上游服务不可用")

func (brokenCapability) ExtractEntities(context.Context, string, int) ([]dm.Entity, error) {
	return nil, errBroken
}

func (brokenCapability) Summarize(context.Context, string, int) (string, error) {
	return "", errBroken
}

func (brokenCapability) IdentifyThemes(context.Context, string, int) ([]dm.Theme, error) {
	return nil, errBroken
}

func (brokenCapability) ExtractEvents(context.Context, string, string) ([]dm.TimelineEvent, error) {
	return nil, errBroken
}

func TestWithFallbackNilInner(t *testing.T) {
	ctx := context.Background()
	c := WithFallback(nil)

	entities, err := c.ExtractEntities(ctx, "任意文本", 3)
	if err != nil {
		t.Fatalf("ExtractEntities() error = %v", err)
	}
	if !reflect.DeepEqual(entities, FallbackEntities(3)) {
		t.Errorf("ExtractEntities() = %v, want 固定兜底前 3 条", entities)
	}

	summary, err := c.Summarize(ctx, "任意文本", 500)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary != FallbackSummary {
		t.Errorf("Summarize() = %q, want 固定兜底摘要", summary)
	}

	themes, err := c.IdentifyThemes(ctx, "任意文本", 2)
	if err != nil {
		t.Fatalf("IdentifyThemes() error = %v", err)
	}
	if !reflect.DeepEqual(themes, FallbackThemes(2)) {
		t.Errorf("IdentifyThemes() = %v, want 固定兜底前 2 条", themes)
	}

	if _, err := c.ExtractEvents(ctx, "标题", "正文"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("ExtractEvents() error = %v, want ErrUnavailable", err)
	}
}

func TestWithFallbackErroringInner(t *testing.T) {
	ctx := context.Background()
	c := WithFallback(brokenCapability{})

	entities, err := c.ExtractEntities(ctx, "文本", 5)
	if err != nil {
		t.Fatalf("ExtractEntities() error = %v", err)
	}
	if !reflect.DeepEqual(entities, FallbackEntities(5)) {
		t.Errorf("ExtractEntities() 未使用兜底数据")
	}

	summary, err := c.Summarize(ctx, "文本", 500)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary != FallbackSummary {
		t.Errorf("Summarize() 未使用兜底摘要")
	}

	themes, err := c.IdentifyThemes(ctx, "文本", 5)
	if err != nil {
		t.Fatalf("IdentifyThemes() error = %v", err)
	}
	if !reflect.DeepEqual(themes, FallbackThemes(5)) {
		t.Errorf("IdentifyThemes() 未使用兜底数据")
	}

	// 事件提取的兜底由上层基于文章生成，错误原样透传
	if _, err := c.ExtractEvents(ctx, "标题", "正文"); !errors.Is(err, errBroken) {
		t.Errorf("ExtractEvents() error = %v, want 透传 %v", err, errBroken)
	}
}

func TestFallbackPayloadsAreCopies(t *testing.T) {
	a := FallbackEntities(3)
	a[0].Name = "已篡改"
	b := FallbackEntities(3)
	if b[0].Name == "已篡改" {
		t.Error("FallbackEntities() 返回了共享底层数组")
	}

	x := FallbackThemes(2)
	x[0].Name = "已篡改"
	y := FallbackThemes(2)
	if y[0].Name == "已篡改" {
		t.Error("FallbackThemes() 返回了共享底层数组")
	}
}

func TestFallbackTopNClamped(t *testing.T) {
	if got := FallbackEntities(100); len(got) != 10 {
		t.Errorf("len(FallbackEntities(100)) = %d, want 10", len(got))
	}
	if got := FallbackThemes(100); len(got) != 5 {
		t.Errorf("len(FallbackThemes(100)) = %d, want 5", len(got))
	}
}
