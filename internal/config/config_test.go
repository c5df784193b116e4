package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"EVENT_TOPIC", "NEWS_SOURCES", "MAX_ARTICLES_PER_SOURCE", "MIN_TEXT_LENGTH", "OPENAI_API_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Topic != "人工智能" {
		t.Errorf("Topic = %q, want 人工智能", cfg.Topic)
	}
	wantSources := []string{"bbc", "cnn", "nytimes", "reuters", "xinhua"}
	if !reflect.DeepEqual(cfg.Sources, wantSources) {
		t.Errorf("Sources = %v, want %v", cfg.Sources, wantSources)
	}
	if cfg.MaxArticlesPerSource != 10 || cfg.MinTextLength != 200 {
		t.Errorf("MaxArticlesPerSource = %d, MinTextLength = %d, want 10/200", cfg.MaxArticlesPerSource, cfg.MinTextLength)
	}
	if cfg.TopNEntities != 10 || cfg.TopNThemes != 5 {
		t.Errorf("TopN = %d/%d, want 10/5", cfg.TopNEntities, cfg.TopNThemes)
	}
	if cfg.SimilarityThreshold != 0.8 {
		t.Errorf("SimilarityThreshold = %v, want 0.8", cfg.SimilarityThreshold)
	}
	if cfg.Crawl.FetchRetries != 3 || cfg.Crawl.TimeoutSeconds != 10 {
		t.Errorf("Crawl = %+v, 默认值不符", cfg.Crawl)
	}
	if cfg.Concurrency.QPS != 1 || cfg.Concurrency.RPM != 20 {
		t.Errorf("Concurrency = %+v, 默认值不符", cfg.Concurrency)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	for _, key := range []string{"EVENT_TOPIC", "NEWS_SOURCES", "MAX_ARTICLES_PER_SOURCE"} {
		t.Setenv(key, "")
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `topic: 量子计算
sources:
  - bbc
  - googlenews
max_articles_per_source: 3
similarity_threshold: 0.6
llm:
  model: gpt-4o
crawl:
  fetch_retries: 5
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Topic != "量子计算" {
		t.Errorf("Topic = %q, want 量子计算", cfg.Topic)
	}
	if !reflect.DeepEqual(cfg.Sources, []string{"bbc", "googlenews"}) {
		t.Errorf("Sources = %v", cfg.Sources)
	}
	if cfg.MaxArticlesPerSource != 3 || cfg.SimilarityThreshold != 0.6 {
		t.Errorf("覆盖值未生效: %+v", cfg)
	}
	if cfg.LLM.Model != "gpt-4o" || cfg.Crawl.FetchRetries != 5 {
		t.Errorf("嵌套覆盖值未生效: llm=%+v crawl=%+v", cfg.LLM, cfg.Crawl)
	}
	// 未覆盖的字段仍取默认值
	if cfg.TopNEntities != 10 {
		t.Errorf("TopNEntities = %d, want 10", cfg.TopNEntities)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("EVENT_TOPIC", "气候变化")
	t.Setenv("NEWS_SOURCES", "bbc, cnn ,googlenews")
	t.Setenv("MAX_ARTICLES_PER_SOURCE", "7")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Topic != "气候变化" {
		t.Errorf("Topic = %q, want 气候变化", cfg.Topic)
	}
	if !reflect.DeepEqual(cfg.Sources, []string{"bbc", "cnn", "googlenews"}) {
		t.Errorf("Sources = %v, 逗号分隔未正确解析", cfg.Sources)
	}
	if cfg.MaxArticlesPerSource != 7 {
		t.Errorf("MaxArticlesPerSource = %d, want 7", cfg.MaxArticlesPerSource)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("LLM.APIKey = %q, want sk-test", cfg.LLM.APIKey)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfig() error = nil, want error for missing file")
	}
}
