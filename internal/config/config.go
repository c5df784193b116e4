package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	Topic                string   `yaml:"topic"`
	Sources              []string `yaml:"sources"`
	MaxArticlesPerSource int      `yaml:"max_articles_per_source"`
	MinTextLength        int      `yaml:"min_text_length"`
	TopNEntities         int      `yaml:"top_n_entities"`
	TopNThemes           int      `yaml:"top_n_themes"`
	SimilarityThreshold  float64  `yaml:"similarity_threshold"`
	OutputDir            string   `yaml:"output_dir"`
	Schedule             string   `yaml:"schedule"` // cron 表达式，为空时仅执行一次

	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Crawl       CrawlConfig       `yaml:"crawl"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// SearchConfig 搜索 API 相关配置
type SearchConfig struct {
	TavilyAPIKey string `yaml:"tavily_api_key"`
}

// CrawlConfig 抓取相关配置
type CrawlConfig struct {
	FetchRetries           int `yaml:"fetch_retries"`
	FetchRetryDelaySeconds int `yaml:"fetch_retry_delay_seconds"`
	TimeoutSeconds         int `yaml:"timeout_seconds"`
	ArticleDelaySeconds    int `yaml:"article_delay_seconds"`
	SourceDelaySeconds     int `yaml:"source_delay_seconds"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig LLM 限流配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// LoadConfig 从指定路径加载配置；path 为空时使用默认值加环境变量
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv 用环境变量覆盖配置，保持与 .env 部署方式兼容
func (c *Config) applyEnv() {
	if v := os.Getenv("EVENT_TOPIC"); v != "" {
		c.Topic = v
	}
	if v := os.Getenv("NEWS_SOURCES"); v != "" {
		c.Sources = splitSources(v)
	}
	if v, ok := envInt("MAX_ARTICLES_PER_SOURCE"); ok {
		c.MaxArticlesPerSource = v
	}
	if v, ok := envInt("MIN_TEXT_LENGTH"); ok {
		c.MinTextLength = v
	}
	if v, ok := envInt("TOP_N_ENTITIES"); ok {
		c.TopNEntities = v
	}
	if v, ok := envInt("TOP_N_THEMES"); ok {
		c.TopNThemes = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		c.Search.TavilyAPIKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Topic == "" {
		c.Topic = "人工智能"
	}
	if len(c.Sources) == 0 {
		c.Sources = []string{"bbc", "cnn", "nytimes", "reuters", "xinhua"}
	}
	if c.MaxArticlesPerSource <= 0 {
		c.MaxArticlesPerSource = 10
	}
	if c.MinTextLength < 0 {
		c.MinTextLength = 0
	} else if c.MinTextLength == 0 {
		c.MinTextLength = 200
	}
	if c.TopNEntities <= 0 {
		c.TopNEntities = 10
	}
	if c.TopNThemes <= 0 {
		c.TopNThemes = 5
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		c.SimilarityThreshold = 0.8
	}
	if c.OutputDir == "" {
		c.OutputDir = "./output"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-3.5-turbo"
	}
	if c.Crawl.FetchRetries <= 0 {
		c.Crawl.FetchRetries = 3
	}
	if c.Crawl.FetchRetryDelaySeconds <= 0 {
		c.Crawl.FetchRetryDelaySeconds = 2
	}
	if c.Crawl.TimeoutSeconds <= 0 {
		c.Crawl.TimeoutSeconds = 10
	}
	if c.Crawl.ArticleDelaySeconds <= 0 {
		c.Crawl.ArticleDelaySeconds = 2
	}
	if c.Crawl.SourceDelaySeconds <= 0 {
		c.Crawl.SourceDelaySeconds = 3
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 1
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = 20
	}
}

func splitSources(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
