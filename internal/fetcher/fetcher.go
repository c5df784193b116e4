package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iWorld-y/news_digest/internal/logger"
)

// 模拟浏览器 UA，避免被简单的反爬虫策略拦截
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Fetcher 带重试的 HTTP 抓取器。抓取失败返回 error，
// 调用方应视为"走兜底路径"而非致命错误。
type Fetcher struct {
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
}

// New 创建抓取器。maxRetries 为总尝试次数（至少 1），
// retryDelay 为两次尝试之间的固定等待（无抖动）。
func New(timeout time.Duration, maxRetries int, retryDelay time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Fetch 抓取 URL 内容，非 200 状态或传输错误均计为一次失败尝试
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		body, err := f.doFetch(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		logger.Log.Warnf("获取URL时出错: %v, URL: %s", err, rawURL)

		// 最后一次尝试之后不再等待
		if attempt < f.maxRetries {
			logger.Log.Infof("第 %d 次尝试失败，等待 %s 后重试...", attempt, f.retryDelay)
			select {
			case <-time.After(f.retryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	logger.Log.Errorf("达到最大重试次数，无法获取URL: %s", rawURL)
	return "", fmt.Errorf("fetch %s: 达到最大重试次数 (%d): %w", rawURL, f.maxRetries, lastErr)
}

func (f *Fetcher) doFetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read body failed: %w", err)
	}
	return string(body), nil
}
