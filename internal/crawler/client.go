package crawler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"taiwan-lottery-bot/internal/config"
	"taiwan-lottery-bot/internal/engine"
	"taiwan-lottery-bot/internal/logger"
)

// Client 开奖数据采集客户端
// 按游戏逐个请求操作端接口，带重试和指数退避
type Client struct {
	httpClient *http.Client
	baseURL    string
	retryCount int
	retryDelay time.Duration
}

// feedResponse 操作端接口的响应格式
type feedResponse struct {
	Message string    `json:"message"`
	Data    []feedRow `json:"data"`
}

// feedRow 操作端返回的单期开奖
type feedRow struct {
	Period  string `json:"period"`
	Date    string `json:"date"`
	Numbers string `json:"numbers"` // 逗号分隔
	Special string `json:"special,omitempty"`
}

// NewClient 创建采集客户端
func NewClient(cfg *config.Crawler) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    cfg.BaseURL,
		retryCount: cfg.RetryCount,
		retryDelay: cfg.RetryDelay,
	}
}

// FetchDraws 抓取某游戏最近periods期的开奖数据
// 单行解析失败只跳过该行，由下游的窗口校验统一处理数据质量
func (c *Client) FetchDraws(gameID string, periods int) ([]engine.RawDraw, error) {
	url := fmt.Sprintf("%s/draws/%s?limit=%d", c.baseURL, gameID, periods)

	var lastErr error
	for attempt := 0; attempt <= c.retryCount; attempt++ {
		if attempt > 0 {
			logger.Warnf("Crawler retry attempt %d/%d for %s", attempt, c.retryCount, gameID)
			time.Sleep(c.retryDelay * time.Duration(attempt))
		}

		resp, err := c.makeRequest(url)
		if err != nil {
			lastErr = err
			continue
		}
		return c.convertRows(gameID, resp.Data), nil
	}
	return nil, fmt.Errorf("failed to fetch draws for %s after %d attempts: %v",
		gameID, c.retryCount, lastErr)
}

// makeRequest 执行HTTP请求
func (c *Client) makeRequest(url string) (*feedResponse, error) {
	logger.Debugf("Fetching draw feed: %s", url)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	var feed feedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %v", err)
	}
	if feed.Message != "success" {
		return nil, fmt.Errorf("feed returned error message: %s", feed.Message)
	}
	return &feed, nil
}

// convertRows 把接口行转换为引擎的原始开奖行
func (c *Client) convertRows(gameID string, rows []feedRow) []engine.RawDraw {
	raws := make([]engine.RawDraw, 0, len(rows))
	for _, row := range rows {
		raw, err := convertRow(row)
		if err != nil {
			logger.Warnf("Skipping malformed feed row for %s period %s: %v", gameID, row.Period, err)
			continue
		}
		raws = append(raws, *raw)
	}
	logger.Debugf("Fetched %d draw rows for %s", len(raws), gameID)
	return raws
}

// convertRow 解析单行，号码格式为逗号分隔
func convertRow(row feedRow) (*engine.RawDraw, error) {
	if row.Period == "" {
		return nil, fmt.Errorf("empty period")
	}

	parts := strings.Split(row.Numbers, ",")
	nums := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", part)
		}
		nums = append(nums, n)
	}

	raw := &engine.RawDraw{
		Period:  row.Period,
		Date:    row.Date,
		Numbers: nums,
	}
	if row.Special != "" {
		sp, err := strconv.Atoi(strings.TrimSpace(row.Special))
		if err != nil {
			return nil, fmt.Errorf("invalid special number %q", row.Special)
		}
		raw.Special = &sp
	}
	return raw, nil
}

// HealthCheck 检查数据源可用性
func (c *Client) HealthCheck(gameID string) error {
	if _, err := c.FetchDraws(gameID, 1); err != nil {
		return fmt.Errorf("crawler health check failed: %v", err)
	}
	logger.Debug("Crawler health check passed")
	return nil
}
