package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DrawRow 开奖数据行
type DrawRow struct {
	ID        int64     `json:"id" db:"id"`
	GameID    string    `json:"game_id" db:"game_id"`
	Period    string    `json:"period" db:"period"`
	DrawDate  string    `json:"draw_date" db:"draw_date"`
	Numbers   string    `json:"numbers" db:"numbers"` // "+"分隔，如 "3+12+19+27+35"
	Special   *int      `json:"special" db:"special"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PredictionRow 预测记录行
type PredictionRow struct {
	ID               int64      `json:"id" db:"id"`
	GameID           string     `json:"game_id" db:"game_id"`
	PredictedNumbers string     `json:"predicted_numbers" db:"predicted_numbers"`
	PredictedSpecial *int       `json:"predicted_special" db:"predicted_special"`
	Method           string     `json:"method" db:"method"`
	Confidence       float64    `json:"confidence" db:"confidence"`
	WindowSize       int        `json:"window_size" db:"window_size"`
	HitCount         *int       `json:"hit_count" db:"hit_count"` // 对照实际开奖后命中的号码数
	VerifiedAt       *time.Time `json:"verified_at" db:"verified_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// PredictionStats 预测统计
type PredictionStats struct {
	GameID            string  `json:"game_id"`
	TotalPredictions  int     `json:"total_predictions"`
	Verified          int     `json:"verified"`
	AverageHits       float64 `json:"average_hits"`
	AverageConfidence float64 `json:"average_confidence"`
}

// FormatNumbers 号码序列转存储格式
func FormatNumbers(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "+")
}

// ParseNumbers 存储格式转号码序列
func ParseNumbers(s string) ([]int, error) {
	if s == "" {
		return nil, fmt.Errorf("empty numbers string")
	}
	parts := strings.Split(s, "+")
	nums := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("failed to parse number: %s", part)
		}
		nums = append(nums, n)
	}
	return nums, nil
}
