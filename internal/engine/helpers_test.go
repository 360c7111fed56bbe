package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"taiwan-lottery-bot/internal/game"
)

// fakeProvider 按游戏ID返回预置的开奖行，并记录每次调用
type fakeProvider struct {
	rows  map[string][]RawDraw
	calls []string
	err   error
}

func (fp *fakeProvider) FetchHistory(gameID string, periods int) ([]RawDraw, error) {
	fp.calls = append(fp.calls, gameID)
	if fp.err != nil {
		return nil, fp.err
	}
	return fp.rows[gameID], nil
}

// fakeSink 记录落地的预测，可配置写入失败
type fakeSink struct {
	records []*PredictionRecord
	err     error
}

func (fs *fakeSink) Persist(record *PredictionRecord) error {
	fs.records = append(fs.records, record)
	if fs.err != nil {
		return fs.err
	}
	return nil
}

// newTestEngine 构建带默认目录与默认混合权重的引擎
func newTestEngine(t *testing.T, provider HistoryProvider, sink PredictionSink) *Engine {
	t.Helper()
	eng, err := NewEngine(game.DefaultRegistry(), provider, sink,
		DefaultFrequencyWeight, DefaultPatternWeight)
	require.NoError(t, err)
	return eng
}

// hotLottoRows 生成大乐透开奖行：前hotCount期都包含号码7，
// 其余号码在池中轮转使得没有哪个填充号码出现超过三次
func hotLottoRows(count, hotCount int) []RawDraw {
	rows := make([]RawDraw, 0, count)
	next := 1
	pick := func(need int) []int {
		numbers := make([]int, 0, need)
		for len(numbers) < need {
			if next != 7 {
				numbers = append(numbers, next)
			}
			next++
			if next > 49 {
				next = 1
			}
		}
		return numbers
	}

	for i := 0; i < count; i++ {
		var numbers []int
		if i < hotCount {
			numbers = append([]int{7}, pick(5)...)
		} else {
			numbers = pick(6)
		}
		rows = append(rows, RawDraw{
			Period:  fmt.Sprintf("1140%04d", count-i),
			Date:    "2026-08-30",
			Numbers: numbers,
			Special: intPtr(1 + i%49),
		})
	}
	return rows
}

// skewedDigitRows 生成三星彩开奖行：首位数字在大多数期都是7
func skewedDigitRows(count int) []RawDraw {
	rows := make([]RawDraw, 0, count)
	for i := 0; i < count; i++ {
		first := 7
		if i%5 == 4 {
			first = i % 10
		}
		rows = append(rows, RawDraw{
			Period:  fmt.Sprintf("1140%04d", count-i),
			Numbers: []int{first, (i * 3) % 10, (i * 7) % 10},
		})
	}
	return rows
}

// buildTestWindow 把行规整为窗口，失败直接终止测试
func buildTestWindow(t *testing.T, def *game.Definition, rows []RawDraw) *Window {
	t.Helper()
	w, err := BuildWindow(def, rows, len(rows))
	require.NoError(t, err)
	return w
}
