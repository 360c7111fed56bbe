package engine

import (
	"fmt"
	"time"

	"taiwan-lottery-bot/internal/game"
	"taiwan-lottery-bot/internal/logger"
)

const (
	// MinWindowSize 预测所需的最少有效期数
	MinWindowSize = 5
	// MaxWindowSize 单次预测回溯的最大期数
	MaxWindowSize = 100
)

// RawDraw 外部采集到的原始开奖行（爬虫或存储层的格式）
type RawDraw struct {
	Period  string `json:"period"`
	Date    string `json:"date"`
	Numbers []int  `json:"numbers"`
	Special *int   `json:"special,omitempty"`
}

// DrawRecord 通过校验的单期开奖记录
type DrawRecord struct {
	Period  string
	Date    time.Time
	Numbers []int
	Special int // 仅HasSpecial游戏有效
	GameID  string
}

// Window 单个游戏的历史窗口，最新一期在前
// 每次预测请求单独构建，构建后不再修改
type Window struct {
	Game    *game.Definition
	Draws   []DrawRecord
	Dropped int // 校验失败被剔除的行数
}

// Size 窗口内有效期数
func (w *Window) Size() int {
	return len(w.Draws)
}

// BuildWindow 把原始开奖行规整为历史窗口
// 单行校验失败只剔除该行并计数，不中断整个窗口；
// 剩余有效期数不足MinWindowSize时返回ErrInsufficientHistory
func BuildWindow(def *game.Definition, rows []RawDraw, periods int) (*Window, error) {
	if periods < MinWindowSize {
		return nil, fmt.Errorf("%w: requested %d periods, need at least %d",
			ErrInsufficientHistory, periods, MinWindowSize)
	}
	if periods > MaxWindowSize {
		periods = MaxWindowSize
	}

	w := &Window{Game: def}
	for _, row := range rows {
		if len(w.Draws) >= periods {
			break
		}
		record, err := validateRow(def, row)
		if err != nil {
			w.Dropped++
			logger.Warnf("Malformed draw record dropped for %s period %s: %v",
				def.ID, row.Period, err)
			continue
		}
		w.Draws = append(w.Draws, *record)
	}

	if len(w.Draws) < MinWindowSize {
		return nil, fmt.Errorf("%w: %d valid rows after filtering (dropped %d), need %d",
			ErrInsufficientHistory, len(w.Draws), w.Dropped, MinWindowSize)
	}
	return w, nil
}

// validateRow 按游戏定义校验单行数据，不做任何修补
func validateRow(def *game.Definition, row RawDraw) (*DrawRecord, error) {
	if row.Period == "" {
		return nil, fmt.Errorf("empty period")
	}

	if def.IsDigitGame {
		if len(row.Numbers) != def.PickCount {
			return nil, fmt.Errorf("expected %d digits, got %d", def.PickCount, len(row.Numbers))
		}
	} else if def.DerivedFrom != "" {
		// 衍生游戏换算后可能少于PickCount（截断规则），但不能为空或超额
		if len(row.Numbers) == 0 || len(row.Numbers) > def.PickCount {
			return nil, fmt.Errorf("expected 1-%d numbers, got %d", def.PickCount, len(row.Numbers))
		}
	} else {
		if len(row.Numbers) != def.PickCount {
			return nil, fmt.Errorf("expected %d numbers, got %d", def.PickCount, len(row.Numbers))
		}
	}

	seen := make(map[int]bool, len(row.Numbers))
	for _, n := range row.Numbers {
		if !def.InPool(n) {
			return nil, fmt.Errorf("number %d out of pool [%d,%d]", n, def.PoolMin, def.PoolMax)
		}
		if !def.IsDigitGame {
			if seen[n] {
				return nil, fmt.Errorf("duplicate number %d", n)
			}
			seen[n] = true
		}
	}

	record := &DrawRecord{
		Period:  row.Period,
		Date:    parseDrawDate(row.Date),
		Numbers: append([]int(nil), row.Numbers...),
		GameID:  def.ID,
	}

	if def.HasSpecial {
		if row.Special == nil {
			return nil, fmt.Errorf("missing special number")
		}
		if !def.InSpecialPool(*row.Special) {
			return nil, fmt.Errorf("special number %d out of range [%d,%d]",
				*row.Special, def.SpecialMin, def.SpecialMax)
		}
		record.Special = *row.Special
	} else if row.Special != nil {
		return nil, fmt.Errorf("unexpected special number for game without one")
	}

	return record, nil
}

// parseDrawDate 解析开奖日期，格式不明时返回零值（日期不参与评分）
func parseDrawDate(s string) time.Time {
	layouts := []string{
		"2006-01-02",
		"2006/01/02",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DeriveRows 用换算规则把基础游戏的原始行换算为衍生游戏的行
// 特别号不参与换算，直接丢弃
func DeriveRows(rule *game.DerivationRule, baseRows []RawDraw) []RawDraw {
	derived := make([]RawDraw, 0, len(baseRows))
	for _, row := range baseRows {
		derived = append(derived, RawDraw{
			Period:  row.Period,
			Date:    row.Date,
			Numbers: rule.Apply(row.Numbers),
		})
	}
	return derived
}
