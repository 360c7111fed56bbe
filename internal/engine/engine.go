package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"taiwan-lottery-bot/internal/game"
	"taiwan-lottery-bot/internal/logger"
)

// derivedRetryLimit 衍生游戏一致性检查的最大重选次数
const derivedRetryLimit = 3

// HistoryProvider 历史开奖数据提供方（存储层或爬虫）
type HistoryProvider interface {
	FetchHistory(gameID string, periods int) ([]RawDraw, error)
}

// PredictionSink 预测记录落地接口，写入失败不影响预测结果
type PredictionSink interface {
	Persist(record *PredictionRecord) error
}

// PredictionRecord 一次预测的最终产物，返回后只读
type PredictionRecord struct {
	GameID           string    `json:"game_id"`
	PredictedNumbers []int     `json:"predicted_numbers"`
	PredictedSpecial *int      `json:"predicted_special,omitempty"`
	Method           Method    `json:"method"`
	Confidence       float64   `json:"confidence"`
	GeneratedAt      time.Time `json:"generated_at"`
	WindowSize       int       `json:"window_size"`
	Dropped          int       `json:"dropped"`
}

// Request 预测请求
type Request struct {
	GameID        string
	Periods       int
	Method        string  // 空串取hybrid
	MinConfidence float64 // 0表示不压制
}

// Result 预测结果
// 信心度低于请求阈值时不给出号码，BelowThreshold置位
type Result struct {
	Record         *PredictionRecord
	BelowThreshold bool
	Confidence     float64
	Warnings       int // 窗口构建时剔除的异常行数
}

// Engine 预测编排器
// 除只读的游戏注册表外不持有任何跨请求状态，可并发使用
type Engine struct {
	registry *game.Registry
	provider HistoryProvider
	sink     PredictionSink
	scorers  map[Method]Scorer
	hybrid   *HybridScorer
}

// NewEngine 创建预测编排器
func NewEngine(registry *game.Registry, provider HistoryProvider, sink PredictionSink, wf, wp float64) (*Engine, error) {
	if registry == nil || provider == nil {
		return nil, fmt.Errorf("engine requires registry and history provider")
	}
	hybrid, err := NewHybridScorer(wf, wp)
	if err != nil {
		return nil, err
	}
	return &Engine{
		registry: registry,
		provider: provider,
		sink:     sink,
		hybrid:   hybrid,
		scorers: map[Method]Scorer{
			MethodFrequency: NewFrequencyScorer(),
			MethodPattern:   NewPatternScorer(),
			MethodHybrid:    hybrid,
			MethodML:        NewMLScorer(),
		},
	}, nil
}

// ListGames 列出支持的游戏摘要
func (e *Engine) ListGames() []game.Summary {
	return e.registry.List()
}

// Predict 执行一次完整的预测流程
// 状态机：校验游戏 → 校验方法 → 构建窗口 → 运行方法 → 选号 → 信心度 → 输出
func (e *Engine) Predict(req Request) (*Result, error) {
	def, err := e.registry.Lookup(req.GameID)
	if err != nil {
		return nil, err
	}

	method, err := ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}

	w, err := e.buildWindow(def, req.Periods)
	if err != nil {
		return nil, err
	}

	scores, method, err := e.runMethod(method, w)
	if err != nil {
		return nil, err
	}

	sel, method, scores, err := e.selectNumbers(def, w, scores, method)
	if err != nil {
		return nil, err
	}

	confidence := scoreConfidence(method, w, sel, scores)
	if req.MinConfidence > 0 && confidence < req.MinConfidence {
		logger.WithGame(def.ID).Infof("Prediction suppressed: confidence %.3f below threshold %.2f",
			confidence, req.MinConfidence)
		return &Result{
			BelowThreshold: true,
			Confidence:     confidence,
			Warnings:       w.Dropped,
		}, nil
	}

	record := &PredictionRecord{
		GameID:           def.ID,
		PredictedNumbers: sel.numbers,
		Method:           method,
		Confidence:       confidence,
		GeneratedAt:      time.Now(),
		WindowSize:       w.Size(),
		Dropped:          w.Dropped,
	}
	if sel.hasSpecial {
		special := sel.special
		record.PredictedSpecial = &special
	}

	if e.sink != nil {
		if err := e.sink.Persist(record); err != nil {
			logger.Warnf("Failed to persist prediction for %s: %v", def.ID, err)
		}
	}

	logger.WithGame(def.ID).Infof("Prediction generated: numbers=%v method=%s confidence=%.3f",
		record.PredictedNumbers, record.Method, record.Confidence)

	return &Result{
		Record:     record,
		Confidence: confidence,
		Warnings:   w.Dropped,
	}, nil
}

// buildWindow 拉取历史数据并规整为窗口，衍生游戏先做换算
func (e *Engine) buildWindow(def *game.Definition, periods int) (*Window, error) {
	if periods <= 0 {
		periods = MinWindowSize
	}
	if periods < MinWindowSize {
		return nil, fmt.Errorf("%w: requested %d periods, need at least %d",
			ErrInsufficientHistory, periods, MinWindowSize)
	}

	sourceID := def.ID
	if def.DerivedFrom != "" {
		sourceID = def.DerivedFrom
	}

	rows, err := e.provider.FetchHistory(sourceID, periods)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %v", sourceID, err)
	}

	if def.DerivedFrom != "" {
		rule, ok := e.registry.Rule(def.ID)
		if !ok {
			return nil, fmt.Errorf("no derivation rule registered for %s", def.ID)
		}
		rows = DeriveRows(rule, rows)
	}

	return BuildWindow(def, rows, periods)
}

// runMethod 运行指定方法；模型不可用时降级到hybrid（记录日志，不算失败）
func (e *Engine) runMethod(method Method, w *Window) (*ScoreSet, Method, error) {
	scorer := e.scorers[method]
	scores, err := scorer.Score(w)
	if err == nil {
		return scores, method, nil
	}
	if method == MethodML && errors.Is(err, ErrModelUnavailable) {
		logger.WithGame(w.Game.ID).Warnf("Model predictor unavailable, falling back to hybrid: %v", err)
		scores, err = e.hybrid.Score(w)
		if err != nil {
			return nil, method, fmt.Errorf("hybrid fallback failed: %v", err)
		}
		return scores, MethodHybrid, nil
	}
	return nil, method, err
}

// selection 选号结果
type selection struct {
	numbers    []int
	special    int
	hasSpecial bool
}

// selectNumbers 按权重选号并执行衍生游戏一致性检查
// 违反换算规则结构约束的号码被排除后重选，最多derivedRetryLimit次，
// 仍不一致时回退到频率模型
func (e *Engine) selectNumbers(def *game.Definition, w *Window, scores *ScoreSet, method Method) (*selection, Method, *ScoreSet, error) {
	rule, isDerived := e.registry.Rule(def.ID)

	excluded := make(map[int]bool)
	for attempt := 0; attempt <= derivedRetryLimit; attempt++ {
		sel, err := pickTop(def, w, scores, excluded)
		if err != nil {
			break
		}
		if !isDerived {
			return sel, method, scores, nil
		}

		violations := derivedViolations(rule, sel.numbers)
		if len(violations) == 0 {
			return sel, method, scores, nil
		}
		if method == MethodFrequency || attempt == derivedRetryLimit {
			break
		}
		logger.WithGame(def.ID).Debugf("Derived consistency violation by %s on attempt %d: %v",
			method, attempt+1, violations)
		for _, n := range violations {
			excluded[n] = true
		}
	}

	if method == MethodFrequency {
		return nil, method, scores, fmt.Errorf("derived-game consistency unreachable for %s", def.ID)
	}

	// 回退：用频率评分重选一次
	logger.WithGame(def.ID).Warnf("Falling back to frequency after derived consistency failures")
	freqScores, err := e.scorers[MethodFrequency].Score(w)
	if err != nil {
		return nil, method, scores, err
	}
	sel, err := pickTop(def, w, freqScores, nil)
	if err != nil {
		return nil, method, scores, err
	}
	if isDerived {
		if violations := derivedViolations(rule, sel.numbers); len(violations) > 0 {
			return nil, method, scores, fmt.Errorf("derived-game consistency unreachable for %s", def.ID)
		}
	}
	return sel, MethodFrequency, freqScores, nil
}

// derivedViolations 选出的号码中无法由换算规则产生的部分
func derivedViolations(rule *game.DerivationRule, numbers []int) []int {
	var violations []int
	for _, n := range numbers {
		if !rule.Admits(n) {
			violations = append(violations, n)
		}
	}
	return violations
}

// pickTop 取权重最高的号码组合
// 平手顺序：原始出现次数高者优先，再取数值小者，保证完全确定
func pickTop(def *game.Definition, w *Window, scores *ScoreSet, excluded map[int]bool) (*selection, error) {
	sel := &selection{}

	if def.IsDigitGame {
		counts := slotOccurrenceCounts(w)
		sel.numbers = make([]int, def.PickCount)
		for k := 0; k < def.PickCount; k++ {
			sel.numbers[k] = bestCandidate(scores.Slots[k], counts[k], nil)
		}
		return sel, nil
	}

	counts := occurrenceCounts(w)
	type candidate struct {
		n      int
		weight float64
		count  int
	}
	candidates := make([]candidate, 0, def.PoolSize())
	for n := def.PoolMin; n <= def.PoolMax; n++ {
		if excluded[n] {
			continue
		}
		candidates = append(candidates, candidate{n: n, weight: scores.Numbers[n], count: counts[n]})
	}
	if len(candidates) < def.PickCount {
		return nil, fmt.Errorf("only %d candidates left for pick count %d", len(candidates), def.PickCount)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].weight != candidates[j].weight {
			return candidates[i].weight > candidates[j].weight
		}
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].n < candidates[j].n
	})

	sel.numbers = make([]int, def.PickCount)
	for i := 0; i < def.PickCount; i++ {
		sel.numbers[i] = candidates[i].n
	}
	sort.Ints(sel.numbers)

	if def.HasSpecial {
		// 特别号池与主号码池是独立域，不参与重复检查
		sel.special = bestCandidate(scores.Special, specialOccurrenceCounts(w), nil)
		sel.hasSpecial = true
	}
	return sel, nil
}

// bestCandidate 单个名额的平手判定
func bestCandidate(weights map[int]float64, counts map[int]int, excluded map[int]bool) int {
	best := 0
	found := false
	for n := range weights {
		if excluded[n] {
			continue
		}
		if !found {
			best = n
			found = true
			continue
		}
		if weights[n] > weights[best] {
			best = n
		} else if weights[n] == weights[best] {
			if counts[n] > counts[best] || (counts[n] == counts[best] && n < best) {
				best = n
			}
		}
	}
	return best
}
