package engine

import (
	"github.com/montanaflynn/stats"
)

// 模式模型内部的分量权重
const (
	coWeight     = 0.7 // 共现分量
	parityWeight = 0.3 // 奇偶平衡分量
)

// PatternScorer 模式模型
// 捕捉号码对共现、奇偶平衡倾向，星彩类游戏按位分布统计
type PatternScorer struct{}

// NewPatternScorer 创建模式模型
func NewPatternScorer() *PatternScorer {
	return &PatternScorer{}
}

// Method 方法标识
func (ps *PatternScorer) Method() Method {
	return MethodPattern
}

// Score 对窗口做模式评分，输出尺度与频率模型一致（[0,1]）
func (ps *PatternScorer) Score(w *Window) (*ScoreSet, error) {
	ss := &ScoreSet{}

	if w.Game.IsDigitGame {
		ss.Slots = digitPositionWeights(w)
	} else {
		ss.Numbers = poolPatternWeights(w)
	}

	if w.Game.HasSpecial {
		// 特别号池太小，共现无意义，用直方图份额
		ss.Special = specialHistogramWeights(w)
	}
	return ss, nil
}

// poolPatternWeights 共现得分与奇偶倾向的加权和
func poolPatternWeights(w *Window) map[int]float64 {
	def := w.Game

	// 号码对共现计数，只累计高于期望基线的部分
	pairCounts := make(map[[2]int]float64)
	for _, draw := range w.Draws {
		nums := draw.Numbers
		for i := 0; i < len(nums); i++ {
			for j := i + 1; j < len(nums); j++ {
				a, b := nums[i], nums[j]
				if a > b {
					a, b = b, a
				}
				pairCounts[[2]int{a, b}]++
			}
		}
	}

	// 单个号码对的期望出现次数（均匀假设）
	n := float64(def.PoolSize())
	k := float64(def.PickCount)
	expectedPair := float64(w.Size()) * k * (k - 1) / (n * (n - 1))

	coScores := make(map[int]float64, def.PoolSize())
	for pair, count := range pairCounts {
		if excess := count - expectedPair; excess > 0 {
			coScores[pair[0]] += excess
			coScores[pair[1]] += excess
		}
	}
	for num := def.PoolMin; num <= def.PoolMax; num++ {
		if _, ok := coScores[num]; !ok {
			coScores[num] = 0
		}
	}
	coScores = normalizeWeights(coScores)

	// 历史奇偶比例，向维持历史平衡的方向倾斜
	oddRatios := make([]float64, 0, w.Size())
	for _, draw := range w.Draws {
		odd := 0
		for _, num := range draw.Numbers {
			if num%2 != 0 {
				odd++
			}
		}
		oddRatios = append(oddRatios, float64(odd)/float64(len(draw.Numbers)))
	}
	avgOddRatio, err := stats.Mean(oddRatios)
	if err != nil {
		avgOddRatio = 0.5
	}

	weights := make(map[int]float64, def.PoolSize())
	for num := def.PoolMin; num <= def.PoolMax; num++ {
		parityShare := avgOddRatio
		if num%2 == 0 {
			parityShare = 1 - avgOddRatio
		}
		weights[num] = coWeight*coScores[num] + parityWeight*parityShare
	}
	return normalizeWeights(weights)
}

// digitPositionWeights 每个位置自身的数字分布（不做衰减，与频率模型区分）
func digitPositionWeights(w *Window) []map[int]float64 {
	def := w.Game
	counts := slotOccurrenceCounts(w)
	slots := make([]map[int]float64, def.PickCount)
	for pos := range slots {
		slots[pos] = make(map[int]float64, def.PoolSize())
		for d := def.PoolMin; d <= def.PoolMax; d++ {
			slots[pos][d] = float64(counts[pos][d])
		}
		slots[pos] = normalizeWeights(slots[pos])
	}
	return slots
}

// specialHistogramWeights 特别号直方图份额
func specialHistogramWeights(w *Window) map[int]float64 {
	def := w.Game
	weights := make(map[int]float64, def.SpecialPoolSize())
	for num := def.SpecialMin; num <= def.SpecialMax; num++ {
		weights[num] = 0
	}
	for _, draw := range w.Draws {
		weights[draw.Special]++
	}
	return normalizeWeights(weights)
}
