package engine

import (
	"math"

	"github.com/montanaflynn/stats"
)

// recencyDecay 位置衰减系数：第i期（0为最新）权重decay^i
const recencyDecay = 0.98

// FrequencyScorer 频率模型
// 统计窗口内各号码出现次数并按近期优先衰减，
// 星彩类游戏逐位独立统计，特别号使用自身号码池
type FrequencyScorer struct{}

// NewFrequencyScorer 创建频率模型
func NewFrequencyScorer() *FrequencyScorer {
	return &FrequencyScorer{}
}

// Method 方法标识
func (fs *FrequencyScorer) Method() Method {
	return MethodFrequency
}

// Score 对窗口做频率评分，纯函数，无随机性
func (fs *FrequencyScorer) Score(w *Window) (*ScoreSet, error) {
	ss := &ScoreSet{}

	if w.Game.IsDigitGame {
		ss.Slots = digitSlotWeights(w)
	} else {
		ss.Numbers = poolFrequencyWeights(w)
	}

	if w.Game.HasSpecial {
		ss.Special = specialFrequencyWeights(w)
	}
	return ss, nil
}

// poolFrequencyWeights 一般游戏的号码权重：衰减频次乘以间隔规律性修正
func poolFrequencyWeights(w *Window) map[int]float64 {
	def := w.Game
	weights := make(map[int]float64, def.PoolSize())
	positions := make(map[int][]float64)

	for i, draw := range w.Draws {
		decay := math.Pow(recencyDecay, float64(i))
		for _, n := range draw.Numbers {
			weights[n] += decay
			positions[n] = append(positions[n], float64(i))
		}
	}

	// 出现间隔越稳定的号码给予小幅加成（上限8%）
	for n, pos := range positions {
		if len(pos) < 3 {
			continue
		}
		gaps := make([]float64, 0, len(pos)-1)
		for i := 1; i < len(pos); i++ {
			gaps = append(gaps, pos[i]-pos[i-1])
		}
		sd, err := stats.StandardDeviation(gaps)
		if err != nil {
			continue
		}
		weights[n] *= 1 + 0.08/(1+sd)
	}

	for n := def.PoolMin; n <= def.PoolMax; n++ {
		if _, ok := weights[n]; !ok {
			weights[n] = 0
		}
	}
	return normalizeWeights(weights)
}

// digitSlotWeights 星彩类游戏逐位统计衰减频次
func digitSlotWeights(w *Window) []map[int]float64 {
	def := w.Game
	slots := make([]map[int]float64, def.PickCount)
	for k := range slots {
		slots[k] = make(map[int]float64, def.PoolSize())
		for d := def.PoolMin; d <= def.PoolMax; d++ {
			slots[k][d] = 0
		}
	}

	for i, draw := range w.Draws {
		decay := math.Pow(recencyDecay, float64(i))
		for k, d := range draw.Numbers {
			if k < len(slots) {
				slots[k][d] += decay
			}
		}
	}

	for k := range slots {
		slots[k] = normalizeWeights(slots[k])
	}
	return slots
}

// specialFrequencyWeights 特别号池的衰减频次
func specialFrequencyWeights(w *Window) map[int]float64 {
	def := w.Game
	weights := make(map[int]float64, def.SpecialPoolSize())
	for n := def.SpecialMin; n <= def.SpecialMax; n++ {
		weights[n] = 0
	}
	for i, draw := range w.Draws {
		weights[draw.Special] += math.Pow(recencyDecay, float64(i))
	}
	return normalizeWeights(weights)
}

// occurrenceCounts 窗口内各号码的原始出现次数（平手判定用）
func occurrenceCounts(w *Window) map[int]int {
	counts := make(map[int]int)
	for _, draw := range w.Draws {
		for _, n := range draw.Numbers {
			counts[n]++
		}
	}
	return counts
}

// slotOccurrenceCounts 星彩类游戏逐位的原始出现次数
func slotOccurrenceCounts(w *Window) []map[int]int {
	counts := make([]map[int]int, w.Game.PickCount)
	for k := range counts {
		counts[k] = make(map[int]int)
	}
	for _, draw := range w.Draws {
		for k, d := range draw.Numbers {
			if k < len(counts) {
				counts[k][d]++
			}
		}
	}
	return counts
}

// specialOccurrenceCounts 特别号的原始出现次数
func specialOccurrenceCounts(w *Window) map[int]int {
	counts := make(map[int]int)
	for _, draw := range w.Draws {
		counts[draw.Special]++
	}
	return counts
}

// normalizeWeights 按最大值归一化到[0,1]
func normalizeWeights(weights map[int]float64) map[int]float64 {
	var max float64
	for _, v := range weights {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return weights
	}
	for n, v := range weights {
		weights[n] = v / max
	}
	return weights
}
