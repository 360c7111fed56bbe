package engine

import (
	"gonum.org/v1/gonum/floats"
)

// 各方法的基准信心度，历史数据量与权重集中度在此之上加减
var confidenceBase = map[Method]float64{
	MethodFrequency: 0.62,
	MethodPattern:   0.65,
	MethodHybrid:    0.68,
	MethodML:        0.72,
}

// scoreConfidence 计算最终信心度
// confidence = 基准 + 数据量加成 + 集中度调整，截断到[0,1]
// 集中度调整关于信号集中程度单调递增：窗口越偏向少数号码，信心度越高
func scoreConfidence(method Method, w *Window, sel *selection, scores *ScoreSet) float64 {
	conf := confidenceBase[method]

	switch {
	case w.Size() >= 50:
		conf += 0.15
	case w.Size() >= 20:
		conf += 0.10
	case w.Size() >= 10:
		conf += 0.05
	}

	conf += 0.12 * concentration(w, sel, scores)

	return clamp01(conf)
}

// concentration 选中号码占全池权重的归一化份额，落在[0,1]
// 均匀窗口趋近0，信号高度集中趋近1
func concentration(w *Window, sel *selection, scores *ScoreSet) float64 {
	def := w.Game

	if def.IsDigitGame {
		// 每个位置取选中数字的权重份额，再对各位置取平均
		uniform := 1.0 / float64(def.PoolSize())
		var total float64
		for k, digit := range sel.numbers {
			if k >= len(scores.Slots) {
				continue
			}
			slot := scores.Slots[k]
			sum := sumWeights(slot)
			if sum == 0 {
				continue
			}
			share := slot[digit] / sum
			total += clamp01((share - uniform) / (1 - uniform))
		}
		return total / float64(len(sel.numbers))
	}

	sum := sumWeights(scores.Numbers)
	if sum == 0 {
		return 0
	}
	var selected float64
	for _, n := range sel.numbers {
		selected += scores.Numbers[n]
	}
	ratio := selected / sum
	uniform := float64(def.PickCount) / float64(def.PoolSize())
	return clamp01((ratio - uniform) / (1 - uniform))
}

// sumWeights 权重求和
func sumWeights(weights map[int]float64) float64 {
	values := make([]float64, 0, len(weights))
	for _, v := range weights {
		values = append(values, v)
	}
	return floats.Sum(values)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
