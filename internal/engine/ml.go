package engine

import (
	"fmt"
	"math"
)

// 逻辑回归训练参数，全部固定以保证同窗口结果可复现
const (
	mlMinWindow   = 10 // 低于该期数模型不可用，由编排器降级
	mlMinPrior    = 5  // 训练样本要求的最少前置历史
	mlMaxTargets  = 20 // 参与训练的目标期数上限
	logisticIters = 300
	logisticLR    = 0.1
	featureCount  = 5
)

// MLScorer 模型预测器
// 在窗口上训练一个小型逻辑回归：以每期号码的历史频率/近期热度/
// 奇偶/间隔特征预测该号码是否会在下一期开出，输出与其他方法相同的评分契约
type MLScorer struct{}

// NewMLScorer 创建模型预测器
func NewMLScorer() *MLScorer {
	return &MLScorer{}
}

// Method 方法标识
func (ms *MLScorer) Method() Method {
	return MethodML
}

// Score 训练并评分；窗口太小返回ErrModelUnavailable
func (ms *MLScorer) Score(w *Window) (*ScoreSet, error) {
	if w.Size() < mlMinWindow {
		return nil, fmt.Errorf("%w: window has %d draws, need %d",
			ErrModelUnavailable, w.Size(), mlMinWindow)
	}

	ss := &ScoreSet{}
	if w.Game.IsDigitGame {
		ss.Slots = ms.scoreDigitSlots(w)
	} else {
		ss.Numbers = ms.scorePool(w)
	}
	if w.Game.HasSpecial {
		// 特别号样本太稀疏，不值得单独训练，沿用衰减频率
		ss.Special = specialFrequencyWeights(w)
	}
	return ss, nil
}

// sample 单个训练样本
type sample struct {
	x []float64
	y float64
}

// scorePool 一般游戏：对号码池整体训练一个成员预测模型
func (ms *MLScorer) scorePool(w *Window) map[int]float64 {
	def := w.Game

	targets := w.Size() - mlMinPrior
	if targets > mlMaxTargets {
		targets = mlMaxTargets
	}

	var samples []sample
	for i := 0; i < targets; i++ {
		prior := &Window{Game: def, Draws: w.Draws[i+1:]}
		drawn := make(map[int]bool, len(w.Draws[i].Numbers))
		for _, n := range w.Draws[i].Numbers {
			drawn[n] = true
		}
		for n := def.PoolMin; n <= def.PoolMax; n++ {
			y := 0.0
			if drawn[n] {
				y = 1.0
			}
			samples = append(samples, sample{x: poolFeatures(prior, n), y: y})
		}
	}

	weights := trainLogistic(samples)

	scores := make(map[int]float64, def.PoolSize())
	for n := def.PoolMin; n <= def.PoolMax; n++ {
		scores[n] = sigmoid(dot(weights, poolFeatures(w, n)))
	}
	return normalizeWeights(scores)
}

// scoreDigitSlots 星彩类游戏：每个位置独立训练
func (ms *MLScorer) scoreDigitSlots(w *Window) []map[int]float64 {
	def := w.Game
	slots := make([]map[int]float64, def.PickCount)

	targets := w.Size() - mlMinPrior
	if targets > mlMaxTargets {
		targets = mlMaxTargets
	}

	for k := 0; k < def.PickCount; k++ {
		var samples []sample
		for i := 0; i < targets; i++ {
			prior := &Window{Game: def, Draws: w.Draws[i+1:]}
			actual := w.Draws[i].Numbers[k]
			for d := def.PoolMin; d <= def.PoolMax; d++ {
				y := 0.0
				if d == actual {
					y = 1.0
				}
				samples = append(samples, sample{x: slotFeatures(prior, k, d), y: y})
			}
		}

		weights := trainLogistic(samples)

		scores := make(map[int]float64, def.PoolSize())
		for d := def.PoolMin; d <= def.PoolMax; d++ {
			scores[d] = sigmoid(dot(weights, slotFeatures(w, k, d)))
		}
		slots[k] = normalizeWeights(scores)
	}
	return slots
}

// poolFeatures 号码n在窗口中的特征向量
// [截距, 频率份额, 近5期热度, 奇偶, 距上次开出的间隔比]
func poolFeatures(w *Window, n int) []float64 {
	def := w.Game
	size := float64(w.Size())

	count := 0
	lastSeen := -1
	recent := 0
	for i, draw := range w.Draws {
		for _, m := range draw.Numbers {
			if m == n {
				count++
				if lastSeen < 0 {
					lastSeen = i
				}
				if i < mlMinPrior {
					recent++
				}
			}
		}
	}

	parity := 0.0
	if n%2 != 0 {
		parity = 1.0
	}

	// 期望间隔为 N/K；从未开出按窗口长度计
	expectedGap := float64(def.PoolSize()) / float64(def.PickCount)
	gap := size
	if lastSeen >= 0 {
		gap = float64(lastSeen)
	}

	return []float64{
		1.0,
		float64(count) / size,
		float64(recent) / float64(mlMinPrior),
		parity,
		gap / expectedGap,
	}
}

// slotFeatures 位置k上数字d的特征向量
func slotFeatures(w *Window, k, d int) []float64 {
	size := float64(w.Size())

	count := 0
	recent := 0
	lastSeen := -1
	for i, draw := range w.Draws {
		if k < len(draw.Numbers) && draw.Numbers[k] == d {
			count++
			if lastSeen < 0 {
				lastSeen = i
			}
			if i < mlMinPrior {
				recent++
			}
		}
	}

	parity := 0.0
	if d%2 != 0 {
		parity = 1.0
	}

	gap := size
	if lastSeen >= 0 {
		gap = float64(lastSeen)
	}

	return []float64{
		1.0,
		float64(count) / size,
		float64(recent) / float64(mlMinPrior),
		parity,
		gap / 10.0,
	}
}

// trainLogistic 固定迭代次数的批量梯度下降，零初始化，无随机性
func trainLogistic(samples []sample) []float64 {
	w := make([]float64, featureCount)
	if len(samples) == 0 {
		return w
	}
	m := float64(len(samples))
	for iter := 0; iter < logisticIters; iter++ {
		grad := make([]float64, featureCount)
		for _, s := range samples {
			err := sigmoid(dot(w, s.x)) - s.y
			for k := range grad {
				grad[k] += err * s.x[k]
			}
		}
		for k := range w {
			w[k] -= logisticLR * grad[k] / m
		}
	}
	return w
}

func sigmoid(z float64) float64 {
	if z > 20 {
		return 1.0
	}
	if z < -20 {
		return 0.0
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
