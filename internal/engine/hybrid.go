package engine

import "fmt"

// 混合算法默认权重
const (
	DefaultFrequencyWeight = 0.6
	DefaultPatternWeight   = 0.4
)

// HybridScorer 混合模型：按权重融合频率与模式两套评分
type HybridScorer struct {
	frequency *FrequencyScorer
	pattern   *PatternScorer
	wf        float64
	wp        float64
}

// NewHybridScorer 创建混合模型，wf+wp必须为1
func NewHybridScorer(wf, wp float64) (*HybridScorer, error) {
	if wf <= 0 || wp <= 0 || !almostOne(wf+wp) {
		return nil, fmt.Errorf("hybrid weights must be positive and sum to 1, got (%.2f, %.2f)", wf, wp)
	}
	return &HybridScorer{
		frequency: NewFrequencyScorer(),
		pattern:   NewPatternScorer(),
		wf:        wf,
		wp:        wp,
	}, nil
}

// Method 方法标识
func (hs *HybridScorer) Method() Method {
	return MethodHybrid
}

// Score 融合评分：merged[n] = wf*freq[n] + wp*pattern[n]
func (hs *HybridScorer) Score(w *Window) (*ScoreSet, error) {
	freq, err := hs.frequency.Score(w)
	if err != nil {
		return nil, err
	}
	pattern, err := hs.pattern.Score(w)
	if err != nil {
		return nil, err
	}
	return combineScoreSets(freq, pattern, hs.wf, hs.wp), nil
}

// combineScoreSets 两套评分逐项线性融合
func combineScoreSets(a, b *ScoreSet, wa, wb float64) *ScoreSet {
	merged := &ScoreSet{}

	if a.Numbers != nil {
		merged.Numbers = blendWeights(a.Numbers, b.Numbers, wa, wb)
	}
	if a.Slots != nil {
		merged.Slots = make([]map[int]float64, len(a.Slots))
		for k := range a.Slots {
			var other map[int]float64
			if k < len(b.Slots) {
				other = b.Slots[k]
			}
			merged.Slots[k] = blendWeights(a.Slots[k], other, wa, wb)
		}
	}
	if a.Special != nil {
		merged.Special = blendWeights(a.Special, b.Special, wa, wb)
	}
	return merged
}

// blendWeights 两组权重的加权和
func blendWeights(a, b map[int]float64, wa, wb float64) map[int]float64 {
	out := make(map[int]float64, len(a))
	for n, v := range a {
		out[n] = wa * v
	}
	for n, v := range b {
		out[n] += wb * v
	}
	return out
}

func almostOne(v float64) bool {
	return v > 0.999 && v < 1.001
}
