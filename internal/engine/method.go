package engine

import "fmt"

// Method 预测方法标识
type Method string

const (
	MethodFrequency Method = "frequency"
	MethodPattern   Method = "pattern"
	MethodHybrid    Method = "hybrid"
	MethodML        Method = "ml"
)

// ParseMethod 解析方法名，空串取默认hybrid
func ParseMethod(name string) (Method, error) {
	switch name {
	case "":
		return MethodHybrid, nil
	case string(MethodFrequency):
		return MethodFrequency, nil
	case string(MethodPattern):
		return MethodPattern, nil
	case string(MethodHybrid):
		return MethodHybrid, nil
	case string(MethodML):
		return MethodML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidMethod, name)
	}
}

// ScoreSet 一次评分的输出，所有权重已归一化到[0,1]
// 一般游戏使用Numbers，星彩类游戏按位使用Slots，特别号单独一套
type ScoreSet struct {
	Numbers map[int]float64
	Slots   []map[int]float64
	Special map[int]float64
}

// Scorer 预测方法的统一能力接口
// Score必须是窗口的纯函数：同一窗口重复调用返回相同结果
type Scorer interface {
	Method() Method
	Score(w *Window) (*ScoreSet, error)
}
