package game

import "errors"

// ErrUnknownGame 未注册的游戏ID
var ErrUnknownGame = errors.New("unknown game")

// DefaultRegistry 构建台彩游戏目录
// 衍生游戏的换算规则在此逐一声明，不做推断：
//   - 49lotto（49乐合彩）直接沿用大乐透的6个主号码，不含特别号
//   - 39lotto（39乐合彩）直接沿用今彩539的5个号码
//   - 38lotto（38乐合彩）取今彩539开奖中落在1-38区间的号码，39被截除
func DefaultRegistry() *Registry {
	r := NewRegistry()

	base := []*Definition{
		{
			ID: "lotto649", Name: "大乐透",
			PoolMin: 1, PoolMax: 49, PickCount: 6,
			HasSpecial: true, SpecialMin: 1, SpecialMax: 49,
		},
		{
			ID: "superlotto638", Name: "威力彩",
			PoolMin: 1, PoolMax: 38, PickCount: 6,
			HasSpecial: true, SpecialMin: 1, SpecialMax: 8,
		},
		{
			ID: "dailycash", Name: "今彩539",
			PoolMin: 1, PoolMax: 39, PickCount: 5,
		},
		{
			ID: "3stars", Name: "3星彩",
			PoolMin: 0, PoolMax: 9, PickCount: 3, IsDigitGame: true,
		},
		{
			ID: "4stars", Name: "4星彩",
			PoolMin: 0, PoolMax: 9, PickCount: 4, IsDigitGame: true,
		},
		{
			ID: "bingobingo", Name: "宾果宾果",
			PoolMin: 1, PoolMax: 80, PickCount: 20,
		},
	}

	for _, def := range base {
		if err := r.Register(def); err != nil {
			panic(err) // 目录是静态数据，注册失败属编码错误
		}
	}

	derived := []struct {
		def  *Definition
		rule *DerivationRule
	}{
		{
			def: &Definition{
				ID: "49lotto", Name: "49乐合彩",
				PoolMin: 1, PoolMax: 49, PickCount: 6,
				DerivedFrom: "lotto649",
			},
			rule: IdentityRule("lotto649", 1, 49),
		},
		{
			def: &Definition{
				ID: "39lotto", Name: "39乐合彩",
				PoolMin: 1, PoolMax: 39, PickCount: 5,
				DerivedFrom: "dailycash",
			},
			rule: IdentityRule("dailycash", 1, 39),
		},
		{
			def: &Definition{
				ID: "38lotto", Name: "38乐合彩",
				PoolMin: 1, PoolMax: 38, PickCount: 5,
				DerivedFrom: "dailycash",
			},
			rule: TruncationRule("dailycash", 38),
		},
	}

	for _, d := range derived {
		if err := r.RegisterDerived(d.def, d.rule); err != nil {
			panic(err)
		}
	}

	return r
}

// IdentityRule 原样沿用基础游戏主号码的规则
func IdentityRule(baseGameID string, min, max int) *DerivationRule {
	return &DerivationRule{
		BaseGameID: baseGameID,
		Apply: func(baseNumbers []int) []int {
			out := make([]int, len(baseNumbers))
			copy(out, baseNumbers)
			return out
		},
		Admits: func(n int) bool {
			return n >= min && n <= max
		},
	}
}

// TruncationRule 截断规则：只保留不超过limit的号码
func TruncationRule(baseGameID string, limit int) *DerivationRule {
	return &DerivationRule{
		BaseGameID: baseGameID,
		Apply: func(baseNumbers []int) []int {
			var out []int
			for _, n := range baseNumbers {
				if n <= limit {
					out = append(out, n)
				}
			}
			return out
		},
		Admits: func(n int) bool {
			return n >= 1 && n <= limit
		},
	}
}
