package game

import (
	"fmt"
	"sort"
)

// Definition 游戏定义（进程内不可变）
type Definition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PoolMin     int    `json:"pool_min"`      // 号码池下界（星彩类为0）
	PoolMax     int    `json:"pool_max"`      // 号码池上界
	PickCount   int    `json:"pick_count"`    // 开出号码个数（星彩类为位数）
	HasSpecial  bool   `json:"has_special"`   // 是否有特别号
	SpecialMin  int    `json:"special_min"`   // 特别号下界
	SpecialMax  int    `json:"special_max"`   // 特别号上界
	IsDigitGame bool   `json:"is_digit_game"` // 各位独立取0-9，允许重复
	DerivedFrom string `json:"derived_from"`  // 衍生来源游戏ID，空表示非衍生
}

// PoolSize 号码池大小
func (d *Definition) PoolSize() int {
	return d.PoolMax - d.PoolMin + 1
}

// SpecialPoolSize 特别号池大小
func (d *Definition) SpecialPoolSize() int {
	if !d.HasSpecial {
		return 0
	}
	return d.SpecialMax - d.SpecialMin + 1
}

// InPool 号码是否在主号码池内
func (d *Definition) InPool(n int) bool {
	return n >= d.PoolMin && n <= d.PoolMax
}

// InSpecialPool 号码是否在特别号池内
func (d *Definition) InSpecialPool(n int) bool {
	return d.HasSpecial && n >= d.SpecialMin && n <= d.SpecialMax
}

// Summary 游戏摘要信息（对外展示用）
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PoolSize    int    `json:"pool_size"`
	PickCount   int    `json:"pick_count"`
	HasSpecial  bool   `json:"has_special"`
	IsDigitGame bool   `json:"is_digit_game"`
	DerivedFrom string `json:"derived_from,omitempty"`
}

// DerivationRule 衍生游戏换算规则
// Apply 把基础游戏的一期开奖换算成衍生游戏的号码
// Admits 判断某号码是否可能出现在换算结果中（结构约束）
type DerivationRule struct {
	BaseGameID string
	Apply      func(baseNumbers []int) []int
	Admits     func(n int) bool
}

// Registry 游戏注册表，进程启动后只读
type Registry struct {
	definitions map[string]*Definition
	rules       map[string]*DerivationRule
	order       []string
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[string]*Definition),
		rules:       make(map[string]*DerivationRule),
	}
}

// Register 注册游戏定义
func (r *Registry) Register(def *Definition) error {
	if def.ID == "" {
		return fmt.Errorf("game definition missing id")
	}
	if _, exists := r.definitions[def.ID]; exists {
		return fmt.Errorf("duplicate game id: %s", def.ID)
	}
	if !def.IsDigitGame && def.PickCount > def.PoolSize() {
		return fmt.Errorf("pick count %d exceeds pool size %d for game %s",
			def.PickCount, def.PoolSize(), def.ID)
	}
	if def.HasSpecial && def.SpecialMax < def.SpecialMin {
		return fmt.Errorf("invalid special range for game %s", def.ID)
	}
	r.definitions[def.ID] = def
	r.order = append(r.order, def.ID)
	return nil
}

// RegisterDerived 注册衍生游戏及其换算规则
func (r *Registry) RegisterDerived(def *Definition, rule *DerivationRule) error {
	if def.DerivedFrom == "" || rule == nil {
		return fmt.Errorf("derived game %s requires exactly one derivation source", def.ID)
	}
	if def.DerivedFrom != rule.BaseGameID {
		return fmt.Errorf("derivation rule base %s does not match derived_from %s",
			rule.BaseGameID, def.DerivedFrom)
	}
	if _, exists := r.definitions[rule.BaseGameID]; !exists {
		return fmt.Errorf("base game not registered: %s", rule.BaseGameID)
	}
	if err := r.Register(def); err != nil {
		return err
	}
	r.rules[def.ID] = rule
	return nil
}

// Lookup 按ID查找游戏定义
func (r *Registry) Lookup(gameID string) (*Definition, error) {
	def, exists := r.definitions[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, gameID)
	}
	return def, nil
}

// Rule 获取衍生游戏的换算规则
func (r *Registry) Rule(gameID string) (*DerivationRule, bool) {
	rule, exists := r.rules[gameID]
	return rule, exists
}

// List 按注册顺序列出所有游戏摘要
func (r *Registry) List() []Summary {
	summaries := make([]Summary, 0, len(r.order))
	for _, id := range r.order {
		def := r.definitions[id]
		summaries = append(summaries, Summary{
			ID:          def.ID,
			Name:        def.Name,
			PoolSize:    def.PoolSize(),
			PickCount:   def.PickCount,
			HasSpecial:  def.HasSpecial,
			IsDigitGame: def.IsDigitGame,
			DerivedFrom: def.DerivedFrom,
		})
	}
	return summaries
}

// IDs 已注册的游戏ID列表（排序后）
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	sort.Strings(ids)
	return ids
}
