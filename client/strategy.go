package client

import (
	"fmt"
	"sort"
	"sync"
)

// Strategy 决策逻辑：只读取快照，返回是否需要发送指令
type Strategy interface {
	Decide(snap Snapshot) (Move, bool)
}

// SentNotifier 可选接口：指令确实写出后由决策循环回调，
// 有状态的策略在这里提交状态，发送失败、暂停或限速时不会被调用
type SentNotifier interface {
	Sent(move Move)
}

// StrategyFunc 函数适配器
type StrategyFunc func(snap Snapshot) (Move, bool)

func (f StrategyFunc) Decide(snap Snapshot) (Move, bool) { return f(snap) }

// StrategyRegistry 按名字管理可用的决策逻辑
type StrategyRegistry struct {
	mu        sync.RWMutex
	factories map[string]func() Strategy
}

var (
	defaultRegistry *StrategyRegistry
	once            sync.Once
)

// GetStrategyRegistry 单例注册表，首次访问时注册内置策略
func GetStrategyRegistry() *StrategyRegistry {
	once.Do(func() {
		defaultRegistry = &StrategyRegistry{factories: make(map[string]func() Strategy)}
		defaultRegistry.Register("idle", func() Strategy { return StrategyFunc(idle) })
		defaultRegistry.Register("scripted", func() Strategy { return NewScripted(DefaultScript) })
		defaultRegistry.Register("describe", func() Strategy { return &describer{last: -1} })
	})
	return defaultRegistry
}

// Register 注册（或覆盖）一个策略工厂
func (r *StrategyRegistry) Register(name string, factory func() Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// New 按名字创建策略实例；有状态的策略每次得到新实例
func (r *StrategyRegistry) New(name string) (Strategy, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (available: %v)", name, r.Names())
	}
	return f(), nil
}

// Names 已注册的策略名（有序）
func (r *StrategyRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func idle(Snapshot) (Move, bool) { return Move{}, false }

// ScriptStep 在指定回合发出一次指令
type ScriptStep struct {
	At   int
	Move Move
}

// DefaultScript 示例脚本：第 60、180、250 回合各改变一次方向
var DefaultScript = []ScriptStep{
	{At: 60, Move: Move{VX: 120.3, VY: 300.123}},
	{At: 180, Move: Move{VX: -120.3, VY: 300.123}},
	{At: 250, Move: Move{VX: -120.3, VY: -300.123}},
}

// Scripted 按回合号发送预设指令，每一步只成功发送一次（决策 Tick 比服务端回合快得多）。
// 未能写出的指令在同一回合内的后续 Tick 重试。
type Scripted struct {
	steps   []ScriptStep
	fired   map[int]bool
	pending int // 最近一次 Decide 返回的步骤回合号，-1 表示没有
}

func NewScripted(steps []ScriptStep) *Scripted {
	return &Scripted{steps: steps, fired: make(map[int]bool, len(steps)), pending: -1}
}

func (s *Scripted) Decide(snap Snapshot) (Move, bool) {
	s.pending = -1
	for _, step := range s.steps {
		if snap.Status.Iteration == step.At && !s.fired[step.At] {
			s.pending = step.At
			return step.Move, true
		}
	}
	return Move{}, false
}

// Sent 指令写出后才把对应步骤标记为已发送
func (s *Scripted) Sent(Move) {
	if s.pending >= 0 {
		s.fired[s.pending] = true
		s.pending = -1
	}
}

// describer 每个新回合记录本地玩家接触到的格子，不发送指令
type describer struct {
	last int
}

func (d *describer) Decide(snap Snapshot) (Move, bool) {
	if !snap.HasLocal || snap.Status.Iteration == d.last {
		return Move{}, false
	}
	d.last = snap.Status.Iteration
	for _, pt := range snap.Local.Touching() {
		cell, ok := snap.Grid.Cell(pt.X, pt.Y)
		if !ok {
			continue
		}
		Log.Debugw("touching cell", "iteration", d.last, "x", pt.X, "y", pt.Y, "cell", cell.String())
	}
	return Move{}, false
}
