package client

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// MoveSender 指令发送端，由 Sender 实现
type MoveSender interface {
	SendMove(vx, vy float64) error
}

// Decider 决策循环：等待世界就绪后按固定周期读取快照、运行策略、发送指令
type Decider struct {
	world    *World
	sender   MoveSender
	strategy Strategy
	localID  int
	metrics  *Metrics

	tick      time.Duration
	readyPoll time.Duration

	// 协议没有流控，指令频率由这里限制；可通过调试接口热更新
	limiter *rate.Limiter
	paused  atomic.Bool
}

// NewDecider 创建决策循环；metrics 可为 nil
func NewDecider(world *World, sender MoveSender, strategy Strategy, localID int, cfg DecisionConfig, metrics *Metrics) *Decider {
	if metrics == nil {
		metrics = NewMetrics()
	}
	if cfg.Tick <= 0 {
		cfg.Tick = 10 * time.Millisecond
	}
	if cfg.ReadyPoll <= 0 {
		cfg.ReadyPoll = 100 * time.Millisecond
	}
	if cfg.CommandBurst < 1 {
		cfg.CommandBurst = 1
	}
	limit := rate.Limit(cfg.CommandRate)
	if cfg.CommandRate <= 0 {
		limit = rate.Inf
	}
	return &Decider{
		world:     world,
		sender:    sender,
		strategy:  strategy,
		localID:   localID,
		metrics:   metrics,
		tick:      cfg.Tick,
		readyPoll: cfg.ReadyPoll,
		limiter:   rate.NewLimiter(limit, cfg.CommandBurst),
	}
}

// WaitReady 以较粗的间隔轮询，直到至少收到一个玩家块和一个地图块
func (d *Decider) WaitReady(ctx context.Context) error {
	ticker := time.NewTicker(d.readyPoll)
	defer ticker.Stop()
	for {
		if d.world.Ready() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Run 等待就绪后进入决策循环，直到 ctx 取消
func (d *Decider) Run(ctx context.Context) error {
	if err := d.WaitReady(ctx); err != nil {
		return err
	}
	Log.Infow("world ready, starting decision loop", "player_id", d.localID, "tick", d.tick)

	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.Step()
		}
	}
}

// Step 执行一次决策：持锁复制快照 → 释放锁 → 策略 → 限速 → 发送 → 通知策略已发送
func (d *Decider) Step() {
	start := time.Now()
	defer func() { d.metrics.AddTick(time.Since(start).Nanoseconds()) }()

	if d.paused.Load() {
		return
	}
	snap := d.world.Snapshot(d.localID)
	move, ok := d.strategy.Decide(snap)
	if !ok {
		return
	}
	if !d.limiter.Allow() {
		d.metrics.IncCommandsThrottled()
		Log.Debugw("move throttled", "iteration", snap.Status.Iteration, "move", move.Wire())
		return
	}
	if err := d.sender.SendMove(move.VX, move.VY); err != nil {
		// 发送失败不致命，继续基于已有快照决策
		d.metrics.IncCommandErrors()
		Log.Warnw("move not sent", "iteration", snap.Status.Iteration, "err", err)
		return
	}
	if n, ok := d.strategy.(SentNotifier); ok {
		n.Sent(move)
	}
	d.metrics.IncCommandsSent()
	Log.Infow("move sent", "iteration", snap.Status.Iteration, "move", move.Wire())
}

// DecisionSettings 可热更新的决策参数
type DecisionSettings struct {
	CommandRate  float64 `json:"commandRate"`
	CommandBurst int     `json:"commandBurst"`
	Paused       bool    `json:"paused"`
}

// Settings 当前参数；不限速时 CommandRate 为 0
func (d *Decider) Settings() DecisionSettings {
	perSecond := float64(d.limiter.Limit())
	if d.limiter.Limit() == rate.Inf {
		perSecond = 0
	}
	return DecisionSettings{
		CommandRate:  perSecond,
		CommandBurst: d.limiter.Burst(),
		Paused:       d.paused.Load(),
	}
}

func (d *Decider) SetCommandRate(perSecond float64) { d.limiter.SetLimit(rate.Limit(perSecond)) }
func (d *Decider) SetCommandBurst(burst int)        { d.limiter.SetBurst(burst) }
func (d *Decider) SetPaused(paused bool)            { d.paused.Store(paused) }
