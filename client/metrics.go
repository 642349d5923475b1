package client

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "bumperbot"
	subsystem = "client"
)

// Metrics 记录摄取与决策两条循环的关键指标（用于监控与调试）
type Metrics struct {
	LinesRead         int64 // 读到的行数
	LinesDiscarded    int64 // Idle 状态下丢弃的行数
	NestedSentinels   int64 // 块内出现的其它哨兵行
	StatusBlocks      int64 // 已应用的状态块
	PlayerBlocks      int64 // 已应用的玩家块
	MapBlocks         int64 // 已应用的地图块
	MalformedLines    int64 // 解码时被跳过的行或字段
	TickCount         int64 // 决策 Tick 次数
	TotalTickNs       int64 // Tick 累计耗时（纳秒）
	CommandsSent      int64 // 成功写出的指令数
	CommandErrors     int64 // 写出失败的指令数
	CommandsThrottled int64 // 因限速被丢弃的指令数
}

// NewMetrics 创建指标
func NewMetrics() *Metrics { return &Metrics{} }

func (m *Metrics) IncLinesRead()         { atomic.AddInt64(&m.LinesRead, 1) }
func (m *Metrics) IncLinesDiscarded()    { atomic.AddInt64(&m.LinesDiscarded, 1) }
func (m *Metrics) IncNestedSentinels()   { atomic.AddInt64(&m.NestedSentinels, 1) }
func (m *Metrics) AddMalformed(n int)    { atomic.AddInt64(&m.MalformedLines, int64(n)) }
func (m *Metrics) IncCommandsSent()      { atomic.AddInt64(&m.CommandsSent, 1) }
func (m *Metrics) IncCommandErrors()     { atomic.AddInt64(&m.CommandErrors, 1) }
func (m *Metrics) IncCommandsThrottled() { atomic.AddInt64(&m.CommandsThrottled, 1) }

// IncBlock 按块类型计数
func (m *Metrics) IncBlock(kind BlockKind) {
	switch kind {
	case BlockStatus:
		atomic.AddInt64(&m.StatusBlocks, 1)
	case BlockPlayers:
		atomic.AddInt64(&m.PlayerBlocks, 1)
	case BlockMap:
		atomic.AddInt64(&m.MapBlocks, 1)
	}
}

func (m *Metrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *Metrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"lines_read":         atomic.LoadInt64(&m.LinesRead),
		"lines_discarded":    atomic.LoadInt64(&m.LinesDiscarded),
		"nested_sentinels":   atomic.LoadInt64(&m.NestedSentinels),
		"status_blocks":      atomic.LoadInt64(&m.StatusBlocks),
		"player_blocks":      atomic.LoadInt64(&m.PlayerBlocks),
		"map_blocks":         atomic.LoadInt64(&m.MapBlocks),
		"malformed_lines":    atomic.LoadInt64(&m.MalformedLines),
		"tick_count":         tick,
		"commands_sent":      atomic.LoadInt64(&m.CommandsSent),
		"command_errors":     atomic.LoadInt64(&m.CommandErrors),
		"commands_throttled": atomic.LoadInt64(&m.CommandsThrottled),
		"avg_tick_ms":        avgMs,
	}
}

var (
	descLinesRead = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, subsystem, "lines_read_total"),
		"Lines read from the game stream", nil, nil)
	descLinesDiscarded = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, subsystem, "lines_discarded_total"),
		"Lines seen outside of any block", nil, nil)
	descNestedSentinels = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, subsystem, "nested_sentinels_total"),
		"Sentinel lines absorbed as body text inside another block", nil, nil)
	descBlocks = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, subsystem, "blocks_applied_total"),
		"Completed blocks applied to the world by kind", []string{"kind"}, nil)
	descMalformed = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, subsystem, "malformed_total"),
		"Block body lines or fields skipped while decoding", nil, nil)
	descTicks = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, subsystem, "ticks_total"),
		"Decision loop ticks", nil, nil)
	descTickSeconds = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, subsystem, "tick_seconds_total"),
		"Cumulative time spent inside decision ticks", nil, nil)
	descCommands = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, subsystem, "commands_total"),
		"Move commands by outcome", []string{"status"}, nil)
)

// Describe 实现 prometheus.Collector
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- descLinesRead
	ch <- descLinesDiscarded
	ch <- descNestedSentinels
	ch <- descBlocks
	ch <- descMalformed
	ch <- descTicks
	ch <- descTickSeconds
	ch <- descCommands
}

// Collect 实现 prometheus.Collector，直接读取原子计数
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	counter := func(desc *prometheus.Desc, v int64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v), labels...)
	}
	counter(descLinesRead, atomic.LoadInt64(&m.LinesRead))
	counter(descLinesDiscarded, atomic.LoadInt64(&m.LinesDiscarded))
	counter(descNestedSentinels, atomic.LoadInt64(&m.NestedSentinels))
	counter(descBlocks, atomic.LoadInt64(&m.StatusBlocks), BlockStatus.String())
	counter(descBlocks, atomic.LoadInt64(&m.PlayerBlocks), BlockPlayers.String())
	counter(descBlocks, atomic.LoadInt64(&m.MapBlocks), BlockMap.String())
	counter(descMalformed, atomic.LoadInt64(&m.MalformedLines))
	counter(descTicks, atomic.LoadInt64(&m.TickCount))
	ch <- prometheus.MustNewConstMetric(descTickSeconds, prometheus.CounterValue,
		float64(atomic.LoadInt64(&m.TotalTickNs))/1e9)
	counter(descCommands, atomic.LoadInt64(&m.CommandsSent), "success")
	counter(descCommands, atomic.LoadInt64(&m.CommandErrors), "error")
	counter(descCommands, atomic.LoadInt64(&m.CommandsThrottled), "throttled")
}
