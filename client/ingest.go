package client

import "context"

// Ingestor 摄取循环：行读取 → 块解析 → 字段解码 → 世界状态
type Ingestor struct {
	world   *World
	metrics *Metrics
	parser  *Parser
}

// NewIngestor 创建摄取循环；metrics 可为 nil
func NewIngestor(world *World, metrics *Metrics) *Ingestor {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Ingestor{world: world, metrics: metrics, parser: NewParser()}
}

// Run 持续读取直到流结束或出错，返回值总是非 nil。
// 读取阻塞期间不持有世界锁；ctx 只在两行之间检查，阻塞中的读取需要关闭底层连接才能返回。
func (in *Ingestor) Run(ctx context.Context, src LineReader) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := src.Next()
		if err != nil {
			Log.Errorw("ingestion stopped", "state", in.parser.State(), "err", err)
			return err
		}
		in.metrics.IncLinesRead()
		in.Feed(line)
	}
}

// Feed 处理一行，块完成时解码并应用到世界
func (in *Ingestor) Feed(line string) {
	blk, outcome := in.parser.Feed(line)
	switch outcome {
	case OutcomeDiscarded:
		in.metrics.IncLinesDiscarded()
	case OutcomeNested:
		in.metrics.IncNestedSentinels()
		Log.Debugw("sentinel inside block treated as body", "state", in.parser.State(), "line", line)
	case OutcomeCompleted:
		in.apply(blk)
	}
}

func (in *Ingestor) apply(blk Block) {
	switch blk.Kind {
	case BlockStatus:
		u := DecodeStatus(blk.Body)
		in.world.ApplyStatus(u)
		in.metrics.AddMalformed(u.Skipped)
	case BlockPlayers:
		u := DecodePlayers(blk.Body, in.world.Capacity())
		in.world.ApplyPlayers(u)
		in.metrics.AddMalformed(u.Skipped)
	case BlockMap:
		in.world.ApplyMap(DecodeMap(blk.Body))
	}
	in.metrics.IncBlock(blk.Kind)
}
