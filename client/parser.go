package client

import "strings"

// BlockKind 块类型
type BlockKind int

const (
	BlockStatus BlockKind = iota
	BlockPlayers
	BlockMap
)

func (k BlockKind) String() string {
	switch k {
	case BlockStatus:
		return "status"
	case BlockPlayers:
		return "players"
	case BlockMap:
		return "map"
	}
	return "unknown"
}

// parserState 块解析器状态
type parserState int

const (
	stateIdle parserState = iota
	stateInStatus
	stateInPlayers
	stateInMap
)

func (s parserState) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateInStatus:
		return "InStatus"
	case stateInPlayers:
		return "InPlayers"
	case stateInMap:
		return "InMap"
	}
	return "Unknown"
}

// blockRule 一种块的起止哨兵以及对应的解析状态
type blockRule struct {
	kind  BlockKind
	state parserState
	start string
	end   string
}

// blockRules 状态转移表：Idle 下按 start 前缀进入 state，state 下按 end 前缀完成 kind 块
var blockRules = []blockRule{
	{kind: BlockStatus, state: stateInStatus, start: StartStatus, end: EndStatus},
	{kind: BlockPlayers, state: stateInPlayers, start: StartPlayer, end: EndPlayer},
	{kind: BlockMap, state: stateInMap, start: StartMap, end: EndMap},
}

var rulesByState = func() map[parserState]blockRule {
	m := make(map[parserState]blockRule, len(blockRules))
	for _, r := range blockRules {
		m[r.state] = r
	}
	return m
}()

// Outcome 喂入一行后的结果
type Outcome int

const (
	OutcomeDiscarded Outcome = iota // Idle 下无法识别的行
	OutcomeStarted                  // 进入某个块
	OutcomeAppended                 // 追加到当前块正文
	OutcomeNested                   // 块内出现的其它哨兵行，按普通正文追加
	OutcomeCompleted                // 当前块结束，返回完整的块
)

// Block 一个完整的块
type Block struct {
	Kind BlockKind
	Body string
}

// Parser 将行序列拆分为状态、玩家、地图三类块。
// 块内出现的其它起止哨兵不做校验，原样计入正文。
type Parser struct {
	state parserState
	body  strings.Builder
}

// NewParser 创建处于 Idle 状态的解析器
func NewParser() *Parser {
	return &Parser{state: stateIdle}
}

// State 当前状态名
func (p *Parser) State() string { return p.state.String() }

// Feed 处理一行（不含行结束符）；返回 OutcomeCompleted 时 Block 有效
func (p *Parser) Feed(line string) (Block, Outcome) {
	if p.state == stateIdle {
		for _, r := range blockRules {
			if strings.HasPrefix(line, r.start) {
				p.state = r.state
				p.body.Reset()
				return Block{}, OutcomeStarted
			}
		}
		return Block{}, OutcomeDiscarded
	}

	rule := rulesByState[p.state]
	if strings.HasPrefix(line, rule.end) {
		blk := Block{Kind: rule.kind, Body: p.body.String()}
		p.state = stateIdle
		p.body.Reset()
		return blk, OutcomeCompleted
	}

	p.body.WriteString(line)
	p.body.WriteByte('\n')
	if isSentinel(line) {
		return Block{}, OutcomeNested
	}
	return Block{}, OutcomeAppended
}

func isSentinel(line string) bool {
	for _, r := range blockRules {
		if strings.HasPrefix(line, r.start) || strings.HasPrefix(line, r.end) {
			return true
		}
	}
	return false
}
