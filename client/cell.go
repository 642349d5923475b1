package client

import "strings"

// CellType 地图格子类型，取值为服务端下发的单字符编码
type CellType rune

const (
	CellVoid    CellType = ' ' // 虚空：飞船掉落出局
	CellBlocked CellType = '#' // 障碍：碰撞后反弹
	CellBoost   CellType = 'b' // 加速带
	CellSlow    CellType = 's' // 减速带
	CellTile    CellType = '.' // 普通地面
	CellStar    CellType = 'x' // 星星：加分后变为地面
	CellAnti    CellType = 'a' // 反星：减分后变为地面
	CellSpawn   CellType = 'o' // 出生点
)

var cellNames = map[CellType]string{
	CellVoid:    "void",
	CellBlocked: "blocked",
	CellBoost:   "boost",
	CellSlow:    "slow",
	CellTile:    "tile",
	CellStar:    "star",
	CellAnti:    "anti",
	CellSpawn:   "spawn",
}

// Known 是否为已知的格子编码（未知编码同样会被保存，不做拒绝）
func (c CellType) Known() bool {
	_, ok := cellNames[c]
	return ok
}

func (c CellType) String() string {
	if name, ok := cellNames[c]; ok {
		return name
	}
	return "unknown(" + string(rune(c)) + ")"
}

// Grid 地图网格：按行保存，x 为列、y 为行。
// 每个地图块都会构造一个新的 Grid，构造完成后不再修改，因此可以在快照之间共享。
type Grid struct {
	rows  [][]CellType
	width int
}

// NewGrid 由逐行文本构造网格：x 为行内字符序号，空行依然占用一个行号
func NewGrid(lines []string) *Grid {
	g := &Grid{rows: make([][]CellType, len(lines))}
	for y, line := range lines {
		if len(line) == 0 {
			continue
		}
		row := make([]CellType, 0, len(line))
		for _, r := range line {
			row = append(row, CellType(r))
		}
		g.rows[y] = row
		if len(row) > g.width {
			g.width = len(row)
		}
	}
	return g
}

// Cell 返回 (x, y) 处的格子；越界或该位置无数据时 ok 为 false
func (g *Grid) Cell(x, y int) (CellType, bool) {
	if g == nil || y < 0 || y >= len(g.rows) || x < 0 || x >= len(g.rows[y]) {
		return 0, false
	}
	return g.rows[y][x], true
}

// Width 最长一行的格子数
func (g *Grid) Width() int {
	if g == nil {
		return 0
	}
	return g.width
}

// Height 行数（包含空行）
func (g *Grid) Height() int {
	if g == nil {
		return 0
	}
	return len(g.rows)
}

// Len 网格中实际存在的格子总数
func (g *Grid) Len() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, row := range g.rows {
		n += len(row)
	}
	return n
}

// Rows 以文本形式返回每一行
func (g *Grid) Rows() []string {
	if g == nil {
		return nil
	}
	out := make([]string, len(g.rows))
	for y, row := range g.rows {
		var sb strings.Builder
		sb.Grow(len(row))
		for _, c := range row {
			sb.WriteRune(rune(c))
		}
		out[y] = sb.String()
	}
	return out
}
