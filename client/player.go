package client

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPlayerCapacity 玩家槽位上限（编号范围 [0, capacity)）
const DefaultPlayerCapacity = 1000

// PlayerRecord 服务端下发的玩家状态。
// 字段保持协议中的原始字符串，按需通过下方的辅助方法解析。
type PlayerRecord struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	Position      string `json:"position"`
	Velocity      string `json:"velocity"`
	Acceleration  string `json:"acceleration"`
	Score         string `json:"score"`
	Angle         string `json:"angle"`
	TouchingCells string `json:"touchingCells"`
	IsAlive       string `json:"isAlive"`
}

// 玩家行中各字段的协议键名
const (
	keyPlayerID      = "PlayerID"
	keyName          = "Name"
	keyColor         = "Color"
	keyPosition      = "Position"
	keyVelocity      = "Velocity"
	keyAcceleration  = "Acceleration"
	keyScore         = "Score"
	keyAngle         = "Angle"
	keyTouchingCells = "TouchingCells"
	keyIsAlive       = "IsAlive"
)

// set 按键名写入单个字段，未知键返回 false
func (p *PlayerRecord) set(key, value string) bool {
	switch key {
	case keyName:
		p.Name = value
	case keyColor:
		p.Color = value
	case keyPosition:
		p.Position = value
	case keyVelocity:
		p.Velocity = value
	case keyAcceleration:
		p.Acceleration = value
	case keyScore:
		p.Score = value
	case keyAngle:
		p.Angle = value
	case keyTouchingCells:
		p.TouchingCells = value
	case keyIsAlive:
		p.IsAlive = value
	default:
		return false
	}
	return true
}

// Vector 二维向量（位置、速度、加速度）
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point 网格坐标
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ParseVector 解析 "x,y" 形式的向量
func ParseVector(s string) (Vector, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Vector{}, fmt.Errorf("invalid vector %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return Vector{}, fmt.Errorf("invalid vector %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return Vector{}, fmt.Errorf("invalid vector %q: %w", s, err)
	}
	return Vector{X: x, Y: y}, nil
}

// ParsePoints 解析 "x,y;x,y;" 形式的格子列表，跳过空项和格式错误的项
func ParsePoints(s string) []Point {
	var out []Point
	for _, item := range strings.Split(s, ";") {
		xs, ys, ok := strings.Cut(strings.TrimSpace(item), ",")
		if !ok || xs == "" || ys == "" {
			continue
		}
		x, errX := strconv.Atoi(strings.TrimSpace(xs))
		y, errY := strconv.Atoi(strings.TrimSpace(ys))
		if errX != nil || errY != nil {
			continue
		}
		out = append(out, Point{X: x, Y: y})
	}
	return out
}

func (p PlayerRecord) PositionVec() (Vector, error)     { return ParseVector(p.Position) }
func (p PlayerRecord) VelocityVec() (Vector, error)     { return ParseVector(p.Velocity) }
func (p PlayerRecord) AccelerationVec() (Vector, error) { return ParseVector(p.Acceleration) }

// Touching 当前接触的格子
func (p PlayerRecord) Touching() []Point { return ParsePoints(p.TouchingCells) }

// Alive 服务端以 "true"/"True" 表示存活，其余一律视为出局
func (p PlayerRecord) Alive() bool {
	switch strings.TrimSpace(p.IsAlive) {
	case "true", "True":
		return true
	}
	return false
}

func (p PlayerRecord) ScoreValue() (int, error) {
	return strconv.Atoi(strings.TrimSpace(p.Score))
}

func (p PlayerRecord) AngleValue() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(p.Angle), 64)
}
