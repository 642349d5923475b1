package client

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// 块的起止哨兵行（按前缀匹配）
const (
	StartStatus = "START STATUS"
	EndStatus   = "END STATUS"
	StartPlayer = "START PLAYER"
	EndPlayer   = "END PLAYER"
	StartMap    = "START MAP"
	EndMap      = "END MAP"
)

// handshakeTag 握手请求的首个字段
const handshakeTag = "myAiClient"

// maxNameLen 服务端接受的名字长度上限（不含）
const maxNameLen = 20

var (
	ErrHandshake    = errors.New("handshake failed")
	ErrInvalidName  = errors.New("invalid player name")
	ErrStreamClosed = errors.New("stream closed")
)

// ValidateIdentity 检查名字和颜色能否安全放入握手行
func ValidateIdentity(name, color string) error {
	if !validNameLen(name) {
		return fmt.Errorf("%w: length must be 1..%d, got %d", ErrInvalidName, maxNameLen-1, len(name))
	}
	if !protoSafe(name) {
		return fmt.Errorf("%w: %q contains a reserved character", ErrInvalidName, name)
	}
	if color == "" || !protoSafe(color) {
		return fmt.Errorf("%w: bad color %q", ErrInvalidName, color)
	}
	return nil
}

// validNameLen 名字按字节计长，1..maxNameLen-1
func validNameLen(name string) bool {
	return name != "" && len(name) < maxNameLen
}

// protoSafe 字段中不能出现分隔符或换行
func protoSafe(s string) bool {
	return !strings.ContainsAny(s, "|:\r\n")
}

// HandshakeLine 构造握手请求（不含行结束符）
func HandshakeLine(name, color string) string {
	return handshakeTag + "|" + name + "|" + color
}

// ParsePlayerID 解析握手应答：最后一个冒号之后的整数即为分配的玩家编号
func ParsePlayerID(resp string) (int, error) {
	resp = strings.TrimSpace(resp)
	i := strings.LastIndexByte(resp, ':')
	if i < 0 {
		return 0, fmt.Errorf("%w: unexpected reply %q", ErrHandshake, resp)
	}
	id, err := strconv.Atoi(strings.TrimSpace(resp[i+1:]))
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: unexpected reply %q", ErrHandshake, resp)
	}
	return id, nil
}

// EncodeStatus 按服务端格式输出状态块
func EncodeStatus(s WorldStatus) string {
	sb := new(strings.Builder)
	sb.WriteString(StartStatus + "\n")
	fmt.Fprintf(sb, "%s:%d\n", keyIteration, s.Iteration)
	fmt.Fprintf(sb, "%s:%d\n", keyEndTime, s.EndTime)
	fmt.Fprintf(sb, "%s:%s\n", keyMaxUpdateTime, s.MaxUpdateTime)
	fmt.Fprintf(sb, "%s:%d\n", keyMaxPlayers, s.MaxPlayers)
	sb.WriteString(EndStatus + "\n")
	return sb.String()
}

// EncodePlayerLine 输出单个玩家的十段行（不含行结束符）
func EncodePlayerLine(p PlayerRecord) string {
	return strings.Join([]string{
		keyPlayerID + ":" + strconv.Itoa(p.ID),
		keyName + ":" + p.Name,
		keyColor + ":" + p.Color,
		keyPosition + ":" + p.Position,
		keyVelocity + ":" + p.Velocity,
		keyAcceleration + ":" + p.Acceleration,
		keyScore + ":" + p.Score,
		keyAngle + ":" + p.Angle,
		keyTouchingCells + ":" + p.TouchingCells,
		keyIsAlive + ":" + p.IsAlive,
	}, "|")
}

// EncodePlayers 按服务端格式输出玩家块
func EncodePlayers(players []PlayerRecord) string {
	sb := new(strings.Builder)
	sb.WriteString(StartPlayer + "\n")
	for _, p := range players {
		sb.WriteString(EncodePlayerLine(p))
		sb.WriteByte('\n')
	}
	sb.WriteString(EndPlayer + "\n")
	return sb.String()
}

// EncodeMap 按服务端格式输出地图块
func EncodeMap(rows []string) string {
	sb := new(strings.Builder)
	sb.WriteString(StartMap + "\n")
	for _, row := range rows {
		sb.WriteString(row)
		sb.WriteByte('\n')
	}
	sb.WriteString(EndMap + "\n")
	return sb.String()
}
