package client

import (
	"strconv"
	"strings"
)

// 状态块中的协议键名
const (
	keyIteration     = "Iteration"
	keyEndTime       = "Endtime"
	keyMaxUpdateTime = "MaxUpdateTime"
	keyMaxPlayers    = "MaxPlayers"
)

// playerSegments 合法玩家行的分段数
const playerSegments = 10

// StatusUpdate 一个状态块解码后的结果，nil 字段表示块中未出现
type StatusUpdate struct {
	Iteration     *int
	EndTime       *int
	MaxUpdateTime *string
	MaxPlayers    *int

	Skipped int // 格式错误被忽略的行或字段数
}

// PlayerUpdate 一个玩家行解码后的字段集合（按行内顺序）
type PlayerUpdate struct {
	ID     int
	Fields []FieldValue
}

// FieldValue 单个 Key: Value 对
type FieldValue struct {
	Key   string
	Value string
}

// PlayersUpdate 一个玩家块解码后的结果
type PlayersUpdate struct {
	Players []PlayerUpdate
	Skipped int
}

// MapUpdate 一个地图块解码后的结果
type MapUpdate struct {
	Grid *Grid
}

// splitKV 以唯一的冒号切分 Key: Value，冒号个数不为一时视为格式错误
func splitKV(s string) (key, value string, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

// bodyLines 拆分块正文；正文由带行结束符的行拼接而成，最后的结束符不产生额外的行
func bodyLines(body string) []string {
	if body == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(body, "\n"), "\n")
}

// DecodeStatus 解码状态块正文，同一块内后出现的值覆盖先出现的值
func DecodeStatus(body string) StatusUpdate {
	var u StatusUpdate
	for _, line := range bodyLines(body) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := splitKV(line)
		if !ok {
			u.Skipped++
			continue
		}
		switch key {
		case keyIteration:
			if n, err := strconv.Atoi(value); err == nil {
				u.Iteration = &n
			} else {
				u.Skipped++
			}
		case keyEndTime:
			if n, err := strconv.Atoi(value); err == nil {
				u.EndTime = &n
			} else {
				u.Skipped++
			}
		case keyMaxUpdateTime:
			v := value
			u.MaxUpdateTime = &v
		case keyMaxPlayers:
			if n, err := strconv.Atoi(value); err == nil {
				u.MaxPlayers = &n
			} else {
				u.Skipped++
			}
		}
	}
	return u
}

// DecodePlayers 解码玩家块正文。
// 只有恰好十段的行才会被采用；行内必须包含合法的 PlayerID（0 <= id < capacity），
// 否则整行跳过。段的顺序不限，未知键与格式错误的段被忽略。
func DecodePlayers(body string, capacity int) PlayersUpdate {
	var u PlayersUpdate
	for _, line := range bodyLines(body) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		segs := strings.Split(line, "|")
		if len(segs) != playerSegments {
			u.Skipped++
			continue
		}

		id := -1
		fields := make([]FieldValue, 0, playerSegments-1)
		for _, seg := range segs {
			key, value, ok := splitKV(seg)
			if !ok {
				continue
			}
			if key == keyPlayerID {
				n, err := strconv.Atoi(value)
				if err != nil {
					id = -1
					break
				}
				id = n
				continue
			}
			fields = append(fields, FieldValue{Key: key, Value: value})
		}
		if id < 0 || id >= capacity {
			u.Skipped++
			continue
		}
		u.Players = append(u.Players, PlayerUpdate{ID: id, Fields: fields})
	}
	return u
}

// DecodeMap 解码地图块正文：行号即 y，行内字符序号即 x
func DecodeMap(body string) MapUpdate {
	return MapUpdate{Grid: NewGrid(bodyLines(body))}
}
