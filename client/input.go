package client

import "strconv"

// Move 客户端发往服务端的加速度指令
type Move struct {
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

// Wire 指令的线路格式（不含行结束符），数值使用最短十进制表示，例如 "120.3|300.123"
func (m Move) Wire() string {
	return strconv.FormatFloat(m.VX, 'f', -1, 64) + "|" + strconv.FormatFloat(m.VY, 'f', -1, 64)
}
