package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// wsReadLimit 单条 websocket 消息的上限
const wsReadLimit = 1 << 20 // 1MB

// Dial 建立到游戏服务端的字节流。
// target 为 host:port 时使用 TCP；为 ws:// 或 wss:// 地址时通过 websocket 桥接，
// 桥接端的文本消息按顺序拼接成与 TCP 相同的行流。
func Dial(ctx context.Context, target string, timeout time.Duration) (io.ReadWriteCloser, error) {
	if strings.HasPrefix(target, "ws://") || strings.HasPrefix(target, "wss://") {
		return dialWS(ctx, target, timeout)
	}
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", target)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", target, err)
	}
	return conn, nil
}

func dialWS(ctx context.Context, url string, timeout time.Duration) (io.ReadWriteCloser, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: timeout,
		ReadBufferSize:   lineBufferSize,
		WriteBufferSize:  1024,
	}
	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	ws.SetReadLimit(wsReadLimit)
	return &wsStream{ws: ws}, nil
}

// wsStream 将 websocket 连接适配为字节流：读取时依次消费每条消息，写入时每次调用发送一条文本消息
type wsStream struct {
	ws *websocket.Conn
	r  io.Reader // 当前正在读取的消息
}

func (s *wsStream) Read(p []byte) (int, error) {
	for {
		if s.r == nil {
			_, r, err := s.ws.NextReader()
			if err != nil {
				return 0, err
			}
			s.r = r
		}
		n, err := s.r.Read(p)
		if err == io.EOF {
			// 当前消息读完，切换到下一条
			s.r = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (s *wsStream) Write(p []byte) (int, error) {
	if err := s.ws.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// SetWriteDeadline 供 Sender 设置写超时
func (s *wsStream) SetWriteDeadline(t time.Time) error {
	return s.ws.SetWriteDeadline(t)
}

// Close 先尽力发送关闭帧，再关闭底层连接
func (s *wsStream) Close() error {
	_ = s.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return s.ws.Close()
}
