package client

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sender 负责把指令写回服务端；每条指令一次写出，互斥保证整行不被交错
type Sender struct {
	mu      sync.Mutex
	w       io.Writer
	timeout time.Duration
}

// NewSender 包装写端；timeout > 0 且写端支持 SetWriteDeadline 时为每次写入设置期限
func NewSender(w io.Writer, timeout time.Duration) *Sender {
	return &Sender{w: w, timeout: timeout}
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// SendMove 发送加速度指令 "<vx>|<vy>\n"，不等待应答。限速由调用方负责。
func (s *Sender) SendMove(vx, vy float64) error {
	return s.writeLine(Move{VX: vx, VY: vy}.Wire())
}

func (s *Sender) writeLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.w.(writeDeadliner); ok && s.timeout > 0 {
		_ = d.SetWriteDeadline(time.Now().Add(s.timeout))
	}
	if _, err := io.WriteString(s.w, line+"\n"); err != nil {
		return fmt.Errorf("failed to send %q: %w", line, err)
	}
	return nil
}

// Session 握手成功后的连接：本地玩家编号、行读取端与指令发送端
type Session struct {
	ID        int       // 服务端分配的玩家编号
	SessionID uuid.UUID // 本地会话标识，仅用于日志与调试接口
	Name      string
	Color     string

	Lines  *LineSource
	Sender *Sender

	stream io.ReadWriteCloser
}

// NewSession 在已建立的字节流上完成握手。失败时关闭流并返回包装了 ErrHandshake 或 ErrInvalidName 的错误。
func NewSession(stream io.ReadWriteCloser, name, color string, writeTimeout time.Duration) (*Session, error) {
	if err := ValidateIdentity(name, color); err != nil {
		_ = stream.Close()
		return nil, err
	}

	s := &Session{
		SessionID: uuid.New(),
		Name:      name,
		Color:     color,
		Lines:     NewLineSource(stream),
		Sender:    NewSender(stream, writeTimeout),
		stream:    stream,
	}

	req := HandshakeLine(name, color)
	if err := s.Sender.writeLine(req); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	Log.Debugw("handshake sent", "session", s.SessionID, "request", req)

	resp, err := s.Lines.Next()
	if err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("%w: no reply: %w", ErrHandshake, err)
	}
	id, err := ParsePlayerID(resp)
	if err != nil {
		_ = stream.Close()
		return nil, err
	}
	s.ID = id
	Log.Infow("handshake accepted", "session", s.SessionID, "player_id", id, "name", name, "color", color)
	return s, nil
}

// Close 关闭底层连接，阻塞中的读取随之返回
func (s *Session) Close() error {
	return s.stream.Close()
}
