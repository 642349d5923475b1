package client

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// lineBufferSize 读缓冲大小，大地图的一行也能一次装下
const lineBufferSize = 64 * 1024

// LineReader 逐行读取的来源
type LineReader interface {
	Next() (string, error)
}

// LineSource 将字节流包装为阻塞的行序列。只允许一个读者（摄取循环）。
type LineSource struct {
	r *bufio.Reader
}

// NewLineSource 包装字节流
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{r: bufio.NewReaderSize(r, lineBufferSize)}
}

// Next 返回下一行（去掉 \n 或 \r\n）。
// 流结束（包括末尾没有行结束符的残行）或读错误都会返回包装了 ErrStreamClosed 的错误。
func (s *LineSource) Next() (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil {
		if line != "" {
			return "", fmt.Errorf("%w: unterminated line %q: %w", ErrStreamClosed, line, err)
		}
		return "", fmt.Errorf("%w: %w", ErrStreamClosed, err)
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
