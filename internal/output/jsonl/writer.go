// Package jsonl 实现带缓冲的 JSONL 文件写入。
// 回测是批处理流程，没有需要非阻塞投递的热路径，
// 因此采用同步写入 + bufio 缓冲。
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Writer JSONL 写入器
// 并发安全；Close 前必须保证所有 Write 已返回。
type Writer struct {
	// path 输出文件路径
	path string

	mu     sync.Mutex
	f      *os.File
	bw     *bufio.Writer
	closed bool
}

// NewWriter 创建 JSONL 写入器
// 输出目录不存在时自动创建；文件以追加模式打开。
// 参数 path: 输出文件路径
func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("打开输出文件失败: %w", err)
	}

	return &Writer{
		path: path,
		f:    f,
		bw:   bufio.NewWriterSize(f, 1<<20), // 1MB buffer
	}, nil
}

// Write 写入一条 JSONL 记录
func (w *Writer) Write(v any) error {
	if w == nil {
		return fmt.Errorf("writer 为空")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("writer 已关闭")
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("编码 JSON 失败: %w", err)
	}
	if _, err := w.bw.Write(b); err != nil {
		return fmt.Errorf("写入失败: %w", err)
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return fmt.Errorf("写入失败: %w", err)
	}
	return nil
}

// Flush 强制 flush 文件缓冲区
func (w *Writer) Flush() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	return w.bw.Flush()
}

// Close 关闭写入器（会先 flush）
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	flushErr := w.bw.Flush()
	closeErr := w.f.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
