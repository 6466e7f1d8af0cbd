package cache

import (
	"context"
	"errors"
	"io"
	"time"
)

// Store 管理 download/ 目录下的归档分卷。所有条目以文件名定位：
//
//	<data_root>/download/<name>
//
// 条目仅由文件本身组成，ModTime/Size 由文件系统提供。
type Store interface {
	// Stat 返回已存在分卷的描述；不存在时返回 ErrNotFound。
	Stat(ctx context.Context, name string) (*Entry, error)

	// Put 将响应正文写入分卷文件。实现需通过临时文件 + rename 保证写入原子性，
	// 并在失败时清理临时文件。可选地根据 opts.ModTime 设置文件时间戳。
	Put(ctx context.Context, name string, body io.Reader, opts PutOptions) (*Entry, error)

	// Path 返回分卷在磁盘上的绝对路径，不检查其是否存在。
	Path(name string) (string, error)
}

// PutOptions 控制写入过程中的可选属性。
type PutOptions struct {
	ModTime time.Time
}

// Entry 描述一个已落盘的分卷。
type Entry struct {
	Name      string    `json:"name"`
	FilePath  string    `json:"file_path"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time"`
}

// ErrNotFound 表示分卷尚未下载。
var ErrNotFound = errors.New("cache entry not found")

// ErrInvalidName 表示文件名/场景名无法安全地映射为单级路径。
var ErrInvalidName = errors.New("invalid cache entry name")
