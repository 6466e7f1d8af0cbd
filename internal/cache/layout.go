package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	downloadDirName = "download"
	extractDirName  = "extract"
)

// Layout 描述缓存根目录下固定的 download/ 与 extract/ 两个子目录。
type Layout struct {
	Root        string
	DownloadDir string
	ExtractDir  string
}

// NewLayout 仅计算目录结构，不触碰文件系统；目录在 Ensure 时才创建。
func NewLayout(root string) (Layout, error) {
	if strings.TrimSpace(root) == "" {
		return Layout{}, errors.New("data root required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, fmt.Errorf("resolve data root: %w", err)
	}
	return Layout{
		Root:        abs,
		DownloadDir: filepath.Join(abs, downloadDirName),
		ExtractDir:  filepath.Join(abs, extractDirName),
	}, nil
}

// Ensure 创建根目录与两个子目录，已存在时不报错。
func (l Layout) Ensure() error {
	for _, dir := range []string{l.Root, l.DownloadDir, l.ExtractDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// DownloadPath 返回 download/<name> 的绝对路径。
func (l Layout) DownloadPath(name string) (string, error) {
	if err := checkSegment(name); err != nil {
		return "", err
	}
	return filepath.Join(l.DownloadDir, name), nil
}

// ExtractPath 返回 extract/<scene> 的绝对路径。
func (l Layout) ExtractPath(scene string) (string, error) {
	if err := checkSegment(scene); err != nil {
		return "", err
	}
	return filepath.Join(l.ExtractDir, scene), nil
}

// Extracted 报告 extract/<scene> 是否已存在。目录存在即视为解压完成，
// 即使内容不完整也不会重新解压。
func (l Layout) Extracted(scene string) (bool, error) {
	dir, err := l.ExtractPath(scene)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return false, fmt.Errorf("%s exists and is not a directory", dir)
		}
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func checkSegment(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
