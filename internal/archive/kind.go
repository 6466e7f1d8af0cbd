package archive

import (
	"errors"
	"fmt"
	"os"
)

// Kind 区分单文件归档与分卷归档，由目录项的 URL 数量决定。
type Kind int

const (
	Single Kind = iota
	MultiVolume
)

// KindOf 根据分卷数量选择归档类型：一个地址为 Single，多个为 MultiVolume。
func KindOf(parts int) Kind {
	if parts > 1 {
		return MultiVolume
	}
	return Single
}

func (k Kind) String() string {
	switch k {
	case Single:
		return "single"
	case MultiVolume:
		return "multi-volume"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Volume 是一个打开的归档字节流，无论底层是单个文件还是多个分卷。
type Volume interface {
	ReadAt(p []byte, off int64) (int, error)
	Size() int64
	Close() error
}

// Open 按 kind 组装归档字节流。Single 必须恰好一个分卷，MultiVolume 至少一个，
// 分卷顺序即拼接顺序。
func Open(kind Kind, parts []string) (Volume, error) {
	if len(parts) == 0 {
		return nil, errors.New("archive has no parts")
	}
	switch kind {
	case Single:
		if len(parts) != 1 {
			return nil, fmt.Errorf("single archive expects 1 part, got %d", len(parts))
		}
		return openSingle(parts[0])
	case MultiVolume:
		return openMultiVolume(parts)
	default:
		return nil, fmt.Errorf("unsupported archive kind %s", kind)
	}
}

type singleVolume struct {
	file *os.File
	size int64
}

func openSingle(path string) (*singleVolume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &singleVolume{file: f, size: info.Size()}, nil
}

func (v *singleVolume) ReadAt(p []byte, off int64) (int, error) {
	return v.file.ReadAt(p, off)
}

func (v *singleVolume) Size() int64 {
	return v.size
}

func (v *singleVolume) Close() error {
	return v.file.Close()
}
