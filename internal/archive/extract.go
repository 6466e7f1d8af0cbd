package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/zip"
)

var (
	// ErrUnknownFormat 表示归档头部既不是 zip 也不是 7z。
	ErrUnknownFormat = errors.New("unknown archive format")
	// ErrUnsafePath 表示条目路径会逃逸出目标目录。
	ErrUnsafePath = errors.New("archive entry escapes target directory")
)

var (
	zipMagic      = []byte("PK\x03\x04")
	zipEmptyMagic = []byte("PK\x05\x06")
	sevenZipMagic = []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}
)

// Format 标识归档容器格式。
type Format string

const (
	FormatZip      Format = "zip"
	FormatSevenZip Format = "7z"
)

// entry 是解码器输出的统一条目视图。
type entry struct {
	name string
	mode fs.FileMode
	open func() (io.ReadCloser, error)
}

type decoder interface {
	entries(r io.ReaderAt, size int64) ([]entry, error)
}

var decoders = map[Format]decoder{
	FormatZip:      zipDecoder{},
	FormatSevenZip: sevenZipDecoder{},
}

// Detect 通过头部魔数识别归档格式。
func Detect(v Volume) (Format, error) {
	head := make([]byte, len(sevenZipMagic))
	n, err := v.ReadAt(head, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	head = head[:n]
	switch {
	case bytes.HasPrefix(head, zipMagic), bytes.HasPrefix(head, zipEmptyMagic):
		return FormatZip, nil
	case bytes.HasPrefix(head, sevenZipMagic):
		return FormatSevenZip, nil
	default:
		return "", ErrUnknownFormat
	}
}

// Extract 将 v 中的全部条目解压到 dest，返回解压出的普通文件绝对路径（按条目顺序）。
// 目录条目只创建目录，符号链接等特殊条目被跳过。同名条目以最后一个为准，路径只返回一次。
func Extract(ctx context.Context, v Volume, dest string) ([]string, error) {
	format, err := Detect(v)
	if err != nil {
		return nil, err
	}
	entries, err := decoders[format].entries(v, v.Size())
	if err != nil {
		return nil, fmt.Errorf("open %s archive: %w", format, err)
	}

	root, err := filepath.Abs(dest)
	if err != nil {
		return nil, err
	}

	var written []string
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		target, err := safeJoin(root, e.name)
		if err != nil {
			return written, err
		}
		switch {
		case e.mode.IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return written, err
			}
		case e.mode.IsRegular():
			if err := writeEntry(target, e); err != nil {
				return written, fmt.Errorf("extract %s: %w", e.name, err)
			}
			if _, dup := seen[target]; !dup {
				seen[target] = struct{}{}
				written = append(written, target)
			}
		}
	}
	return written, nil
}

func safeJoin(root, name string) (string, error) {
	cleaned := filepath.FromSlash(strings.TrimLeft(name, `/\`))
	target := filepath.Join(root, cleaned)
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}

func writeEntry(target string, e entry) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := e.open()
	if err != nil {
		return err
	}
	defer src.Close()

	perm := e.mode.Perm()
	if perm == 0 {
		perm = 0o644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm|0o200)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

type zipDecoder struct{}

func (zipDecoder) entries(r io.ReaderAt, size int64) ([]entry, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	result := make([]entry, 0, len(zr.File))
	for _, f := range zr.File {
		result = append(result, entry{name: f.Name, mode: f.Mode(), open: f.Open})
	}
	return result, nil
}

type sevenZipDecoder struct{}

func (sevenZipDecoder) entries(r io.ReaderAt, size int64) ([]entry, error) {
	sr, err := sevenzip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	result := make([]entry, 0, len(sr.File))
	for _, f := range sr.File {
		mode := f.Mode()
		if f.FileInfo().IsDir() {
			mode |= fs.ModeDir
		}
		result = append(result, entry{name: f.Name, mode: mode, open: f.Open})
	}
	return result, nil
}
