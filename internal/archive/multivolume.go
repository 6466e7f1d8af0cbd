package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// multiVolume 把若干分卷文件按顺序拼成一个只读的逻辑字节流。
type multiVolume struct {
	files   []*os.File
	offsets []int64 // 每个分卷在逻辑流中的起始偏移
	sizes   []int64
	size    int64
}

func openMultiVolume(parts []string) (*multiVolume, error) {
	v := &multiVolume{
		files:   make([]*os.File, 0, len(parts)),
		offsets: make([]int64, 0, len(parts)),
		sizes:   make([]int64, 0, len(parts)),
	}
	for _, part := range parts {
		f, err := os.Open(part)
		if err != nil {
			v.Close()
			return nil, err
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			v.Close()
			return nil, err
		}
		v.files = append(v.files, f)
		v.offsets = append(v.offsets, v.size)
		v.sizes = append(v.sizes, info.Size())
		v.size += info.Size()
	}
	return v, nil
}

func (v *multiVolume) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("archive: negative offset")
	}
	if off >= v.size {
		return 0, io.EOF
	}

	n := 0
	for n < len(p) && off < v.size {
		idx := sort.Search(len(v.offsets), func(i int) bool { return v.offsets[i] > off }) - 1
		local := off - v.offsets[idx]
		chunk := p[n:]
		if remaining := v.sizes[idx] - local; int64(len(chunk)) > remaining {
			chunk = chunk[:remaining]
		}

		read, err := v.files[idx].ReadAt(chunk, local)
		n += read
		off += int64(read)
		if read < len(chunk) {
			if err == nil || errors.Is(err, io.EOF) {
				err = fmt.Errorf("volume %d shrank while reading: %w", idx+1, io.ErrUnexpectedEOF)
			}
			return n, err
		}
	}

	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (v *multiVolume) Size() int64 {
	return v.size
}

func (v *multiVolume) Close() error {
	var errs []error
	for _, f := range v.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	v.files = nil
	return errors.Join(errs...)
}
