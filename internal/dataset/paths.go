package dataset

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/maruel/natural"
)

// SortNatural 按自然顺序原地排序，数字子串按数值比较（frame_2 < frame_10）。
func SortNatural(paths []string) {
	sort.Sort(natural.StringSlice(paths))
}

// listFiles 递归枚举 dir 下的普通文件，返回绝对路径。
func listFiles(dir string) ([]string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
