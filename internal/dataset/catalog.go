package dataset

import (
	"sort"

	"github.com/jonazpiazu/mrdja/internal/archive"
)

// Catalog 将场景名映射到有序的分卷 URL 列表。加载后只读。
type Catalog map[string][]string

// Lookup 返回场景的分卷地址副本。
func (c Catalog) Lookup(scene string) ([]string, bool) {
	urls, ok := c[scene]
	if !ok {
		return nil, false
	}
	return append([]string(nil), urls...), true
}

// Kind 根据分卷数量返回场景的归档类型。
func (c Catalog) Kind(scene string) (archive.Kind, bool) {
	urls, ok := c[scene]
	if !ok {
		return archive.Single, false
	}
	return archive.KindOf(len(urls)), true
}

// Scenes 返回按字典序排列的场景名。
func (c Catalog) Scenes() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
