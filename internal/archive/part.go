package archive

import (
	"fmt"
	"net/url"
	"path"
)

// PartName 取 URL 最后一段路径作为分卷在 download/ 下的文件名。
func PartName(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" || name == ".." {
		return "", fmt.Errorf("URL 缺少文件名: %s", rawURL)
	}
	return name, nil
}
