package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogMiss 表示场景不在目录中；此时不会触碰文件系统。
	ErrCatalogMiss = errors.New("scene not found in catalog")
	// ErrDownloadFailed 表示某个分卷下载失败（网络错误或非 2xx 响应）。
	ErrDownloadFailed = errors.New("download failed")
	// ErrExtractionFailed 表示归档无法打开或解压。已创建的 extract/<scene>/ 会被保留，
	// 下一次调用会把它当作“已解压”。
	ErrExtractionFailed = errors.New("extraction failed")
)

// DownloadError 记录单个 URL 的失败细节，errors.Is(err, ErrDownloadFailed) 为真。
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDownloadFailed}
	}
	return []error{ErrDownloadFailed, e.Err}
}
