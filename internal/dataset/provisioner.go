package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonazpiazu/mrdja/internal/archive"
	"github.com/jonazpiazu/mrdja/internal/cache"
	"github.com/jonazpiazu/mrdja/internal/logging"
)

// DefaultDownloadTimeout 是未注入 Client 时单个分卷下载的总时长上限。
const DefaultDownloadTimeout = 10 * time.Minute

// Options 汇总 Provisioner 的依赖。DataRoot 由程序入口解析后显式传入。
type Options struct {
	DataRoot string
	Catalog  Catalog
	Client   *http.Client
	Logger   *logrus.Logger
}

// Provisioner 负责“下载分卷 → 解压 → 枚举文件 → 自然排序”的完整流程。
//
// 同一进程内对同一场景的并发调用会被串行化；多个进程共享同一 DataRoot 时不加锁，
// 可能出现重复下载或并发解压，属于不支持的用法。
type Provisioner struct {
	catalog Catalog
	layout  cache.Layout
	store   cache.Store
	client  *http.Client
	logger  *logrus.Logger

	mu     sync.Mutex
	scenes map[string]*sync.Mutex
}

// New 构造 Provisioner，不会创建任何目录。
func New(opts Options) (*Provisioner, error) {
	if len(opts.Catalog) == 0 {
		return nil, errors.New("catalog is required")
	}
	layout, err := cache.NewLayout(opts.DataRoot)
	if err != nil {
		return nil, err
	}
	store, err := cache.NewStore(layout)
	if err != nil {
		return nil, err
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultDownloadTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Provisioner{
		catalog: opts.Catalog,
		layout:  layout,
		store:   store,
		client:  client,
		logger:  logger,
		scenes:  make(map[string]*sync.Mutex),
	}, nil
}

// DataRoot 返回缓存根目录的绝对路径。
func (p *Provisioner) DataRoot() string {
	return p.layout.Root
}

// Catalog 返回只读目录。
func (p *Provisioner) Catalog() Catalog {
	return p.catalog
}

// Provision 确保场景已下载并解压，返回按自然顺序排列的文件绝对路径。
// 已存在的分卷文件与 extract/<scene>/ 目录都直接复用，不做完整性校验。
func (p *Provisioner) Provision(ctx context.Context, scene string) ([]string, error) {
	urls, ok := p.catalog.Lookup(scene)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCatalogMiss, scene)
	}

	unlock := p.lockScene(scene)
	defer unlock()

	fields := logging.SceneFields(scene, p.layout.Root)
	if err := p.layout.Ensure(); err != nil {
		return nil, fmt.Errorf("prepare data root: %w", err)
	}

	parts := make([]string, 0, len(urls))
	for _, rawURL := range urls {
		part, err := p.fetch(ctx, scene, rawURL)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	extractDir, err := p.layout.ExtractPath(scene)
	if err != nil {
		return nil, err
	}
	extracted, err := p.layout.Extracted(scene)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	var paths []string
	if !extracted {
		if err := os.Mkdir(extractDir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
		}
		p.logger.WithFields(fields).WithField("extract_dir", extractDir).Info("extract_dir_created")

		kind := archive.KindOf(len(parts))
		p.logger.WithFields(fields).WithField("kind", kind.String()).Info("extract_start")
		paths, err = extract(ctx, kind, parts, extractDir)
		if err != nil {
			p.logger.WithFields(fields).WithError(err).Error("extract_failed")
			return nil, fmt.Errorf("%w: %s: %w", ErrExtractionFailed, scene, err)
		}
		p.logger.WithFields(fields).WithField("files", len(paths)).Info("extract_done")
	}

	if len(paths) == 0 {
		paths, err = listFiles(extractDir)
		if err != nil {
			return nil, fmt.Errorf("%w: list %s: %w", ErrExtractionFailed, extractDir, err)
		}
	}

	SortNatural(paths)
	return paths, nil
}

// fetch 返回分卷在 download/ 下的路径，文件已存在时跳过下载。
func (p *Provisioner) fetch(ctx context.Context, scene, rawURL string) (string, error) {
	name, err := archive.PartName(rawURL)
	if err != nil {
		return "", &DownloadError{URL: rawURL, Err: err}
	}
	dest, err := p.store.Path(name)
	if err != nil {
		return "", &DownloadError{URL: rawURL, Err: err}
	}
	fields := logging.DownloadFields(scene, rawURL, dest)

	if _, err := p.store.Stat(ctx, name); err == nil {
		p.logger.WithFields(fields).Debug("download_skipped")
		return dest, nil
	} else if !errors.Is(err, cache.ErrNotFound) {
		return "", &DownloadError{URL: rawURL, Err: err}
	}

	p.logger.WithFields(fields).Info("download_start")
	entry, err := p.download(ctx, rawURL, name)
	if err != nil {
		p.logger.WithFields(fields).WithError(err).Error("download_failed")
		return "", err
	}
	p.logger.WithFields(fields).WithField("size_bytes", entry.SizeBytes).Info("download_done")
	return entry.FilePath, nil
}

func (p *Provisioner) download(ctx context.Context, rawURL, name string) (*cache.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &DownloadError{URL: rawURL, Err: err}
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &DownloadError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, &DownloadError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	var opts cache.PutOptions
	if lastModified := resp.Header.Get("Last-Modified"); lastModified != "" {
		if parsed, err := http.ParseTime(lastModified); err == nil {
			opts.ModTime = parsed
		}
	}

	entry, err := p.store.Put(ctx, name, resp.Body, opts)
	if err != nil {
		return nil, &DownloadError{URL: rawURL, Err: err}
	}
	return entry, nil
}

func extract(ctx context.Context, kind archive.Kind, parts []string, dest string) ([]string, error) {
	volume, err := archive.Open(kind, parts)
	if err != nil {
		return nil, err
	}
	defer volume.Close()
	return archive.Extract(ctx, volume, dest)
}

func (p *Provisioner) lockScene(scene string) func() {
	p.mu.Lock()
	lock := p.scenes[scene]
	if lock == nil {
		lock = &sync.Mutex{}
		// 调用方的字符串可能引用可复用的缓冲区（如 Fiber 路由参数），作为长期 key 前先复制。
		p.scenes[strings.Clone(scene)] = lock
	}
	p.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
