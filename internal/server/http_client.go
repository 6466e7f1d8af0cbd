package server

import (
	"net"
	"net/http"
	"time"

	"github.com/jonazpiazu/mrdja/internal/config"
	"github.com/jonazpiazu/mrdja/internal/dataset"
)

// Shared HTTP transport tunings，集中配置连接级超时。整体请求超时由 Client.Timeout 控制。
var defaultTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	MaxIdleConns:          16,
	MaxIdleConnsPerHost:   4,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ResponseHeaderTimeout: time.Minute,
	ExpectContinueTimeout: 1 * time.Second,
	ForceAttemptHTTP2:     true,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
}

// NewDownloadClient 返回用于拉取数据集分卷的 http.Client。
// DownloadTimeout 限制单个分卷从发起请求到读完正文的总时长。
func NewDownloadClient(cfg *config.Config) *http.Client {
	timeout := dataset.DefaultDownloadTimeout
	if cfg != nil && cfg.Global.DownloadTimeout.DurationValue() > 0 {
		timeout = cfg.Global.DownloadTimeout.DurationValue()
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: defaultTransport.Clone(),
	}
}
