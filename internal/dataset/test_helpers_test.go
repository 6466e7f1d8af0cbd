package dataset

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/klauspost/compress/zip"
)

// upstreamStub 模拟数据集托管服务，按路径返回预置内容并统计请求次数。
type upstreamStub struct {
	server *httptest.Server

	mu    sync.Mutex
	files map[string][]byte
	hits  map[string]int
}

func newUpstreamStub(t *testing.T) *upstreamStub {
	t.Helper()
	stub := &upstreamStub{
		files: make(map[string][]byte),
		hits:  make(map[string]int),
	}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.hits[r.URL.Path]++
		body, ok := stub.files[r.URL.Path]
		stub.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(body)
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *upstreamStub) serve(path string, body []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = body
	return s.server.URL + path
}

func (s *upstreamStub) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *upstreamStub) totalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

type zipFile struct {
	name string
	body string
}

func buildZip(t *testing.T, files []zipFile) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			t.Fatalf("zip create %s: %v", f.name, err)
		}
		if _, err := w.Write([]byte(f.body)); err != nil {
			t.Fatalf("zip write %s: %v", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// splitBytes 把 data 切成 n 段，模拟 .7z.0001/.0002 这类按字节切分的分卷。
func splitBytes(data []byte, n int) [][]byte {
	size := (len(data) + n - 1) / n
	parts := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		start := min(i*size, len(data))
		end := min(start+size, len(data))
		parts = append(parts, data[start:end])
	}
	return parts
}

func frameFiles() []zipFile {
	return []zipFile{
		{name: "img_10.png", body: "10"},
		{name: "img_2.png", body: "2"},
		{name: "img_9.png", body: "9"},
		{name: "img_1.png", body: "1"},
	}
}

func newTestProvisioner(t *testing.T, root string, catalog Catalog) *Provisioner {
	t.Helper()
	p, err := New(Options{DataRoot: root, Catalog: catalog})
	if err != nil {
		t.Fatalf("构建 Provisioner 失败: %v", err)
	}
	return p
}
