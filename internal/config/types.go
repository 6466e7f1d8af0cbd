package config

import (
	"sort"
	"time"
)

// Duration 由 durationDecodeHook 解析，兼容纯秒数与 Go Duration 字符串。
type Duration time.Duration

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// GlobalConfig 描述进程级运行参数，所有场景共享同一份。
type GlobalConfig struct {
	DataRoot        string   `mapstructure:"DataRoot"`
	LogLevel        string   `mapstructure:"LogLevel"`
	LogFilePath     string   `mapstructure:"LogFilePath"`
	LogMaxSize      int      `mapstructure:"LogMaxSize"`
	LogMaxBackups   int      `mapstructure:"LogMaxBackups"`
	LogCompress     bool     `mapstructure:"LogCompress"`
	DownloadTimeout Duration `mapstructure:"DownloadTimeout"`
	ListenPort      int      `mapstructure:"ListenPort"`
}

// SceneConfig 描述一个数据集场景及其归档分卷地址，顺序即下载与拼接顺序。
type SceneConfig struct {
	Name string   `mapstructure:"Name"`
	URLs []string `mapstructure:"URLs"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global GlobalConfig  `mapstructure:",squash"`
	Scenes []SceneConfig `mapstructure:"Scene"`
}

// Catalog 返回场景名到分卷 URL 列表的只读副本，供 Provisioner 在整个进程生命周期内使用。
func (c *Config) Catalog() map[string][]string {
	if c == nil {
		return nil
	}
	result := make(map[string][]string, len(c.Scenes))
	for _, scene := range c.Scenes {
		result[scene.Name] = append([]string(nil), scene.URLs...)
	}
	return result
}

// SceneNames 返回按字典序排序的场景名。
func (c *Config) SceneNames() []string {
	if c == nil || len(c.Scenes) == 0 {
		return nil
	}
	names := make([]string, 0, len(c.Scenes))
	for _, scene := range c.Scenes {
		names = append(names, scene.Name)
	}
	sort.Strings(names)
	return names
}
