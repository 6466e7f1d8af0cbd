package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// DataRootEnv 覆盖缓存根目录的环境变量。
	DataRootEnv = "OPEN3D_DATA_ROOT"
	// HomeEnv 在未显式指定根目录时用于拼接默认路径。
	HomeEnv = "HOME"
	// DefaultDataDirName 为 $HOME 下的默认缓存目录名。
	DefaultDataDirName = "open3d_data"
)

// DataRootSource 标记最终生效的根目录来自哪一层，便于日志排查。
type DataRootSource string

const (
	DataRootFromFlag    DataRootSource = "flag"
	DataRootFromEnv     DataRootSource = "env"
	DataRootFromConfig  DataRootSource = "config"
	DataRootFromDefault DataRootSource = "default"
)

// ResolveDataRoot 只在程序入口调用一次，按 flag → 环境变量 → 配置 → $HOME 默认值 的顺序
// 计算缓存根目录，结果始终为绝对路径。getenv 由调用方注入，方便测试。
func ResolveDataRoot(flagValue string, g GlobalConfig, getenv func(string) string) (string, DataRootSource, error) {
	candidates := []struct {
		value  string
		source DataRootSource
	}{
		{flagValue, DataRootFromFlag},
		{getenv(DataRootEnv), DataRootFromEnv},
		{g.DataRoot, DataRootFromConfig},
	}
	for _, candidate := range candidates {
		if trimmed := strings.TrimSpace(candidate.value); trimmed != "" {
			abs, err := filepath.Abs(trimmed)
			if err != nil {
				return "", "", fmt.Errorf("无法解析缓存目录: %w", err)
			}
			return abs, candidate.source, nil
		}
	}

	home := strings.TrimSpace(getenv(HomeEnv))
	if home == "" {
		return "", "", errors.New("未设置 " + DataRootEnv + " 且无法确定 " + HomeEnv)
	}
	abs, err := filepath.Abs(filepath.Join(home, DefaultDataDirName))
	if err != nil {
		return "", "", fmt.Errorf("无法解析缓存目录: %w", err)
	}
	return abs, DataRootFromDefault, nil
}
