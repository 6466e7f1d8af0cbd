package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jonazpiazu/mrdja/internal/archive"
)

// Validate 针对语义级别做进一步校验，防止非法配置进入下载流程。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if _, err := logrus.ParseLevel(g.LogLevel); err != nil {
		return newFieldError("Global.LogLevel", "无法识别的日志级别")
	}
	if g.DownloadTimeout.DurationValue() <= 0 {
		return newFieldError("Global.DownloadTimeout", "必须大于 0")
	}
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "必须在 1-65535")
	}

	if len(c.Scenes) == 0 {
		return errors.New("至少需要配置一个 Scene")
	}

	seenNames := map[string]struct{}{}
	seenFiles := map[string]string{}
	for i := range c.Scenes {
		scene := &c.Scenes[i]
		scene.Name = strings.TrimSpace(scene.Name)
		if scene.Name == "" {
			return newFieldError("Scene[].Name", "不能为空")
		}
		if err := validateSceneName(scene.Name); err != nil {
			return fmt.Errorf("%s: %w", sceneField(scene.Name, "Name"), err)
		}
		if _, exists := seenNames[scene.Name]; exists {
			return newFieldError(sceneField(scene.Name, "Name"), "重复")
		}
		seenNames[scene.Name] = struct{}{}

		if len(scene.URLs) == 0 {
			return newFieldError(sceneField(scene.Name, "URLs"), "至少需要一个下载地址")
		}
		for j, raw := range scene.URLs {
			raw = strings.TrimSpace(raw)
			scene.URLs[j] = raw
			if err := validateSourceURL(raw); err != nil {
				return fmt.Errorf("%s: %w", sceneField(scene.Name, "URLs"), err)
			}
			// 所有场景共用 download/ 目录，文件名冲突会让跳过判断失真。
			fileName, err := archive.PartName(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", sceneField(scene.Name, "URLs"), err)
			}
			if owner, exists := seenFiles[fileName]; exists {
				return newFieldError(sceneField(scene.Name, "URLs"), fmt.Sprintf("文件名 %s 与场景 %s 冲突", fileName, owner))
			}
			seenFiles[fileName] = scene.Name
		}
	}

	return nil
}

// validateSceneName 确保场景名可以安全地作为 extract/ 下的单级目录名。
func validateSceneName(name string) error {
	if name == "." || name == ".." {
		return errors.New("不允许使用 . 或 ..")
	}
	if strings.ContainsAny(name, `/\`) {
		return errors.New("不允许包含路径分隔符")
	}
	if strings.ContainsRune(name, 0) {
		return errors.New("不允许包含空字符")
	}
	return nil
}

func validateSourceURL(raw string) error {
	if raw == "" {
		return errors.New("缺少下载地址")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("仅支持 http/https，地址: %s", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("地址缺少 Host: %s", raw)
	}
	return nil
}
