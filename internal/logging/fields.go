package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// SceneFields 提供场景与缓存根目录字段，供 provision 流程日志复用。
func SceneFields(scene, dataRoot string) logrus.Fields {
	return logrus.Fields{
		"scene":     scene,
		"data_root": dataRoot,
	}
}

// DownloadFields 描述单个分卷的下载来源与落盘位置。
func DownloadFields(scene, url, destination string) logrus.Fields {
	return logrus.Fields{
		"scene":       scene,
		"url":         url,
		"destination": destination,
	}
}
