package routes

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/jonazpiazu/mrdja/internal/dataset"
	"github.com/jonazpiazu/mrdja/internal/logging"
	"github.com/jonazpiazu/mrdja/internal/server"
)

// RegisterSceneRoutes 暴露 /-/scenes 查询与 provision 接口。
func RegisterSceneRoutes(app *fiber.App, provisioner *dataset.Provisioner, logger *logrus.Logger) {
	if app == nil || provisioner == nil || logger == nil {
		return
	}

	app.Get("/-/scenes", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"data_root": provisioner.DataRoot(),
			"scenes":    encodeScenes(provisioner.Catalog()),
		})
	})

	app.Post("/-/scenes/:scene/provision", func(c fiber.Ctx) error {
		// Params 返回的字符串引用请求缓冲区，请求结束后会被复用，必须复制。
		scene := strings.Clone(strings.TrimSpace(c.Params("scene")))
		if scene == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "scene_required"})
		}

		ctx := c.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		fields := logging.SceneFields(scene, provisioner.DataRoot())
		fields["request_id"] = server.RequestID(c)

		paths, err := provisioner.Provision(ctx, scene)
		if err != nil {
			status, code := classifyProvisionError(err)
			logger.WithFields(fields).WithError(err).Warn("provision_failed")
			return c.Status(status).JSON(fiber.Map{
				"error":   code,
				"message": err.Error(),
			})
		}

		fields["files"] = len(paths)
		logger.WithFields(fields).Info("provision_done")
		return c.JSON(provisionPayload{
			Scene:    scene,
			DataRoot: provisioner.DataRoot(),
			Paths:    paths,
		})
	})
}

type scenePayload struct {
	Name  string   `json:"name"`
	Kind  string   `json:"kind"`
	Parts []string `json:"parts"`
}

type provisionPayload struct {
	Scene    string   `json:"scene"`
	DataRoot string   `json:"data_root"`
	Paths    []string `json:"paths"`
}

func encodeScenes(catalog dataset.Catalog) []scenePayload {
	names := catalog.Scenes()
	if len(names) == 0 {
		return nil
	}
	result := make([]scenePayload, 0, len(names))
	for _, name := range names {
		urls, _ := catalog.Lookup(name)
		kind, _ := catalog.Kind(name)
		result = append(result, scenePayload{
			Name:  name,
			Kind:  kind.String(),
			Parts: urls,
		})
	}
	return result
}

func classifyProvisionError(err error) (int, string) {
	switch {
	case errors.Is(err, dataset.ErrCatalogMiss):
		return fiber.StatusNotFound, "scene_not_found"
	case errors.Is(err, dataset.ErrDownloadFailed):
		return fiber.StatusBadGateway, "download_failed"
	case errors.Is(err, dataset.ErrExtractionFailed):
		return fiber.StatusInternalServerError, "extraction_failed"
	default:
		return fiber.StatusInternalServerError, "provision_failed"
	}
}
