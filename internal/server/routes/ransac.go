package routes

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/jonazpiazu/mrdja/internal/ransac"
)

// RegisterRansacRoutes 暴露迭代次数估算接口，方便在浏览器里快速查表。
func RegisterRansacRoutes(app *fiber.App) {
	if app == nil {
		return
	}

	app.Get("/-/ransac/iterations", func(c fiber.Ctx) error {
		ratio, err := strconv.ParseFloat(c.Query("inlier_ratio"), 64)
		if err != nil {
			return invalidArgument(c, "inlier_ratio must be a number")
		}
		probability, err := strconv.ParseFloat(c.Query("probability"), 64)
		if err != nil {
			return invalidArgument(c, "probability must be a number")
		}
		sampleSize := ransac.DefaultSampleSize
		if raw := c.Query("sample_size"); raw != "" {
			if sampleSize, err = strconv.Atoi(raw); err != nil {
				return invalidArgument(c, "sample_size must be an integer")
			}
		}

		bound, err := ransac.EstimateIterationsForSampleSize(ratio, probability, sampleSize)
		if err != nil {
			return invalidArgument(c, err.Error())
		}
		rounded, err := ransac.MinIterations(ratio, probability, sampleSize)
		if err != nil {
			return invalidArgument(c, err.Error())
		}
		return c.JSON(fiber.Map{
			"inlier_ratio":   ratio,
			"probability":    probability,
			"sample_size":    sampleSize,
			"iterations":     bound,
			"min_iterations": rounded,
		})
	})
}

func invalidArgument(c fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "invalid_argument",
		"message": message,
	})
}
