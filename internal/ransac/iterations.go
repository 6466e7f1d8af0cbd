// Package ransac estimates how many random minimal samples a RANSAC-style
// fit needs before at least one sample is outlier-free with a target
// probability. Only the bound lives here; there is no sampling loop.
package ransac

import (
	"errors"
	"fmt"
	"math"
)

// DefaultSampleSize 为平面拟合所需的最小点数。
const DefaultSampleSize = 3

// ErrInvalidArgument 表示比例/概率不在 (0,1) 内，或样本大小小于 1。
var ErrInvalidArgument = errors.New("invalid argument")

// EstimateIterations 计算 log(successProbability) / log(1 - inlierRatio^3)。
func EstimateIterations(inlierRatio, successProbability float64) (float64, error) {
	return EstimateIterationsForSampleSize(inlierRatio, successProbability, DefaultSampleSize)
}

// EstimateIterationsForSampleSize 与 EstimateIterations 相同，但最小样本大小可配置。
// inlierRatio 为 0 或 1 时分母为 log(1)=0 或 log(0)，直接返回 ErrInvalidArgument。
func EstimateIterationsForSampleSize(inlierRatio, successProbability float64, sampleSize int) (float64, error) {
	if err := checkOpenUnit("inlier ratio", inlierRatio); err != nil {
		return 0, err
	}
	if err := checkOpenUnit("success probability", successProbability); err != nil {
		return 0, err
	}
	if sampleSize < 1 {
		return 0, fmt.Errorf("%w: sample size must be >= 1, got %d", ErrInvalidArgument, sampleSize)
	}

	// Log1p 在 r^s 很小时保留精度，数学上与 log(1 - r^s) 相同。
	denominator := math.Log1p(-math.Pow(inlierRatio, float64(sampleSize)))
	if denominator == 0 || math.IsInf(denominator, 0) || math.IsNaN(denominator) {
		// inlierRatio 极接近 0 或 1 时 r^s 会在浮点下塌缩为 0 或 1。
		return 0, fmt.Errorf("%w: inlier ratio %v is numerically degenerate", ErrInvalidArgument, inlierRatio)
	}
	return math.Log(successProbability) / denominator, nil
}

// MinIterations 返回向上取整后的迭代次数，即采样循环实际需要执行的轮数。
// 超出 int 表示范围时饱和为 math.MaxInt，只有参数非法才返回错误。
func MinIterations(inlierRatio, successProbability float64, sampleSize int) (int, error) {
	bound, err := EstimateIterationsForSampleSize(inlierRatio, successProbability, sampleSize)
	if err != nil {
		return 0, err
	}
	return ceilSaturated(bound), nil
}

func ceilSaturated(bound float64) int {
	rounded := math.Ceil(bound)
	if rounded >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return int(rounded)
}

func checkOpenUnit(name string, value float64) error {
	if math.IsNaN(value) || value <= 0 || value >= 1 {
		return fmt.Errorf("%w: %s must be in (0,1), got %v", ErrInvalidArgument, name, value)
	}
	return nil
}
