package teleop

import (
	"github.com/joyrc/teleop_client/internal/config"
	"github.com/joyrc/teleop_client/internal/models"
)

// ReadAxis returns the scaled reading for a named logical axis. Samples may
// be shorter than the configured index and axes may be unmapped, so every
// miss quietly reads as 0.0 instead of failing mid-stream.
func ReadAxis(sample models.JoySample, axes config.AxisMap, scales config.ScaleMap, field string) float64 {
	index, ok := axes[field]
	if !ok || index == config.AxisUnmapped {
		return 0.0
	}

	scale, ok := scales[field]
	if !ok {
		return 0.0
	}

	if index < 0 || index >= len(sample.Axes) {
		return 0.0
	}

	return sample.Axes[index] * scale
}
