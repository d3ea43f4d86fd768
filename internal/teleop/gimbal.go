package teleop

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/joyrc/teleop_client/internal/config"
	"github.com/joyrc/teleop_client/internal/models"
)

const (
	GimbalPitchJoint = "gimbal_pitch_joint"
	GimbalYawJoint   = "gimbal_yaw_joint"
)

// GimbalIntegrator accumulates gimbal angular-velocity readings into
// absolute pitch/yaw joint positions. Positions only reset on restart.
type GimbalIntegrator struct {
	clock    clock.Clock
	pitch    float64
	yaw      float64
	lastTime time.Time
}

func NewGimbalIntegrator(clk clock.Clock) *GimbalIntegrator {
	return &GimbalIntegrator{
		clock:    clk,
		lastTime: clk.Now(),
	}
}

// Integrate advances the joint positions by the scaled pitch/yaw rates over
// the wall time since the previous call. Long gaps integrate linearly, there
// is no dt clamp.
func (g *GimbalIntegrator) Integrate(sample models.JoySample, axes config.AxisMap, scales config.ScaleMap) models.JointState {
	currentTime := g.clock.Now()
	dt := currentTime.Sub(g.lastTime).Seconds()
	g.lastTime = currentTime

	g.pitch += ReadAxis(sample, axes, scales, "pitch") * dt
	g.yaw += ReadAxis(sample, axes, scales, "yaw") * dt

	return models.JointState{
		Header:   models.Header{Stamp: currentTime.UnixMilli()},
		Name:     []string{GimbalPitchJoint, GimbalYawJoint},
		Position: []float64{g.pitch, g.yaw},
	}
}
