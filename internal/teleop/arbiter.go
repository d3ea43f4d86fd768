package teleop

import (
	"log"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/joyrc/teleop_client/internal/config"
	"github.com/joyrc/teleop_client/internal/models"
	"github.com/joyrc/teleop_client/internal/transform"
)

const (
	ControlModeManual = "manual_control"
	ControlModeAuto   = "auto_control"

	ScaleNormal = "normal"
	ScaleTurbo  = "turbo"

	// GoalFrame is the global frame navigation goals are expressed in.
	GoalFrame = "map"

	// Scaled chassis deflection below this carries no goal intent.
	goalDeadZone = 0.1
)

// pendingStop is the enable->disable edge latch. It arms on every active
// command and disarms when the single stop command goes out, so releasing
// the enable button stops the robot exactly once instead of once per sample.
type pendingStop uint8

const (
	stopIdle pendingStop = iota
	stopArmed
)

type CommandPublisherIFace interface {
	PublishTwist(models.Twist) error
	PublishTwistStamped(models.TwistStamped) error
	PublishJointState(models.JointState) error
}

type TransformSourceIFace interface {
	Lookup(target, source string) (models.Transform, error)
}

type GoalDispatcherIFace interface {
	SendGoal(models.NavGoal) error
	CancelGoalsBefore(time.Time) error
}

// Arbiter turns joystick samples into velocity commands, navigation goals,
// and gimbal joint state. One sample in, at most one command path out.
type Arbiter struct {
	cfg   config.TeleopConfig
	clock clock.Clock

	publisher  CommandPublisherIFace
	transforms TransformSourceIFace
	nav        GoalDispatcherIFace

	gimbal   *GimbalIntegrator
	throttle *GoalThrottle
	stop     pendingStop
}

func NewArbiter(cfg config.TeleopConfig, clk clock.Clock, publisher CommandPublisherIFace, transforms TransformSourceIFace, nav GoalDispatcherIFace) *Arbiter {
	log.Printf("teleop enable button %d\n", cfg.EnableButton)
	log.Printf("turbo on button %d\n", cfg.EnableTurboButton)
	if cfg.InvertedReverse {
		log.Println("teleop enable inverted reverse")
	}

	logAxisMap("chassis", cfg.AxisChassis, cfg.ScaleChassis, cfg.EnableTurboButton)
	logAxisMap("gimbal", cfg.AxisGimbal, cfg.ScaleGimbal, cfg.EnableTurboButton)

	return &Arbiter{
		cfg:        cfg,
		clock:      clk,
		publisher:  publisher,
		transforms: transforms,
		nav:        nav,
		gimbal:     NewGimbalIntegrator(clk),
		throttle:   NewGoalThrottle(clk),
		stop:       stopIdle,
	}
}

func logAxisMap(domain string, axes config.AxisMap, scales config.ScaleSet, turboButton int) {
	for name, index := range axes {
		if index == config.AxisUnmapped {
			continue
		}
		log.Printf("%s axis %s on %d at scale %f\n", domain, name, index, scales[ScaleNormal][name])
		if turboButton >= 0 {
			log.Printf("turbo for %s axis %s is scale %f\n", domain, name, scales[ScaleTurbo][name])
		}
	}
}

// HandleSample runs one sample through the mode decision. Turbo wins over
// normal; anything else is disabled and owes at most one stop command.
func (a *Arbiter) HandleSample(sample models.JoySample) {
	if a.turboPressed(sample) {
		a.sendCommand(sample, ScaleTurbo)
	} else if a.enablePressed(sample) {
		a.sendCommand(sample, ScaleNormal)
	} else {
		// When the enable button is released, immediately send a single
		// no-motion command in order to stop the robot.
		if a.stop == stopArmed {
			a.sendStopCommand()
			a.stop = stopIdle
		}
	}
}

func (a *Arbiter) turboPressed(sample models.JoySample) bool {
	button := a.cfg.EnableTurboButton
	return button >= 0 && button < len(sample.Buttons) && sample.Buttons[button]
}

func (a *Arbiter) enablePressed(sample models.JoySample) bool {
	if !a.cfg.RequireEnableButton {
		return true
	}
	button := a.cfg.EnableButton
	return button >= 0 && button < len(sample.Buttons) && sample.Buttons[button]
}

func (a *Arbiter) sendCommand(sample models.JoySample, whichMap string) {
	if a.cfg.ControlMode == ControlModeManual {
		a.publishVelocity(sample, whichMap)
	} else {
		a.sendGoalPose(sample, whichMap)
	}

	jointState := a.gimbal.Integrate(sample, a.cfg.AxisGimbal, a.cfg.ScaleGimbal[whichMap])
	err := a.publisher.PublishJointState(jointState)
	if err != nil {
		log.Printf("failed publishing joint state: %s\n", err.Error())
	}

	a.stop = stopArmed
}

func (a *Arbiter) publishVelocity(sample models.JoySample, whichMap string) {
	twist := a.buildTwist(sample, whichMap)

	var err error
	if a.cfg.PublishStampedTwist {
		err = a.publisher.PublishTwistStamped(models.TwistStamped{
			Header: models.Header{
				Stamp:   a.clock.Now().UnixMilli(),
				FrameId: a.cfg.RobotBaseFrame,
			},
			Twist: twist,
		})
	} else {
		err = a.publisher.PublishTwist(twist)
	}
	if err != nil {
		log.Printf("failed publishing velocity command: %s\n", err.Error())
	}
}

func (a *Arbiter) buildTwist(sample models.JoySample, whichMap string) models.Twist {
	chassisScales := a.cfg.ScaleChassis[whichMap]
	gimbalScales := a.cfg.ScaleGimbal[whichMap]

	linearX := ReadAxis(sample, a.cfg.AxisChassis, chassisScales, "x")
	angularZ := ReadAxis(sample, a.cfg.AxisGimbal, gimbalScales, "yaw")
	if linearX < 0.0 && a.cfg.InvertedReverse {
		// Steering flips while reversing so the stick keeps pointing where
		// the chassis goes.
		angularZ = -angularZ
	}

	return models.Twist{
		Linear: r3.Vector{
			X: linearX,
			Y: ReadAxis(sample, a.cfg.AxisChassis, chassisScales, "y"),
			Z: ReadAxis(sample, a.cfg.AxisChassis, chassisScales, "z"),
		},
		Angular: r3.Vector{
			X: ReadAxis(sample, a.cfg.AxisGimbal, gimbalScales, "roll"),
			Y: ReadAxis(sample, a.cfg.AxisGimbal, gimbalScales, "pitch"),
			Z: angularZ,
		},
	}
}

func (a *Arbiter) sendGoalPose(sample models.JoySample, whichMap string) {
	chassisScales := a.cfg.ScaleChassis[whichMap]
	x := ReadAxis(sample, a.cfg.AxisChassis, chassisScales, "x")
	y := ReadAxis(sample, a.cfg.AxisChassis, chassisScales, "y")
	if math.Abs(x) <= goalDeadZone && math.Abs(y) <= goalDeadZone {
		return
	}

	baseToMap, err := a.transforms.Lookup(GoalFrame, a.cfg.RobotBaseFrame)
	if err != nil {
		log.Printf("warning: failed to transform goal pose from %s to %s: %s\n", a.cfg.RobotBaseFrame, GoalFrame, err.Error())
		return
	}

	goalPose := transform.Apply(baseToMap, models.Pose{
		Position:    r3.Vector{X: x, Y: y},
		Orientation: models.IdentityQuaternion(),
	})

	if !a.throttle.Allow() {
		return
	}

	err = a.nav.SendGoal(models.NavGoal{
		Id: uuid.New(),
		Pose: models.PoseStamped{
			Header: models.Header{
				Stamp:   a.clock.Now().UnixMilli(),
				FrameId: GoalFrame,
			},
			Pose: goalPose,
		},
	})
	if err != nil {
		log.Printf("failed sending nav goal: %s\n", err.Error())
	}
}

func (a *Arbiter) sendStopCommand() {
	if a.cfg.ControlMode != ControlModeManual {
		err := a.nav.CancelGoalsBefore(a.clock.Now())
		if err != nil {
			log.Printf("failed cancelling nav goals: %s\n", err.Error())
		}
	}

	var err error
	if a.cfg.PublishStampedTwist {
		err = a.publisher.PublishTwistStamped(models.TwistStamped{
			Header: models.Header{
				Stamp:   a.clock.Now().UnixMilli(),
				FrameId: a.cfg.RobotBaseFrame,
			},
		})
	} else {
		err = a.publisher.PublishTwist(models.Twist{})
	}
	if err != nil {
		log.Printf("failed publishing stop command: %s\n", err.Error())
	}
}
