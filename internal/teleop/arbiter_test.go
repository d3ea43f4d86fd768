package teleop

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/joyrc/teleop_client/internal/config"
	"github.com/joyrc/teleop_client/internal/models"
)

type fakePublisher struct {
	twists  []models.Twist
	stamped []models.TwistStamped
	joints  []models.JointState
}

func (f *fakePublisher) PublishTwist(twist models.Twist) error {
	f.twists = append(f.twists, twist)
	return nil
}

func (f *fakePublisher) PublishTwistStamped(twist models.TwistStamped) error {
	f.stamped = append(f.stamped, twist)
	return nil
}

func (f *fakePublisher) PublishJointState(jointState models.JointState) error {
	f.joints = append(f.joints, jointState)
	return nil
}

type fakeTransforms struct {
	tf  models.Transform
	err error
}

func (f *fakeTransforms) Lookup(target, source string) (models.Transform, error) {
	if f.err != nil {
		return models.Transform{}, f.err
	}
	return f.tf, nil
}

type fakeNav struct {
	goals   []models.NavGoal
	cancels []time.Time
}

func (f *fakeNav) SendGoal(goal models.NavGoal) error {
	f.goals = append(f.goals, goal)
	return nil
}

func (f *fakeNav) CancelGoalsBefore(t time.Time) error {
	f.cancels = append(f.cancels, t)
	return nil
}

// Test wiring: buttons 0/1 are enable/turbo, axes 0/1 are chassis x/y, axes
// 2/3 are gimbal yaw/pitch.
func testTeleopConfig(controlMode string) config.TeleopConfig {
	return config.TeleopConfig{
		RobotBaseFrame:      "base_link",
		RequireEnableButton: true,
		EnableButton:        0,
		EnableTurboButton:   1,
		ControlMode:         controlMode,
		AxisChassis: config.AxisMap{
			"x": 0,
			"y": 1,
			"z": config.AxisUnmapped,
		},
		AxisGimbal: config.AxisMap{
			"yaw":   2,
			"pitch": 3,
			"roll":  config.AxisUnmapped,
		},
		ScaleChassis: config.ScaleSet{
			"normal": config.ScaleMap{"x": 1.0, "y": 1.0, "z": 0.0},
			"turbo":  config.ScaleMap{"x": 2.0, "y": 2.0, "z": 0.0},
		},
		ScaleGimbal: config.ScaleSet{
			"normal": config.ScaleMap{"yaw": 1.0, "pitch": 1.0, "roll": 0.0},
			"turbo":  config.ScaleMap{"yaw": 2.0, "pitch": 2.0, "roll": 0.0},
		},
	}
}

func testArbiter(cfg config.TeleopConfig) (*Arbiter, *clock.Mock, *fakePublisher, *fakeTransforms, *fakeNav) {
	mockClock := clock.NewMock()
	publisher := &fakePublisher{}
	transforms := &fakeTransforms{tf: models.Transform{Rotation: models.IdentityQuaternion()}}
	dispatcher := &fakeNav{}
	arbiter := NewArbiter(cfg, mockClock, publisher, transforms, dispatcher)
	return arbiter, mockClock, publisher, transforms, dispatcher
}

func enabledSample(axes ...float64) models.JoySample {
	return models.JoySample{Axes: axes, Buttons: []bool{true, false}}
}

func turboSample(axes ...float64) models.JoySample {
	return models.JoySample{Axes: axes, Buttons: []bool{true, true}}
}

func disabledSample() models.JoySample {
	return models.JoySample{Buttons: []bool{false, false}}
}

func TestSingleStopPerDisableTransition(t *testing.T) {
	arbiter, _, publisher, _, _ := testArbiter(testTeleopConfig(ControlModeManual))

	arbiter.HandleSample(enabledSample(0.5, 0.0))
	arbiter.HandleSample(enabledSample(0.5, 0.0))
	arbiter.HandleSample(disabledSample())
	arbiter.HandleSample(disabledSample())
	arbiter.HandleSample(disabledSample())

	if len(publisher.twists) != 3 {
		t.Fatalf("expected 2 active + 1 stop command, got %d", len(publisher.twists))
	}
	stop := publisher.twists[2]
	if stop != (models.Twist{}) {
		t.Fatalf("stop command should be all zero, got %+v", stop)
	}
}

func TestNoStopWithoutPriorActiveCommand(t *testing.T) {
	arbiter, _, publisher, _, _ := testArbiter(testTeleopConfig(ControlModeManual))

	arbiter.HandleSample(disabledSample())
	arbiter.HandleSample(disabledSample())

	if len(publisher.twists) != 0 {
		t.Fatalf("disabled samples with no prior activity should emit nothing, got %d", len(publisher.twists))
	}
}

func TestTurboPrecedence(t *testing.T) {
	arbiter, _, publisher, _, _ := testArbiter(testTeleopConfig(ControlModeManual))

	arbiter.HandleSample(turboSample(0.5, 0.0))

	if len(publisher.twists) != 1 {
		t.Fatalf("expected 1 command, got %d", len(publisher.twists))
	}
	if publisher.twists[0].Linear.X != 1.0 {
		t.Fatalf("turbo scale should win over normal: expected linear x 1.0, got %f", publisher.twists[0].Linear.X)
	}
}

func TestEnableNotRequired(t *testing.T) {
	cfg := testTeleopConfig(ControlModeManual)
	cfg.RequireEnableButton = false
	arbiter, _, publisher, _, _ := testArbiter(cfg)

	arbiter.HandleSample(models.JoySample{Axes: []float64{0.5, 0.0}})

	if len(publisher.twists) != 1 {
		t.Fatalf("samples should drive commands without the enable button, got %d commands", len(publisher.twists))
	}
}

func TestShortButtonArrayDisables(t *testing.T) {
	arbiter, _, publisher, _, _ := testArbiter(testTeleopConfig(ControlModeManual))

	arbiter.HandleSample(models.JoySample{Axes: []float64{0.5, 0.0}})

	if len(publisher.twists) != 0 {
		t.Fatalf("sample without the enable button in range should be disabled, got %d commands", len(publisher.twists))
	}
}

func TestInvertedReverse(t *testing.T) {
	cfg := testTeleopConfig(ControlModeManual)
	cfg.InvertedReverse = true
	arbiter, _, publisher, _, _ := testArbiter(cfg)

	arbiter.HandleSample(enabledSample(-0.5, 0.0, 0.3))
	arbiter.HandleSample(enabledSample(0.5, 0.0, 0.3))

	if len(publisher.twists) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(publisher.twists))
	}
	if math.Abs(publisher.twists[0].Angular.Z-(-0.3)) > 1e-9 {
		t.Fatalf("reversing should invert yaw: expected -0.3, got %f", publisher.twists[0].Angular.Z)
	}
	if math.Abs(publisher.twists[1].Angular.Z-0.3) > 1e-9 {
		t.Fatalf("forward yaw should be untouched: expected 0.3, got %f", publisher.twists[1].Angular.Z)
	}
}

func TestStampedOutput(t *testing.T) {
	cfg := testTeleopConfig(ControlModeManual)
	cfg.PublishStampedTwist = true
	arbiter, _, publisher, _, _ := testArbiter(cfg)

	arbiter.HandleSample(enabledSample(0.5, 0.0))

	if len(publisher.twists) != 0 || len(publisher.stamped) != 1 {
		t.Fatalf("expected only stamped output, got %d plain and %d stamped", len(publisher.twists), len(publisher.stamped))
	}
	if publisher.stamped[0].Header.FrameId != "base_link" {
		t.Fatalf("stamped command should carry the base frame, got %q", publisher.stamped[0].Header.FrameId)
	}
}

func TestJointStatePublishedOnEveryActiveSample(t *testing.T) {
	arbiter, _, publisher, _, _ := testArbiter(testTeleopConfig(ControlModeManual))

	arbiter.HandleSample(enabledSample(0.5, 0.0))
	arbiter.HandleSample(turboSample(0.5, 0.0))
	arbiter.HandleSample(disabledSample())

	if len(publisher.joints) != 2 {
		t.Fatalf("joint state should follow every active sample and no disabled sample, got %d", len(publisher.joints))
	}
}

func TestGoalDeadzoneSuppressesDispatch(t *testing.T) {
	arbiter, _, publisher, _, dispatcher := testArbiter(testTeleopConfig(ControlModeAuto))

	arbiter.HandleSample(enabledSample(0.1, 0.1))
	arbiter.HandleSample(turboSample(0.05, 0.0))

	if len(dispatcher.goals) != 0 {
		t.Fatalf("deadzone deflection should never dispatch, got %d goals", len(dispatcher.goals))
	}
	if len(publisher.twists) != 0 {
		t.Fatalf("the deadzone path should not publish velocity either, got %d", len(publisher.twists))
	}
}

func TestGoalDeadzoneStillArmsStop(t *testing.T) {
	arbiter, _, publisher, _, _ := testArbiter(testTeleopConfig(ControlModeAuto))

	arbiter.HandleSample(enabledSample(0.05, 0.0))
	arbiter.HandleSample(disabledSample())

	if len(publisher.twists) != 1 {
		t.Fatalf("disable after a deadzone sample should stop once, got %d commands", len(publisher.twists))
	}
}

func TestGoalDispatchThrottled(t *testing.T) {
	arbiter, mockClock, _, _, dispatcher := testArbiter(testTeleopConfig(ControlModeAuto))

	arbiter.HandleSample(enabledSample(0.5, 0.0))
	mockClock.Add(100 * time.Millisecond)
	arbiter.HandleSample(enabledSample(0.5, 0.0))

	if len(dispatcher.goals) != 1 {
		t.Fatalf("second dispatch within the throttle window should drop, got %d goals", len(dispatcher.goals))
	}

	mockClock.Add(GoalInterval)
	arbiter.HandleSample(enabledSample(0.5, 0.0))

	if len(dispatcher.goals) != 2 {
		t.Fatalf("dispatch after the window should go out, got %d goals", len(dispatcher.goals))
	}
}

func TestGoalPoseTransformed(t *testing.T) {
	arbiter, _, _, transforms, dispatcher := testArbiter(testTeleopConfig(ControlModeAuto))
	transforms.tf = models.Transform{
		Translation: r3.Vector{X: 10.0, Y: -2.0},
		Rotation:    models.IdentityQuaternion(),
	}

	arbiter.HandleSample(enabledSample(0.5, 0.25))

	if len(dispatcher.goals) != 1 {
		t.Fatalf("expected 1 goal, got %d", len(dispatcher.goals))
	}
	goal := dispatcher.goals[0]
	if goal.Pose.Header.FrameId != GoalFrame {
		t.Fatalf("goal should be in the %s frame, got %q", GoalFrame, goal.Pose.Header.FrameId)
	}
	if math.Abs(goal.Pose.Pose.Position.X-10.5) > 1e-9 || math.Abs(goal.Pose.Pose.Position.Y-(-1.75)) > 1e-9 {
		t.Fatalf("goal pose should be offset into the map frame, got %+v", goal.Pose.Pose.Position)
	}
}

func TestTransformFailureAbortsDispatch(t *testing.T) {
	arbiter, _, publisher, transforms, dispatcher := testArbiter(testTeleopConfig(ControlModeAuto))
	transforms.err = errors.New("frame not connected")

	arbiter.HandleSample(enabledSample(0.5, 0.0))

	if len(dispatcher.goals) != 0 {
		t.Fatalf("transform failure should abort the dispatch, got %d goals", len(dispatcher.goals))
	}
	if len(publisher.joints) != 1 {
		t.Fatalf("joint state should still publish after a transform failure, got %d", len(publisher.joints))
	}
}

func TestTransformFailureDoesNotConsumeThrottle(t *testing.T) {
	arbiter, _, _, transforms, dispatcher := testArbiter(testTeleopConfig(ControlModeAuto))

	transforms.err = errors.New("frame not connected")
	arbiter.HandleSample(enabledSample(0.5, 0.0))

	transforms.err = nil
	arbiter.HandleSample(enabledSample(0.5, 0.0))

	if len(dispatcher.goals) != 1 {
		t.Fatalf("recovery on the next sample should dispatch, got %d goals", len(dispatcher.goals))
	}
}

func TestStopCancelsGoalsInAutoMode(t *testing.T) {
	arbiter, _, publisher, _, dispatcher := testArbiter(testTeleopConfig(ControlModeAuto))

	arbiter.HandleSample(enabledSample(0.5, 0.0))
	arbiter.HandleSample(disabledSample())

	if len(dispatcher.cancels) != 1 {
		t.Fatalf("disable in auto mode should cancel outstanding goals once, got %d", len(dispatcher.cancels))
	}
	if len(publisher.twists) != 1 || publisher.twists[0] != (models.Twist{}) {
		t.Fatalf("disable should still publish one zero command, got %+v", publisher.twists)
	}
}

func TestStopDoesNotCancelGoalsInManualMode(t *testing.T) {
	arbiter, _, _, _, dispatcher := testArbiter(testTeleopConfig(ControlModeManual))

	arbiter.HandleSample(enabledSample(0.5, 0.0))
	arbiter.HandleSample(disabledSample())

	if len(dispatcher.cancels) != 0 {
		t.Fatalf("manual mode should never touch the goal dispatcher, got %d cancels", len(dispatcher.cancels))
	}
}

func TestStopLeavesGimbalPositions(t *testing.T) {
	arbiter, mockClock, publisher, _, _ := testArbiter(testTeleopConfig(ControlModeManual))

	mockClock.Add(time.Second)
	arbiter.HandleSample(enabledSample(0.0, 0.0, 1.0))
	mockClock.Add(time.Second)
	arbiter.HandleSample(enabledSample(0.0, 0.0, 1.0))
	arbiter.HandleSample(disabledSample())
	mockClock.Add(time.Second)
	arbiter.HandleSample(enabledSample(0.0, 0.0, 0.0))

	last := publisher.joints[len(publisher.joints)-1]
	if last.Position[1] <= 0.0 {
		t.Fatalf("stop commands must not zero the gimbal accumulators, got %f", last.Position[1])
	}
}
