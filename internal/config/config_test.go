package config

import "testing"

func TestTeleopConfigDefaults(t *testing.T) {
	cfg := GetTeleopConfig()

	if cfg.EnableButton != DefaultEnableButton {
		t.Errorf("expected enable button %d, got %d", DefaultEnableButton, cfg.EnableButton)
	}
	if cfg.EnableTurboButton != AxisUnmapped {
		t.Errorf("turbo button should default unmapped, got %d", cfg.EnableTurboButton)
	}
	if cfg.ControlMode != DefaultControlMode {
		t.Errorf("expected control mode %q, got %q", DefaultControlMode, cfg.ControlMode)
	}
	if cfg.AxisChassis["x"] != DefaultAxisChassisX {
		t.Errorf("expected chassis x axis %d, got %d", DefaultAxisChassisX, cfg.AxisChassis["x"])
	}
	if cfg.AxisChassis["y"] != AxisUnmapped {
		t.Errorf("chassis y axis should default unmapped, got %d", cfg.AxisChassis["y"])
	}
	if cfg.ScaleChassis["normal"]["x"] != DefaultScaleChassisX {
		t.Errorf("expected normal chassis x scale %f, got %f", DefaultScaleChassisX, cfg.ScaleChassis["normal"]["x"])
	}
	if cfg.ScaleChassis["turbo"]["x"] != DefaultScaleChassisXTurbo {
		t.Errorf("expected turbo chassis x scale %f, got %f", DefaultScaleChassisXTurbo, cfg.ScaleChassis["turbo"]["x"])
	}
}

func TestTeleopConfigEnvOverrides(t *testing.T) {
	t.Setenv(AppEnvBase+"ENABLE_BUTTON", "2")
	t.Setenv(AppEnvBase+"AXIS_CHASSIS_X", "0")
	t.Setenv(AppEnvBase+"SCALE_GIMBAL_YAW", "1.25")
	t.Setenv(AppEnvBase+"CONTROL_MODE", "Auto_Control")
	t.Setenv(AppEnvBase+"INVERTED_REVERSE", "true")

	cfg := GetTeleopConfig()

	if cfg.EnableButton != 2 {
		t.Errorf("expected enable button 2, got %d", cfg.EnableButton)
	}
	if cfg.AxisChassis["x"] != 0 {
		t.Errorf("expected chassis x axis 0, got %d", cfg.AxisChassis["x"])
	}
	if cfg.ScaleGimbal["normal"]["yaw"] != 1.25 {
		t.Errorf("expected gimbal yaw scale 1.25, got %f", cfg.ScaleGimbal["normal"]["yaw"])
	}
	if cfg.ControlMode != "auto_control" {
		t.Errorf("control mode should be lowercased, got %q", cfg.ControlMode)
	}
	if !cfg.InvertedReverse {
		t.Error("expected inverted reverse enabled")
	}
}

func TestCommandConfigSkipsUnnamedServos(t *testing.T) {
	t.Setenv(AppEnvBase+"SERVO0_NAME", "pan")
	t.Setenv(AppEnvBase+"SERVO0_CHANNEL", "3")

	cfg := GetCommandConfig()

	if len(cfg.ServoCfgs) != 1 {
		t.Fatalf("expected one configured servo, got %d", len(cfg.ServoCfgs))
	}
	if cfg.ServoCfgs[0].Name != "pan" || cfg.ServoCfgs[0].Channel != 3 {
		t.Fatalf("unexpected servo config: %+v", cfg.ServoCfgs[0])
	}
}

func TestGetIntEnvBadValueFallsBack(t *testing.T) {
	t.Setenv(AppEnvBase+"ENABLE_BUTTON", "not-a-number")

	if got := GetIntEnv("ENABLE_BUTTON", 7); got != 7 {
		t.Errorf("expected fallback 7, got %d", got)
	}
}
