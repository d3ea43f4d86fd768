package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

func GetConfig() Config {
	cfg := Config{
		ServerCfg:  GetServerConfig(),
		TeleopCfg:  GetTeleopConfig(),
		CommandCfg: GetCommandConfig(),
		HudCfg:     GetHudConfig(),
	}

	log.Printf("app Config: \n%+v\n", cfg)
	return cfg
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Server:   GetStringEnv("SERVER", DefaultServer),
		Key:      GetStringEnv("ROBOTKEY", DefaultRobotKey),
		Password: GetStringEnv("ROBOTPASSWORD", DefaultPassword),
	}
}

func GetTeleopConfig() TeleopConfig {
	return TeleopConfig{
		PublishStampedTwist: GetBoolEnv("PUBLISH_STAMPED_TWIST", DefaultPublishStampedTwist),
		RobotBaseFrame:      GetStringEnv("ROBOT_BASE_FRAME", DefaultRobotBaseFrame),
		RequireEnableButton: GetBoolEnv("REQUIRE_ENABLE_BUTTON", DefaultRequireEnableButton),
		EnableButton:        GetIntEnv("ENABLE_BUTTON", DefaultEnableButton),
		EnableTurboButton:   GetIntEnv("ENABLE_TURBO_BUTTON", DefaultEnableTurboButton),
		InvertedReverse:     GetBoolEnv("INVERTED_REVERSE", DefaultInvertedReverse),
		ControlMode:         GetStringEnv("CONTROL_MODE", DefaultControlMode),

		AxisChassis: AxisMap{
			"x": GetIntEnv("AXIS_CHASSIS_X", DefaultAxisChassisX),
			"y": GetIntEnv("AXIS_CHASSIS_Y", DefaultAxisChassisY),
			"z": GetIntEnv("AXIS_CHASSIS_Z", DefaultAxisChassisZ),
		},
		AxisGimbal: AxisMap{
			"yaw":   GetIntEnv("AXIS_GIMBAL_YAW", DefaultAxisGimbalYaw),
			"pitch": GetIntEnv("AXIS_GIMBAL_PITCH", DefaultAxisGimbalPitch),
			"roll":  GetIntEnv("AXIS_GIMBAL_ROLL", DefaultAxisGimbalRoll),
		},
		ScaleChassis: ScaleSet{
			"normal": ScaleMap{
				"x": GetFloatEnv("SCALE_CHASSIS_X", DefaultScaleChassisX),
				"y": GetFloatEnv("SCALE_CHASSIS_Y", 0.0),
				"z": GetFloatEnv("SCALE_CHASSIS_Z", 0.0),
			},
			"turbo": ScaleMap{
				"x": GetFloatEnv("SCALE_CHASSIS_X_TURBO", DefaultScaleChassisXTurbo),
				"y": GetFloatEnv("SCALE_CHASSIS_Y_TURBO", 0.0),
				"z": GetFloatEnv("SCALE_CHASSIS_Z_TURBO", 0.0),
			},
		},
		ScaleGimbal: ScaleSet{
			"normal": ScaleMap{
				"yaw":   GetFloatEnv("SCALE_GIMBAL_YAW", DefaultScaleGimbalYaw),
				"pitch": GetFloatEnv("SCALE_GIMBAL_PITCH", 0.0),
				"roll":  GetFloatEnv("SCALE_GIMBAL_ROLL", 0.0),
			},
			"turbo": ScaleMap{
				"yaw":   GetFloatEnv("SCALE_GIMBAL_YAW_TURBO", DefaultScaleGimbalYawTurbo),
				"pitch": GetFloatEnv("SCALE_GIMBAL_PITCH_TURBO", 0.0),
				"roll":  GetFloatEnv("SCALE_GIMBAL_ROLL_TURBO", 0.0),
			},
		},
	}
}

func GetCommandConfig() CommandConfig {
	commandCfg := CommandConfig{
		CommandDriver: GetStringEnv("SERVODRIVER", DefaultCommandDriver),
		Address:       DefaultAddress,
		I2CDevice:     GetStringEnv("I2CDEVICE", DefaultI2CDevice),
		MaxAngle:      GetFloatEnv("SERVO_MAX_ANGLE", DefaultServoMaxAngle),
		ServoCfgs:     make([]ServoConfig, 0, MaxSupportedServos),
	}

	for i := 0; i < MaxSupportedServos; i++ {
		envPrefix := fmt.Sprintf("SERVO%d_", i)
		servoCfg := ServoConfig{
			Name:     GetStringEnv(envPrefix+"NAME", ""),
			Channel:  GetIntEnv(envPrefix+"CHANNEL", i),
			MaxPulse: float64(GetIntEnv(envPrefix+"MAXPULSE", DefaultMaxPulse)),
			MinPulse: float64(GetIntEnv(envPrefix+"MINPULSE", DefaultMinPulse)),
			Inverted: GetBoolEnv(envPrefix+"INVERTED", DefaultInverted),
			Offset:   GetIntEnv(envPrefix+"MIDOFFSET", DefaultOffset),
		}

		if servoCfg.Name != "" {
			log.Printf("found config for servo: %s\n", servoCfg.Name)
			commandCfg.ServoCfgs = append(commandCfg.ServoCfgs, servoCfg)
		}
	}
	return commandCfg
}

func GetHudConfig() HudConfig {
	return HudConfig{
		Enabled: GetBoolEnv("HUDENABLED", DefaultHudEnabled),
		Device:  GetStringEnv("HUDDEVICE", DefaultHudDevice),
	}
}

func GetIntEnv(env string, defaultValue int) int {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := strconv.ParseInt(strings.Trim(envValue, "\r"), 10, 32)
		if err != nil {
			log.Printf("warning:%s not parsed - error: %s\n", env, err)
			return defaultValue
		} else {
			return int(value)
		}
	}
}

func GetBoolEnv(env string, defaultValue bool) bool {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := strconv.ParseBool(strings.Trim(envValue, "\r"))
		if err != nil {
			log.Printf("warning:%s not parsed - error: %s\n", env, err)
			return defaultValue
		} else {
			return value
		}
	}
}

func GetStringEnv(env string, defaultValue string) string {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		return strings.ToLower(strings.Trim(envValue, "\r"))
	}
}

func GetFloatEnv(env string, defaultValue float64) float64 {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := strconv.ParseFloat(envValue, 64)
		if err != nil {
			return defaultValue
		}
		return value
	}
}
