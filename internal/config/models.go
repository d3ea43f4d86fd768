package config

const (
	MaxSupportedServos = 2
	AppEnvBase         = "TELEOP_"

	// AxisUnmapped marks a logical axis with no joystick axis behind it.
	AxisUnmapped = -1

	DefaultServer   = "127.0.0.1:8181"
	DefaultRobotKey = "1b4cbb39-4446-4d66-9c91-c1a7ba89ce50" //TODO Remove after testing
	DefaultPassword = ""

	DefaultPublishStampedTwist = false
	DefaultRobotBaseFrame      = "base_link"
	DefaultRequireEnableButton = true
	DefaultEnableButton        = 5
	DefaultEnableTurboButton   = -1
	DefaultInvertedReverse     = false
	DefaultControlMode         = "manual_control"

	// Default axis indices
	DefaultAxisChassisX = 5
	DefaultAxisChassisY = AxisUnmapped
	DefaultAxisChassisZ = AxisUnmapped
	DefaultAxisGimbalYaw   = 2
	DefaultAxisGimbalPitch = AxisUnmapped
	DefaultAxisGimbalRoll  = AxisUnmapped

	// Default scale factors
	DefaultScaleChassisX       = 0.5
	DefaultScaleChassisXTurbo  = 1.0
	DefaultScaleGimbalYaw      = 0.5
	DefaultScaleGimbalYawTurbo = 1.0

	// Default Command Options
	DefaultCommandDriver = "none"
	DefaultAddress       = 0x40
	DefaultI2CDevice     = "/dev/i2c-1"
	DefaultMaxPulse      = 2250
	DefaultMinPulse      = 750
	DefaultInverted      = false
	DefaultOffset        = 0

	// Servo throw covered by the gimbal joints, radians each direction
	DefaultServoMaxAngle = 1.57

	// Default Hud Options
	DefaultHudEnabled = true
	DefaultHudDevice  = "wlan0"
)

type Config struct {
	ServerCfg  ServerConfig
	TeleopCfg  TeleopConfig
	CommandCfg CommandConfig
	HudCfg     HudConfig
}

type ServerConfig struct {
	Server   string
	Key      string
	Password string
}

// AxisMap maps a logical axis name to an index into a sample's axis array.
type AxisMap map[string]int

// ScaleMap maps a logical axis name to a scale factor.
type ScaleMap map[string]float64

// ScaleSet holds one ScaleMap per mode name ("normal", "turbo").
type ScaleSet map[string]ScaleMap

type TeleopConfig struct {
	PublishStampedTwist bool
	RobotBaseFrame      string
	RequireEnableButton bool
	EnableButton        int
	EnableTurboButton   int
	InvertedReverse     bool
	ControlMode         string

	AxisChassis  AxisMap
	AxisGimbal   AxisMap
	ScaleChassis ScaleSet
	ScaleGimbal  ScaleSet
}

type CommandConfig struct {
	CommandDriver string
	Address       byte
	I2CDevice     string
	MaxAngle      float64
	ServoCfgs     []ServoConfig
}

type ServoConfig struct {
	Name     string
	Inverted bool
	Channel  int
	MaxPulse float64
	MinPulse float64
	Offset   int
}

type HudConfig struct {
	Enabled bool
	Device  string
}
