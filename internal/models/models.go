package models

import (
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/pion/webrtc/v3"
)

type ConnectReq struct {
	Key      string `json:"key"`
	Password string `json:"password"`
}

type ConnectResp struct {
	Robot   Robot
	Station Station
}

type Robot struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ShortName string    `json:"short_name"`
	BaseFrame string    `json:"base_frame"`
}

type Station struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ShortName string    `json:"short_name"`
}

type IceCandidate struct {
	Candidate      webrtc.ICECandidateInit `json:"candidate"`
	RobotShortName string                  `json:"robot_name"`
	UserId         uuid.UUID               `json:"user_id"`
}

type Offer struct {
	Offer          webrtc.SessionDescription `json:"offer"`
	RobotShortName string                    `json:"robot_name"`
	UserId         uuid.UUID                 `json:"user_id"`
}

type Answer struct {
	Answer *webrtc.SessionDescription `json:"answer"`
}

// JoySample is one joystick reading from the operator station. Axes and
// buttons are variable length, so every consumer has to bounds check.
type JoySample struct {
	Axes      []float64 `json:"axes"`
	BitButton uint32    `json:"bit_buttons"`
	TimeStamp int64     `json:"time_stamp"`
	Buttons   []bool
}

type Header struct {
	Stamp   int64  `json:"stamp"`
	FrameId string `json:"frame_id,omitempty"`
}

type Twist struct {
	Linear  r3.Vector `json:"linear"`
	Angular r3.Vector `json:"angular"`
}

type TwistStamped struct {
	Header Header `json:"header"`
	Twist  Twist  `json:"twist"`
}

type JointState struct {
	Header   Header    `json:"header"`
	Name     []string  `json:"name"`
	Position []float64 `json:"position"`
}

type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1.0}
}

type Pose struct {
	Position    r3.Vector  `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

type PoseStamped struct {
	Header Header `json:"header"`
	Pose   Pose   `json:"pose"`
}

type Transform struct {
	Translation r3.Vector  `json:"translation"`
	Rotation    Quaternion `json:"rotation"`
}

// TransformUpdate is one parent->child frame transform pushed by the server
// over the tf data channel.
type TransformUpdate struct {
	Parent    string    `json:"parent"`
	Child     string    `json:"child"`
	Transform Transform `json:"transform"`
	TimeStamp int64     `json:"time_stamp"`
}

type NavGoal struct {
	Id   uuid.UUID   `json:"id"`
	Pose PoseStamped `json:"pose"`
}

type NavCancel struct {
	Before int64 `json:"before"`
}

type Hud struct {
	Lines []string `json:"lines"`
}

type Ping struct {
	Source    string `json:"source"`
	TimeStamp int64  `json:"time_stamp"`
}
