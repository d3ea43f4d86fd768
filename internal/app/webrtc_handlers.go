package app

import (
	"log"
	"time"

	"github.com/joyrc/teleop_client/internal/models"
	"github.com/pion/webrtc/v3"
)

const PingSourceName = "robot"

func (c *Connection) onICEConnectionStateChange(connectionState webrtc.ICEConnectionState) {
	log.Printf("connection state has changed: %s\n", connectionState.String())
}

func (c *Connection) onICECandidate(candidate *webrtc.ICECandidate) {
	if candidate != nil {
		log.Printf("recieved ICE candidate from station: %s\n", candidate.String())
	}
}

func (c *Connection) onDataChannel(d *webrtc.DataChannel) {
	log.Printf("new data channel: %s\n", d.Label())

	// Register channel opening handler
	d.OnOpen(func() {
		log.Printf("data channel open: %s\n", d.Label())
		switch d.Label() {
		case "cmd_vel":
			c.CmdVelOutput = d
		case "joint_state":
			c.JointStateOutput = d
		case "hud":
			c.HudOutput = d
		case "ping":
			c.PingOutput = d
		}
	})

	// Register text message handling
	switch d.Label() {
	case "joy":
		d.OnMessage(func(msg webrtc.DataChannelMessage) { c.onJoyHandler(msg.Data) })
	case "tf":
		d.OnMessage(func(msg webrtc.DataChannelMessage) { c.onTfHandler(msg.Data) })
	case "ping":
		d.OnMessage(func(msg webrtc.DataChannelMessage) { c.onPingHandler(msg.Data) })
	case "cmd_vel", "joint_state", "hud":
	default:
		log.Printf("recieved message on unsupported channel: %s\n", d.Label())
	}
}

func (c *Connection) onJoyHandler(data []byte) {
	sample := models.JoySample{}
	err := decode(string(data), &sample)
	if err != nil {
		log.Printf("failed unmarshalling data channel msg: %s\n", data)
		return
	}
	c.JoyChannel <- sample
}

func (c *Connection) onTfHandler(data []byte) {
	update := models.TransformUpdate{}
	err := decode(string(data), &update)
	if err != nil {
		log.Printf("failed unmarshalling data channel msg: %s\n", data)
		return
	}
	c.TfBuffer.Update(update)
}

func (c *Connection) onPingHandler(data []byte) {
	ping := models.Ping{}
	err := decode(string(data), &ping)
	if err != nil {
		log.Printf("failed unmarshalling data channel msg: %s\n", data)
		return
	}
	if ping.Source == PingSourceName {
		roundTripTime := time.Now().UnixMilli() - ping.TimeStamp
		select {
		case c.PingInput <- roundTripTime:
		default:
		}
	}
}
