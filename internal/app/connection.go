package app

import (
	"context"
	"fmt"
	"log"
	"time"

	socketio "github.com/googollee/go-socket.io"
	"github.com/joyrc/teleop_client/internal/models"
	"github.com/joyrc/teleop_client/internal/transform"
	"github.com/pion/webrtc/v3"
)

type Connection struct {
	Socket         socketio.Conn
	PeerConnection *webrtc.PeerConnection
	Ctx            context.Context
	CtxCancel      context.CancelFunc

	JoyChannel chan models.JoySample
	HudChannel chan models.Hud
	TfBuffer   *transform.Buffer

	CmdVelOutput     *webrtc.DataChannel
	JointStateOutput *webrtc.DataChannel
	HudOutput        *webrtc.DataChannel
	PingOutput       *webrtc.DataChannel
	PingInput        chan int64
}

func NewConnection(socketConn socketio.Conn, joyChan chan models.JoySample, hudChan chan models.Hud, tfBuffer *transform.Buffer, peerConn *webrtc.PeerConnection) (*Connection, error) {
	log.Printf("creating station connection %s\n", socketConn.ID())
	ctx, cancel := context.WithCancel(context.Background())
	conn := &Connection{
		Socket:         socketConn,
		PeerConnection: peerConn,
		Ctx:            ctx,
		CtxCancel:      cancel,
		JoyChannel:     joyChan,
		HudChannel:     hudChan,
		TfBuffer:       tfBuffer,
		PingInput:      make(chan int64, 10),
	}
	return conn, nil
}

func (c *Connection) Disconnect() {
	log.Println("station disconnecting")
	c.CtxCancel()
	c.PeerConnection.Close()
}

func (c *Connection) RegisterHandlers() error {
	log.Println("start event listeners")
	// Set the handler for ICE connection state
	// This will notify you when the peer has connected/disconnected
	c.PeerConnection.OnICEConnectionStateChange(c.onICEConnectionStateChange)

	// Handle ICE candidate messages from the station
	c.PeerConnection.OnICECandidate(c.onICECandidate)

	c.PeerConnection.OnDataChannel(c.onDataChannel)

	go c.runUpdater()
	return nil
}

// runUpdater pushes hud frames and pings back to the station while the
// connection lives.
func (c *Connection) runUpdater() {
	pingTicker := time.NewTicker(1 * time.Second)
	hudTicker := time.NewTicker(33 * time.Millisecond) //30hz
	sent := true
	hudToSend := models.Hud{}
	lastPing := int64(0)
	for {
		select {
		case <-c.Ctx.Done():
			log.Printf("stopping station updater: %s\n", c.Ctx.Err().Error())
			return
		case hud, ok := <-c.HudChannel:
			if !ok {
				log.Println("hud channel closed")
				return
			}
			if c.HudOutput != nil {
				hudToSend = hud
				sent = false
			}
		case <-pingTicker.C:
			if c.PingOutput != nil {
				encodedMsg, err := encode(models.Ping{
					TimeStamp: time.Now().UnixMilli(),
					Source:    PingSourceName,
				})
				if err != nil {
					continue
				}
				err = c.PingOutput.SendText(encodedMsg)
				if err != nil {
					log.Printf("error: failed sending ping: error - %s\n", err.Error())
					continue
				}
			}
		case recievedPing, ok := <-c.PingInput:
			if !ok {
				log.Println("ping channel closed")
				return
			}
			lastPing = recievedPing
		case <-hudTicker.C:
			if !sent && c.HudOutput != nil {
				if len(hudToSend.Lines) > 0 {
					hudToSend.Lines[0] = fmt.Sprintf("%s | Ping:%dms", hudToSend.Lines[0], lastPing)
				}
				encodedMsg, err := encode(hudToSend)
				if err != nil {
					continue
				}
				sent = true
				err = c.HudOutput.SendText(encodedMsg)
				if err != nil {
					log.Printf("error: failed sending hud: error - %s\n", err.Error())
					continue
				}
			}
		}
	}
}
