package app

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
	"github.com/pion/webrtc/v3"

	"github.com/joyrc/teleop_client/internal/models"
)

func (a *App) onOffer(socketConn socketio.Conn, msgs []string) {
	if len(msgs) != 1 {
		log.Printf("offer from %s had too many msgs: %d\n", socketConn.ID(), len(msgs))
	}
	msg := msgs[0]

	offer := models.Offer{}
	err := decode(msg, &offer)
	if err != nil {
		log.Printf("offer from %s failed unmarshaling: %s\n - msg - %s", socketConn.ID(), err.Error(), msg)
		return
	}

	peerConn, err := webrtc.NewPeerConnection(webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{
				URLs: []string{"stun:stun.l.google.com:19302"},
			},
		},
	})
	if err != nil {
		log.Printf("failed creating peer connection on offer: %s\n", err.Error())
		return
	}

	newConnection, err := NewConnection(socketConn, a.joyChannel, a.hudChannel, a.tfBuffer, peerConn)
	if err != nil {
		log.Printf("failed creating connection on offer: %s\n", err.Error())
		return
	}

	a.connLock.Lock()
	if a.connection != nil {
		a.connection.Disconnect()
	}
	a.connection = newConnection
	a.connLock.Unlock()

	err = newConnection.RegisterHandlers()
	if err != nil {
		log.Printf("failed registering handlers for connection: %s\n", err.Error())
		return
	}

	// Set the received offer as the remote description
	err = newConnection.PeerConnection.SetRemoteDescription(offer.Offer)
	if err != nil {
		log.Printf("failed to set remote description: %s\n", err)
		return
	}

	// Create answer
	answer, err := newConnection.PeerConnection.CreateAnswer(nil)
	if err != nil {
		log.Printf("failed to create answer: %s\n", err)
		return
	}

	// Create channel that is blocked until ICE Gathering is complete
	gatherComplete := webrtc.GatheringCompletePromise(newConnection.PeerConnection)

	// Sets the LocalDescription, and starts our UDP listeners
	err = newConnection.PeerConnection.SetLocalDescription(answer)
	if err != nil {
		log.Println("failed to set local description:", err)
		return
	}

	// Block until ICE Gathering is complete, disabling trickle ICE
	// we do this because we only can exchange one signaling message
	// in a production application you should exchange ICE Candidates via OnICECandidate
	<-gatherComplete

	answerReq := models.Answer{
		Answer: newConnection.PeerConnection.LocalDescription(),
	}

	encodedAnswer, err := encode(answerReq)
	if err != nil {
		log.Printf("failed encoding answer: %s", err.Error())
		return
	}
	log.Println("sending answer")
	a.client.Emit("answer", encodedAnswer)
}

func (a *App) onICECandidate(socketConn socketio.Conn, msg string) {
	decodedMsg := ""
	err := decode(msg, &decodedMsg)
	if err != nil {
		log.Printf("ice candidate from %s failed unmarshaling: %s\n", socketConn.ID(), msg)
		return
	}
}

func (a *App) onRegisterSuccess(socketConn socketio.Conn, msgs []string) {
	if len(msgs) != 1 {
		log.Printf("register response from %s had too many msgs: %d\n", socketConn.ID(), len(msgs))
	}
	msg := msgs[0]

	decodedMsg := models.ConnectResp{}
	err := decode(msg, &decodedMsg)
	if err != nil {
		log.Printf("register response from %s failed unmarshaling: %s\n", socketConn.ID(), msg)
		return
	}

	a.robotInfo = decodedMsg.Robot
	a.stationInfo = decodedMsg.Station
	log.Printf("robot connected as %s(%s) with base frame %s\n", a.robotInfo.Name, a.robotInfo.ShortName, a.cfg.TeleopCfg.RobotBaseFrame)
}
