package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	socketio "github.com/googollee/go-socket.io"
	"golang.org/x/sync/errgroup"

	"github.com/joyrc/teleop_client/internal/command"
	pca9685 "github.com/joyrc/teleop_client/internal/command/pca9685"
	pipwm "github.com/joyrc/teleop_client/internal/command/pi_pwm"
	"github.com/joyrc/teleop_client/internal/config"
	"github.com/joyrc/teleop_client/internal/hud"
	"github.com/joyrc/teleop_client/internal/models"
	"github.com/joyrc/teleop_client/internal/nav"
	"github.com/joyrc/teleop_client/internal/teleop"
	"github.com/joyrc/teleop_client/internal/transform"
)

type App struct {
	ctx       context.Context
	ctxCancel context.CancelFunc

	cfg    config.Config
	client *socketio.Client

	robotInfo   models.Robot
	stationInfo models.Station

	connLock   sync.RWMutex
	connection *Connection

	arbiter   *teleop.Arbiter
	tfBuffer  *transform.Buffer
	hud       *hud.Updater
	driver    command.CommandDriverIFace
	gimbalOut *command.GimbalOutput

	joyChannel chan models.JoySample
	hudChannel chan models.Hud

	buttonMasks []uint32
}

func NewApp(cfg config.Config, client *socketio.Client) *App {
	ctx, cancel := context.WithCancel(context.Background())

	joyChannel := make(chan models.JoySample, 100)
	hudChannel := make(chan models.Hud, 100)

	a := &App{
		cfg:         cfg,
		client:      client,
		ctx:         ctx,
		ctxCancel:   cancel,
		tfBuffer:    transform.NewBuffer(),
		joyChannel:  joyChannel,
		hudChannel:  hudChannel,
		buttonMasks: models.BuildButtonMasks(),
	}

	switch cfg.CommandCfg.CommandDriver {
	case "pca9685":
		a.driver = pca9685.NewCommand(cfg.CommandCfg)
	case "pipwm":
		a.driver = pipwm.NewCommand(cfg.CommandCfg)
	default:
		log.Println("no servo driver configured, gimbal output is stream only")
	}
	if a.driver != nil {
		a.gimbalOut = command.NewGimbalOutput(a.driver, cfg.CommandCfg.MaxAngle)
	}

	if cfg.HudCfg.Enabled {
		hudUpdater, err := hud.NewUpdater(cfg.HudCfg, cfg.TeleopCfg.ControlMode)
		if err != nil {
			log.Printf("hud disabled: %s\n", err.Error())
		} else {
			a.hud = hudUpdater
		}
	}

	dispatcher := nav.NewDispatcher(func(event string, v ...interface{}) {
		client.Emit(event, v...)
	})
	a.arbiter = teleop.NewArbiter(cfg.TeleopCfg, clock.New(), a, a.tfBuffer, dispatcher)

	return a
}

func (a *App) RegisterHandlers() error {
	log.Println("registering handlers")
	a.client.OnEvent("reply", func(s socketio.Conn, msg string) {
		log.Println("recieve message /reply: ", "reply", msg)
	})

	a.client.OnEvent("offer", a.onOffer)

	a.client.OnEvent("candidate", a.onICECandidate)

	a.client.OnEvent("register_success", a.onRegisterSuccess)

	log.Println("attemping to connect to server...")
	err := a.client.Connect() //Client must have atleast 1 event handler to work
	if err != nil {
		return fmt.Errorf("error connecting to server - %w", err)
	}
	log.Println("connected to server")
	return nil
}

func (a *App) Start() error {
	group, groupCtx := errgroup.WithContext(a.ctx)
	log.Println("starting...")

	if a.driver != nil {
		err := a.driver.Init()
		if err != nil {
			return fmt.Errorf("error initializing servo driver: %w", err)
		}
	}

	defer func() {
		log.Println("stopping...")
		if a.driver != nil {
			if err := a.driver.Stop(); err != nil {
				log.Printf("error stopping servo driver: %s\n", err.Error())
			}
		}
		a.client.Close()
	}()

	//kill listener
	group.Go(func() error {
		signalChannel := make(chan os.Signal, 1)
		signal.Notify(signalChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-signalChannel:
			log.Printf("received signal: %s\n", sig)
			a.ctxCancel()
			return fmt.Errorf("received signal: %s", sig)
		case <-groupCtx.Done():
			log.Println("closing signal goroutine")
			return groupCtx.Err()
		}
	})

	//Process joystick samples
	group.Go(func() error {
		return a.processJoySamples(groupCtx)
	})

	//Gather hud telemetry
	if a.hud != nil {
		group.Go(func() error {
			return a.updateHud(groupCtx)
		})
	}

	//Send connect and send healthchecks
	group.Go(func() error {
		encodedMsg, _ := encode(models.ConnectReq{
			Key:      a.cfg.ServerCfg.Key,
			Password: a.cfg.ServerCfg.Password,
		})
		a.client.Emit("robot_connect", encodedMsg)

		healthTicker := time.NewTicker(30 * time.Second)

		for {
			select {
			case <-groupCtx.Done():
				log.Println("health checker stopped")
				return groupCtx.Err()
			case <-healthTicker.C:
				log.Println("healthcheck: healthy")
				a.client.Emit("robot_healthy", "")
			}
		}
	})

	err := group.Wait()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Println("context was cancelled")
			return nil
		} else {
			return fmt.Errorf("client stopping due to error - %w", err)
		}
	}

	log.Println("shutting down")
	return a.client.Close()
}

// processJoySamples feeds samples into the arbiter one at a time. Samples
// older than the newest seen are dropped so reordered delivery can not make
// the robot jump backwards in time.
func (a *App) processJoySamples(ctx context.Context) error {
	lastTimeStamp := int64(0)
	for {
		select {
		case <-ctx.Done():
			log.Printf("stopping joy sample processor: %s\n", ctx.Err().Error())
			return ctx.Err()
		case sample, ok := <-a.joyChannel:
			if !ok {
				return fmt.Errorf("joy sample channel closed")
			}

			if sample.TimeStamp < lastTimeStamp {
				continue
			}
			lastTimeStamp = sample.TimeStamp

			sample.Buttons = models.ParseButtons(sample.BitButton, a.buttonMasks)
			a.arbiter.HandleSample(sample)
		}
	}
}

func (a *App) updateHud(ctx context.Context) error {
	hudTicker := time.NewTicker(1 * time.Second)
	for {
		select {
		case <-ctx.Done():
			log.Printf("stopping hud updater: %s\n", ctx.Err().Error())
			return ctx.Err()
		case <-hudTicker.C:
			hudFrame, err := a.hud.Update()
			if err != nil {
				log.Printf("error: failed building hud: %s\n", err.Error())
				continue
			}
			select {
			case a.hudChannel <- hudFrame:
			default:
				log.Println("hud channel full, skipping")
			}
		}
	}
}

func (a *App) conn() *Connection {
	a.connLock.RLock()
	defer a.connLock.RUnlock()
	return a.connection
}

// PublishTwist sends an unstamped velocity command to the station.
func (a *App) PublishTwist(twist models.Twist) error {
	conn := a.conn()
	if conn == nil || conn.CmdVelOutput == nil {
		return nil
	}
	encodedMsg, err := encode(twist)
	if err != nil {
		return fmt.Errorf("failed encoding twist - %w", err)
	}
	return conn.CmdVelOutput.SendText(encodedMsg)
}

// PublishTwistStamped sends a stamped velocity command to the station.
func (a *App) PublishTwistStamped(twist models.TwistStamped) error {
	conn := a.conn()
	if conn == nil || conn.CmdVelOutput == nil {
		return nil
	}
	encodedMsg, err := encode(twist)
	if err != nil {
		return fmt.Errorf("failed encoding stamped twist - %w", err)
	}
	return conn.CmdVelOutput.SendText(encodedMsg)
}

// PublishJointState streams gimbal joint state to the station and mirrors it
// onto the physical gimbal servos and hud when configured.
func (a *App) PublishJointState(jointState models.JointState) error {
	if a.hud != nil {
		a.hud.SetJointState(jointState)
	}

	if a.gimbalOut != nil {
		err := a.gimbalOut.Apply(jointState)
		if err != nil {
			log.Printf("error applying gimbal servo output: %s\n", err.Error())
		}
	}

	conn := a.conn()
	if conn == nil || conn.JointStateOutput == nil {
		return nil
	}
	encodedMsg, err := encode(jointState)
	if err != nil {
		return fmt.Errorf("failed encoding joint state - %w", err)
	}
	return conn.JointStateOutput.SendText(encodedMsg)
}
