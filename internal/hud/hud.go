package hud

import (
	"fmt"
	"sync"

	"github.com/joyrc/teleop_client/internal/config"
	"github.com/joyrc/teleop_client/internal/models"
	"github.com/joyrc/teleop_client/internal/teleop"
	"github.com/prometheus/procfs"
)

// Updater builds operator hud lines from process/network telemetry and the
// latest published gimbal joint state.
type Updater struct {
	lock sync.RWMutex

	cfg         config.HudConfig
	controlMode string
	proc        procfs.Proc

	jointState models.JointState
}

func NewUpdater(cfg config.HudConfig, controlMode string) (*Updater, error) {
	proc, err := procfs.Self()
	if err != nil {
		return nil, fmt.Errorf("error: procfs could not get process: %w", err)
	}

	return &Updater{
		cfg:         cfg,
		controlMode: controlMode,
		proc:        proc,
	}, nil
}

// SetJointState records the most recently published joint state for display.
func (u *Updater) SetJointState(jointState models.JointState) {
	u.lock.Lock()
	defer u.lock.Unlock()
	u.jointState = jointState
}

func (u *Updater) Update() (models.Hud, error) {
	netDev, err := u.proc.NetDev()
	if err != nil {
		return models.Hud{}, fmt.Errorf("error: failed getting netstat: %w", err)
	}

	netInfo, ok := netDev[u.cfg.Device]
	if !ok {
		return models.Hud{}, fmt.Errorf("error: failed getting %s stats: not found", u.cfg.Device)
	}

	stat, err := u.proc.Stat()
	if err != nil {
		return models.Hud{}, fmt.Errorf("error: failed getting proc stat: %w", err)
	}

	u.lock.RLock()
	jointState := u.jointState
	u.lock.RUnlock()

	lines := make([]string, 3)
	lines[0] = fmt.Sprintf("RxPkt:%d | RxErr:%d | RxDrop: %d | TxPkt:%d | TxErr:%d | TxDrop: %d",
		netInfo.RxPackets,
		netInfo.RxErrors,
		netInfo.RxDropped,
		netInfo.TxPackets,
		netInfo.TxErrors,
		netInfo.TxDropped,
	)
	lines[1] = fmt.Sprintf("Mode:%s | CPU:%.1fs | Mem:%dKB", u.controlMode, stat.CPUTime(), stat.ResidentMemory()/1024)
	lines[2] = formatJointLine(jointState)

	return models.Hud{
		Lines: lines,
	}, nil
}

func formatJointLine(jointState models.JointState) string {
	pitch := 0.0
	yaw := 0.0
	for i := range jointState.Name {
		if i >= len(jointState.Position) {
			break
		}
		switch jointState.Name[i] {
		case teleop.GimbalPitchJoint:
			pitch = jointState.Position[i]
		case teleop.GimbalYawJoint:
			yaw = jointState.Position[i]
		}
	}
	return fmt.Sprintf("Pitch:%.2f | Yaw:%.2f", pitch, yaw)
}
