package command

import (
	"fmt"

	"github.com/joyrc/teleop_client/internal/models"
	"github.com/joyrc/teleop_client/internal/teleop"
)

type DriverCommand struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
}

type CommandDriverIFace interface {
	Init() error
	Stop() error
	Set(DriverCommand) error
	SetMany([]DriverCommand) error
}

// GimbalOutput mirrors integrated gimbal joint positions onto physical
// pan/tilt servos. MaxAngle is the joint angle in radians that maps to full
// servo throw on either side of center.
type GimbalOutput struct {
	driver   CommandDriverIFace
	maxAngle float64
}

func NewGimbalOutput(driver CommandDriverIFace, maxAngle float64) *GimbalOutput {
	return &GimbalOutput{
		driver:   driver,
		maxAngle: maxAngle,
	}
}

func (g *GimbalOutput) Apply(jointState models.JointState) error {
	if len(jointState.Name) != len(jointState.Position) {
		return fmt.Errorf("joint state name/position length mismatch - names: %d positions: %d", len(jointState.Name), len(jointState.Position))
	}

	commands := make([]DriverCommand, 0, len(jointState.Name))
	for i := range jointState.Name {
		switch jointState.Name[i] {
		case teleop.GimbalYawJoint:
			commands = append(commands, DriverCommand{
				Name:  "pan",
				Value: jointState.Position[i],
				Min:   -g.maxAngle,
				Max:   g.maxAngle,
			})
		case teleop.GimbalPitchJoint:
			commands = append(commands, DriverCommand{
				Name:  "tilt",
				Value: jointState.Position[i],
				Min:   -g.maxAngle,
				Max:   g.maxAngle,
			})
		}
	}

	err := g.driver.SetMany(commands)
	if err != nil {
		return fmt.Errorf("failed setting gimbal servo commands: %w", err)
	}
	return nil
}

// MapToRange rescales value from [min,max] into [minReturn,maxReturn],
// clamping at the edges.
func MapToRange(value, min, max, minReturn, maxReturn float64) float64 {
	mappedValue := (maxReturn-minReturn)*(value-min)/(max-min) + minReturn

	if mappedValue > maxReturn {
		return maxReturn
	} else if mappedValue < minReturn {
		return minReturn
	} else {
		return mappedValue
	}
}
