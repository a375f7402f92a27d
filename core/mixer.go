// Differential drive mixing
// Converts a velocity command into per-wheel signed magnitudes
package core

// Turn-in-place thresholds on the angular component.
// Tuned on the reference robot; compared with strict inequality.
const (
	TankTurnThreshold = float32(0.9)

	// WheelMax is the largest wheel magnitude, matching the 8-bit duty range
	WheelMax = 255
)

// truncLimit bounds a float product before conversion so the int conversion
// is always defined. Anything this large saturates at WheelMax anyway.
const truncLimit = 1 << 24

// VelocityCommand is a decoded drive command.
// Linear and Angular are scaled values in the command source's convention.
type VelocityCommand struct {
	Linear  float32
	Angular float32
}

// WheelSignal is the drive request for one wheel
type WheelSignal struct {
	Magnitude int  // 0 to WheelMax
	Forward   bool // zero magnitude counts as forward
}

// MixerGains holds the mixing constants
type MixerGains struct {
	BaseSpeed         int // Scale applied to Linear
	TurnSpeed         int // Scale applied to Angular
	TankTurnMagnitude int // Wheel magnitude used for turn-in-place
}

// DefaultGains returns the gains of the reference robot
func DefaultGains() MixerGains {
	return MixerGains{
		BaseSpeed:         120,
		TurnSpeed:         102,
		TankTurnMagnitude: 92,
	}
}

// Mix maps a velocity command to left/right wheel signals
func Mix(cmd VelocityCommand, gains MixerGains) (left, right WheelSignal) {
	forward := truncate(cmd.Linear * float32(gains.BaseSpeed))
	turn := truncate(cmd.Angular * float32(gains.TurnSpeed))

	rawLeft := forward - turn
	rawRight := forward + turn

	// Turn in place overrides any translation
	if cmd.Angular > TankTurnThreshold {
		rawLeft = -gains.TankTurnMagnitude
		rawRight = gains.TankTurnMagnitude
	}
	if cmd.Angular < -TankTurnThreshold {
		rawLeft = gains.TankTurnMagnitude
		rawRight = -gains.TankTurnMagnitude
	}

	return wheelSignal(rawLeft), wheelSignal(rawRight)
}

// wheelSignal clamps a signed speed and splits it into magnitude and direction
func wheelSignal(v int) WheelSignal {
	if v > WheelMax {
		v = WheelMax
	}
	if v < -WheelMax {
		v = -WheelMax
	}

	if v < 0 {
		return WheelSignal{Magnitude: -v, Forward: false}
	}
	return WheelSignal{Magnitude: v, Forward: true}
}

// truncate converts toward zero, saturating out of range values.
// NaN maps to 0 so a garbage command stops the wheel.
func truncate(f float32) int {
	switch {
	case f != f:
		return 0
	case f >= truncLimit:
		return truncLimit
	case f <= -truncLimit:
		return -truncLimit
	}
	return int(f)
}
