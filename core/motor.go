// Motor output for a two-channel WS55-style driver pair
// Each channel has a direction line (sink/release) and an inverted speed duty
package core

// DutyStopped is the duty level that commands zero speed.
// The driver's speed input is sunk through an RC node, so a full duty
// pulls it to ~0 V and an idle duty lets it rise to full speed.
const DutyStopped = PWM_MAX

// Channel indexes
const (
	ChannelLeft  = 0
	ChannelRight = 1
)

// MotorChannelConfig describes the direction wiring of one channel
type MotorChannelConfig struct {
	// ForwardRequiresSink is true when the driver runs forward with F/R sunk to COM
	ForwardRequiresSink bool
}

// MotorConfig holds the wiring of both channels
type MotorConfig struct {
	Left  MotorChannelConfig
	Right MotorChannelConfig
}

// MotorOutput owns the outputs of the left and right channels
type MotorOutput struct {
	outputs     [2]ChannelOutput
	channels    [2]MotorChannelConfig
	initialized bool
}

// NewMotorOutput creates a motor output over two channel outputs.
// Init must be called before any Apply.
func NewMotorOutput(left, right ChannelOutput) *MotorOutput {
	return &MotorOutput{
		outputs: [2]ChannelOutput{left, right},
	}
}

// Init fixes the channel polarity and puts both channels in the safe idle state:
// direction released, duty at DutyStopped.
func (m *MotorOutput) Init(cfg MotorConfig) error {
	channels := [2]MotorChannelConfig{cfg.Left, cfg.Right}

	for i, out := range m.outputs {
		if out == nil {
			return fatal("init "+channelName(i), ErrNotConfigured)
		}
	}

	if m.initialized && channels != m.channels {
		return fatal("init", ErrPolarityConflict)
	}

	for i, out := range m.outputs {
		if err := out.SetDirection(false); err != nil {
			return fatal("init "+channelName(i)+" direction", err)
		}
		if err := out.SetDutyLevel(DutyStopped); err != nil {
			return fatal("init "+channelName(i)+" duty", err)
		}
	}

	m.channels = channels
	m.initialized = true

	DebugPrintln("motor: channels idle")
	return nil
}

// Apply drives both channels from the given wheel signals
func (m *MotorOutput) Apply(left, right WheelSignal) error {
	if !m.initialized {
		panic("motor output not initialized")
	}

	signals := [2]WheelSignal{left, right}
	for i, out := range m.outputs {
		sig := signals[i]

		// Polarity is resolved here and nowhere else
		sink := sig.Forward == m.channels[i].ForwardRequiresSink
		if err := out.SetDirection(sink); err != nil {
			return fatal("apply "+channelName(i)+" direction", err)
		}
		if err := out.SetDutyLevel(DutyLevel(sig.Magnitude)); err != nil {
			return fatal("apply "+channelName(i)+" duty", err)
		}
	}

	return nil
}

// Stop applies a zero command to both channels
func (m *MotorOutput) Stop() error {
	zero := WheelSignal{Magnitude: 0, Forward: true}
	return m.Apply(zero, zero)
}

// Initialized reports whether Init has succeeded
func (m *MotorOutput) Initialized() bool {
	return m.initialized
}

// DutyLevel maps a wheel magnitude to the inverted duty level:
// 0 -> 255, 255 -> 0, clamped before inversion.
func DutyLevel(magnitude int) uint8 {
	if magnitude < 0 {
		magnitude = 0
	}
	if magnitude > PWM_MAX {
		magnitude = PWM_MAX
	}
	return uint8(PWM_MAX - magnitude)
}

func channelName(i int) string {
	if i == ChannelLeft {
		return "left"
	}
	return "right"
}
