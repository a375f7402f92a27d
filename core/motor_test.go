package core

import (
	"errors"
	"testing"
)

func newTestMotor(t *testing.T, cfg MotorConfig) (*MotorOutput, *ChannelRecorder, *ChannelRecorder) {
	t.Helper()
	left := NewChannelRecorder()
	right := NewChannelRecorder()
	m := NewMotorOutput(left, right)
	if err := m.Init(cfg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return m, left, right
}

func TestMotorInitIdle(t *testing.T) {
	left := NewChannelRecorder()
	right := NewChannelRecorder()
	left.Sink, right.Sink = true, true

	m := NewMotorOutput(left, right)
	if err := m.Init(MotorConfig{}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	for name, ch := range map[string]*ChannelRecorder{"left": left, "right": right} {
		if ch.Sink {
			t.Errorf("%s: direction should be released after init", name)
		}
		if ch.Duty != 255 {
			t.Errorf("%s: expected stopped duty 255 after init, got %d", name, ch.Duty)
		}
	}
	if !m.Initialized() {
		t.Error("Expected motor output to report initialized")
	}
}

func TestMotorDutyInversion(t *testing.T) {
	m, left, right := newTestMotor(t, MotorConfig{})

	if err := m.Apply(WheelSignal{Magnitude: 0, Forward: true}, WheelSignal{Magnitude: 255, Forward: true}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if left.Duty != 255 {
		t.Errorf("magnitude 0: expected duty 255, got %d", left.Duty)
	}
	if right.Duty != 0 {
		t.Errorf("magnitude 255: expected duty 0, got %d", right.Duty)
	}
}

func TestDutyLevel(t *testing.T) {
	tests := []struct {
		magnitude int
		want      uint8
	}{
		{0, 255},
		{1, 254},
		{120, 135},
		{255, 0},
		{300, 0},
		{-5, 255},
	}

	for _, tt := range tests {
		if got := DutyLevel(tt.magnitude); got != tt.want {
			t.Errorf("DutyLevel(%d): expected %d, got %d", tt.magnitude, tt.want, got)
		}
	}
}

func TestMotorDirectionPolarity(t *testing.T) {
	tests := []struct {
		name         string
		requiresSink bool
		forward      bool
		wantSink     bool
	}{
		{"sink forward, forward", true, true, true},
		{"sink forward, reverse", true, false, false},
		{"release forward, forward", false, true, false},
		{"release forward, reverse", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := MotorConfig{
				Left:  MotorChannelConfig{ForwardRequiresSink: tt.requiresSink},
				Right: MotorChannelConfig{ForwardRequiresSink: !tt.requiresSink},
			}
			m, left, right := newTestMotor(t, cfg)

			sig := WheelSignal{Magnitude: 50, Forward: tt.forward}
			if err := m.Apply(sig, sig); err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			if left.Sink != tt.wantSink {
				t.Errorf("left: expected sink=%v, got %v", tt.wantSink, left.Sink)
			}
			// Right channel is wired the other way round
			if right.Sink == tt.wantSink {
				t.Errorf("right: expected sink=%v, got %v", !tt.wantSink, right.Sink)
			}
		})
	}
}

func TestMotorStop(t *testing.T) {
	cfg := MotorConfig{
		Left:  MotorChannelConfig{ForwardRequiresSink: true},
		Right: MotorChannelConfig{ForwardRequiresSink: false},
	}
	m, left, right := newTestMotor(t, cfg)

	if err := m.Apply(WheelSignal{200, false}, WheelSignal{200, false}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if left.Duty != 255 || right.Duty != 255 {
		t.Errorf("Expected stopped duty on both channels, got %d/%d", left.Duty, right.Duty)
	}
	// Zero counts as forward
	if !left.Sink || right.Sink {
		t.Errorf("Expected forward direction after stop, got left=%v right=%v", left.Sink, right.Sink)
	}
}

func TestMotorApplySupersedes(t *testing.T) {
	m, left, _ := newTestMotor(t, MotorConfig{})

	m.Apply(WheelSignal{10, true}, WheelSignal{10, true})
	m.Apply(WheelSignal{100, true}, WheelSignal{100, true})

	history := left.History()
	// init + two applies
	if len(history) != 3 {
		t.Fatalf("Expected 3 duty updates, got %d", len(history))
	}
	if history[2].Duty != 155 {
		t.Errorf("Expected latest duty 155, got %d", history[2].Duty)
	}
}

func TestMotorApplyBeforeInitPanics(t *testing.T) {
	m := NewMotorOutput(NewChannelRecorder(), NewChannelRecorder())

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected Apply before Init to panic")
		}
	}()
	m.Apply(WheelSignal{}, WheelSignal{})
}

func TestMotorInitMissingChannel(t *testing.T) {
	m := NewMotorOutput(NewChannelRecorder(), nil)

	err := m.Init(MotorConfig{})
	if !IsFatal(err) {
		t.Fatalf("Expected fatal error, got %v", err)
	}
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestMotorInitTwice(t *testing.T) {
	cfg := MotorConfig{Left: MotorChannelConfig{ForwardRequiresSink: true}}
	m, left, _ := newTestMotor(t, cfg)

	m.Apply(WheelSignal{80, true}, WheelSignal{80, true})

	// Same wiring re-establishes idle
	if err := m.Init(cfg); err != nil {
		t.Fatalf("Repeated Init with same config failed: %v", err)
	}
	if left.Duty != 255 || left.Sink {
		t.Errorf("Expected idle after repeated Init, got %+v", left)
	}

	conflicting := MotorConfig{Left: MotorChannelConfig{ForwardRequiresSink: false}}
	err := m.Init(conflicting)
	if !IsFatal(err) || !errors.Is(err, ErrPolarityConflict) {
		t.Errorf("Expected fatal polarity conflict, got %v", err)
	}
}

func TestMotorApplyOutputFailure(t *testing.T) {
	m, _, right := newTestMotor(t, MotorConfig{})
	right.Fail = true

	err := m.Apply(WheelSignal{10, true}, WheelSignal{10, true})
	if !IsFatal(err) {
		t.Fatalf("Expected fatal error, got %v", err)
	}
	if !errors.Is(err, ErrChannelUnavailable) {
		t.Errorf("Expected wrapped ErrChannelUnavailable, got %v", err)
	}
}
