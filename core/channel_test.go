package core

import (
	"testing"
	"time"
)

func TestPinChannel(t *testing.T) {
	gpio := NewGPIORecorder()
	pwm := NewPWMRecorder(255)

	ch := NewPinChannel(gpio, pwm, 19, 18)
	if err := ch.Configure(DefaultPWMPeriod); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if pwm.Period(18) != 500*time.Microsecond {
		t.Errorf("Expected 500us PWM period, got %v", pwm.Period(18))
	}

	if err := ch.SetDirection(true); err != nil {
		t.Fatalf("SetDirection failed: %v", err)
	}
	if state, _ := gpio.GetPin(19); !state {
		t.Error("Expected direction pin high when sinking")
	}

	if err := ch.SetDutyLevel(135); err != nil {
		t.Fatalf("SetDutyLevel failed: %v", err)
	}
	if pwm.Duty(18) != 135 {
		t.Errorf("Expected duty 135, got %d", pwm.Duty(18))
	}
}

func TestPinChannelScalesDuty(t *testing.T) {
	pwm := NewPWMRecorder(65535)
	ch := NewPinChannel(NewGPIORecorder(), pwm, 17, 16)
	if err := ch.Configure(DefaultPWMPeriod); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	tests := []struct {
		level uint8
		want  PWMValue
	}{
		{0, 0},
		{255, 65535},
		{128, 32896},
	}
	for _, tt := range tests {
		ch.SetDutyLevel(tt.level)
		if pwm.Duty(16) != tt.want {
			t.Errorf("level %d: expected %d, got %d", tt.level, tt.want, pwm.Duty(16))
		}
	}
}

func TestPinChannelDrivesMotorOutput(t *testing.T) {
	gpio := NewGPIORecorder()
	pwm := NewPWMRecorder(255)
	SetGPIODriver(gpio)
	SetPWMDriver(pwm)

	left := NewHALChannel(19, 18)
	right := NewHALChannel(17, 16)
	for _, ch := range []*PinChannel{left, right} {
		if err := ch.Configure(DefaultPWMPeriod); err != nil {
			t.Fatalf("Configure failed: %v", err)
		}
	}

	m := NewMotorOutput(left, right)
	cfg := MotorConfig{
		Left:  MotorChannelConfig{ForwardRequiresSink: true},
		Right: MotorChannelConfig{ForwardRequiresSink: true},
	}
	if err := m.Init(cfg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if pwm.Duty(18) != 255 || pwm.Duty(16) != 255 {
		t.Errorf("Expected stopped duty after init, got %d/%d", pwm.Duty(18), pwm.Duty(16))
	}

	l, r := Mix(VelocityCommand{Linear: 0, Angular: 0.95}, DefaultGains())
	if err := m.Apply(l, r); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if pinLevel(t, gpio, 19) {
		t.Error("Left wheel reverses: direction pin should be released")
	}
	if !pinLevel(t, gpio, 17) {
		t.Error("Right wheel forward: direction pin should sink")
	}
	if pwm.Duty(18) != 163 || pwm.Duty(16) != 163 {
		t.Errorf("Expected duty 163 on both channels, got %d/%d", pwm.Duty(18), pwm.Duty(16))
	}
}

func TestMustDriversPanicWhenMissing(t *testing.T) {
	SetGPIODriver(nil)
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected MustGPIO to panic without a driver")
		}
	}()
	MustGPIO()
}

func pinLevel(t *testing.T, gpio *GPIORecorder, pin GPIOPin) bool {
	t.Helper()
	level, err := gpio.GetPin(pin)
	if err != nil {
		t.Fatalf("GetPin(%d) failed: %v", pin, err)
	}
	return level
}

func TestHALRecordersRejectUnconfiguredPins(t *testing.T) {
	gpio := NewGPIORecorder()
	if err := gpio.SetPin(5, true); err == nil {
		t.Error("Expected SetPin on an unconfigured pin to fail")
	}
	if _, err := gpio.GetPin(5); err == nil {
		t.Error("Expected GetPin on an unconfigured pin to fail")
	}

	pwm := NewPWMRecorder(255)
	if err := pwm.SetDutyCycle(4, 10); err == nil {
		t.Error("Expected SetDutyCycle on an unconfigured pin to fail")
	}
}

func TestNewHALChannelPanicsWithoutPWMDriver(t *testing.T) {
	SetGPIODriver(NewGPIORecorder())
	SetPWMDriver(nil)
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected NewHALChannel to panic without a PWM driver")
		}
	}()
	NewHALChannel(19, 18)
}
