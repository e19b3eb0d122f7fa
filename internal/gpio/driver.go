package gpio

// Driver abstracts the board's GPIO lines so the controller can run
// against real hardware or an in-memory fake.
type Driver interface {
	Setup(pin int) error
	Write(pin int, state bool) error
	WritePWM(pin int, duty int) error
	Read(pin int) (bool, error)
	Close() error
}

// MaxDuty is the upper bound of the 8 bit PWM range the control payload
// uses (value 0-255).
const MaxDuty = 255
