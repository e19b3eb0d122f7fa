package db

import "time"

type PinState struct {
	Pin         int
	State       bool
	Value       int
	LastChanged time.Time
}
