package sensor

import "time"

type Reading struct {
	Temperature float64
	Humidity    float64
	ReadAt      time.Time
}

type Reader interface {
	Read() (Reading, error)
}
