package graphics

import (
	"time"

	"goch8/internal/cpu"
)

// countingLoop is a Loop stub that counts Tick calls.
type countingLoop struct {
	ticks     int
	doneAfter int
}

func (l *countingLoop) Tick(time.Duration, cpu.Keys) (*Frame, error) {
	l.ticks++
	return nil, nil
}

func (l *countingLoop) Done() bool {
	return l.doneAfter > 0 && l.ticks >= l.doneAfter
}
