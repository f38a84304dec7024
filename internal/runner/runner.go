// Package runner paces the CPU against host time: it converts wall-clock
// elapsed time into an instruction budget, decays the 60 Hz timers and
// decides when the host should redraw.
package runner

import (
	"time"

	"goch8/internal/cpu"
	"goch8/internal/display"
)

const (
	timerHz = 60

	// fallback ceiling when neither an IPS nor an IPF limit is set, so a
	// stalled frame timer cannot spin the CPU unbounded.
	defaultIPS = 1_000_000

	// statsWindow is the sliding window for the instructions-per-second
	// performance counter.
	statsWindow = time.Second
)

// Config bounds the execution rate. Zero values mean unlimited for the
// individual knob; with both IPS and IPF unset a safety ceiling applies.
type Config struct {
	// IPSLimit caps instructions per second of emulated time.
	IPSLimit float64
	// IPFLimit caps instructions executed in a single Tick call.
	IPFLimit int
	// FPSLimit paces redraw requests; 0 requests a redraw every Tick.
	FPSLimit float64
	// SkipFrames suppresses redraws while the display is unchanged.
	SkipFrames bool
}

// TickResult reports what one controller tick did.
type TickResult struct {
	// Redraw tells the host to present the display buffer.
	Redraw bool
	// Steps is the number of instructions executed this tick.
	Steps int
	// TimerTicks is the number of 60 Hz timer decays applied.
	TimerTicks int
}

// Stats are cumulative and windowed performance counters.
type Stats struct {
	Steps      uint64
	TimerTicks uint64
	Ticks      uint64
	// IPS is the instruction rate over the last second of host time.
	IPS float64
}

// Controller drives a CPU at a configured rate. It owns the timer
// cadence: the CPU itself never decays DT/ST.
type Controller struct {
	cpu  *cpu.CPU
	disp *display.Display
	cfg  Config

	// stepDebt accumulates fractional instructions owed under an IPS
	// limit so slow hosts catch up instead of losing time.
	stepDebt   float64
	timerAccum time.Duration
	frameAccum time.Duration

	stats       Stats
	windowStart time.Duration
	windowSteps uint64
	windowIPS   float64
	hostClock   time.Duration
}

// New creates a controller for the given CPU and display.
func New(c *cpu.CPU, disp *display.Display, cfg Config) *Controller {
	return &Controller{cpu: c, disp: disp, cfg: cfg}
}

// Tick advances emulation by elapsed host time. It executes the budgeted
// number of instructions, applies any whole 60 Hz timer ticks and reports
// whether the host should redraw. An execution error stops the tick at
// the faulting instruction; work done before it stands.
func (r *Controller) Tick(elapsed time.Duration, keys cpu.Keys) (TickResult, error) {
	var res TickResult
	r.hostClock += elapsed

	res.TimerTicks = r.consumeTimerTicks(elapsed)
	r.cpu.TickTimers(res.TimerTicks)

	budget := r.instructionBudget(elapsed)
	for i := 0; i < budget; i++ {
		if r.cpu.Exited() {
			break
		}
		if err := r.cpu.Step(keys); err != nil {
			r.account(res)
			return res, err
		}
		res.Steps++
		// a suspended CPU forfeits the rest of its budget, it would
		// only observe the same key snapshot again
		if r.cpu.Waiting() {
			break
		}
	}

	res.Redraw = r.redrawDue(elapsed)
	r.account(res)
	return res, nil
}

// Stats returns the performance counters.
func (r *Controller) Stats() Stats {
	s := r.stats
	s.IPS = r.windowIPS
	return s
}

// consumeTimerTicks converts elapsed time into whole 1/60 s ticks,
// carrying the remainder so no timer time is lost or double counted.
func (r *Controller) consumeTimerTicks(elapsed time.Duration) int {
	r.timerAccum += elapsed
	interval := time.Second / timerHz
	ticks := int(r.timerAccum / interval)
	r.timerAccum -= time.Duration(ticks) * interval
	return ticks
}

// instructionBudget returns how many instructions this tick may run.
func (r *Controller) instructionBudget(elapsed time.Duration) int {
	ips := r.cfg.IPSLimit
	if ips <= 0 && r.cfg.IPFLimit <= 0 {
		ips = defaultIPS
	}

	budget := int(^uint(0) >> 1)
	if ips > 0 {
		r.stepDebt += ips * elapsed.Seconds()
		budget = int(r.stepDebt)
		r.stepDebt -= float64(budget)
	}
	if r.cfg.IPFLimit > 0 && budget > r.cfg.IPFLimit {
		budget = r.cfg.IPFLimit
	}
	return budget
}

// redrawDue applies the FPS pacing and frame-skip policy.
func (r *Controller) redrawDue(elapsed time.Duration) bool {
	due := true
	if r.cfg.FPSLimit > 0 {
		r.frameAccum += elapsed
		interval := time.Duration(float64(time.Second) / r.cfg.FPSLimit)
		if r.frameAccum < interval {
			due = false
		} else {
			r.frameAccum -= interval
			// cap the backlog at one frame, late frames are dropped
			if r.frameAccum > interval {
				r.frameAccum = interval
			}
		}
	}
	if due && r.cfg.SkipFrames && !r.disp.Updated() {
		due = false
	}
	if due {
		r.disp.ClearUpdated()
	}
	return due
}

func (r *Controller) account(res TickResult) {
	r.stats.Steps += uint64(res.Steps)
	r.stats.TimerTicks += uint64(res.TimerTicks)
	r.stats.Ticks++

	r.windowSteps += uint64(res.Steps)
	if w := r.hostClock - r.windowStart; w >= statsWindow {
		r.windowIPS = float64(r.windowSteps) / w.Seconds()
		r.windowStart = r.hostClock
		r.windowSteps = 0
	}
}
