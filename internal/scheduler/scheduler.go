package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"
)

// DailyDispatcher runs the daily survey batch. The scheduler calls it on
// the dispatch tick with the tick's wall-clock time.
type DailyDispatcher interface {
	RunDailyBatch(ctx context.Context, now time.Time) error
}

// Pruner removes survey instances older than the retention cutoff.
type Pruner interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SchedulerService exposes a small control surface for the scheduler.
// Start/Stop are synchronous controls, and IsRunning reports whether the
// scheduler is currently accepting ticks.
type SchedulerService interface {
	Start() error
	Stop() error
	IsRunning() bool
}

// DefaultDispatchInterval is the "safe fallback" dispatch cadence.
const DefaultDispatchInterval = 24 * time.Hour

// DefaultPurgeInterval is the "safe fallback" cleanup cadence.
const DefaultPurgeInterval = 7 * 24 * time.Hour

// DefaultJobTimeout is how long we allow a single job to run before
// cancelling it via context timeout.
const DefaultJobTimeout = 5 * time.Minute

// DefaultRetentionDays is the rolling window of survey instances to keep.
const DefaultRetentionDays = 90

// controlTimeout is how long we wait for the control loop to accept a
// Start/Stop command and acknowledge it. This protects callers from
// hanging forever if the loop is not running.
const controlTimeout = 2 * time.Second

// controlOp represents the kind of command sent into the internal control loop.
type controlOp int

const (
	opStart controlOp = iota
	opStop
	opStatus
)

// controlMsg is sent over the ctrl channel to drive the scheduler's state.
type controlMsg struct {
	op   controlOp
	resp chan bool // used by callers to get a synchronous answer
}

// schedulerService owns the internal state and runs the control loop.
// All mutable state lives in the loop goroutine, so we don't need locks.
type schedulerService struct {
	dispatcher DailyDispatcher
	pruner     Pruner

	dispatchInterval time.Duration
	purgeInterval    time.Duration
	jobTimeout       time.Duration
	retentionDays    int

	ctrl chan controlMsg
}

// NewSchedulerService creates a scheduler driving the daily dispatch batch
// and the retention purge. Non-positive settings fall back to sane defaults.
func NewSchedulerService(
	dispatcher DailyDispatcher,
	pruner Pruner,
	dispatchInterval time.Duration,
	purgeInterval time.Duration,
	jobTimeout time.Duration,
	retentionDays int,
) SchedulerService {
	if dispatchInterval <= 0 {
		dispatchInterval = DefaultDispatchInterval
	}
	if purgeInterval <= 0 {
		purgeInterval = DefaultPurgeInterval
	}
	if jobTimeout <= 0 {
		jobTimeout = DefaultJobTimeout
	}
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}

	s := &schedulerService{
		dispatcher:       dispatcher,
		pruner:           pruner,
		dispatchInterval: dispatchInterval,
		purgeInterval:    purgeInterval,
		jobTimeout:       jobTimeout,
		retentionDays:    retentionDays,
		ctrl:             make(chan controlMsg),
	}

	// The control loop is started in its own goroutine and lives
	// for the lifetime of the process.
	go s.loop()

	return s
}

// Start tells the scheduler to begin processing ticks. It blocks until the
// internal loop has acknowledged the state change, or returns an error if
// the control loop does not respond in time.
func (s *schedulerService) Start() error {
	resp := make(chan bool)
	msg := controlMsg{op: opStart, resp: resp}

	select {
	case s.ctrl <- msg:
		// sent ok
	case <-time.After(controlTimeout):
		return fmt.Errorf("[Scheduler] Start: control loop not responding")
	}

	select {
	case <-resp:
		return nil
	case <-time.After(controlTimeout):
		return fmt.Errorf("[Scheduler] Start: acknowledgement timeout")
	}
}

// Stop tells the scheduler to stop accepting new ticks. If a job is
// currently running, Stop waits until it finishes (or times out) before
// returning. If the control loop does not respond, Stop returns an error
// instead of blocking forever.
func (s *schedulerService) Stop() error {
	resp := make(chan bool)
	msg := controlMsg{op: opStop, resp: resp}

	select {
	case s.ctrl <- msg:
		// sent ok
	case <-time.After(controlTimeout):
		return fmt.Errorf("[Scheduler] Stop: control loop not responding")
	}

	select {
	case <-resp:
		return nil
	case <-time.After(controlTimeout):
		return fmt.Errorf("[Scheduler] Stop: acknowledgement timeout")
	}
}

// IsRunning reports whether the scheduler is currently in "running" mode.
// It does not mean a job is actively executing, only that new ticks will
// be processed when a timer fires.
func (s *schedulerService) IsRunning() bool {
	resp := make(chan bool)
	s.ctrl <- controlMsg{op: opStatus, resp: resp}
	return <-resp
}

// loop is the heart of the scheduler. It owns all mutable state and reacts
// to control messages, dispatch ticks and purge ticks.
func (s *schedulerService) loop() {
	dispatchTicker := time.NewTicker(s.dispatchInterval)
	defer dispatchTicker.Stop()

	purgeTicker := time.NewTicker(s.purgeInterval)
	defer purgeTicker.Stop()

	// running: whether we should accept new ticks
	// inJob: whether a job is currently executing
	running := false
	inJob := false

	// pendingStop is a response channel to be completed once the current
	// job finishes, if Stop was called mid-job.
	var pendingStop chan bool

	finishJob := func() {
		inJob = false
		if pendingStop != nil {
			pendingStop <- true
			pendingStop = nil
			log.Println("[Scheduler] Stopped (no active job).")
		}
	}

	for {
		select {
		case msg := <-s.ctrl:
			switch msg.op {
			case opStart:
				if !running {
					log.Printf("[Scheduler] Started (dispatch=%s, purge=%s, jobTimeout=%s, retention=%dd)\n",
						s.dispatchInterval, s.purgeInterval, s.jobTimeout, s.retentionDays)
				}
				running = true
				msg.resp <- true

			case opStop:
				if !running && !inJob {
					log.Println("[Scheduler] Stop requested, but already idle.")
					msg.resp <- true
					continue
				}

				log.Println("[Scheduler] Stop requested. Waiting for current job (if any)...")

				running = false

				if inJob {
					pendingStop = msg.resp
				} else {
					msg.resp <- true
				}

			case opStatus:
				msg.resp <- running
			}

		case <-dispatchTicker.C:
			if !running || inJob {
				continue
			}

			inJob = true
			log.Println("[Scheduler] Triggering daily dispatch...")

			now := time.Now()
			ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
			err := s.dispatcher.RunDailyBatch(ctx, now)
			cancel()

			if err != nil {
				log.Printf("[Scheduler] Daily dispatch failed: %v\n", err)
			} else {
				log.Println("[Scheduler] Daily dispatch completed.")
			}

			finishJob()

		case <-purgeTicker.C:
			if !running || inJob {
				continue
			}

			inJob = true
			log.Println("[Scheduler] Triggering retention purge...")

			cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
			ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
			n, err := s.pruner.PurgeOlderThan(ctx, cutoff)
			cancel()

			if err != nil {
				log.Printf("[Scheduler] Retention purge failed: %v\n", err)
			} else {
				log.Printf("[Scheduler] Retention purge completed (%d removed).\n", n)
			}

			finishJob()
		}
	}
}
