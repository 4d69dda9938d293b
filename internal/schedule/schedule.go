// Package schedule runs delayed callbacks on the render thread.
//
// Deadlines are measured against a Clock, so a callback fires on the first
// Poll at or after its wall-clock deadline no matter how many frames passed.
package schedule

import (
	"sort"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Task is a pending callback returned by After.
type Task struct {
	deadline time.Time
	seq      uint64
	fn       func()
	done     bool
}

// Cancel stops the task from running. It reports whether the task was
// still pending.
func (t *Task) Cancel() bool {
	if t == nil || t.done {
		return false
	}
	t.done = true
	return true
}

// Pending reports whether the task has neither run nor been cancelled.
func (t *Task) Pending() bool {
	return t != nil && !t.done
}

func (t *Task) Deadline() time.Time {
	return t.deadline
}

// Scheduler holds tasks until Poll finds them due. It is not safe for
// concurrent use; every call happens on the render thread.
type Scheduler struct {
	clock Clock
	tasks []*Task
	seq   uint64
}

func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock
	}
	return &Scheduler{clock: clock}
}

// After schedules fn to run d after now.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	s.seq++
	t := &Task{deadline: s.clock.Now().Add(d), seq: s.seq, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Poll runs every task whose deadline has passed, earliest first. Tasks
// scheduled by a running callback wait for the next Poll. It returns the
// number of callbacks run.
func (s *Scheduler) Poll() int {
	now := s.clock.Now()

	var due, rest []*Task
	for _, t := range s.tasks {
		switch {
		case t.done:
		case !t.deadline.After(now):
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	s.tasks = rest

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].seq < due[j].seq
		}
		return due[i].deadline.Before(due[j].deadline)
	})

	ran := 0
	for _, t := range due {
		// An earlier callback in this batch may have cancelled it.
		if t.done {
			continue
		}
		t.done = true
		t.fn()
		ran++
	}
	return ran
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	n := 0
	for _, t := range s.tasks {
		if !t.done {
			n++
		}
	}
	return n
}

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time { return c.now }

func (c *ManualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
