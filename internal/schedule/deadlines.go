// Package schedule replaces suspended "wait N seconds" work with deadlines
// checked against an externally advanced clock.
package schedule

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// ID identifies a scheduled deadline. Zero is never issued.
type ID uint64

// Task is a deadline with its follow-up action.
type Task struct {
	ID       ID
	Deadline time.Duration
	Name     string
	fn       func()
}

// Deadlines is a deadline queue with its own monotonic clock.
// The clock only moves through Advance, so firing is deterministic.
type Deadlines struct {
	mu     sync.Mutex
	now    time.Duration
	nextID ID
	tasks  map[ID]*Task
}

// NewDeadlines creates an empty queue at time zero.
func NewDeadlines() *Deadlines {
	return &Deadlines{
		tasks: make(map[ID]*Task),
	}
}

// Now returns the queue clock.
func (d *Deadlines) Now() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.now
}

// After schedules fn at now+delay. Negative delays are treated as zero.
func (d *Deadlines) After(delay time.Duration, fn func()) ID {
	return d.AfterNamed("", delay, fn)
}

// AfterNamed is After with a label used in debug logs.
func (d *Deadlines) AfterNamed(name string, delay time.Duration, fn func()) ID {
	d.mu.Lock()
	defer d.mu.Unlock()

	delay = max(delay, 0)
	d.nextID++
	task := &Task{
		ID:       d.nextID,
		Deadline: d.now + delay,
		Name:     name,
		fn:       fn,
	}
	d.tasks[task.ID] = task

	slog.Debug("deadline scheduled",
		"id", task.ID,
		"name", name,
		"delay", delay,
		"deadline", task.Deadline)

	return task.ID
}

// Cancel removes a pending deadline. Returns false if it already fired or never existed.
func (d *Deadlines) Cancel(id ID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.tasks[id]; !ok {
		return false
	}
	delete(d.tasks, id)
	return true
}

// Clear cancels every pending deadline.
func (d *Deadlines) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.tasks)
}

// Pending returns the number of scheduled deadlines.
func (d *Deadlines) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.tasks)
}

// Get returns a pending task (for tests and inspection).
func (d *Deadlines) Get(id ID) (Task, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// Advance moves the clock by dt and fires every task with now >= deadline,
// earliest first, ties in scheduling order. Callbacks run without the lock held.
// A callback may schedule or cancel tasks; new tasks that are already due fire
// in the same call. Returns the number of fired tasks.
func (d *Deadlines) Advance(dt time.Duration) int {
	d.mu.Lock()
	d.now += max(dt, 0)
	d.mu.Unlock()

	fired := 0
	for {
		task, ok := d.popDue()
		if !ok {
			return fired
		}
		task.fn()
		fired++
	}
}

// popDue removes and returns the earliest due task.
func (d *Deadlines) popDue() (*Task, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	due := make([]*Task, 0, 4)
	for _, t := range d.tasks {
		if d.now >= t.Deadline {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil, false
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].Deadline != due[j].Deadline {
			return due[i].Deadline < due[j].Deadline
		}
		return due[i].ID < due[j].ID
	})

	task := due[0]
	delete(d.tasks, task.ID)
	return task, true
}
