package store

import (
	"sync"
	"time"
)

// manualScheduler queues tasks until the test fires them.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	sched   *manualScheduler
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTask{sched: m, delay: d, f: f}
	m.tasks = append(m.tasks, t)
	return t
}

func (t *manualTask) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fire runs the i-th scheduled task, if it is still live.
func (m *manualScheduler) fire(i int) {
	m.mu.Lock()
	t := m.tasks[i]
	run := !t.stopped && !t.fired
	t.fired = true
	m.mu.Unlock()
	if run {
		t.f()
	}
}

// fireAll runs every live task in scheduling order.
func (m *manualScheduler) fireAll() {
	for i := range m.len() {
		m.fire(i)
	}
}

func (m *manualScheduler) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *manualScheduler) delays() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.tasks))
	for i, t := range m.tasks {
		out[i] = t.delay
	}
	return out
}
