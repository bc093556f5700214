package logs

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// ProgramRef queues messages for a program that is started later. Send never
// blocks, so components may log from inside their Update.
type ProgramRef struct {
	mu      sync.Mutex
	pending []tea.Msg
	wake    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewProgramRef creates an empty queue
func NewProgramRef() *ProgramRef {
	return &ProgramRef{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Send queues msg for delivery
func (r *ProgramRef) Send(msg tea.Msg) {
	r.mu.Lock()
	r.pending = append(r.pending, msg)
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Start delivers queued and future messages to target, in order, until Stop is called
func (r *ProgramRef) Start(target MsgSender) {
	go r.pump(target)
}

// Stop ends delivery. Messages sent afterwards stay queued.
func (r *ProgramRef) Stop() {
	r.once.Do(func() { close(r.done) })
}

func (r *ProgramRef) pump(target MsgSender) {
	for {
		r.mu.Lock()
		batch := r.pending
		r.pending = nil
		r.mu.Unlock()

		for _, msg := range batch {
			target.Send(msg)
		}

		select {
		case <-r.wake:
		case <-r.done:
			return
		}
	}
}
