// Package hostsync writes the host list back to the panel once the user has
// stopped editing for a while. The write is best effort: failures are
// logged and recorded, never retried, and local state is never rolled back.
package hostsync

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/naiba/hostdeck/model"
)

// Remote receives the complete host list.
type Remote interface {
	ReplaceHosts(ctx context.Context, hosts []model.Host) error
}

// Source yields the host list as it is at the moment of the call.
type Source interface {
	Snapshot() []model.Host
}

type Timer interface {
	Stop() bool
}

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Result describes one finished write.
type Result struct {
	Hosts     int
	StartedAt time.Time
	Elapsed   time.Duration
	Err       error
}

type Options struct {
	Window  time.Duration
	Timeout time.Duration
	Clock   Clock
	// OnFlushed is called after every write that completed before Close.
	OnFlushed func(Result)
}

// Syncer is the debounce state machine:
//
//	Idle --Schedule--> Pending --window elapsed--> Flushing --done--> Idle
//
// Schedule while Pending restarts the window. Schedule while Flushing
// starts a new window next to the running write; if that window runs out
// before the write returns, the next write starts right after it, so there
// is never more than one write in flight. A Schedule after such a window
// ran out arms a fresh one, and the next write waits for it.
type Syncer struct {
	remote  Remote
	source  Source
	clock   Clock
	timeout time.Duration
	hook    func(Result)

	lock     sync.Mutex
	window   time.Duration
	timer    Timer
	gen      uint64
	flushing bool
	due      bool
	closed   bool
	status   model.SyncStatus
}

func New(remote Remote, source Source, opt Options) *Syncer {
	if opt.Clock == nil {
		opt.Clock = realClock{}
	}
	if opt.Window <= 0 {
		opt.Window = model.DefaultDebounce
	}
	if opt.Timeout <= 0 {
		opt.Timeout = model.DefaultPanelTimeout
	}
	return &Syncer{
		remote:  remote,
		source:  source,
		clock:   opt.Clock,
		timeout: opt.Timeout,
		hook:    opt.OnFlushed,
		window:  opt.Window,
	}
}

// Schedule (re)starts the quiescence window.
func (s *Syncer) Schedule() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	// 之前到期的窗口被新的修改取代
	s.due = false
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.window, func() { s.fire(gen) })
}

// SetWindow changes the quiescence window used by later calls to Schedule.
func (s *Syncer) SetWindow(d time.Duration) {
	if d <= 0 {
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.window = d
}

// Close cancels a pending write. A write already in flight runs to the end
// but its result is dropped.
func (s *Syncer) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.closed = true
	s.due = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Syncer) State() uint8 {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.stateLocked()
}

func (s *Syncer) Status() model.SyncStatus {
	s.lock.Lock()
	defer s.lock.Unlock()
	st := s.status
	st.State = s.stateLocked()
	return st
}

func (s *Syncer) stateLocked() uint8 {
	switch {
	case s.flushing:
		return model.SyncStateFlushing
	case s.timer != nil:
		return model.SyncStatePending
	}
	return model.SyncStateIdle
}

func (s *Syncer) fire(gen uint64) {
	s.lock.Lock()
	// a newer Schedule replaced this timer after it had already fired
	if s.closed || gen != s.gen {
		s.lock.Unlock()
		return
	}
	s.timer = nil
	if s.flushing {
		s.due = true
		s.lock.Unlock()
		return
	}
	s.flushing = true
	s.lock.Unlock()

	s.flush()
}

func (s *Syncer) flush() {
	for {
		hosts := s.source.Snapshot()
		res := Result{Hosts: len(hosts), StartedAt: s.clock.Now()}

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		res.Err = s.remote.ReplaceHosts(ctx, hosts)
		cancel()
		res.Elapsed = s.clock.Now().Sub(res.StartedAt)

		s.lock.Lock()
		if s.closed {
			s.flushing = false
			s.lock.Unlock()
			return
		}
		s.status.Flushes++
		s.status.LastFlushAt = res.StartedAt
		if res.Err != nil {
			s.status.LastError = res.Err.Error()
		} else {
			s.status.LastError = ""
		}
		again := s.due
		s.due = false
		s.flushing = again
		s.lock.Unlock()

		if res.Err != nil {
			log.Printf("HOSTDECK>> 同步 %d 个 host 到面板失败: %v", res.Hosts, res.Err)
		}
		if s.hook != nil {
			s.hook(res)
		}
		if !again {
			return
		}
	}
}
