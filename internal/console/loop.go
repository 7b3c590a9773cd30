package console

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Loop runs closures one at a time on a single goroutine in arrival order.
// All session state is touched only from inside the loop.
type Loop struct {
	queue chan func()
	quit  chan struct{}
	done  chan struct{}
	stop  sync.Once
	log   *zap.Logger
}

// NewLoop returns a loop; call Run to start it.
func NewLoop(log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		queue: make(chan func()),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
		log:   log,
	}
}

// Run executes posted closures until Stop is called.
func (l *Loop) Run() {
	defer close(l.done)
	for {
		select {
		case fn := <-l.queue:
			l.exec(fn)
		case <-l.quit:
			return
		}
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("console loop task panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	fn()
}

// Post hands fn to the loop. It reports false if the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case l.queue <- fn:
		return true
	case <-l.quit:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish. It must not be
// called from inside the loop.
func (l *Loop) Do(fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrClosed
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// After posts fn to the loop once d has elapsed. Stopping the returned
// timer before it fires cancels fn.
func (l *Loop) After(d time.Duration, fn func()) *time.Timer {
	return time.AfterFunc(d, func() {
		l.Post(fn)
	})
}

// Stop ends Run and waits for it to return. It is safe to call twice.
func (l *Loop) Stop() {
	l.stop.Do(func() {
		close(l.quit)
	})
	<-l.done
}
