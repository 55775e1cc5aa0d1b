package control

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/gargoyle/errors"
	"github.com/wippyai/gargoyle/jvm"
)

// Session is the handle to a running runtime.
type Session struct {
	rt        *Runtime
	env       jvm.Env
	inspector jvm.Inspector
	valid     atomic.Bool

	queueMu sync.Mutex
	queue   []jvm.Ref
}

func newSession(rt *Runtime, vm jvm.VM) *Session {
	s := &Session{
		rt:        rt,
		env:       vm.Env(),
		inspector: vm.Inspector(),
	}
	s.valid.Store(true)
	return s
}

// Valid reports whether the runtime behind the session is still running.
func (s *Session) Valid() bool {
	return s != nil && s.valid.Load()
}

// Env returns the call-context API.
func (s *Session) Env() (jvm.Env, error) {
	if !s.Valid() {
		return nil, errors.NotRunning(errors.PhaseBridge)
	}
	return s.env, nil
}

// Inspector returns the introspection API.
func (s *Session) Inspector() (jvm.Inspector, error) {
	if !s.Valid() {
		return nil, errors.NotRunning(errors.PhaseExtract)
	}
	return s.inspector, nil
}

// Logger returns the owning runtime's logger.
func (s *Session) Logger() *zap.Logger {
	return s.rt.logger
}

// EnqueueRelease schedules deletion of a global reference on the primary
// context. It is safe to call from any goroutine, and after stop, when it
// is a no-op.
func (s *Session) EnqueueRelease(ref jvm.Ref) {
	if ref == 0 || !s.Valid() {
		return
	}
	s.queueMu.Lock()
	s.queue = append(s.queue, ref)
	s.queueMu.Unlock()
}

// Pending returns the number of queued releases.
func (s *Session) Pending() int {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	return len(s.queue)
}

// Drain deletes every queued global reference and returns how many it
// deleted. It must run on the primary context.
func (s *Session) Drain() int {
	if !s.Valid() {
		return 0
	}
	s.queueMu.Lock()
	refs := s.queue
	s.queue = nil
	s.queueMu.Unlock()

	for _, ref := range refs {
		s.env.DeleteGlobalRef(ref)
	}
	return len(refs)
}

func (s *Session) invalidate() {
	s.valid.Store(false)
	s.queueMu.Lock()
	s.queue = nil
	s.queueMu.Unlock()
}
