package control

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/gargoyle/config"
	"github.com/wippyai/gargoyle/errors"
	"github.com/wippyai/gargoyle/jvm"
)

// LocalCapacity is reserved right after creation.
const LocalCapacity = 1000

// State is the runtime lifecycle state.
type State int

const (
	Uninitialized State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// Runtime is the start/stop facade over a Launcher.
type Runtime struct {
	launcher jvm.Launcher
	logger   *zap.Logger
	vm       jvm.VM
	session  *Session
	state    State
	mu       sync.Mutex
}

// New creates a facade in the uninitialized state.
func New(launcher jvm.Launcher, opts ...Option) *Runtime {
	r := &Runtime{
		launcher: launcher,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Logger returns the runtime's logger.
func (r *Runtime) Logger() *zap.Logger {
	return r.logger
}

// Start creates the runtime.
func (r *Runtime) Start(ctx context.Context, opts config.Options) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case Running:
		return nil, errors.AlreadyRunning()
	case Stopped:
		return nil, errors.RestartForbidden()
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.StartFailed(jvm.ErrUnknown, err)
	}

	args := opts.InitArgs()
	vm, code, err := r.launcher.Launch(ctx, args)
	if err != nil || code != jvm.OK {
		if code == jvm.OK {
			code = jvm.ErrUnknown
		}
		r.logger.Warn("runtime creation failed", zap.Int("code", code), zap.Error(err))
		return nil, errors.StartFailed(code, err)
	}

	env := vm.Env()
	if rc := env.EnsureLocalCapacity(LocalCapacity); rc != jvm.OK {
		vm.Destroy()
		r.state = Stopped
		r.logger.Warn("runtime destroyed after capacity failure", zap.Int("code", int(rc)))
		return nil, errors.StartFailed(int(rc), nil)
	}

	r.vm = vm
	r.session = newSession(r, vm)
	r.state = Running

	version, _ := jvm.VersionString(env.GetVersion())
	r.logger.Info("runtime started",
		zap.String("version", version),
		zap.Strings("options", args.Options))
	return r.session, nil
}

// Stop drains queued releases and destroys the runtime.
func (r *Runtime) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Running {
		return errors.NotRunning(errors.PhaseControl)
	}

	if n := r.session.Drain(); n > 0 {
		r.logger.Debug("drained releases at stop", zap.Int("count", n))
	}
	r.session.invalidate()

	code := r.vm.Destroy()
	r.vm = nil
	r.session = nil
	r.state = Stopped

	if code != jvm.OK {
		r.logger.Warn("runtime destroy failed", zap.Int("code", code))
		return errors.New(errors.PhaseControl, errors.KindInvalidData).
			Value(code).
			Detail("runtime destroy failed (%d)", code).
			Build()
	}
	r.logger.Info("runtime stopped")
	return nil
}

// IsRunning reports whether the runtime is running.
func (r *Runtime) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == Running
}

// State returns the lifecycle state.
func (r *Runtime) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Session returns the live session.
func (r *Runtime) Session() (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Running {
		return nil, errors.NotRunning(errors.PhaseControl)
	}
	return r.session, nil
}

// Version names the running runtime's interface version. It reports false
// when the runtime is not running or reports a negative version.
func (r *Runtime) Version() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Running {
		return "", false
	}
	return jvm.VersionString(r.vm.Env().GetVersion())
}
