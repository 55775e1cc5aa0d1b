package host

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/gargoyle/bridge"
	"github.com/wippyai/gargoyle/config"
	"github.com/wippyai/gargoyle/control"
	"github.com/wippyai/gargoyle/errors"
	"github.com/wippyai/gargoyle/extract"
	"github.com/wippyai/gargoyle/jvm"
)

// Option configures a Module.
type Option func(*Module)

// WithLogger sets the logger passed down to the runtime facade.
func WithLogger(l *zap.Logger) Option {
	return func(m *Module) {
		m.logger = l
	}
}

// WithInterner shares a symbol table with the caller.
func WithInterner(in *Interner) Option {
	return func(m *Module) {
		m.syms = in
	}
}

// Module exposes the bridge to the host. Every method takes and returns
// host values; failures are returned as *Signal.
type Module struct {
	rt     *control.Runtime
	syms   *Interner
	logger *zap.Logger
}

// NewModule creates a module over the given launcher. The runtime is not
// started.
func NewModule(launcher jvm.Launcher, opts ...Option) *Module {
	m := &Module{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	if m.syms == nil {
		m.syms = NewInterner()
	}
	m.rt = control.New(launcher, control.WithLogger(m.logger))
	return m
}

// Interner returns the module's symbol table.
func (m *Module) Interner() *Interner { return m.syms }

// Runtime returns the underlying control facade.
func (m *Module) Runtime() *control.Runtime { return m.rt }

// Start starts the runtime.
func (m *Module) Start(ctx context.Context, opts config.Options) (Value, error) {
	if _, err := m.rt.Start(ctx, opts); err != nil {
		return nil, m.signal(err)
	}
	return T, nil
}

// Stop stops the runtime. It cannot be started again afterwards.
func (m *Module) Stop(ctx context.Context) (Value, error) {
	if err := m.rt.Stop(ctx); err != nil {
		return nil, m.signal(err)
	}
	return T, nil
}

// IsRunning returns T while the runtime is running.
func (m *Module) IsRunning() Value {
	return Bool(m.rt.IsRunning())
}

// Version returns the runtime's interface version string, or Nil.
func (m *Module) Version() Value {
	v, ok := m.rt.Version()
	if !ok {
		return Nil
	}
	return String(v)
}

// FindClass looks a class up by dotted or internal name.
func (m *Module) FindClass(name Value) (Value, error) {
	str, ok := name.(String)
	if !ok {
		return nil, m.signal(errors.WrongType("string", name))
	}
	s, err := m.rt.Session()
	if err != nil {
		return nil, m.signal(err)
	}
	cls, err := bridge.FindClass(s, string(str))
	if err != nil {
		return nil, m.signal(err)
	}
	return &UserPtr{Object: cls}, nil
}

// Superclass returns the symbol naming the superclass of a class handle,
// or Nil when it has none.
func (m *Module) Superclass(cls Value) (Value, error) {
	obj, s, err := m.object(cls)
	if err != nil {
		return nil, err
	}
	name, ok, err := bridge.Superclass(s, obj)
	if err != nil {
		return nil, m.signal(err)
	}
	if !ok {
		return Nil, nil
	}
	return m.syms.Intern(name), nil
}

// ClassName returns the symbol naming the class a class handle denotes.
func (m *Module) ClassName(cls Value) (Value, error) {
	obj, s, err := m.object(cls)
	if err != nil {
		return nil, err
	}
	name, err := bridge.ClassName(s, obj)
	if err != nil {
		return nil, m.signal(err)
	}
	return m.syms.Intern(name), nil
}

// ClassStructure describes a class as an alist. name may be a symbol, a
// string or a class handle.
func (m *Module) ClassStructure(name Value) (Value, error) {
	s, err := m.rt.Session()
	if err != nil {
		return nil, m.signal(err)
	}

	var d *extract.ClassDescriptor
	switch v := name.(type) {
	case *Symbol:
		d, err = extract.Extract(s, v.Name())
	case String:
		d, err = extract.Extract(s, string(v))
	case *UserPtr:
		d, err = extract.ExtractHandle(s, v.Object)
	default:
		return nil, m.signal(errors.WrongType("symbol", name))
	}
	if err != nil {
		return nil, m.signal(err)
	}
	return m.describe(d), nil
}

// NewInstance constructs an object through the class's no-argument
// constructor.
func (m *Module) NewInstance(cls Value) (Value, error) {
	obj, s, err := m.object(cls)
	if err != nil {
		return nil, err
	}
	inst, err := bridge.NewInstance(s, obj)
	if err != nil {
		return nil, m.signal(err)
	}
	return &UserPtr{Object: inst}, nil
}

// NewString creates a runtime string.
func (m *Module) NewString(text Value) (Value, error) {
	str, ok := text.(String)
	if !ok {
		return nil, m.signal(errors.WrongType("string", text))
	}
	s, err := m.rt.Session()
	if err != nil {
		return nil, m.signal(err)
	}
	obj, err := bridge.NewString(s, string(str))
	if err != nil {
		return nil, m.signal(err)
	}
	return &UserPtr{Object: obj}, nil
}

// ToDisplayString calls toString on an object.
func (m *Module) ToDisplayString(v Value) (Value, error) {
	obj, s, err := m.object(v)
	if err != nil {
		return nil, err
	}
	text, err := bridge.ToDisplayString(s, obj)
	if err != nil {
		return nil, m.signal(err)
	}
	return String(text), nil
}

// ObjectClass returns the symbol naming the class of a handle's object.
func (m *Module) ObjectClass(v Value) (Value, error) {
	p, ok := v.(*UserPtr)
	if !ok || p.Object == nil {
		return nil, m.signal(errors.WrongType("user-ptr", v))
	}
	return m.syms.Intern(bridge.ClassOf(p.Object)), nil
}

// Release releases a handle early. Releasing twice is a no-op.
func (m *Module) Release(v Value) (Value, error) {
	p, ok := v.(*UserPtr)
	if !ok || p.Object == nil {
		return nil, m.signal(errors.WrongType("user-ptr", v))
	}
	p.Object.Release()
	return T, nil
}

func (m *Module) object(v Value) (*bridge.Object, *control.Session, error) {
	p, ok := v.(*UserPtr)
	if !ok || p.Object == nil {
		return nil, nil, m.signal(errors.WrongType("user-ptr", v))
	}
	s, err := m.rt.Session()
	if err != nil {
		return nil, nil, m.signal(err)
	}
	return p.Object, s, nil
}
