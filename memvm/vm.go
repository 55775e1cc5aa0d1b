package memvm

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/wippyai/gargoyle/classfile"
	"github.com/wippyai/gargoyle/errors"
	"github.com/wippyai/gargoyle/jvm"
	"github.com/wippyai/gargoyle/resource"
)

// defaultLocalCapacity is the local reference count past which -Xcheck:jni
// warns, until EnsureLocalCapacity raises it.
const defaultLocalCapacity = 16

// VM is an in-process runtime implementing jvm.VM.
type VM struct {
	logger *zap.Logger
	stderr io.Writer

	checkJNI   bool
	verbose    bool
	verboseJNI bool
	properties map[string]string

	classes  map[string]*Class
	loading  map[string]bool
	sources  []classSource
	misses   *lru.Cache[string, struct{}]
	methods  []*Method
	fields   []*Field
	core     coreClasses
	capacity int

	locals  *resource.Table[*Object]
	globals *resource.Table[*Object]

	pending   *Object
	nextID    uint32
	destroyed bool

	env       *env
	inspector *inspector

	mu sync.Mutex
}

var _ jvm.VM = (*VM)(nil)

// Stats is a snapshot of live VM state.
type Stats struct {
	LocalRefs      int
	GlobalRefs     int
	PeakLocalRefs  int
	PeakGlobalRefs int
	Classes        int
}

// Env returns the call-context API.
func (vm *VM) Env() jvm.Env {
	return vm.env
}

// Inspector returns the introspection API.
func (vm *VM) Inspector() jvm.Inspector {
	return vm.inspector
}

// Destroy releases every reference and closes classpath archives.
func (vm *VM) Destroy() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.destroyed {
		return jvm.ErrUnknown
	}
	vm.destroyed = true
	vm.pending = nil

	for _, src := range vm.sources {
		if err := src.Close(); err != nil {
			vm.logger.Warn("failed to close classpath entry",
				zap.Stringer("entry", src),
				zap.Error(err))
		}
	}
	_ = vm.locals.Close()
	_ = vm.globals.Close()

	vm.logger.Debug("vm destroyed", zap.Int("classes", len(vm.classes)))
	return jvm.OK
}

// Destroyed reports whether Destroy has run.
func (vm *VM) Destroyed() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.destroyed
}

// Stats returns live reference and class counts.
func (vm *VM) Stats() Stats {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return Stats{
		LocalRefs:      vm.locals.Len(),
		GlobalRefs:     vm.globals.Len(),
		PeakLocalRefs:  vm.locals.Peak(),
		PeakGlobalRefs: vm.globals.Peak(),
		Classes:        len(vm.classes),
	}
}

// ObserveLocals subscribes o to local reference creation and deletion.
func (vm *VM) ObserveLocals(o resource.Observer) {
	vm.locals.Subscribe(o)
}

// ObserveGlobals subscribes o to global reference creation and deletion.
func (vm *VM) ObserveGlobals(o resource.Observer) {
	vm.globals.Subscribe(o)
}

// Property returns a -D system property.
func (vm *VM) Property(name string) (string, bool) {
	v, ok := vm.properties[name]
	return v, ok
}

// Class returns a loaded class without triggering a load.
func (vm *VM) Class(name string) *Class {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.classes[name]
}

// Object resolves a live reference.
func (vm *VM) Object(ref jvm.Ref) (*Object, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.deref(ref)
}

// DefineClass parses class-file bytes and defines the class. Its superclass
// and interfaces must be loadable.
func (vm *VM) DefineClass(data []byte) (*Class, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	cf, err := classfile.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	name, err := cf.ClassName()
	if err != nil {
		return nil, err
	}
	if _, ok := vm.classes[name]; ok {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Class(name).
			Detail("duplicate class definition").
			Build()
	}
	vm.misses.Remove(name)
	return vm.define(name, cf, "defineClass")
}

// load returns the named class, reading it from the classpath on first use.
// A nil class with nil error means the name is not on the classpath.
func (vm *VM) load(name string) (*Class, error) {
	if c, ok := vm.classes[name]; ok {
		return c, nil
	}
	if vm.misses.Contains(name) {
		return nil, nil
	}
	if vm.loading[name] {
		return nil, errors.Load(fmt.Sprintf("class circularity: %s", name), nil)
	}

	for _, src := range vm.sources {
		data, err := src.find(name)
		if err != nil {
			return nil, errors.Load(fmt.Sprintf("read %s", name), err)
		}
		if data == nil {
			continue
		}

		cf, err := classfile.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		actual, err := cf.ClassName()
		if err != nil {
			return nil, err
		}
		if actual != name {
			return nil, errors.Load(fmt.Sprintf("%s (wrong name: %s)", name, actual), nil)
		}
		return vm.define(name, cf, src.String())
	}

	vm.misses.Add(name, struct{}{})
	return nil, nil
}

func (vm *VM) define(name string, cf *classfile.ClassFile, origin string) (*Class, error) {
	vm.loading[name] = true
	defer delete(vm.loading, name)

	c := &Class{Name: name, Access: cf.AccessFlags}

	superName, err := cf.SuperClassName()
	if err != nil {
		return nil, err
	}
	if superName != "" {
		super, err := vm.require(name, superName)
		if err != nil {
			return nil, err
		}
		if super.IsInterface() {
			return nil, errors.Load(fmt.Sprintf("%s: superclass %s is an interface", name, superName), nil)
		}
		c.Super = super
		c.slots = super.slots
	}

	ifaceNames, err := cf.InterfaceNames()
	if err != nil {
		return nil, err
	}
	for _, in := range ifaceNames {
		iface, err := vm.require(name, in)
		if err != nil {
			return nil, err
		}
		if !iface.IsInterface() {
			return nil, errors.Load(fmt.Sprintf("%s: %s is not an interface", name, in), nil)
		}
		c.Interfaces = append(c.Interfaces, iface)
	}

	for _, m := range cf.Methods {
		method := &Method{
			Class:      c,
			Name:       m.Name,
			Descriptor: m.Descriptor,
			Access:     m.AccessFlags,
			ID:         jvm.MethodID(len(vm.methods) + 1),
		}
		vm.methods = append(vm.methods, method)
		c.Methods = append(c.Methods, method)
	}

	for _, f := range cf.Fields {
		field := &Field{
			Class:      c,
			Name:       f.Name,
			Descriptor: f.Descriptor,
			Access:     f.AccessFlags,
			ID:         jvm.FieldID(len(vm.fields) + 1),
			slot:       -1,
		}
		if f.AccessFlags&classfile.AccStatic == 0 {
			field.slot = c.slots
			c.slots++
		}
		vm.fields = append(vm.fields, field)
		c.Fields = append(c.Fields, field)
	}

	vm.classes[name] = c

	if vm.verbose {
		vm.logger.Info("class load",
			zap.String("class", c.BinaryName()),
			zap.String("source", origin))
	}
	return c, nil
}

func (vm *VM) require(from, name string) (*Class, error) {
	c, err := vm.load(name)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.Load(fmt.Sprintf("%s: missing %s", from, name), nil)
	}
	return c, nil
}

// mirrorOf returns the java.lang.Class instance for c.
func (vm *VM) mirrorOf(c *Class) *Object {
	if c.mirror == nil {
		m := vm.alloc(vm.core.class)
		m.mirror = c
		c.mirror = m
	}
	return c.mirror
}

func (vm *VM) method(id jvm.MethodID) *Method {
	if id == 0 || int(id) > len(vm.methods) {
		return nil
	}
	return vm.methods[id-1]
}

func (vm *VM) field(id jvm.FieldID) *Field {
	if id == 0 || int(id) > len(vm.fields) {
		return nil
	}
	return vm.fields[id-1]
}
