package extract

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/wippyai/gargoyle/bridge"
	"github.com/wippyai/gargoyle/classname"
	"github.com/wippyai/gargoyle/control"
	"github.com/wippyai/gargoyle/errors"
	"github.com/wippyai/gargoyle/jvm"
	"github.com/wippyai/gargoyle/signature"
)

// localScope collects local references created during one extraction and
// deletes them in reverse order.
type localScope struct {
	env  jvm.Env
	refs []jvm.Ref
}

func (l *localScope) add(ref jvm.Ref) jvm.Ref {
	if ref != 0 {
		l.refs = append(l.refs, ref)
	}
	return ref
}

func (l *localScope) release() {
	for i := len(l.refs) - 1; i >= 0; i-- {
		l.env.DeleteLocalRef(l.refs[i])
	}
	l.refs = nil
}

// extractor carries the per-call state of one extraction.
type extractor struct {
	s     *control.Session
	env   jvm.Env
	insp  jvm.Inspector
	scope *localScope
	class string
}

// Extract resolves a class by dotted or internal name and describes it.
func Extract(s *control.Session, name string) (*ClassDescriptor, error) {
	x, err := begin(s)
	if err != nil {
		return nil, err
	}
	defer x.scope.release()

	if name == "" {
		return nil, errors.InvalidInput(errors.PhaseLookup, "empty class name")
	}
	internal := classname.ToInternal(name)
	cls := x.scope.add(x.env.FindClass(internal))
	if cls == 0 {
		var cause error
		if msg, ok := bridge.Discard(s); ok {
			cause = errors.New(errors.PhaseLookup, errors.KindRuntimeException).Detail("%s", msg).Build()
		}
		return nil, errors.ClassNotFound(classname.ToCanonical(internal), cause)
	}
	return x.describe(cls)
}

// ExtractRef describes the class a raw reference denotes. The caller keeps
// ownership of cls.
func ExtractRef(s *control.Session, cls jvm.Ref) (*ClassDescriptor, error) {
	if cls == 0 {
		return nil, errors.InvalidInput(errors.PhaseExtract, "null class reference")
	}
	x, err := begin(s)
	if err != nil {
		return nil, err
	}
	defer x.scope.release()
	return x.describe(cls)
}

// ExtractHandle describes the class a bridge class handle denotes.
func ExtractHandle(s *control.Session, cls *bridge.Object) (*ClassDescriptor, error) {
	ref, err := bridge.Unwrap(cls)
	if err != nil {
		return nil, err
	}
	if cls.ClassName() != bridge.ClassClass {
		return nil, errors.WrongType("class handle", cls.ClassName())
	}
	defer runtime.KeepAlive(cls)
	return ExtractRef(s, ref)
}

func begin(s *control.Session) (*extractor, error) {
	env, err := s.Env()
	if err != nil {
		return nil, err
	}
	insp, err := s.Inspector()
	if err != nil {
		return nil, err
	}
	s.Drain()
	return &extractor{
		s:     s,
		env:   env,
		insp:  insp,
		scope: &localScope{env: env},
	}, nil
}

func (x *extractor) describe(cls jvm.Ref) (*ClassDescriptor, error) {
	name, err := x.className(cls)
	if err != nil {
		return nil, err
	}
	x.class = name

	mods, code := x.insp.GetClassModifiers(cls)
	if code != jvm.ErrNone {
		return nil, errors.Introspection(name, "GetClassModifiers", code)
	}

	d := &ClassDescriptor{
		Name:       name,
		Interfaces: []string{},
		Methods:    []MethodDescriptor{},
		Fields:     []FieldDescriptor{},
		Modifiers:  ClassModifiers(mods),
	}

	if d.Superclass, err = x.superclass(cls); err != nil {
		return nil, err
	}
	if d.Interfaces, err = x.interfaces(cls); err != nil {
		return nil, err
	}
	if d.Methods, err = x.methods(cls); err != nil {
		return nil, err
	}
	if d.Fields, err = x.fields(cls); err != nil {
		return nil, err
	}

	x.s.Logger().Debug("class extracted",
		zap.String("class", name),
		zap.Int("interfaces", len(d.Interfaces)),
		zap.Int("methods", len(d.Methods)),
		zap.Int("fields", len(d.Fields)))
	return d, nil
}

func (x *extractor) className(cls jvm.Ref) (string, error) {
	sig, code := x.insp.GetClassSignature(cls)
	if code != jvm.ErrNone {
		return "", errors.Introspection(x.class, "GetClassSignature", code)
	}
	t, err := signature.DecodeField(sig)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

func (x *extractor) superclass(cls jvm.Ref) (string, error) {
	super := x.scope.add(x.env.GetSuperclass(cls))
	if err := bridge.Check(x.s); err != nil {
		return "", err
	}
	if super == 0 {
		return "", nil
	}
	return x.className(super)
}

func (x *extractor) interfaces(cls jvm.Ref) ([]string, error) {
	refs, code := x.insp.GetImplementedInterfaces(cls)
	for _, r := range refs {
		x.scope.add(r)
	}
	if code != jvm.ErrNone {
		return nil, errors.Introspection(x.class, "GetImplementedInterfaces", code)
	}
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		name, err := x.className(r)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

func (x *extractor) methods(cls jvm.Ref) ([]MethodDescriptor, error) {
	ids, code := x.insp.GetClassMethods(cls)
	if code != jvm.ErrNone {
		return nil, errors.Introspection(x.class, "GetClassMethods", code)
	}
	out := make([]MethodDescriptor, 0, len(ids))
	for _, id := range ids {
		name, sig, code := x.insp.GetMethodName(id)
		if code != jvm.ErrNone {
			return nil, errors.Introspection(x.class, "GetMethodName", code)
		}
		mods, code := x.insp.GetMethodModifiers(id)
		if code != jvm.ErrNone {
			return nil, errors.Introspection(x.class, "GetMethodModifiers", code)
		}
		params, ret, err := signature.DecodeMethod(sig)
		if err != nil {
			return nil, x.member(err, "methods", name)
		}
		out = append(out, MethodDescriptor{
			Name:       name,
			Parameters: params,
			ReturnType: ret,
			Modifiers:  MethodModifiers(mods),
		})
	}
	return out, nil
}

func (x *extractor) fields(cls jvm.Ref) ([]FieldDescriptor, error) {
	ids, code := x.insp.GetClassFields(cls)
	if code != jvm.ErrNone {
		return nil, errors.Introspection(x.class, "GetClassFields", code)
	}
	out := make([]FieldDescriptor, 0, len(ids))
	for _, id := range ids {
		name, sig, code := x.insp.GetFieldName(cls, id)
		if code != jvm.ErrNone {
			return nil, errors.Introspection(x.class, "GetFieldName", code)
		}
		mods, code := x.insp.GetFieldModifiers(cls, id)
		if code != jvm.ErrNone {
			return nil, errors.Introspection(x.class, "GetFieldModifiers", code)
		}
		t, err := signature.DecodeField(sig)
		if err != nil {
			return nil, x.member(err, "fields", name)
		}
		out = append(out, FieldDescriptor{
			Name:      name,
			Type:      t,
			Modifiers: FieldModifiers(mods),
		})
	}
	return out, nil
}

// member attaches the class and member path to a decode failure.
func (x *extractor) member(err error, kind, name string) error {
	if e, ok := err.(*errors.Error); ok {
		e.Class = x.class
		e.Path = []string{kind, name}
		return e
	}
	return err
}
