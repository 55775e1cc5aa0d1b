package host

import (
	"strconv"
	"strings"
	"sync"

	"github.com/wippyai/gargoyle/bridge"
)

// Value is a host-side value. The set of implementations is closed.
type Value interface {
	isValue()
}

// Symbol is an interned name. Two symbols from the same Interner are equal
// iff they are the same pointer.
type Symbol struct {
	name string
}

// String is a host string.
type String string

// Int is a host integer.
type Int int64

// Cons is a pair. Lists are chains of conses ending in Nil.
type Cons struct {
	Car Value
	Cdr Value
}

// UserPtr carries a foreign object handle.
type UserPtr struct {
	Object *bridge.Object
}

func (*Symbol) isValue()  {}
func (String) isValue()   {}
func (Int) isValue()      {}
func (*Cons) isValue()    {}
func (*UserPtr) isValue() {}

// Nil and T are shared by every Interner.
var (
	Nil = &Symbol{name: "nil"}
	T   = &Symbol{name: "t"}
)

// Name returns the symbol's print name.
func (s *Symbol) Name() string { return s.name }

func (s *Symbol) String() string { return s.name }

// Interner maps names to unique symbols.
type Interner struct {
	mu      sync.Mutex
	symbols map[string]*Symbol
}

// NewInterner returns an interner that already knows nil and t.
func NewInterner() *Interner {
	return &Interner{symbols: map[string]*Symbol{
		Nil.name: Nil,
		T.name:   T,
	}}
}

// Intern returns the unique symbol for name.
func (in *Interner) Intern(name string) *Symbol {
	in.mu.Lock()
	defer in.mu.Unlock()
	if s, ok := in.symbols[name]; ok {
		return s
	}
	s := &Symbol{name: name}
	in.symbols[name] = s
	return s
}

// Bool converts b to T or Nil.
func Bool(b bool) Value {
	if b {
		return T
	}
	return Nil
}

// List builds a proper list.
func List(vals ...Value) Value {
	var out Value = Nil
	for i := len(vals) - 1; i >= 0; i-- {
		out = &Cons{Car: vals[i], Cdr: out}
	}
	return out
}

// Pair builds a dotted pair.
func Pair(car, cdr Value) *Cons {
	return &Cons{Car: car, Cdr: cdr}
}

// Alist builds an association list from key/value pairs.
func Alist(entries ...*Cons) Value {
	vals := make([]Value, len(entries))
	for i, e := range entries {
		vals[i] = e
	}
	return List(vals...)
}

// Slice flattens a proper list. It reports false for improper lists.
func Slice(v Value) ([]Value, bool) {
	var out []Value
	for {
		switch c := v.(type) {
		case *Symbol:
			return out, c == Nil
		case *Cons:
			out = append(out, c.Car)
			v = c.Cdr
		default:
			return nil, false
		}
	}
}

// Assq returns the cdr of the first entry whose car is key.
func Assq(key *Symbol, alist Value) (Value, bool) {
	entries, ok := Slice(alist)
	if !ok {
		return nil, false
	}
	for _, e := range entries {
		if c, ok := e.(*Cons); ok && c.Car == key {
			return c.Cdr, true
		}
	}
	return nil, false
}

// TypeOf names v's host type.
func TypeOf(v Value) string {
	switch v.(type) {
	case *Symbol:
		return "symbol"
	case String:
		return "string"
	case Int:
		return "integer"
	case *Cons:
		return "cons"
	case *UserPtr:
		return "user-ptr"
	case nil:
		return "void"
	}
	return "unknown"
}

// Print renders v in read syntax.
func Print(v Value) string {
	var b strings.Builder
	write(&b, v)
	return b.String()
}

func write(b *strings.Builder, v Value) {
	switch x := v.(type) {
	case *Symbol:
		b.WriteString(x.name)
	case String:
		printString(b, string(x))
	case Int:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case *Cons:
		b.WriteByte('(')
		write(b, x.Car)
		rest := x.Cdr
		for {
			if c, ok := rest.(*Cons); ok {
				b.WriteByte(' ')
				write(b, c.Car)
				rest = c.Cdr
				continue
			}
			if rest != Nil {
				b.WriteString(" . ")
				write(b, rest)
			}
			break
		}
		b.WriteByte(')')
	case *UserPtr:
		b.WriteString("#<user-ptr ")
		if x.Object != nil {
			b.WriteString(bridge.ClassOf(x.Object))
		}
		b.WriteByte('>')
	default:
		b.WriteString("#<void>")
	}
}

func printString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
}
