package host

import (
	stderrors "errors"

	"github.com/wippyai/gargoyle/bridge"
	"github.com/wippyai/gargoyle/errors"
)

// Signal is a host-level non-local exit: an error symbol plus data. It
// wraps the Go error it was built from.
type Signal struct {
	Symbol *Symbol
	Data   Value
	Err    error
}

func (s *Signal) Error() string {
	return s.Symbol.Name() + ": " + Print(s.Data)
}

func (s *Signal) Unwrap() error {
	return s.Err
}

// signal converts an error from the core into the signal the host sees.
// Runtime exceptions carry the throwable handle, type errors carry the
// expected type and the offending value, everything else carries a message.
func (m *Module) signal(err error) error {
	if err == nil {
		return nil
	}
	var exc *bridge.RuntimeException
	if stderrors.As(err, &exc) {
		return &Signal{
			Symbol: m.syms.Intern("java-exception"),
			Data:   &UserPtr{Object: exc.Throwable},
			Err:    err,
		}
	}
	var e *errors.Error
	if stderrors.As(err, &e) && e.Kind == errors.KindWrongType {
		var got Value = Nil
		switch v := e.Value.(type) {
		case Value:
			got = v
		case string:
			got = m.syms.Intern(v)
		}
		return &Signal{
			Symbol: m.syms.Intern("wrong-type-argument"),
			Data:   List(String(e.Detail), m.syms.Intern(TypeOf(got)), got),
			Err:    err,
		}
	}
	return &Signal{
		Symbol: m.syms.Intern("error"),
		Data:   List(String(err.Error())),
		Err:    err,
	}
}
