package memvm

import (
	"fmt"

	"go.uber.org/zap"
)

// throw makes a new throwable of the named class pending. The class must
// be a bootstrap class.
func (vm *VM) throw(className, msg string) {
	c := vm.classes[className]
	if c == nil {
		vm.logger.Error("missing exception class", zap.String("class", className))
		c = vm.core.throwable
	}
	t := vm.alloc(c)
	t.text = msg
	t.hasMsg = msg != ""
	vm.pending = t

	if vm.verboseJNI {
		vm.logger.Debug("exception raised",
			zap.String("class", c.BinaryName()),
			zap.String("message", msg))
	}
}

func (vm *VM) throwf(className, format string, args ...any) {
	vm.throw(className, fmt.Sprintf(format, args...))
}
