package control

import (
	"github.com/wippyai/gargoyle/jvm"
	"github.com/wippyai/gargoyle/memvm"
	"github.com/wippyai/gargoyle/resource"
)

// resourceObserver reports each dropped global reference.
func resourceObserver(fn func(jvm.Ref)) resource.Observer {
	return resource.ObserverFunc(func(e resource.Event) {
		if e.Type == resource.EventDropped {
			fn(memvm.EventRef(e))
		}
	})
}
