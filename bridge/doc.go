// Package bridge wraps runtime object references in host-held handles.
//
// Every reference that crosses into host-held state goes through Wrap,
// which promotes it to a global reference. The Object it returns owns that
// one global reference and demotes it exactly once: either when Release is
// called, or, if the Object becomes unreachable first, through a cleanup
// that queues the reference on the Session. Queued references are deleted
// at the start of the next bridge operation and when the runtime stops.
//
// Runtime calls report failure through a pending exception. Every call
// site here checks for one immediately after the call; Check clears it,
// wraps the throwable and returns it as a *RuntimeException.
//
//	cls, err := bridge.FindClass(s, "java.lang.StringBuilder")
//	if err != nil {
//	    return err
//	}
//	defer cls.Release()
//
//	obj, err := bridge.NewInstance(s, cls)
//	var rex *bridge.RuntimeException
//	if errors.As(err, &rex) {
//	    defer rex.Throwable.Release()
//	    log.Print(rex.Message)
//	}
package bridge
