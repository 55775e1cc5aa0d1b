// Package resource provides handle tables with lifecycle notifications.
//
// A Table maps small non-zero integer handles to Go values. The built-in
// runtime keeps one table for local references and one for global
// references; the handle is what a reference encodes.
//
//	locals := resource.NewTable[*Object]("local")
//
//	h, err := locals.Insert(obj)
//	obj, ok := locals.Get(h)
//	obj, ok = locals.Remove(h)
//
// Handle 0 is never issued. Removed handles are reused, most recently
// freed first, so a stale handle may alias a newer value.
//
// # Observers
//
// Observers see every insert and removal:
//
//	locals.Subscribe(resource.ObserverFunc(func(e resource.Event) {
//	    if e.Type == resource.EventDropped {
//	        log.Printf("%s ref %d dropped", e.Table, e.Handle)
//	    }
//	}))
//
// Tests use this to count promotions and demotions per handle.
//
// # Limits
//
// WithLimit bounds the number of live handles; Insert past the limit
// returns ErrFull. Close removes everything, calling Drop on values that
// implement Dropper.
package resource
