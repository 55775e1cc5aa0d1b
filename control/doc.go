// Package control owns the lifecycle of the embedded runtime.
//
// A process gets at most one runtime. Runtime moves through three states
// and never goes back:
//
//	uninitialized --Start--> running --Stop--> stopped
//
// Start in the running state fails with already_running; Start after Stop
// fails with restart_forbidden, because a destroyed runtime cannot be
// created again in the same process. A failed Start leaves the runtime
// uninitialized.
//
// Start returns a Session: the handle every bridge and extraction call
// takes. It exposes the call-context and introspection APIs and fails
// with not_running once the runtime is stopped.
//
// Sessions also own the release queue. Releases requested off the primary
// context (from cleanup functions) are queued and performed by Drain, which
// the bridge calls at the start of each operation and Stop calls before
// destroying the runtime.
package control
