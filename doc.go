// Package gargoyle lets a host environment introspect and drive objects that
// live in an embedded class-based virtual machine.
//
// # Architecture Overview
//
//	gargoyle/            Open: a started host module over the built-in runtime
//	├── host/            Host value model and the exposed operations
//	├── extract/         Class descriptors from the introspection interface
//	├── bridge/          Foreign object handles and exception translation
//	├── control/         Runtime start/stop state machine and sessions
//	├── signature/       Type descriptor grammar
//	├── classname/       Dotted and internal class names
//	├── jvm/             The runtime's call-context and introspection interfaces
//	├── memvm/           Pure Go runtime backed by class files
//	├── classfile/       Class file parser and encoder
//	├── resource/        Reference handle tables
//	├── config/          Start options from the environment
//	└── errors/          Structured error types
//
// # Quick Start
//
//	m, err := gargoyle.Open(ctx, config.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Stop(ctx)
//
//	desc, err := m.ClassStructure(host.String("java.lang.String"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(host.Print(desc))
//
// # References
//
// Every object handle returned to the host owns one durable runtime
// reference. Handles are released explicitly with Release or, when the
// host drops them, by a cleanup that queues the reference; the queue is
// drained at the start of the next bridge call and when the runtime stops.
//
// # Thread Safety
//
// The runtime is driven from a single logical thread. The only concurrent
// entry point is the cleanup queue.
//
// # Restart
//
// A runtime that has been stopped cannot be started again in the same
// process.
package gargoyle
