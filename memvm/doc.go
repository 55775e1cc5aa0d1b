// Package memvm is an in-process implementation of the jvm API.
//
// A VM holds classes parsed from class files: a bootstrap set of core
// java.lang classes, plus whatever the classpath provides (directories,
// .jar archives and .jmod modules). Classes are loaded lazily on first
// lookup and stay loaded until the VM is destroyed. Names that are not on
// the classpath are remembered in a bounded LRU so repeated misses do not
// rescan archives.
//
//	l := &memvm.Launcher{Logger: log}
//	vm, code, err := l.Launch(ctx, jvm.InitArgs{
//	    Version: jvm.Version1_8,
//	    Options: []string{"-Xcheck:jni", "-Djava.class.path=build/classes"},
//	})
//
// # Execution
//
// Method bodies are never run. NewObject allocates an instance with zero
// fields for classes with a no-argument constructor. CallObjectMethod
// supports a fixed set of intrinsics (toString, getClass, getName,
// getMessage, getSuperclass, intern); anything else raises
// UnsupportedOperationException.
//
// # References
//
// Local and global references live in two resource.Tables. The low bit of
// a Ref selects the table and the remaining bits are the handle. With
// -Xcheck:jni, stale or mismatched references are logged and raise
// IllegalArgumentException; otherwise they are ignored.
//
// # Options
//
//	-Xcheck:jni             reference checking and local capacity warnings
//	-verbose:class          log each class load at info level
//	-verbose:jni            log each call at debug level
//	-Djava.class.path=...   classpath, separated by the OS path list separator
//	-Dkey=value             system property
//	-Xms -Xmx -Xss          accepted and ignored
//
// Other options fail creation unless IgnoreUnrecognized is set and the
// option starts with -X or _.
package memvm
