package memvm

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/wippyai/gargoyle/errors"
	"github.com/wippyai/gargoyle/jvm"
	"github.com/wippyai/gargoyle/resource"
)

// DefaultMissCacheSize bounds the negative lookup cache.
const DefaultMissCacheSize = 1024

// Launcher creates in-process VMs. The zero value is usable.
type Launcher struct {
	// Logger defaults to the package Logger.
	Logger *zap.Logger
	// Stderr receives ExceptionDescribe output. Defaults to os.Stderr.
	Stderr io.Writer
	// ClassPath entries are searched after -Djava.class.path.
	ClassPath []string
	// JavaBase adds the installed JDK's java.base.jmod to the classpath.
	JavaBase bool
	// MissCacheSize bounds the negative lookup cache.
	MissCacheSize int
	// OnLaunch is called with every VM created.
	OnLaunch func(*VM)
}

var _ jvm.Launcher = (*Launcher)(nil)

// Launch creates a VM. On failure the returned code is the status a native
// runtime would report for the same input.
func (l *Launcher) Launch(ctx context.Context, args jvm.InitArgs) (jvm.VM, int, error) {
	vm, code, err := l.New(ctx, args)
	if err != nil {
		return nil, code, err
	}
	return vm, code, nil
}

// New is Launch returning the concrete VM.
func (l *Launcher) New(ctx context.Context, args jvm.InitArgs) (*VM, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, jvm.ErrUnknown, err
	}
	if !supportedVersion(args.Version) {
		return nil, jvm.ErrVersion, errors.New(errors.PhaseControl, errors.KindUnsupported).
			Value(args.Version).
			Detail("unsupported interface version 0x%08x", args.Version).
			Build()
	}

	log := l.Logger
	if log == nil {
		log = Logger()
	}
	stderr := l.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	size := l.MissCacheSize
	if size <= 0 {
		size = DefaultMissCacheSize
	}
	misses, err := lru.New[string, struct{}](size)
	if err != nil {
		return nil, jvm.ErrInval, err
	}

	vm := &VM{
		logger:     log,
		stderr:     stderr,
		properties: make(map[string]string),
		classes:    make(map[string]*Class),
		loading:    make(map[string]bool),
		misses:     misses,
		capacity:   defaultLocalCapacity,
		locals:     resource.NewTable[*Object](localTable),
		globals:    resource.NewTable[*Object](globalTable),
	}
	vm.env = &env{vm: vm}
	vm.inspector = &inspector{vm: vm}

	classPath, err := vm.applyOptions(args)
	if err != nil {
		return nil, jvm.ErrUnknown, err
	}
	classPath = append(classPath, l.ClassPath...)
	if l.JavaBase {
		if p := JavaBaseJmod(); p != "" {
			classPath = append(classPath, p)
		} else {
			log.Warn("java.base.jmod not found; set JAVA_HOME or JAVA_BASE_JMOD")
		}
	}

	for _, entry := range classPath {
		src, err := openSource(entry)
		if err != nil {
			// A missing entry is skipped, as a native runtime does.
			log.Warn("skipping classpath entry", zap.String("entry", entry), zap.Error(err))
			continue
		}
		vm.sources = append(vm.sources, src)
	}

	if err := vm.bootstrap(); err != nil {
		vm.Destroy()
		return nil, jvm.ErrUnknown, err
	}

	log.Debug("vm created",
		zap.Int("classpath", len(vm.sources)),
		zap.Bool("checkJNI", vm.checkJNI))
	if l.OnLaunch != nil {
		l.OnLaunch(vm)
	}
	return vm, jvm.OK, nil
}

// applyOptions interprets option strings and returns the classpath they set.
func (vm *VM) applyOptions(args jvm.InitArgs) ([]string, error) {
	var classPath []string
	for _, opt := range args.Options {
		switch {
		case opt == "-Xcheck:jni":
			vm.checkJNI = true
		case opt == "-verbose:class":
			vm.verbose = true
		case opt == "-verbose:jni":
			vm.verboseJNI = true
		case opt == "-verbose:gc", opt == "-verbose":
		case strings.HasPrefix(opt, "-Djava.class.path="):
			value := strings.TrimPrefix(opt, "-Djava.class.path=")
			vm.properties["java.class.path"] = value
			classPath = append(classPath, splitPath(value)...)
		case strings.HasPrefix(opt, "-D"):
			key, value, _ := strings.Cut(strings.TrimPrefix(opt, "-D"), "=")
			if key == "" {
				return nil, errors.InvalidInput(errors.PhaseControl, fmt.Sprintf("invalid property option %q", opt))
			}
			vm.properties[key] = value
		case strings.HasPrefix(opt, "-Xms"), strings.HasPrefix(opt, "-Xmx"), strings.HasPrefix(opt, "-Xss"):
		case args.IgnoreUnrecognized && (strings.HasPrefix(opt, "-X") || strings.HasPrefix(opt, "_")):
			vm.logger.Debug("ignoring option", zap.String("option", opt))
		default:
			return nil, errors.InvalidInput(errors.PhaseControl, fmt.Sprintf("unrecognized option: %s", opt))
		}
	}
	return classPath, nil
}

func splitPath(value string) []string {
	var out []string
	for _, p := range filepath.SplitList(value) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func supportedVersion(v int32) bool {
	switch v {
	case jvm.Version1_1:
		// 1.1 is not accepted by creation, only reported.
		return false
	case jvm.Version1_2, jvm.Version1_4, jvm.Version1_6, jvm.Version1_8,
		jvm.Version9, jvm.Version10, jvm.Version19, jvm.Version20, jvm.Version21:
		return true
	}
	return false
}
