// Package config loads runtime start options from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/wippyai/gargoyle/errors"
	"github.com/wippyai/gargoyle/jvm"
)

// Environment variables read by Load.
const (
	EnvClassPath          = "GARGOYLE_CLASSPATH"
	EnvJVMOptions         = "GARGOYLE_JVM_OPTIONS"
	EnvIgnoreUnrecognized = "GARGOYLE_IGNORE_UNRECOGNIZED"
	EnvVersion            = "GARGOYLE_JNI_VERSION"
)

// DefaultVersion is the interface version requested at start.
const DefaultVersion = "1.8"

var validate = validator.New()

// Options are the runtime start options.
type Options struct {
	ClassPath          []string `validate:"dive,required"`
	JVMOptions         []string `validate:"dive,required,startswith=-|startswith=_"`
	Version            string   `validate:"omitempty,oneof=1.2 1.4 1.6 1.8 9 10 19 20 21"`
	IgnoreUnrecognized bool
}

// Default returns the options used when nothing is configured: reference
// checking on and interface version 1.8.
func Default() Options {
	return Options{
		JVMOptions: []string{"-Xcheck:jni"},
		Version:    DefaultVersion,
	}
}

// Load reads a .env file from the working directory when present, then
// overlays the GARGOYLE_* variables on Default.
func Load() (Options, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// LoadFile is Load with an explicit .env file, which must exist.
func LoadFile(path string) (Options, error) {
	if err := godotenv.Load(path); err != nil {
		return Options{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "load "+path)
	}
	return FromEnv()
}

// FromEnv overlays the GARGOYLE_* variables on Default without reading any
// file.
func FromEnv() (Options, error) {
	opts := Default()

	if v := strings.TrimSpace(os.Getenv(EnvClassPath)); v != "" {
		opts.ClassPath = SplitClassPath(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvJVMOptions)); v != "" {
		opts.JVMOptions = strings.Fields(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvIgnoreUnrecognized)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Options{}, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Path(EnvIgnoreUnrecognized).
				Value(v).
				Cause(err).
				Detail("not a boolean").
				Build()
		}
		opts.IgnoreUnrecognized = b
	}
	if v := strings.TrimSpace(os.Getenv(EnvVersion)); v != "" {
		opts.Version = v
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// SplitClassPath splits a path list on the OS separator, dropping empty
// entries.
func SplitClassPath(value string) []string {
	var out []string
	for _, p := range filepath.SplitList(value) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks option syntax.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "invalid options")
	}
	return nil
}

// InitArgs converts the options to runtime creation arguments. A non-empty
// ClassPath becomes a -Djava.class.path option after the explicit ones.
func (o Options) InitArgs() jvm.InitArgs {
	args := jvm.InitArgs{
		Options:            append([]string(nil), o.JVMOptions...),
		Version:            VersionCode(o.Version),
		IgnoreUnrecognized: o.IgnoreUnrecognized,
	}
	if len(o.ClassPath) > 0 {
		args.Options = append(args.Options,
			"-Djava.class.path="+strings.Join(o.ClassPath, string(os.PathListSeparator)))
	}
	return args
}

// VersionCode maps a version name to its interface code. Unknown and empty
// names map to 1.8.
func VersionCode(name string) int32 {
	switch name {
	case "1.2":
		return jvm.Version1_2
	case "1.4":
		return jvm.Version1_4
	case "1.6":
		return jvm.Version1_6
	case "9":
		return jvm.Version9
	case "10":
		return jvm.Version10
	case "19":
		return jvm.Version19
	case "20":
		return jvm.Version20
	case "21":
		return jvm.Version21
	}
	return jvm.Version1_8
}
