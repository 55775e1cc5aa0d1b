package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/gargoyle/errors"
	"github.com/wippyai/gargoyle/jvm"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvClassPath, EnvJVMOptions, EnvIgnoreUnrecognized, EnvVersion} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	opts := Default()
	assert.Equal(t, []string{"-Xcheck:jni"}, opts.JVMOptions)
	assert.NoError(t, opts.Validate())

	args := opts.InitArgs()
	assert.Equal(t, jvm.Version1_8, args.Version)
	assert.Equal(t, []string{"-Xcheck:jni"}, args.Options)
	assert.False(t, args.IgnoreUnrecognized)
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	sep := string(os.PathListSeparator)
	t.Setenv(EnvClassPath, "lib/a.jar"+sep+sep+"build/classes")
	t.Setenv(EnvJVMOptions, "-Xcheck:jni  -verbose:class")
	t.Setenv(EnvIgnoreUnrecognized, "true")
	t.Setenv(EnvVersion, "21")

	opts, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/a.jar", "build/classes"}, opts.ClassPath)
	assert.Equal(t, []string{"-Xcheck:jni", "-verbose:class"}, opts.JVMOptions)
	assert.True(t, opts.IgnoreUnrecognized)

	args := opts.InitArgs()
	assert.Equal(t, jvm.Version21, args.Version)
	assert.Equal(t, "-Djava.class.path=lib/a.jar"+sep+"build/classes", args.Options[len(args.Options)-1])
	assert.Len(t, opts.JVMOptions, 2, "InitArgs must not alias the options slice")
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad bool", EnvIgnoreUnrecognized, "maybe"},
		{"bad option", EnvJVMOptions, "-Xcheck:jni vfprintf"},
		{"bad version", EnvVersion, "1.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			require.Error(t, err)
			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, errors.PhaseConfig, e.Phase)
			assert.Equal(t, errors.KindInvalidInput, e.Kind)
		})
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, even
	// when empty.
	for _, k := range []string{EnvClassPath, EnvJVMOptions, EnvIgnoreUnrecognized, EnvVersion} {
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for _, k := range []string{EnvClassPath, EnvJVMOptions} {
			os.Unsetenv(k)
		}
	})

	path := filepath.Join(t.TempDir(), "test.env")
	content := strings.Join([]string{
		EnvClassPath + "=out/classes",
		EnvJVMOptions + `="-Xcheck:jni -Dmode=test"`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	opts, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"out/classes"}, opts.ClassPath)
	assert.Equal(t, []string{"-Xcheck:jni", "-Dmode=test"}, opts.JVMOptions)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestVersionCode(t *testing.T) {
	tests := map[string]int32{
		"":    jvm.Version1_8,
		"1.2": jvm.Version1_2,
		"1.8": jvm.Version1_8,
		"10":  jvm.Version10,
		"zzz": jvm.Version1_8,
	}
	for name, want := range tests {
		assert.Equal(t, want, VersionCode(name), name)
	}
}
