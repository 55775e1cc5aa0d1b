package memvm

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// classSource yields raw class-file bytes by internal name. find returns
// (nil, nil) when the source does not have the class.
type classSource interface {
	find(name string) ([]byte, error)
	Close() error
	String() string
}

// jmodMagic prefixes the zip payload of a .jmod file.
var jmodMagic = []byte{'J', 'M', 0x01, 0x00}

func openSource(path string) (classSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return &dirSource{root: path}, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jar", ".zip":
		return openJar(path)
	case ".jmod":
		return openJmod(path)
	}
	return nil, fmt.Errorf("unsupported classpath entry %s", path)
}

// dirSource reads classes from a directory tree laid out by package.
type dirSource struct {
	root string
}

func (d *dirSource) find(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(d.root, filepath.FromSlash(name)+".class"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (d *dirSource) Close() error   { return nil }
func (d *dirSource) String() string { return d.root }

// zipSource reads classes from a jar, or from the classes/ tree of a jmod.
type zipSource struct {
	path   string
	prefix string
	files  map[string]*zip.File
	closer io.Closer
}

func openJar(path string) (*zipSource, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("jar: opening %s: %w", path, err)
	}
	return newZipSource(path, "", &rc.Reader, rc), nil
}

func openJmod(path string) (*zipSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jmod: reading %s: %w", path, err)
	}
	if !bytes.HasPrefix(data, jmodMagic) {
		return nil, fmt.Errorf("jmod: %s: bad header", path)
	}
	data = data[len(jmodMagic):]

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("jmod: opening zip: %w", err)
	}
	return newZipSource(path, "classes/", zr, nil), nil
}

func newZipSource(path, prefix string, zr *zip.Reader, closer io.Closer) *zipSource {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		name, ok := strings.CutPrefix(f.Name, prefix)
		if !ok || !strings.HasSuffix(name, ".class") {
			continue
		}
		files[strings.TrimSuffix(name, ".class")] = f
	}
	return &zipSource{path: path, prefix: prefix, files: files, closer: closer}
}

func (z *zipSource) find(name string) ([]byte, error) {
	f, ok := z.files[name]
	if !ok {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%s: opening %s: %w", z.path, f.Name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (z *zipSource) Close() error {
	if z.closer != nil {
		return z.closer.Close()
	}
	return nil
}

func (z *zipSource) String() string { return z.path }

// JavaBaseJmod locates java.base.jmod of an installed JDK: JAVA_BASE_JMOD,
// then JAVA_HOME/jmods, then the usual Linux install paths. It returns ""
// when none is found.
func JavaBaseJmod() string {
	if env := os.Getenv("JAVA_BASE_JMOD"); env != "" {
		return env
	}
	if javaHome := os.Getenv("JAVA_HOME"); javaHome != "" {
		p := filepath.Join(javaHome, "jmods", "java.base.jmod")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	matches, _ := filepath.Glob("/usr/lib/jvm/java-*-openjdk-*/jmods/java.base.jmod")
	if len(matches) > 0 {
		return matches[0]
	}
	return ""
}
