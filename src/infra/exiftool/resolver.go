package exiftool

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// BinaryResolver locates an external executable by name. Injected so
// the protocol and decode layers carry no PATH or environment
// dependence of their own.
type BinaryResolver interface {
	Resolve(name string) (string, error)
}

// PathResolver resolves names against the process PATH and verifies the
// result is a readable, executable regular file.
type PathResolver struct{}

func (PathResolver) Resolve(name string) (string, error) {
	p, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("locating %s: %w", name, err)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", p, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", abs, err)
	}
	if !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
		return "", fmt.Errorf("%s is not executable", abs)
	}
	f, err := os.Open(abs)
	if err != nil {
		return "", fmt.Errorf("%s is not readable: %w", abs, err)
	}
	f.Close()
	return abs, nil
}
