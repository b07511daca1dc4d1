//go:build mage

// Package main provides build targets for the pebble project using Mage.
//
// Usage:
//
//	mage build     Compile the pebble binary to bin/
//	mage test      Run all tests
//	mage testUnit  Run tests without the CLI package
//	mage cover     Write a coverage profile to bin/cover.out
//	mage lint      Run golangci-lint
//	mage clean     Remove build artifacts
//	mage install   Install pebble to GOPATH/bin
//	mage stats     Print lines of Go per package
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "pebble"
	binaryDir  = "bin"
	cmdDir     = "./cmd/pebble"
	cmdPkg     = "/cmd/"
)

// Build compiles the pebble binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs every test.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// TestUnit runs the library tests, leaving out the CLI.
func TestUnit() error {
	pkgs, err := sh.Output(binGo, "list", "./...")
	if err != nil {
		return err
	}
	var lib []string
	for _, pkg := range strings.Split(pkgs, "\n") {
		if pkg != "" && !strings.Contains(pkg, cmdPkg) {
			lib = append(lib, pkg)
		}
	}
	if len(lib) == 0 {
		fmt.Println("No library packages found.")
		return nil
	}
	return sh.RunV(binGo, append([]string{"test"}, lib...)...)
}

// Cover writes a coverage profile for all packages.
func Cover() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	profile := filepath.Join(binaryDir, "cover.out")
	if err := sh.RunV(binGo, "test", "-coverprofile", profile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func", profile)
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), filepath.Join(binaryDir, binaryName))
}

type lineCount struct {
	prod, test int
}

// Stats prints production and test lines of Go for each package directory.
func Stats() error {
	counts := map[string]*lineCount{}
	err := filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", "vendor", "_examples", "magefiles", binaryDir:
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return nil
		}
		dir := filepath.Dir(path)
		c, ok := counts[dir]
		if !ok {
			c = &lineCount{}
			counts[dir] = c
		}
		if strings.HasSuffix(path, "_test.go") {
			c.test += n
		} else {
			c.prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(counts))
	for dir := range counts {
		dirs = append(dirs, dir)
	}
	slices.Sort(dirs)

	var total lineCount
	fmt.Printf("%-24s %8s %8s\n", "package", "prod", "test")
	for _, dir := range dirs {
		c := counts[dir]
		fmt.Printf("%-24s %8d %8d\n", dir, c.prod, c.test)
		total.prod += c.prod
		total.test += c.test
	}
	fmt.Printf("%-24s %8d %8d\n", "total", total.prod, total.test)
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
