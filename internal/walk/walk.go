// Package walk expands path arguments into the ordered list of regular
// files a run will process.
//
// Directories are walked recursively with hidden entries excluded by
// default. Glob patterns (including **) are expanded with doublestar.
// Non-regular files — symlinks, FIFOs, devices — are skipped silently:
// rewriting through a symlink or into a pipe is never what the operator
// meant. Missing paths are reported and skipped.
package walk

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Options configures argument expansion.
type Options struct {
	Hidden bool // include hidden files and directories when walking
}

// Expand resolves args to regular file paths, preserving argument order.
// Failures are reported on errOut in the run's diagnostic format; they
// never abort expansion.
func Expand(args []string, opts Options, errOut io.Writer) []string {
	var files []string
	for _, arg := range args {
		if isPattern(arg) {
			matches, err := doublestar.FilepathGlob(arg)
			if err != nil {
				fmt.Fprintf(errOut, "gres: %s: %v\n", arg, err)
				continue
			}
			for _, m := range matches {
				files = appendPath(files, m, opts, errOut, false)
			}
			continue
		}
		files = appendPath(files, arg, opts, errOut, true)
	}
	return files
}

// appendPath adds one resolved path: files directly, directories by
// walking. explicit marks paths the operator named literally, which are
// reported when missing; glob expansions fail silently on races.
func appendPath(files []string, path string, opts Options, errOut io.Writer, explicit bool) []string {
	info, err := os.Lstat(path)
	if err != nil {
		if explicit {
			fmt.Fprintf(errOut, "gres: %s: %v\n", path, err)
		}
		return files
	}

	switch {
	case info.Mode().IsRegular():
		return append(files, path)
	case info.IsDir():
		return walkDir(files, path, opts, errOut)
	default:
		// Symlink, FIFO, device: silently skipped.
		return files
	}
}

// walkDir collects regular files under root, honouring the hidden
// filter. The root itself may be hidden (the operator named it).
func walkDir(files []string, root string, opts Options, errOut io.Writer) []string {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			fmt.Fprintf(errOut, "gres: %s: %v\n", path, err)
			return nil
		}
		if path != root && !opts.Hidden && hidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(errOut, "gres: %s: %v\n", root, err)
	}
	return files
}

func isPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
