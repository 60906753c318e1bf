// backup.go implements the backup lifecycle for in-place rewrites.
//
// Separated from rewrite.go to isolate the durability mechanism from the
// decision loop. A backup is a byte-identical copy of the target taken
// before any mutation; it is the only undo the engine offers.
package rewrite

import (
	"fmt"
	"io"
	"os"
)

// Suffix is appended to a file's path to name its backup. On collision a
// numeric suffix is added (.gresbak1, .gresbak2, ...) so a pre-existing
// backup is never clobbered.
const Suffix = ".gresbak"

// backup tracks the on-disk copy of a file being rewritten.
type backup struct {
	original string
	path     string
	mode     os.FileMode
}

// createBackup copies path to an unused backup name, preserving the
// original's permission bits.
func createBackup(path string) (*backup, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	b := &backup{original: path, mode: info.Mode().Perm()}

	candidate := path + Suffix
	for n := 1; ; n++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			break
		}
		candidate = fmt.Sprintf("%s%s%d", path, Suffix, n)
	}
	b.path = candidate

	if err := copyFile(path, b.path, b.mode); err != nil {
		return nil, fmt.Errorf("creating backup %s: %w", b.path, err)
	}
	return b, nil
}

// Remove deletes the backup after a clean rewrite.
func (b *backup) Remove() error {
	return os.Remove(b.path)
}

// Restore overwrites the original with the backup's bytes and removes
// the backup. If the copy back fails the backup is kept so the operator
// can recover by hand.
func (b *backup) Restore() error {
	if err := copyFile(b.path, b.original, b.mode); err != nil {
		return fmt.Errorf("restoring %s from %s: %w", b.original, b.path, err)
	}
	return os.Remove(b.path)
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
