package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const logFile = `2024-01-15 INFO starting up
2024-01-15 ERROR connection refused
2024-01-15 INFO retrying
2024-01-15 ERROR timeout waiting for peer
2024-01-15 INFO connected
`

func TestRoot_Display(t *testing.T) {
	env := newTestEnv(t)
	env.write("app.log", logFile)

	out := env.run("ERROR", "FAULT", "app.log")

	env.contains(out, "2024-01-15 FAULT connection refused")
	env.contains(out, "2024-01-15 FAULT timeout waiting for peer")
	if strings.Contains(out, "INFO") {
		t.Error("display mode printed non-matching lines without --print-all")
	}

	// Preview only: the file is untouched.
	assert.Equal(t, logFile, env.read("app.log"))
}

func TestRoot_Backreferences(t *testing.T) {
	env := newTestEnv(t)
	env.write("hosts.txt", "db01 10.0.0.5\nweb01 10.0.0.9\n")

	out := env.run(`(\w+) ([\d.]+)`, `\2 \1`, "hosts.txt")

	env.contains(out, "10.0.0.5 db01")
	env.contains(out, "10.0.0.9 web01")
}

func TestRoot_PrintAll(t *testing.T) {
	env := newTestEnv(t)
	env.write("app.log", logFile)

	out := env.run("-a", "ERROR", "FAULT", "app.log")

	env.contains(out, "FAULT connection refused")
	env.contains(out, "INFO starting up")
}

func TestRoot_Quiet(t *testing.T) {
	env := newTestEnv(t)
	env.write("app.log", logFile)

	out := env.run("-q", "ERROR", "FAULT", "app.log")
	env.equals(out, "")
}

func TestRoot_Context(t *testing.T) {
	env := newTestEnv(t)
	env.write("app.log", logFile)

	out := env.run("-C", "1", "timeout", "deadline", "app.log")

	env.contains(out, "INFO retrying")
	env.contains(out, "deadline waiting for peer")
	env.contains(out, "INFO connected")
	if strings.Contains(out, "starting up") {
		t.Error("context window included lines beyond -C 1")
	}
}

func TestRoot_ContextSeparator(t *testing.T) {
	env := newTestEnv(t)
	env.write("list.txt", "match a\n1\n2\n3\n4\n5\nmatch b\n")

	out := env.run("-C", "1", "match", "found", "list.txt")
	env.contains(out, "--")
}

func TestRoot_LineNumbers(t *testing.T) {
	env := newTestEnv(t)
	env.write("app.log", logFile)

	out := env.run("-n", "ERROR", "FAULT", "app.log")
	env.contains(out, "app.log:2:")
	env.contains(out, "app.log:4:")
}

func TestRoot_IgnoreCase(t *testing.T) {
	env := newTestEnv(t)
	env.write("f.txt", "Error here\n")

	out := env.run("-i", "error", "fault", "f.txt")
	env.contains(out, "fault here")
}

func TestRoot_Stdin(t *testing.T) {
	env := newTestEnv(t)

	out := env.runStdin("one fish\ntwo fish\n", "fish", "bird")
	env.contains(out, "one bird")
	env.contains(out, "two bird")
}

func TestRoot_Exec(t *testing.T) {
	env := newTestEnv(t)
	env.write("versions.txt", "release v41 shipped\n")

	out := env.run("-e", `v(\d+)`, `v{int("\1") + 1}`, "versions.txt")
	env.contains(out, "release v42 shipped")
}

func TestRoot_Directory(t *testing.T) {
	env := newTestEnv(t)
	env.write("src/a.txt", "needle one\n")
	env.write("src/sub/b.txt", "needle two\n")
	env.write("src/.hidden.txt", "needle three\n")

	out := env.run("needle", "pin", "src")
	env.contains(out, "pin one")
	env.contains(out, "pin two")
	if strings.Contains(out, "three") {
		t.Error("walked a hidden file without --hidden")
	}

	out = env.run("--hidden", "needle", "pin", "src")
	env.contains(out, "pin three")
}

func TestRoot_MissingFile(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runErr("x", "y", "absent.txt")
	assert.NoError(t, err, "a missing path is reported, not fatal")
	env.contains(out, "gres: absent.txt:")
}

func TestRoot_BadPattern(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runErr("(unclosed", "y")
	assert.Error(t, err)
	env.contains(out, "invalid pattern")
}

func TestRoot_BadBackref(t *testing.T) {
	env := newTestEnv(t)
	env.write("f.txt", "abc\n")

	out, err := env.runErr(`a(b)c`, `\2`, "f.txt")
	assert.Error(t, err, "excess backreference is a startup error")
	env.contains(out, `\2`)
}

func TestRoot_NegativeContext(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runErr("-C", "-1", "x", "y")
	assert.Error(t, err)
	env.contains(out, "context lines (-C) must be >= 0")
}

func TestRoot_BinaryFileRejected(t *testing.T) {
	env := newTestEnv(t)
	env.write("blob.bin", "abc\x00def\n")

	out, err := env.runErr("abc", "xyz", "blob.bin")
	assert.NoError(t, err, "a non-text file is reported and skipped")
	env.contains(out, "gres: blob.bin:")
}
