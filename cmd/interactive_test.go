package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const fruit = "apple\npear\napple\nplum\napple\n"

func TestInteractive_YesNo(t *testing.T) {
	env := newTestEnv(t)
	env.write("f.txt", fruit)

	env.runStdin("y\nn\ny\n", "-p", "apple", "orange", "f.txt")

	assert.Equal(t, "orange\npear\napple\nplum\norange\n", env.read("f.txt"))
}

func TestInteractive_LegendShownOnce(t *testing.T) {
	env := newTestEnv(t)
	env.write("f.txt", fruit)

	out := env.runStdin("y\ny\ny\n", "-p", "apple", "orange", "f.txt")

	assert.Equal(t, 1, strings.Count(out, "a(bort)"), "legend appears once per run")
	assert.Equal(t, 3, strings.Count(out, "> "))
}

func TestInteractive_Continue(t *testing.T) {
	env := newTestEnv(t)
	env.write("f.txt", fruit)

	out := env.runStdin("c\n", "-p", "apple", "orange", "f.txt")

	assert.Equal(t, "orange\npear\norange\nplum\norange\n", env.read("f.txt"))
	assert.Equal(t, 1, strings.Count(out, "> "), "continue suppresses later prompts")
}

func TestInteractive_ContinueResetsPerFile(t *testing.T) {
	env := newTestEnv(t)
	env.write("a.txt", "apple\napple\n")
	env.write("b.txt", "apple\n")

	out := env.runStdin("c\ny\n", "-p", "apple", "orange", "a.txt", "b.txt")

	assert.Equal(t, "orange\norange\n", env.read("a.txt"))
	assert.Equal(t, "orange\n", env.read("b.txt"))
	assert.Equal(t, 2, strings.Count(out, "> "), "next file prompts again after continue")
}

func TestInteractive_LeaveIsRunWide(t *testing.T) {
	env := newTestEnv(t)
	env.write("a.txt", "apple\napple\n")
	env.write("b.txt", "apple\n")

	out := env.runStdin("l\n", "-p", "apple", "orange", "a.txt", "b.txt")

	assert.Equal(t, "orange\norange\n", env.read("a.txt"))
	assert.Equal(t, "orange\n", env.read("b.txt"))
	assert.Equal(t, 1, strings.Count(out, "> "), "leave disables prompting for the whole run")
}

func TestInteractive_SkipKeepsEarlierEdits(t *testing.T) {
	env := newTestEnv(t)
	env.write("f.txt", fruit)

	env.runStdin("y\ns\n", "-p", "apple", "orange", "f.txt")

	assert.Equal(t, "orange\npear\napple\nplum\napple\n", env.read("f.txt"))
}

func TestInteractive_SkipRecordedInHistory(t *testing.T) {
	env := newTestEnv(t)
	env.write("f.txt", fruit)

	env.runStdin("y\ns\n", "-p", "apple", "orange", "f.txt")

	out := env.run("history")
	env.contains(out, "skipped")
	env.contains(out, "1 replaced")
}

func TestInteractive_AbortRestores(t *testing.T) {
	env := newTestEnv(t)
	env.write("f.txt", fruit)

	out := env.runStdin("y\na\n", "-p", "apple", "orange", "f.txt")

	assert.Equal(t, fruit, env.read("f.txt"), "abort rolls back every edit in the file")
	env.contains(out, "restored from backup")
}

func TestInteractive_QuitKeepsPartial(t *testing.T) {
	env := newTestEnv(t)
	env.write("f.txt", fruit)

	env.runStdin("y\nq\n", "-p", "apple", "orange", "f.txt")

	assert.Equal(t, "orange\npear\napple\nplum\napple\n", env.read("f.txt"))
}

func TestInteractive_QuitStopsRun(t *testing.T) {
	env := newTestEnv(t)
	env.write("a.txt", "apple\n")
	env.write("b.txt", "apple\n")

	env.runStdin("q\n", "-p", "apple", "orange", "a.txt", "b.txt")

	assert.Equal(t, "apple\n", env.read("a.txt"))
	assert.Equal(t, "apple\n", env.read("b.txt"), "quit ends the run before later files")
}

func TestInteractive_EOFIsQuit(t *testing.T) {
	env := newTestEnv(t)
	env.write("f.txt", fruit)

	env.runStdin("y\n", "-p", "apple", "orange", "f.txt")

	assert.Equal(t, "orange\npear\napple\nplum\napple\n", env.read("f.txt"))
}

func TestInteractive_PrintWidensContext(t *testing.T) {
	env := newTestEnv(t)
	env.write("f.txt", "one\ntwo\napple\nthree\nfour\n")

	out := env.runStdin("p\np\ny\n", "-p", "apple", "orange", "f.txt")

	env.contains(out, "two")
	env.contains(out, "one")
	assert.Equal(t, "one\ntwo\norange\nthree\nfour\n", env.read("f.txt"))
}

func TestInteractive_DiffPreview(t *testing.T) {
	env := newTestEnv(t)
	env.write("f.txt", "an apple a day\n")

	out := env.runStdin("n\n", "-p", "apple", "orange", "f.txt")

	env.contains(out, "- an apple a day")
	env.contains(out, "+ an orange a day")
}

func TestInteractive_UnknownCommandReprompts(t *testing.T) {
	env := newTestEnv(t)
	env.write("f.txt", "apple\n")

	out := env.runStdin("what\ny\n", "-p", "apple", "orange", "f.txt")

	assert.Equal(t, "orange\n", env.read("f.txt"))
	assert.Equal(t, 2, strings.Count(out, "a(bort)"), "unknown input re-shows the legend")
}
