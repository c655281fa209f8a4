package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) record(s string) error { f.calls = append(f.calls, s); return nil }

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) List(ctx context.Context, term string) error  { return f.record("list:" + term) }
func (f *fakeExec) Show(ctx context.Context, id string) error    { return f.record("show:" + id) }
func (f *fakeExec) Add(ctx context.Context) error                { return f.record("add") }
func (f *fakeExec) Edit(ctx context.Context, id string) error    { return f.record("edit:" + id) }
func (f *fakeExec) Delete(ctx context.Context, id string) error  { return f.record("delete:" + id) }
func (f *fakeExec) Import(ctx context.Context, p string) error   { return f.record("import:" + p) }
func (f *fakeExec) Export(ctx context.Context, p string) error   { return f.record("export:" + p) }
func (f *fakeExec) Hash(ctx context.Context) error               { return f.record("hash") }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_LoginGatesMutations(t *testing.T) {
	out := captureOutput(t)

	input := strings.Join([]string{
		"help",
		"add",
		"delete 1",
		"login",
		"help",
		"l ali ce",
		"show 7",
		"add",
		"edit 7",
		"delete 7",
		"import in.json",
		"export out.json",
		"hash",
		"logout",
		"import in.json",
		"foobar",
		"show",
		"",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "file" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login", "list:ali ce", "show:7", "add", "edit:7", "delete:7",
		"import:in.json", "export:out.json", "hash", "logout",
	}, exec.calls)

	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "error: login required")
	assert.Contains(t, joined, "error: unknown command: foobar")
	assert.Contains(t, joined, "error: usage: show <id>")
	assert.Contains(t, joined, "Available commands: (l)ist [term], show <id>, export <file>, hash, login, exit")
	assert.Contains(t, joined, "Bye!")
	assert.Contains(t, joined, "users file> ")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("list")))

	assert.Equal(t, []string{"list:"}, exec.calls)
}
