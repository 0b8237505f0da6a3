package app

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestEditorCommandPrefersVisual(t *testing.T) {
	env := map[string]string{"VISUAL": `"my editor" --wait`, "EDITOR": "nano"}
	lookPath := func(cmd string) (string, error) {
		return "/opt/" + cmd, nil
	}
	args, ok := editorCommandFor("linux", func(k string) string { return env[k] }, lookPath)
	if !ok {
		t.Fatalf("expected editor")
	}
	want := []string{"/opt/my editor", "--wait"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("expected %v, got %v", want, args)
	}
}

func TestEditorCommandWindowsFallbacks(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		if cmd == "notepad++.exe" {
			return `C:\Program Files\Notepad++\notepad++.exe`, nil
		}
		return "", errors.New("not found")
	}
	getenv := func(string) string { return "" }
	args, ok := editorCommandFor("windows", getenv, lookPath)
	if !ok {
		t.Fatalf("expected editor fallback")
	}
	want := []string{`C:\Program Files\Notepad++\notepad++.exe`}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("expected %v, got %v", want, args)
	}
}

func TestEditorCommandUnixFallbacks(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		if cmd == "vi" {
			return "/usr/bin/vi", nil
		}
		return "", errors.New("not found")
	}
	getenv := func(k string) string {
		if k == "EDITOR" {
			return "missing-editor"
		}
		return ""
	}
	args, ok := editorCommandFor("linux", getenv, lookPath)
	if !ok {
		t.Fatalf("expected editor fallback")
	}
	if want := []string{"/usr/bin/vi"}; !reflect.DeepEqual(args, want) {
		t.Fatalf("expected %v, got %v", want, args)
	}
}

func TestEditorCommandNoneFound(t *testing.T) {
	lookPath := func(string) (string, error) { return "", errors.New("not found") }
	if args, ok := editorCommandFor("linux", func(string) string { return "" }, lookPath); ok {
		t.Fatalf("expected no editor, got %v", args)
	}
}

func TestSplitCommandLine(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"vim", []string{"vim"}},
		{"code --wait  -n", []string{"code", "--wait", "-n"}},
		{`'sub l' "a b"`, []string{"sub l", "a b"}},
		{`emacs "it's"`, []string{"emacs", "it's"}},
		{`ed ""`, []string{"ed", ""}},
		{"~/bin/ed -s", []string{filepath.Join(home, "bin/ed"), "-s"}},
		{"~user/ed", []string{"~user/ed"}},
	}
	for _, tt := range tests {
		if got := splitCommandLine(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitCommandLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHandleEditorOpenWithoutEditor(t *testing.T) {
	root := fixtureTree(t)
	app := newTestApp(t, root)
	app.editorCmd = nil
	if app.handleEditorOpen() {
		t.Fatalf("expected no-op without an editor")
	}
}

func TestHandleEditorOpenSkipsDirectories(t *testing.T) {
	root := fixtureTree(t)
	app := newTestApp(t, root)
	pump(t, app, "cwd listing", func() bool { return app.folder(root).Loaded })
	app.editorCmd = []string{"fake-editor"}

	var recorded []string
	withFakeCommandBuilder(t, 0, &recorded, func() {
		if app.handleEditorOpen() {
			t.Fatalf("directories should not be opened in the editor")
		}
	})
	if recorded != nil {
		t.Fatalf("editor ran for a directory: %v", recorded)
	}
}

func TestOpenFileInEditorFallbackPropagatesError(t *testing.T) {
	app := &Application{
		screen: newTestScreen(t),
	}
	args := []string{"fake-editor", "--wait"}

	var recorded []string
	var err error
	withFakeCommandBuilder(t, 5, &recorded, func() {
		err = app.openFileInEditorFallback(args)
	})

	if err == nil {
		t.Fatalf("expected error from editor fallback")
	}
	if got := err.Error(); !strings.Contains(got, "fake-editor") {
		t.Fatalf("expected editor error to include command name, got %q", got)
	}
	if !reflect.DeepEqual(recorded, args) {
		t.Fatalf("expected command %v, got %v", args, recorded)
	}
}

func TestEditorArgsWithFile(t *testing.T) {
	app := &Application{editorCmd: []string{"code", "--wait"}}
	got := app.editorArgsWithFile("/tmp/x.go")
	if want := []string{"code", "--wait", "/tmp/x.go"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if len(app.editorCmd) != 2 {
		t.Fatalf("editor command mutated: %v", app.editorCmd)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	code, err := strconv.Atoi(os.Getenv("HELPER_PROCESS_EXIT"))
	if err != nil {
		code = 1
	}
	os.Exit(code)
}

func withFakeCommandBuilder(t *testing.T, exitCode int, recorded *[]string, fn func()) {
	t.Helper()
	orig := commandBuilder
	commandBuilder = func(name string, args ...string) *exec.Cmd {
		if recorded != nil {
			*recorded = append([]string{name}, args...)
		}
		return helperProcessCommand(exitCode, name, args...)
	}
	defer func() {
		commandBuilder = orig
	}()
	fn()
}

func helperProcessCommand(exitCode int, name string, args ...string) *exec.Cmd {
	cmdArgs := []string{"-test.run=TestHelperProcess", "--", name}
	cmdArgs = append(cmdArgs, args...)
	cmd := exec.Command(os.Args[0], cmdArgs...)
	cmd.Env = append(os.Environ(),
		"GO_WANT_HELPER_PROCESS=1",
		"HELPER_PROCESS_EXIT="+strconv.Itoa(exitCode),
	)
	return cmd
}
