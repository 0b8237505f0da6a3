package app

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

var defaultEditors = map[string][][]string{
	"windows": {{"code", "--wait"}, {"notepad++.exe"}, {"notepad.exe"}},
	"":        {{"vim"}, {"vi"}, {"nano"}},
}

func detectEditorCommand() ([]string, bool) {
	return editorCommandFor(runtime.GOOS, os.Getenv, exec.LookPath)
}

// editorCommandFor resolves $VISUAL, then $EDITOR, then the platform
// defaults to an executable argv.
func editorCommandFor(goos string, getenv func(string) string, lookPath func(string) (string, error)) ([]string, bool) {
	for _, name := range []string{"VISUAL", "EDITOR"} {
		args := splitCommandLine(getenv(name))
		if len(args) == 0 {
			continue
		}
		if resolved, err := lookPath(args[0]); err == nil {
			args[0] = resolved
			return args, true
		}
	}

	defaults, ok := defaultEditors[strings.ToLower(goos)]
	if !ok {
		defaults = defaultEditors[""]
	}
	for _, def := range defaults {
		if resolved, err := lookPath(def[0]); err == nil {
			return append([]string{resolved}, def[1:]...), true
		}
	}
	return nil, false
}

// splitCommandLine splits cmd on unquoted whitespace. Single and double
// quotes group words; a leading ~ in the program is expanded.
func splitCommandLine(cmd string) []string {
	var (
		args    []string
		current strings.Builder
		quote   rune
		started bool
	)
	flush := func() {
		if started {
			args = append(args, current.String())
			current.Reset()
			started = false
		}
	}

	for _, r := range strings.TrimSpace(cmd) {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
			started = true
		case quote == 0 && unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()

	if len(args) > 0 {
		args[0] = expandHome(args[0])
	}
	return args
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
