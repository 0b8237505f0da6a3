package shellsetup

import (
	"os"
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		goos   string
		shell  string
		parent func() string
		want   string
	}{
		{name: "uses SHELL when set", goos: "linux", shell: "/bin/zsh", want: "zsh"},
		{name: "falls back to parent shell", goos: "linux", parent: func() string { return "/usr/bin/fish" }, want: "fish"},
		{name: "windows parent", goos: "windows", parent: func() string { return `C:\Program Files\PowerShell\7\pwsh.exe` }, want: "pwsh"},
		{name: "windows fallback", goos: "windows", want: "pwsh"},
		{name: "unix fallback", goos: "darwin", want: "bash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := func(key string) string {
				if key == "SHELL" {
					return tt.shell
				}
				return ""
			}
			if got := Detect(tt.goos, env, tt.parent); got != tt.want {
				t.Fatalf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeShellName(t *testing.T) {
	tests := map[string]string{
		"":                               "",
		"/bin/bash":                      "bash",
		`"C:\Windows\powershell.exe" -x`: "pwsh",
		"'/usr/local/bin/fish'":          "fish",
		"zsh -l":                         "zsh",
	}
	for in, want := range tests {
		if got := normalizeShellName(in); got != want {
			t.Errorf("normalizeShellName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScript(t *testing.T) {
	for _, shell := range []string{"bash", "/usr/bin/zsh", "fish", "powershell"} {
		script, err := Script(shell, "/opt/rview")
		if err != nil {
			t.Fatalf("Script(%q): %v", shell, err)
		}
		if !strings.Contains(script, `"/opt/rview"`) {
			t.Fatalf("Script(%q) does not run the executable:\n%s", shell, script)
		}
		if !strings.Contains(script, ResultPrefix) {
			t.Fatalf("Script(%q) does not read the result file:\n%s", shell, script)
		}
		if !strings.Contains(script, "--record-cwd") {
			t.Fatalf("Script(%q) does not ask for the final directory:\n%s", shell, script)
		}
		if strings.Contains(script, "%!") {
			t.Fatalf("Script(%q) has formatting errors:\n%s", shell, script)
		}
	}

	if _, err := Script("tcsh", "/opt/rview"); err == nil {
		t.Fatalf("expected unsupported shell error")
	}
}

func TestWriteResult(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	if err := WriteResult("/srv/data"); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	got, err := os.ReadFile(ResultFile(os.Getpid()))
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if string(got) != "/srv/data" {
		t.Fatalf("unexpected result %q", got)
	}
}
