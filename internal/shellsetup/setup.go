// Package shellsetup prints the shell wrapper that lets rview change the
// calling shell's directory on quit.
package shellsetup

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
)

// ResultPrefix names the file rview leaves its final directory in.
const ResultPrefix = "rview_cwd_"

var posixScript = heredoc.Doc(`
	rview() {
	    if [ "$#" -gt 0 ]; then
	        command %[1]s "$@"
	        return $?
	    fi

	    command %[1]s --record-cwd &
	    rview_pid=$!
	    wait $rview_pid

	    result_file="${TMPDIR:-/tmp}/%[2]s$rview_pid"
	    if [ -f "$result_file" ] && [ ! -L "$result_file" ] && [ -O "$result_file" ]; then
	        dest=$(cat "$result_file" 2>/dev/null)
	        if [ -d "$dest" ]; then
	            cd "$dest"
	        fi
	    fi
	    rm -f "$result_file" 2>/dev/null
	}
`)

var fishScript = heredoc.Doc(`
	function rview
	    if test (count $argv) -gt 0
	        command %[1]s $argv
	        return $status
	    end

	    command %[1]s --record-cwd &
	    set rview_pid $last_pid
	    wait $rview_pid

	    set tmp /tmp
	    set -q TMPDIR; and set tmp $TMPDIR
	    set result_file "$tmp/%[2]s$rview_pid"
	    if test -f "$result_file" -a ! -L "$result_file" -a -O "$result_file"
	        set dest (cat "$result_file" 2>/dev/null)
	        if test -d "$dest"
	            builtin cd "$dest"
	        end
	    end
	    rm -f "$result_file" 2>/dev/null
	end
`)

var pwshScript = heredoc.Doc(`
	function rview {
	    if ($args.Count -gt 0) {
	        & %[1]s @args
	        return
	    }

	    $process = Start-Process -FilePath %[1]s -ArgumentList "--record-cwd" -NoNewWindow -PassThru
	    $process.WaitForExit()

	    $resultFile = Join-Path $env:TEMP "%[2]s$($process.Id)"
	    try {
	        if (Test-Path $resultFile -PathType Leaf) {
	            $dest = (Get-Content $resultFile -Raw -ErrorAction SilentlyContinue).Trim()
	            if ($dest -and (Test-Path $dest -PathType Container)) {
	                Set-Location $dest
	            }
	        }
	    } finally {
	        Remove-Item $resultFile -ErrorAction SilentlyContinue
	    }
	}
`)

// Script returns the wrapper for shell, which may be a name or a path. An
// empty shell is detected from the environment.
func Script(shell, exe string) (string, error) {
	name := normalizeShellName(shell)
	if name == "" {
		name = Detect(runtime.GOOS, os.Getenv, ParentShellName)
	}

	var tmpl string
	switch name {
	case "bash", "zsh", "sh", "ksh", "dash":
		tmpl = posixScript
	case "fish":
		tmpl = fishScript
	case "pwsh", "powershell":
		tmpl = pwshScript
	default:
		return "", fmt.Errorf("unsupported shell %q", name)
	}
	return fmt.Sprintf(tmpl, strconv.Quote(exe), ResultPrefix), nil
}

// Detect picks the user's shell from $SHELL, then the parent process, then
// the platform default.
func Detect(goos string, getenv func(string) string, parent func() string) string {
	if shell := normalizeShellName(getenv("SHELL")); shell != "" {
		return shell
	}
	if parent != nil {
		if shell := shellBase(parent()); shell != "" {
			return shell
		}
	}
	if strings.EqualFold(goos, "windows") {
		return "pwsh"
	}
	return "bash"
}

// ResultFile is where the process with pid records its final directory.
func ResultFile(pid int) string {
	return filepath.Join(os.TempDir(), ResultPrefix+strconv.Itoa(pid))
}

// WriteResult records dir for the wrapper of the current process.
func WriteResult(dir string) error {
	if err := os.WriteFile(ResultFile(os.Getpid()), []byte(dir), 0o600); err != nil {
		return fmt.Errorf("cannot write result file: %w", err)
	}
	return nil
}

// normalizeShellName reduces a command line such as `"/bin/zsh" -l` to the
// shell's name.
func normalizeShellName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if q := value[0]; q == '"' || q == '\'' {
		value = value[1:]
		if idx := strings.IndexByte(value, q); idx >= 0 {
			value = value[:idx]
		}
	} else if idx := strings.IndexAny(value, " \t"); idx >= 0 {
		value = value[:idx]
	}
	return shellBase(value)
}

// shellBase names the shell at an executable path, which may contain spaces.
func shellBase(exe string) string {
	exe = strings.TrimSpace(exe)
	if exe == "" {
		return ""
	}
	base := path.Base(strings.ReplaceAll(exe, `\`, "/"))
	base = strings.TrimSuffix(strings.ToLower(base), ".exe")
	if base == "powershell" {
		return "pwsh"
	}
	if base == "." || base == "/" {
		return ""
	}
	return base
}
