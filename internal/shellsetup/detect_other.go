//go:build !windows

package shellsetup

// ParentShellName is unknown outside Windows; $SHELL covers those platforms.
func ParentShellName() string {
	return ""
}
