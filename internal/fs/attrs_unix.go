//go:build !windows

package fs

// IsHidden treats dot-files as hidden.
func IsHidden(_ string, name string) bool {
	return len(name) > 0 && name[0] == '.'
}

func skipInListing(_, _ string) bool {
	return false
}
