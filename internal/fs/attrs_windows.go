//go:build windows

package fs

import (
	"os"
	"syscall"
)

const (
	fileAttributeHidden       = 0x02
	fileAttributeSystem       = 0x04
	fileAttributeReparsePoint = 0x0400
)

// IsHidden reports whether the file carries the hidden attribute. Dot-files
// count as hidden when the attributes cannot be read.
func IsHidden(fullPath, name string) bool {
	attrs, err := fileAttributes(fullPath, name)
	if err != nil {
		return len(name) > 0 && name[0] == '.'
	}
	return attrs&fileAttributeHidden != 0
}

// skipInListing drops compatibility junctions (system + reparse point) that
// Windows exposes in profile directories.
func skipInListing(fullPath, name string) bool {
	attrs, err := fileAttributes(fullPath, name)
	if err != nil {
		return false
	}
	const protectedMask = fileAttributeSystem | fileAttributeReparsePoint
	return attrs&protectedMask == protectedMask
}

func fileAttributes(fullPath, name string) (uint32, error) {
	target := fullPath
	if target == "" {
		target = name
	}
	if target == "" {
		return 0, os.ErrInvalid
	}

	ptr, err := syscall.UTF16PtrFromString(target)
	if err != nil {
		return 0, err
	}
	attrs, err := syscall.GetFileAttributes(ptr)
	if err == nil {
		return attrs, nil
	}
	if !os.IsNotExist(err) || fullPath == "" || fullPath == name {
		return 0, err
	}

	alt, convErr := syscall.UTF16PtrFromString(name)
	if convErr != nil {
		return 0, err
	}
	if attrs, altErr := syscall.GetFileAttributes(alt); altErr == nil {
		return attrs, nil
	}
	return 0, err
}
