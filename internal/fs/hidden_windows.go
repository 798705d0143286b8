//go:build windows

package fs

import "syscall"

const (
	attrSystem       = 0x04
	attrReparsePoint = 0x0400
)

// IsSystemEntry reports whether path is a system reparse point, such as the
// compatibility junctions in a user profile ("Application Data" and friends).
// Listing those only produces access errors.
func IsSystemEntry(path string) bool {
	if path == "" {
		return false
	}
	p, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := syscall.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&(attrSystem|attrReparsePoint) == attrSystem|attrReparsePoint
}
