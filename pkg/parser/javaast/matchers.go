package javaast

import (
	"path/filepath"
	"strings"
)

// IsJavaSource reports whether path is a Java compilation unit.
func IsJavaSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".java")
}
