// Package config holds a handful of process-wide constants: the version
// string, the recognised source file extensions, and a test-mode flag. No
// other package in this repository imports it.
package config

// Version is the current release version, set at build time via -ldflags or
// by editing this file directly.
var Version = "0.1.0"

const SourceFileExt = ".rfl"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".rfl", ".riffle"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode indicates if the program is running in test mode. It defaults
// to false; nothing in this repository sets it.
var IsTestMode = false
