// Package config carries the handful of process-wide constants RulesLang
// needs — version string and recognized source extension — following the
// teacher's internal/config/constants.go pattern.
package config

// Version is the current RulesLang version.
var Version = "0.1.0"

// SourceFileExt is the canonical extension for a RulesLang rule file.
const SourceFileExt = ".rules"

// HasSourceExt reports whether path ends with the recognized rule extension.
func HasSourceExt(path string) bool {
	return len(path) >= len(SourceFileExt) && path[len(path)-len(SourceFileExt):] == SourceFileExt
}
