// Package model defines the data structures shared by the CLI and its services.
package model

// VersionInfo contains build-time metadata about the application.
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}
