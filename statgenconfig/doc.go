// Package statgenconfig loads the YAML configuration document the CLI
// reads clump/RAISS/SuSiE/QC defaults from, so the cmd/statgen commands
// never hardcode magic numbers. A missing file is not an error: Load
// returns the documented defaults unchanged.
package statgenconfig
