// Package services implements the driving port interfaces.
// Services hold the run orchestration: discovery, extraction, rendering,
// writing and drift checks. They reach the filesystem only through the
// driven ports.
package services
