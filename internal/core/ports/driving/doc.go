// Package driving provides interfaces for use-case entry points
// (primary/inbound ports).
//
// CLI commands and other surfaces depend on these interfaces; the
// services in internal/core/services implement them.
package driving
