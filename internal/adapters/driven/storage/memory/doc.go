// Package memory provides in-memory implementations of the driven storage
// ports. They back tests and dry-run builds, and never touch disk.
package memory
