// Package file stores user settings in ~/.studydeck/config.toml.
//
// Keys are dotted ("search.default_limit") in memory and nested TOML tables
// on disk. Saves replace the file atomically.
package file
