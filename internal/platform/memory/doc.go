// Package memory provides an in-process implementation of store.NoteStore.
// It backs the "memory" database driver and most service and handler tests.
package memory
