// Package store defines the note persistence contract shared by the
// PostgreSQL and in-memory implementations, the storage error taxonomy,
// and the transaction helper used for atomic read-modify-write.
package store
