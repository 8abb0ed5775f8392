// Package postgres implements store.NoteStore on PostgreSQL using sqlx and
// squirrel, maps driver errors onto the store error taxonomy, and owns the
// embedded goose migrations for the notes table.
package postgres
