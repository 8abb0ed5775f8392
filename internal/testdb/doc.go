//go:build integration

// Package testdb provides helpers for tests that run against a real
// PostgreSQL database. Every file is behind the integration build tag, and
// tests skip themselves when no database URL is configured.
//
// The URL is taken from the first non-empty of DATABASE_URL, SCRY_TEST_DB_URL
// and SCRY_DATABASE_URL.
package testdb
