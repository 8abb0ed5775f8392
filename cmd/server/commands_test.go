package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func executeRoot(t *testing.T, args ...string) error {
	t.Helper()

	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.Execute()
}

func TestMigrateRejectsUnknownCommand(t *testing.T) {
	err := executeRoot(t, "migrate", "sideways")
	assert.ErrorContains(t, err, "invalid argument")
}

func TestMigrateRequiresExactlyOneCommand(t *testing.T) {
	assert.Error(t, executeRoot(t, "migrate"))
	assert.Error(t, executeRoot(t, "migrate", "up", "down"))
}

func TestMigrateRequiresPostgresDriver(t *testing.T) {
	t.Setenv("SCRY_DATABASE_DRIVER", "memory")

	err := executeRoot(t, "migrate", "up")
	assert.ErrorContains(t, err, `migrations require the "postgres" driver`)
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	t.Setenv("SCRY_DATABASE_DRIVER", "postgres")
	t.Setenv("SCRY_DATABASE_URL", "")

	err := executeRoot(t, "serve")
	assert.ErrorContains(t, err, "failed to load configuration")
}
