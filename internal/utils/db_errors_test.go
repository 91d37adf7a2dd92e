package utils

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDBLockError(t *testing.T) {
	assert.False(t, IsDBLockError(nil))
	assert.True(t, IsDBLockError(errors.New("database is locked")))
	assert.True(t, IsDBLockError(errors.New("SQLITE_BUSY: database is busy")))
	assert.True(t, IsDBLockError(errors.New("Error 1205: Lock wait timeout exceeded")))
	assert.True(t, IsDBLockError(errors.New("Deadlock found when trying to get lock")))
	assert.True(t, IsDBLockError(errors.New("ERROR: could not obtain lock on row")))
	assert.False(t, IsDBLockError(errors.New("UNIQUE constraint failed: segments.ordinal")))
	assert.False(t, IsDBLockError(errors.New("connection refused")))
}

func TestIsTransientDBError(t *testing.T) {
	assert.False(t, IsTransientDBError(nil))
	assert.True(t, IsTransientDBError(context.DeadlineExceeded))
	assert.True(t, IsTransientDBError(context.Canceled))
	assert.True(t, IsTransientDBError(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	assert.True(t, IsTransientDBError(errors.New("database is locked")))
	assert.False(t, IsTransientDBError(errors.New("no such table: segments")))
}
