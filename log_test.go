package gokeyset

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_NewGORMLogger_TracesBatchQueries(t *testing.T) {
	db := newGORMSQLite(t)
	seedAccounts(t, db, 3)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	db = db.Session(&gorm.Session{Logger: NewGORMLogger(logger, 0)})

	err := New[tAccount](db).
		WithBatchSize(2).
		WithLogger(logger).
		FindEach(context.Background(), func(tAccount) error { return nil })
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "yielding batch")
	require.Contains(t, out, "gorm query")
	require.Contains(t, out, "ORDER BY id ASC LIMIT 2")
}
