package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestDumpCapturesPgxFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "auth_credentials_email_key", TableName: "auth_credentials"}
	err := Wrap(CodeConflict, fmt.Errorf("insert: %w", pgErr), "duplicate").WithDetails("email")

	d := Dump(err)
	assert.Equal(t, CodeConflict, d.Code)
	assert.Equal(t, "email", d.Details)
	assert.Equal(t, "23505", d.PGCode)
	assert.Equal(t, "auth_credentials_email_key", d.PGConstraint)
	assert.Len(t, d.Chain, 3)
}

func TestPostgresCodeFromPQ(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &pq.Error{Code: "23503"})
	assert.Equal(t, "23503", PostgresCode(err))
	assert.Empty(t, PostgresCode(stdErrors.New("plain")))
}

func TestDumpNil(t *testing.T) {
	assert.Equal(t, ErrorDump{}, Dump(nil))
}
