package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestClassifyPostgresErrors(t *testing.T) {
	testCases := []struct {
		name string
		code string
		kind ViolationKind
	}{
		{"not null", "23502", ViolationNotNull},
		{"foreign key", "23503", ViolationForeignKey},
		{"unique", "23505", ViolationUnique},
		{"check", "23514", ViolationCheck},
		{"serialization failure", "40001", ViolationSerialization},
		{"deadlock", "40P01", ViolationSerialization},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			err := &pgconn.PgError{
				Code:           tt.code,
				ConstraintName: "some_constraint",
				TableName:      "some_table",
			}
			ie := ClassifyError(err)
			require.NotNil(t, ie)
			assert.Equal(t, tt.kind, ie.Kind)
			assert.Equal(t, "some_constraint", ie.Constraint)
			assert.Equal(t, "some_table", ie.Table)
		})
	}
}

func TestClassifyWrappedError(t *testing.T) {
	inner := &pgconn.PgError{Code: "23505", ConstraintName: "bill_order_id_key", TableName: "bill"}
	wrapped := fmt.Errorf("creating bill: %w", inner)

	ie := ClassifyError(wrapped)
	require.NotNil(t, ie)
	assert.Equal(t, ViolationUnique, ie.Kind)
	assert.Equal(t, "bill_order_id_key", ie.Constraint)
	assert.ErrorIs(t, ie, wrapped)
}

func TestClassifySQLiteErrors(t *testing.T) {
	testCases := []struct {
		name     string
		extended sqlite3.ErrNoExtended
		kind     ViolationKind
	}{
		{"not null", sqlite3.ErrConstraintNotNull, ViolationNotNull},
		{"foreign key", sqlite3.ErrConstraintForeignKey, ViolationForeignKey},
		{"unique", sqlite3.ErrConstraintUnique, ViolationUnique},
		{"primary key", sqlite3.ErrConstraintPrimaryKey, ViolationUnique},
		{"check", sqlite3.ErrConstraintCheck, ViolationCheck},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			err := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: tt.extended}
			ie := ClassifyError(err)
			require.NotNil(t, ie)
			assert.Equal(t, tt.kind, ie.Kind)
		})
	}
}

func TestClassifyGormTranslatedErrors(t *testing.T) {
	assert.Equal(t, ViolationUnique, ClassifyError(gorm.ErrDuplicatedKey).Kind)
	assert.Equal(t, ViolationForeignKey, ClassifyError(gorm.ErrForeignKeyViolated).Kind)
	assert.Equal(t, ViolationCheck, ClassifyError(gorm.ErrCheckConstraintViolated).Kind)
}

func TestClassifyNonIntegrityErrors(t *testing.T) {
	assert.Nil(t, ClassifyError(nil))
	assert.Nil(t, ClassifyError(errors.New("connection refused")))
	// An unrelated SQLSTATE class is not an integrity violation.
	assert.Nil(t, ClassifyError(&pgconn.PgError{Code: "42P01"}))
	assert.Nil(t, ClassifyError(sqlite3.Error{Code: sqlite3.ErrError}))
}

func TestIsViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23503"}
	assert.True(t, IsViolation(err, ViolationForeignKey))
	assert.False(t, IsViolation(err, ViolationUnique))
	assert.False(t, IsViolation(errors.New("boom"), ViolationForeignKey))
}

func TestIntegrityErrorMessage(t *testing.T) {
	ie := ClassifyError(&pgconn.PgError{Code: "23505", ConstraintName: "pk_contains_item", TableName: "contains_item"})
	require.NotNil(t, ie)
	assert.Contains(t, ie.Error(), "unique_violation")
	assert.Contains(t, ie.Error(), "pk_contains_item")
	assert.Contains(t, ie.Error(), "contains_item")
}

func TestDatabaseConfigDSN(t *testing.T) {
	pg := DatabaseConfig{Driver: "postgres", Host: "db", Port: "5432", User: "oc", Password: "pw", Name: "ocpizza", SSLMode: "disable"}
	assert.Equal(t, "host=db user=oc password=pw dbname=ocpizza port=5432 sslmode=disable", pg.DSN())
	assert.NotContains(t, pg.String(), "pw")

	lite := DatabaseConfig{Driver: "sqlite", Path: "/tmp/test.sqlite"}
	assert.Equal(t, "/tmp/test.sqlite", lite.DSN())

	empty := DatabaseConfig{Driver: "sqlite"}
	assert.Equal(t, "ocpizza.sqlite", empty.DSN())

	unknown := DatabaseConfig{Driver: "oracle"}
	assert.Equal(t, "", unknown.DSN())
}
