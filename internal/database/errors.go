package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// ViolationKind identifies which storage-level invariant an operation broke.
type ViolationKind int

const (
	ViolationUnknown ViolationKind = iota
	// ViolationForeignKey: a referenced row is missing, or a still-referenced
	// row was deleted.
	ViolationForeignKey
	// ViolationUnique: duplicate primary or composite key, or unique column.
	ViolationUnique
	// ViolationNotNull: a required column was left empty.
	ViolationNotNull
	// ViolationCheck: a check constraint rejected the value.
	ViolationCheck
	// ViolationSerialization: the transaction lost a concurrency race and
	// should be retried.
	ViolationSerialization
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationForeignKey:
		return "foreign_key_violation"
	case ViolationUnique:
		return "unique_violation"
	case ViolationNotNull:
		return "not_null_violation"
	case ViolationCheck:
		return "check_violation"
	case ViolationSerialization:
		return "serialization_failure"
	default:
		return "unknown_violation"
	}
}

// IntegrityError wraps a driver error with the invariant it broke, so callers
// can decide between fixing their data and retrying.
type IntegrityError struct {
	Kind       ViolationKind
	Constraint string
	Table      string
	Err        error
}

func (e *IntegrityError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s on %q (table %q): %v", e.Kind, e.Constraint, e.Table, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// PostgreSQL SQLSTATE codes, class 23 (integrity) and 40 (transaction rollback).
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgSerializationFail   = "40001"
	pgDeadlockDetected    = "40P01"
)

// ClassifyError maps a write error onto the violation taxonomy. It understands
// GORM's translated errors, raw PostgreSQL errors and raw SQLite errors.
// It returns nil when err is not an integrity violation.
func ClassifyError(err error) *IntegrityError {
	if err == nil {
		return nil
	}

	// GORM translated errors first (TranslateError: true).
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &IntegrityError{Kind: ViolationUnique, Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &IntegrityError{Kind: ViolationForeignKey, Err: err}
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return &IntegrityError{Kind: ViolationCheck, Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind := ViolationUnknown
		switch pgErr.Code {
		case pgNotNullViolation:
			kind = ViolationNotNull
		case pgForeignKeyViolation:
			kind = ViolationForeignKey
		case pgUniqueViolation:
			kind = ViolationUnique
		case pgCheckViolation:
			kind = ViolationCheck
		case pgSerializationFail, pgDeadlockDetected:
			kind = ViolationSerialization
		default:
			return nil
		}
		return &IntegrityError{
			Kind:       kind,
			Constraint: pgErr.ConstraintName,
			Table:      pgErr.TableName,
			Err:        err,
		}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		kind := ViolationUnknown
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintNotNull:
			kind = ViolationNotNull
		case sqlite3.ErrConstraintForeignKey:
			kind = ViolationForeignKey
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			kind = ViolationUnique
		case sqlite3.ErrConstraintCheck:
			kind = ViolationCheck
		default:
			if sqliteErr.Code == sqlite3.ErrBusy {
				kind = ViolationSerialization
			} else {
				return nil
			}
		}
		return &IntegrityError{Kind: kind, Err: err}
	}

	return nil
}

// IsViolation reports whether err is an integrity violation of the given kind.
func IsViolation(err error, kind ViolationKind) bool {
	ie := ClassifyError(err)
	return ie != nil && ie.Kind == kind
}
