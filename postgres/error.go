package postgres

import (
	"errors"
	"regexp"

	"gorm.io/gorm"
)

const violatesFK = "violates foreign key constraint"

var (
	// errSQLSyntax is a very loose aggregation of error codes
	// originating from PostgreSQL itself
	// that are some sort of syntax issue in the statement or datatype mismatch.
	//
	// Cf., https://www.postgresql.org/docs/current/errcodes-appendix.html
	errSQLSyntax     = regexp.MustCompile(`SQLSTATE (42601|22P02)`)
	errUniqViolation = regexp.MustCompile(`SQLSTATE (23505)`)

	errNilArg = errors.New("nil is not a valid query argument")
)

// safeGORMSession forces *gorm.DB to hand back a clean pointer,
// guarding against methods that mutate shared statement state.
var safeGORMSession = &gorm.Session{NewDB: true}
