package store

import (
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func isPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

// validUUID reports whether id can be compared against a uuid column
// without the query failing.
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
