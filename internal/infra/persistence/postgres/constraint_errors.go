package postgres

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GORM translates PostgreSQL constraint failures into its own sentinel
// errors. The repositories use these helpers to turn them into domain errors
// such as ErrDuplicateUser or ErrVideoNotFound.

func isUniqueConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

// isNotNullConstraintViolation inspects the message because GORM has no
// sentinel for not-null failures. 23502 is the PostgreSQL SQLSTATE.
func isNotNullConstraintViolation(err error) bool {
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "null value") ||
		strings.Contains(errMsg, "not null") ||
		strings.Contains(errMsg, "23502")
}
