package postgres

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"go-commerce-api/internal/domain/repository"
)

const uniqueViolationCode = "23505"

// mapError translates pgx errors into the repository error taxonomy.
// Only unique violations on the email column map to ErrDuplicateEmail;
// other unique indexes (the reset token one) pass through as-is.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode && strings.Contains(pgErr.ConstraintName, "email") {
		return repository.ErrDuplicateEmail
	}
	return err
}

// setClause appends "col = $n" for the next positional argument.
type setClause struct {
	cols []string
	args []any
}

func (s *setClause) add(col string, v any) {
	s.args = append(s.args, v)
	s.cols = append(s.cols, fmt.Sprintf("%s = $%d", col, len(s.args)))
}

func (s *setClause) empty() bool { return len(s.cols) == 0 }

func itoa(n int) string { return strconv.Itoa(n) }
