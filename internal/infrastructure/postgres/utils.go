package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgErrCode extrae el código SQLSTATE de un error de pgx, o "" si no aplica.
func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation 23505: SKU repetido por usuario, publicación vinculada dos veces.
func isUniqueViolation(err error) bool {
	return pgErrCode(err) == "23505" || strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation 23503: la fila referencia un producto que ya no existe.
func isForeignKeyViolation(err error) bool {
	return pgErrCode(err) == "23503"
}
