package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"madrasa_backend/internals/helpers/apperr"
)

// SQLSTATE yang artinya koneksi putus / server restart, bukan kesalahan query.
var transientCodes = map[string]bool{
	"57P01": true, // admin_shutdown
	"57P02": true, // crash_shutdown
	"57P03": true, // cannot_connect_now
	"08000": true,
	"08001": true,
	"08003": true,
	"08004": true,
	"08006": true,
}

// IsTransient: true hanya untuk kehilangan koneksi. Constraint, validasi,
// dan *apperr.Error tidak pernah dianggap transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := apperr.As(err); ok {
		return apperr.IsKind(err, apperr.KindTransient)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return transientCodes[pgErr.Code]
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return transientCodes[string(pqErr.Code)] || pqErr.Code.Class() == "08"
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}

	lc := strings.ToLower(err.Error())
	for _, s := range []string{
		"connection reset by peer",
		"connection refused",
		"server closed the connection",
		"terminating connection",
		"connection closed",
		"conn closed",
		"broken pipe",
	} {
		if strings.Contains(lc, s) {
			return true
		}
	}
	return false
}

// MapDBError menerjemahkan error driver jadi *apperr.Error.
// Error yang sudah *apperr.Error dikembalikan apa adanya.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("record not found")
	}
	if IsTransient(err) {
		return apperr.Transient(err)
	}

	code := ""
	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgErr):
		code = pgErr.Code
	case errors.As(err, &pqErr):
		code = string(pqErr.Code)
	}
	switch code {
	case "23505":
		return &apperr.Error{Kind: apperr.KindConflict, Status: 409, Message: "duplicate data (unique violation)", Err: err}
	case "23503":
		return &apperr.Error{Kind: apperr.KindValidation, Status: 400, Message: "referenced record not found", Err: err}
	case "23514", "22P02":
		return &apperr.Error{Kind: apperr.KindValidation, Status: 400, Message: "invalid value", Err: err}
	}

	// sqlite (test) + fallback pesan
	lc := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(lc, "duplicate key"),
		strings.Contains(lc, "unique constraint failed"):
		return &apperr.Error{Kind: apperr.KindConflict, Status: 409, Message: "duplicate data (unique violation)", Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(lc, "foreign key constraint failed"):
		return &apperr.Error{Kind: apperr.KindValidation, Status: 400, Message: "referenced record not found", Err: err}
	}
	return apperr.Fatal(err)
}
