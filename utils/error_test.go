package utils_test

import (
	"errors"
	"net/http"
	"testing"

	"bitbucket.org/mmdatafocus/invoicing_backend/utils"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

func TestAsApiError_Classification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind utils.ErrorKind
	}{
		{"api error passes through", utils.NewConflictError("dup"), utils.ErrorKindConflict},
		{"gorm not found", gorm.ErrRecordNotFound, utils.ErrorKindNotFound},
		{"mysql duplicate key", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, utils.ErrorKindConflict},
		{"other mysql error", &mysql.MySQLError{Number: 1213, Message: "Deadlock"}, utils.ErrorKindInternal},
		{"plain error", errors.New("boom"), utils.ErrorKindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := utils.AsApiError(tc.err).Kind; got != tc.kind {
				t.Errorf("kind = %s, want %s", got, tc.kind)
			}
		})
	}
}

func TestAsApiError_Nil(t *testing.T) {
	if utils.AsApiError(nil) != nil {
		t.Error("nil error should classify to nil")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{utils.NewValidationError("bad"), http.StatusBadRequest},
		{utils.NewInvalidStateError("frozen"), http.StatusBadRequest},
		{utils.NewAuthenticationError("nope"), http.StatusUnauthorized},
		{utils.NewConflictError("dup"), http.StatusConflict},
		{utils.ErrorRecordNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := utils.HTTPStatus(tc.err); got != tc.status {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.status)
		}
	}
}
