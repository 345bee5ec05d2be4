package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"sales-service/domain/sale"
	"sales-service/pkg/query"
)

func TestFromDomainErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   ErrorCode
		wantStatus int
	}{
		{"sale not found", sale.NewSaleNotFoundError("s-1"), CodeSaleNotFound, http.StatusNotFound},
		{"item not found", sale.NewItemNotFoundError("s-1", "i-1"), CodeItemNotFound, http.StatusNotFound},
		{"concurrent modification", sale.NewConcurrentModificationError("s-1", 3), CodeConcurrentModify, http.StatusConflict},
		{"sale cancelled", sale.ErrSaleCancelled, CodeInvalidSaleState, http.StatusUnprocessableEntity},
		{"sale not active", sale.ErrSaleNotActive, CodeInvalidSaleState, http.StatusUnprocessableEntity},
		{"duplicate item", sale.ErrDuplicateItem, CodeConflict, http.StatusConflict},
		{"duplicate sale number", sale.NewDuplicateSaleNumberError("SALE-1"), CodeConflict, http.StatusConflict},
		{"invalid quantity", sale.ErrInvalidQuantity, CodeValidation, http.StatusBadRequest},
		{"no items", sale.ErrNoItems, CodeValidation, http.StatusBadRequest},
		{"unknown query field", query.ErrUnknownField, CodeBadRequest, http.StatusBadRequest},
		{"invalid filter value", query.ErrInvalidValue, CodeBadRequest, http.StatusBadRequest},
		{"bad sort direction", query.ErrInvalidSortDirection, CodeBadRequest, http.StatusBadRequest},
		{"unknown error", stderrors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := FromDomainError(tc.err)
			if appErr.Code != tc.wantCode {
				t.Errorf("code = %s, want %s", appErr.Code, tc.wantCode)
			}
			if status := appErr.HTTPStatusCode(); status != tc.wantStatus {
				t.Errorf("status = %d, want %d", status, tc.wantStatus)
			}
		})
	}

	t.Log("✓ domain error mapping tests passed")
}

func TestFromDomainErrorNil(t *testing.T) {
	if got := FromDomainError(nil); got != nil {
		t.Errorf("FromDomainError(nil) = %v, want nil", got)
	}
}

func TestFromDomainErrorPassesThroughAppError(t *testing.T) {
	original := BadRequest("bad input")
	if got := FromDomainError(original); got != original {
		t.Errorf("existing AppError was rewrapped: %v", got)
	}
}

func TestFromDomainErrorHidesInternalDetail(t *testing.T) {
	appErr := FromDomainError(stderrors.New("dsn=root:secret@tcp"))
	if appErr.Message != "internal server error" {
		t.Errorf("internal message leaked: %q", appErr.Message)
	}
	if !stderrors.Is(appErr, appErr.Err) {
		t.Error("cause not preserved for logging")
	}
}

func TestIsAndAsAppError(t *testing.T) {
	err := NotFound("missing")
	if !Is(err, CodeNotFound) {
		t.Error("Is failed on direct AppError")
	}
	if Is(err, CodeConflict) {
		t.Error("Is matched wrong code")
	}
	if Is(stderrors.New("plain"), CodeNotFound) {
		t.Error("Is matched a non-AppError")
	}

	wrapped := AsAppError(stderrors.New("plain"))
	if wrapped.Code != CodeInternal {
		t.Errorf("AsAppError code = %s, want %s", wrapped.Code, CodeInternal)
	}
	if again := AsAppError(wrapped); again != wrapped {
		t.Error("AsAppError rewrapped an AppError")
	}
}
