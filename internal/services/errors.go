package services

import "errors"

type ErrorCode string

const (
	ErrorInvalid           ErrorCode = "invalid"
	ErrorInvalidResponse   ErrorCode = "invalid_response"
	ErrorDuplicateEmail    ErrorCode = "duplicate_email"
	ErrorUserNotFound      ErrorCode = "user_not_found"
	ErrorAlreadyPaid       ErrorCode = "already_paid"
	ErrorTemporaryLogin    ErrorCode = "temporary_login"
	ErrorUnauthorized      ErrorCode = "unauthorized"
	ErrorNotFound          ErrorCode = "not_found"
	ErrorForbidden         ErrorCode = "forbidden"
	ErrorPaymentIncomplete ErrorCode = "payment_incomplete"
	ErrorBadGateway        ErrorCode = "bad_gateway"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error  { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewNotFoundError(msg string) error { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewForbiddenError(msg string) error {
	return &ServiceError{Code: ErrorForbidden, Message: msg}
}

func NewInvalidResponseError(msg string) error {
	return &ServiceError{Code: ErrorInvalidResponse, Message: msg}
}

func NewDuplicateEmailError(msg string) error {
	return &ServiceError{Code: ErrorDuplicateEmail, Message: msg}
}

func NewUserNotFoundError(msg string) error {
	return &ServiceError{Code: ErrorUserNotFound, Message: msg}
}

func NewAlreadyPaidError(msg string) error {
	return &ServiceError{Code: ErrorAlreadyPaid, Message: msg}
}

func NewTemporaryLoginError(msg string) error {
	return &ServiceError{Code: ErrorTemporaryLogin, Message: msg}
}

func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func NewPaymentIncompleteError(msg string) error {
	return &ServiceError{Code: ErrorPaymentIncomplete, Message: msg}
}

func NewBadGatewayError(msg string) error {
	return &ServiceError{Code: ErrorBadGateway, Message: msg}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
