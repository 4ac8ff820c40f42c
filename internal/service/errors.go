package service

type ErrorCode string

const (
	ErrorCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrorCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrorCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrorCodeEmailExists     ErrorCode = "EMAIL_EXISTS"
	ErrorCodeAlreadyMember   ErrorCode = "ALREADY_MEMBER"
	ErrorCodeInvalidToken    ErrorCode = "INVALID_TOKEN"
	ErrorCodeInvalidBody     ErrorCode = "INVALID_BODY"
	ErrorCodeSectionMismatch ErrorCode = "SECTION_MISMATCH"
	ErrorCodeUserInactive    ErrorCode = "USER_INACTIVE"
	ErrorCodeUnspecified     ErrorCode = "UNSPECIFIED"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func NewServiceError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) Error() string {
	return e.Message
}
