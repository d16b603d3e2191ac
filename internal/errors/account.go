package errors

var (
	ErrAccountNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "ACCOUNT_NOT_FOUND",
		Message: "User not found.",
	}
	ErrDuplicateEmail = &DomainError{
		Kind:    KindConflict,
		Code:    "USER_EXISTS",
		Message: "User already exists",
	}
	ErrInvalidCredentials = &DomainError{
		Kind:    KindUnauthorized,
		Code:    "INVALID_CREDENTIALS",
		Message: "Invalid email or password",
	}
	ErrMissingToken = &DomainError{
		Kind:    KindUnauthorized,
		Code:    "NO_TOKEN",
		Message: "Not authorized, no token",
	}
	ErrInvalidToken = &DomainError{
		Kind:    KindUnauthorized,
		Code:    "INVALID_TOKEN",
		Message: "Not authorized, token failed",
	}
	ErrSessionExpired = &DomainError{
		Kind:    KindUnauthorized,
		Code:    "SESSION_EXPIRED",
		Message: "Session expired, please sign in again",
	}
	ErrInvalidResetToken = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_RESET_TOKEN",
		Message: "Invalid or expired reset token.",
	}
	ErrWeakPassword = &DomainError{
		Kind:    KindValidation,
		Code:    "WEAK_PASSWORD",
		Message: "Password must be at least 8 characters long.",
	}
)
