package apperror

// AppError is a custom error type that includes an HTTP status code and a stable error kind.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Kind    string // Machine-readable kind (e.g., "slot_conflict"), optional
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewKind creates a new AppError carrying a machine-readable kind.
func NewKind(code int, kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage returns a copy of e with a different user-facing message.
// The copy unwraps to e, so errors.Is(copy, e) still holds.
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Kind:    e.Kind,
		Message: message,
		Err:     e,
	}
}

// KindOf returns the kind of the first AppError in err's chain, or "".
func KindOf(err error) string {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Kind != "" {
			return appErr.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
