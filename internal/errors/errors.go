package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeEmptyQuiz          = "EMPTY_QUIZ"
	ErrCodeInvalidAnswerIndex = "INVALID_ANSWER_INDEX"
	ErrCodeAlreadyAnswered    = "ALREADY_ANSWERED"
	ErrCodeNotAnswered        = "NOT_ANSWERED"
	ErrCodeInvalidState       = "INVALID_STATE"
	ErrCodePersistence        = "PERSISTENCE_ERROR"
	ErrCodeSearchUnavailable  = "SEARCH_UNAVAILABLE"
	ErrCodeQueueFull          = "QUEUE_FULL"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "EMPTY_QUIZ")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code, so the
// sentinels below work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound           = &AppError{Code: ErrCodeNotFound}
	ErrValidation         = &AppError{Code: ErrCodeValidation}
	ErrEmptyQuiz          = &AppError{Code: ErrCodeEmptyQuiz}
	ErrInvalidAnswerIndex = &AppError{Code: ErrCodeInvalidAnswerIndex}
	ErrAlreadyAnswered    = &AppError{Code: ErrCodeAlreadyAnswered}
	ErrNotAnswered        = &AppError{Code: ErrCodeNotAnswered}
	ErrInvalidState       = &AppError{Code: ErrCodeInvalidState}
	ErrPersistence        = &AppError{Code: ErrCodePersistence}
	ErrSearchUnavailable  = &AppError{Code: ErrCodeSearchUnavailable}
	ErrQueueFull          = &AppError{Code: ErrCodeQueueFull}
)

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewEmptyQuizError is returned when a quiz is started for a topic without questions.
func NewEmptyQuizError(topicID string) *AppError {
	return &AppError{
		Code:    ErrCodeEmptyQuiz,
		Message: fmt.Sprintf("topic %s has no practice questions", topicID),
		Status:  422,
	}
}

// NewInvalidAnswerIndexError reports a selected option outside the option list.
func NewInvalidAnswerIndexError(index, optionCount int) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidAnswerIndex,
		Message: fmt.Sprintf("answer index %d out of range [0, %d)", index, optionCount),
		Status:  400,
	}
}

// NewAlreadyAnsweredError reports a second submission for the same question.
func NewAlreadyAnsweredError(questionIndex int) *AppError {
	return &AppError{
		Code:    ErrCodeAlreadyAnswered,
		Message: fmt.Sprintf("question %d already answered", questionIndex),
		Status:  409,
	}
}

// NewNotAnsweredError reports an advance before the current question was answered.
func NewNotAnsweredError(questionIndex int) *AppError {
	return &AppError{
		Code:    ErrCodeNotAnswered,
		Message: fmt.Sprintf("question %d has not been answered", questionIndex),
		Status:  409,
	}
}

// NewInvalidStateError reports an operation that is not allowed in the current state.
func NewInvalidStateError(op, state string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidState,
		Message: fmt.Sprintf("%s not allowed in state %s", op, state),
		Status:  409,
	}
}

// NewPersistenceError wraps a failed read or write of the progress store.
func NewPersistenceError(op string, err error) *AppError {
	return &AppError{
		Code:    ErrCodePersistence,
		Message: fmt.Sprintf("progress store %s failed", op),
		Status:  503,
		Err:     err,
	}
}

// NewSearchUnavailableError wraps any failure of the remote search service.
func NewSearchUnavailableError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeSearchUnavailable,
		Message: "remote search unavailable",
		Status:  503,
		Err:     err,
	}
}

// NewQueueFullError is returned when a background job cannot be queued.
func NewQueueFullError(job string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeQueueFull,
		Message: fmt.Sprintf("cannot queue %s job", job),
		Status:  503,
		Err:     err,
	}
}
