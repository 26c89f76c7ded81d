package error

import (
	"fmt"
	"runtime"
	"strings"
)

// ErrorCategory classifies errors by their nature and appropriate handling strategy.
type ErrorCategory int

const (
	// ErrCategoryUser represents errors caused by a caller violating a contract:
	// mismatched schemas, protocol misuse, unsupported aggregate requests.
	ErrCategoryUser ErrorCategory = iota

	// ErrCategoryTransient represents temporary errors that might succeed on retry.
	ErrCategoryTransient

	// ErrCategorySystem represents failures inside a collaborator (storage layer)
	// that this core cannot resolve on its own.
	ErrCategorySystem

	// ErrCategoryConcurrency represents errors from the transactional context,
	// such as a transaction that was aborted while an operator was draining.
	ErrCategoryConcurrency
)

func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryUser:
		return "USER"
	case ErrCategoryTransient:
		return "TRANSIENT"
	case ErrCategorySystem:
		return "SYSTEM"
	case ErrCategoryConcurrency:
		return "CONCURRENCY"
	default:
		return "UNKNOWN"
	}
}

// Error codes produced by the execution core.
const (
	CodeSchemaMismatch       = "SCHEMA_MISMATCH"
	CodeIllegalState         = "ILLEGAL_STATE"
	CodeNoSuchElement        = "NO_SUCH_ELEMENT"
	CodeUnsupportedAggregate = "UNSUPPORTED_AGGREGATE"
	CodeStorageFailure       = "STORAGE_FAILURE"
	CodeTransactionAborted   = "TRANSACTION_ABORTED"
)

// Sentinels for errors.Is. A sentinel matches any DBError carrying the same code,
// so callers can write errors.Is(err, dberror.ErrIllegalState) without caring
// about the message or where in the chain the DBError sits.
var (
	ErrSchemaMismatch       = &DBError{Code: CodeSchemaMismatch, Category: ErrCategoryUser, Message: "schema mismatch"}
	ErrIllegalState         = &DBError{Code: CodeIllegalState, Category: ErrCategoryUser, Message: "illegal state"}
	ErrNoSuchElement        = &DBError{Code: CodeNoSuchElement, Category: ErrCategoryUser, Message: "no such element"}
	ErrUnsupportedAggregate = &DBError{Code: CodeUnsupportedAggregate, Category: ErrCategoryUser, Message: "unsupported aggregate"}
	ErrStorageFailure       = &DBError{Code: CodeStorageFailure, Category: ErrCategorySystem, Message: "storage failure"}
	ErrTransactionAborted   = &DBError{Code: CodeTransactionAborted, Category: ErrCategoryConcurrency, Message: "transaction aborted"}
)

// DBError represents a structured database error with rich context information.
type DBError struct {
	// Code is a unique identifier for this error type (e.g., "ILLEGAL_STATE").
	Code string

	// Category classifies the error for appropriate handling strategy.
	Category ErrorCategory

	// Message is a human-readable description of what went wrong.
	Message string

	// Detail provides additional context about the specific error instance.
	Detail string

	// Operation identifies the operation being performed when the error occurred.
	// Examples: "Open", "Next", "AddValue", "InsertTuple".
	Operation string

	// Component identifies where the error originated.
	// Examples: "BaseIterator", "IntHistogram", "InsertOperator".
	Component string

	// Cause is the underlying error that triggered this database error.
	Cause error

	// Stack contains the call stack where this error was created.
	Stack []uintptr
}

// New creates a new DBError with the specified code, category, and message.
func New(category ErrorCategory, code, message string) *DBError {
	return &DBError{
		Code:     code,
		Category: category,
		Message:  message,
		Stack:    captureStack(),
	}
}

// Wrap wraps an existing error with database-specific context information.
// If the error is already a DBError, it enriches the existing error with
// operation and component context (only if not already set) and keeps its code.
// Wrap must not be called with a nil error.
func Wrap(err error, code, operation, component string) *DBError {
	if dbErr, ok := err.(*DBError); ok {
		if dbErr.Operation == "" {
			dbErr.Operation = operation
		}
		if dbErr.Component == "" {
			dbErr.Component = component
		}
		return dbErr
	}

	return &DBError{
		Code:      code,
		Category:  categoryFor(code),
		Message:   err.Error(),
		Operation: operation,
		Component: component,
		Cause:     err,
		Stack:     captureStack(),
	}
}

// SchemaMismatch reports incompatible schemas or field types.
func SchemaMismatch(operation, component, format string, args ...any) *DBError {
	return newf(CodeSchemaMismatch, operation, component, format, args...)
}

// IllegalState reports misuse of a protocol or an out-of-contract argument.
func IllegalState(operation, component, format string, args ...any) *DBError {
	return newf(CodeIllegalState, operation, component, format, args...)
}

// NoSuchElement reports a Next call on an unopened or exhausted iterator.
func NoSuchElement(operation, component, format string, args ...any) *DBError {
	return newf(CodeNoSuchElement, operation, component, format, args...)
}

// UnsupportedAggregate reports an aggregate operation the field type cannot serve.
func UnsupportedAggregate(operation, component, format string, args ...any) *DBError {
	return newf(CodeUnsupportedAggregate, operation, component, format, args...)
}

// TransactionAborted reports that the transaction backing an operation is no longer active.
func TransactionAborted(operation, component, format string, args ...any) *DBError {
	return newf(CodeTransactionAborted, operation, component, format, args...)
}

// StorageFailure wraps an error coming back from the storage layer. Errors that
// are already DBErrors (e.g. TRANSACTION_ABORTED raised by the store) keep their code.
func StorageFailure(cause error, operation, component string) *DBError {
	return Wrap(cause, CodeStorageFailure, operation, component)
}

func newf(code, operation, component, format string, args ...any) *DBError {
	return &DBError{
		Code:      code,
		Category:  categoryFor(code),
		Message:   fmt.Sprintf(format, args...),
		Operation: operation,
		Component: component,
		Stack:     captureStack(),
	}
}

func categoryFor(code string) ErrorCategory {
	switch code {
	case CodeStorageFailure:
		return ErrCategorySystem
	case CodeTransactionAborted:
		return ErrCategoryConcurrency
	default:
		return ErrCategoryUser
	}
}

// captureStack captures the current call stack for debugging purposes.
// It skips the first 3 frames to exclude captureStack, the constructor, and
// runtime.Callers itself.
func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[0:n]
}

// Error implements the standard Go error interface
//
// The format follows the pattern:
// [ERROR_CODE] Message: Detail (operation: Operation, component: Component) caused by: underlying error
func (e *DBError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Detail != "" {
		b.WriteString(fmt.Sprintf(": %s", e.Detail))
	}

	if e.Operation != "" {
		b.WriteString(fmt.Sprintf(" (operation: %s", e.Operation))
		if e.Component != "" {
			b.WriteString(fmt.Sprintf(", component: %s", e.Component))
		}
		b.WriteString(")")
	}

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(" caused by: %v", e.Cause))
	}

	return b.String()
}

// Unwrap returns the underlying cause error, enabling error chain traversal
// with Go's standard error handling functions like errors.Is and errors.As.
func (e *DBError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DBError with the same code.
func (e *DBError) Is(target error) bool {
	t, ok := target.(*DBError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetail sets Detail and returns the receiver for chaining.
func (e *DBError) WithDetail(detail string) *DBError {
	e.Detail = detail
	return e
}

// FormatStack returns a human-readable stack trace for debugging purposes.
func (e *DBError) FormatStack() string {
	if len(e.Stack) == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(e.Stack)

	b.WriteString("Stack trace:\n")
	for {
		f, more := frames.Next()
		b.WriteString(fmt.Sprintf("  %s\n    %s:%d\n",
			f.Function, f.File, f.Line))
		if !more {
			break
		}
	}

	return b.String()
}
