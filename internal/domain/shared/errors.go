package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same error code, so wrapped
// domain errors with a custom message still match the sentinels below.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error bound to a single input field
func NewValidationError(field, message string) *DomainError {
	return &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Field:   field,
	}
}

// MaxQuantity is the largest quantity a single cart or order line may hold
const MaxQuantity = 1000

// Common domain errors
var (
	ErrNotFound         = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists    = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput     = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrValidation       = NewDomainError("VALIDATION_ERROR", "Validation failed")
	ErrUnauthorized     = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden        = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState     = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInvalidQuantity  = NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	ErrQuantityTooLarge = NewDomainError("INVALID_QUANTITY", "Quantity must be at most 1000")
	ErrAmountTooLarge   = NewDomainError("INVALID_QUANTITY", "Total amount is too large")
	ErrUnavailable      = NewDomainError("UNAVAILABLE", "Product or variant is not available")
	ErrCartEmpty        = NewDomainError("CART_EMPTY", "Cart is empty")
	ErrStoreDisabled    = NewDomainError("STORE_DISABLED", "Store is not accepting orders")
)
