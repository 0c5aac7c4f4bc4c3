package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNavigation represents a page that could not be loaded
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypeAdParse represents an ad whose required elements are missing
	ErrorTypeAdParse ErrorType = "ad_parse"
	// ErrorTypePriceParse represents an ad whose price text is not a number
	ErrorTypePriceParse ErrorType = "price_parse"
	// ErrorTypeExport represents a failure writing the output spreadsheet
	ErrorTypeExport ErrorType = "export"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// Sentinels for errors.Is. A price parse error also matches ErrAdParse.
var (
	ErrNavigation = errors.New("navigation failed")
	ErrAdParse    = errors.New("ad parse failed")
	ErrPriceParse = errors.New("price parse failed")
	ErrExport     = errors.New("export failed")
	ErrValidation = errors.New("invalid input")
)

// CrawlerError represents a crawler-specific error
type CrawlerError struct {
	Type     ErrorType
	Provider string
	Message  string
	Err      error
	Time     time.Time
}

// Error implements the error interface
func (e *CrawlerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Provider, e.Message)
}

// Unwrap returns the underlying error
func (e *CrawlerError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel that corresponds to the error type
func (e *CrawlerError) Is(target error) bool {
	switch target {
	case ErrNavigation:
		return e.Type == ErrorTypeNavigation
	case ErrAdParse:
		return e.Type == ErrorTypeAdParse || e.Type == ErrorTypePriceParse
	case ErrPriceParse:
		return e.Type == ErrorTypePriceParse
	case ErrExport:
		return e.Type == ErrorTypeExport
	case ErrValidation:
		return e.Type == ErrorTypeValidation
	}
	return false
}

// IsRecoverable reports whether the crawl may continue after this error.
// Only ad-level failures are contained; everything else aborts the run.
func (e *CrawlerError) IsRecoverable() bool {
	switch e.Type {
	case ErrorTypeAdParse, ErrorTypePriceParse, ErrorTypeCache, ErrorTypePublisher:
		return true
	default:
		return false
	}
}

// New creates a new CrawlerError
func New(errType ErrorType, provider, message string, err error) *CrawlerError {
	return &CrawlerError{
		Type:     errType,
		Provider: provider,
		Message:  message,
		Err:      err,
		Time:     time.Now(),
	}
}

// NewNavigation creates a new navigation error
func NewNavigation(provider, message string, err error) *CrawlerError {
	return New(ErrorTypeNavigation, provider, message, err)
}

// NewAdParse creates a new ad parse error
func NewAdParse(provider, message string, err error) *CrawlerError {
	return New(ErrorTypeAdParse, provider, message, err)
}

// NewPriceParse creates a new price parse error
func NewPriceParse(provider, message string, err error) *CrawlerError {
	return New(ErrorTypePriceParse, provider, message, err)
}

// NewExport creates a new export error
func NewExport(provider, message string, err error) *CrawlerError {
	return New(ErrorTypeExport, provider, message, err)
}

// NewCache creates a new cache error
func NewCache(provider, message string, err error) *CrawlerError {
	return New(ErrorTypeCache, provider, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(provider, message string, err error) *CrawlerError {
	return New(ErrorTypePublisher, provider, message, err)
}

// NewValidation creates a new validation error
func NewValidation(provider, message string) *CrawlerError {
	return New(ErrorTypeValidation, provider, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *CrawlerError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsRecoverable reports whether err is a CrawlerError the crawl may continue past.
// Errors of any other kind are not recoverable.
func IsRecoverable(err error) bool {
	var ce *CrawlerError
	return errors.As(err, &ce) && ce.IsRecoverable()
}

// TypeOf returns the ErrorType of the first CrawlerError in err's chain
func TypeOf(err error) (ErrorType, bool) {
	var ce *CrawlerError
	if errors.As(err, &ce) {
		return ce.Type, true
	}
	return "", false
}
