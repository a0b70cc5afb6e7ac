package llm

import "errors"

var (
	// ErrUnavailable indicates the OpenAI API could not be reached or
	// answered with a server error.
	ErrUnavailable = errors.New("openai api unavailable")

	// ErrRateLimited indicates the API rejected the call with HTTP 429.
	ErrRateLimited = errors.New("openai rate limited")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the response could not be parsed into
	// the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)
