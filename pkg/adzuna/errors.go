package adzuna

const (
	// SearchFailedMessage is shown when a search fails without an upstream explanation
	SearchFailedMessage = "Failed to fetch jobs. Please check your API credentials and try again."
	// CategoriesFailedMessage is shown for any categories failure
	CategoriesFailedMessage = "Failed to fetch job categories"
)

// RequestError is the only error the client returns for request failures.
// It carries a display string and nothing else.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}
