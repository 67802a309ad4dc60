package ctdf

import "fmt"

type PlanningErrorCategory string

const (
	PlanningErrorCategoryConfiguration PlanningErrorCategory = "Configuration"
	PlanningErrorCategoryUpstream      PlanningErrorCategory = "Upstream"
	PlanningErrorCategoryNoResults     PlanningErrorCategory = "NoResults"
)

// PlanningError is returned by every planner so callers can offer a remedy
type PlanningError struct {
	Category   PlanningErrorCategory
	Code       string
	Message    string
	Suggestion string

	StatusCode int
	Err        error
}

func (e *PlanningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *PlanningError) Unwrap() error {
	return e.Err
}

// Is matches on code so wrapped copies of a sentinel still compare equal
func (e *PlanningError) Is(target error) bool {
	t, ok := target.(*PlanningError)
	if !ok {
		return false
	}

	return e.Code == t.Code
}

func (e *PlanningError) Wrap(err error) *PlanningError {
	wrapped := *e
	wrapped.Err = err
	return &wrapped
}

func (e *PlanningError) WithStatus(statusCode int) *PlanningError {
	wrapped := *e
	wrapped.StatusCode = statusCode
	return &wrapped
}
