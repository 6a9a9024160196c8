package httpx

import (
	"encoding/json"
	"net/http"
)

// ProblemMediaType is the content type of error responses.
const ProblemMediaType = "application/problem+json"

// Problem is a problem detail error body. Optional fields are omitted when
// empty.
type Problem struct {
	Title    string    `json:"title"`
	Detail   string    `json:"detail"`
	Type     string    `json:"type,omitempty"`
	Instance string    `json:"instance,omitempty"`
	Status   int       `json:"status,omitempty"`
	Errors   []Problem `json:"errors,omitempty"`
}

// WriteProblem writes p with its status. Instance defaults to the request path.
func WriteProblem(w http.ResponseWriter, r *http.Request, p Problem) {
	if p.Status == 0 {
		p.Status = http.StatusInternalServerError
	}
	if p.Instance == "" && r != nil {
		p.Instance = r.URL.Path
	}
	w.Header().Set("Content-Type", ProblemMediaType)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func NotFound() Problem {
	return Problem{
		Title:  "Resource not found",
		Detail: "Requested resource cannot be found",
		Status: http.StatusNotFound,
	}
}

func Conflict(detail string) Problem {
	return Problem{
		Title:  "Conflict",
		Detail: detail,
		Status: http.StatusConflict,
	}
}

func BadRequest(detail string) Problem {
	return Problem{
		Title:  "Bad request",
		Detail: detail,
		Status: http.StatusBadRequest,
	}
}

// ValidationFailed carries one nested problem per invalid field.
func ValidationFailed(errs []Problem) Problem {
	return Problem{
		Title:  "Validation failed",
		Detail: "Request contains invalid fields",
		Status: http.StatusBadRequest,
		Errors: errs,
	}
}

func PayloadTooLarge() Problem {
	return Problem{
		Title:  "Payload too large",
		Detail: "Request body exceeds the allowed size",
		Status: http.StatusRequestEntityTooLarge,
	}
}

func TooManyRequests() Problem {
	return Problem{
		Title:  "Too many requests",
		Detail: "Rate limit exceeded",
		Status: http.StatusTooManyRequests,
	}
}

func Internal() Problem {
	return Problem{
		Title:  "Internal server error",
		Detail: "Unexpected Internal Error",
		Status: http.StatusInternalServerError,
	}
}
