package book

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Request is the body accepted by create and update. Volume is a pointer so
// that an absent volume can be told apart from zero.
type Request struct {
	ISBN   string `json:"isbn" validate:"required,max=45"`
	Title  string `json:"title" validate:"required,max=1000"`
	Author string `json:"author" validate:"required,max=1000"`
	Volume *int   `json:"volume" validate:"required"`
}

// View returns the request as a wire view. Call only after Validate.
func (req Request) View() View {
	v := View{ISBN: req.ISBN, Title: req.Title, Author: req.Author}
	if req.Volume != nil {
		v.Volume = *req.Volume
	}
	return v
}

// Validate checks field constraints and returns a *ValidationError listing
// every violation.
func (req Request) Validate() error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Violations = append(out.Violations, FieldViolation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: violationMessage(fe),
		})
	}
	return out
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
