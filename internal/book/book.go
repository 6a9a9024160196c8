package book

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrNotFound is returned when no book exists for an ISBN.
	ErrNotFound = errors.New("book not found")
	// ErrConflict is returned when a book with the same ISBN is already stored.
	ErrConflict = errors.New("book with such ISBN already exists")
)

// Record is a row of the books table.
type Record struct {
	ISBN   string
	Title  string
	Author string
	Volume int
}

// View is the wire representation of a book.
type View struct {
	ISBN   string `json:"isbn"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Volume int    `json:"volume"`
}

// Direction is the sort direction of an Order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Order sorts a listing by one property.
type Order struct {
	Property  string
	Direction Direction
}

func (o Order) String() string {
	return o.Property + "," + string(o.Direction)
}

// sortColumns maps sortable properties to their columns.
var sortColumns = map[string]string{
	"isbn":   "isbn",
	"title":  "title",
	"author": "author",
	"volume": "volume",
}

// Sortable reports whether listings can be ordered by property.
func Sortable(property string) bool {
	_, ok := sortColumns[property]
	return ok
}

// DefaultSort is applied when a listing carries no orders.
var DefaultSort = []Order{{Property: "title", Direction: Asc}}

const (
	DefaultPageSize = 10
	MaxPageSize     = 2000
)

// MaxPage keeps Page*Size within int64 for any permitted size.
const MaxPage = math.MaxInt32

// PageRequest selects one page of a sorted listing. Page is zero based.
type PageRequest struct {
	Page int
	Size int
	Sort []Order
}

// Offset is the number of rows skipped before the page starts.
func (p PageRequest) Offset() int64 {
	return int64(p.Page) * int64(p.Size)
}

// withDefaults returns p with page and size clamped and the default sort applied.
func (p PageRequest) withDefaults() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if len(p.Sort) == 0 {
		p.Sort = DefaultSort
	}
	return p
}

// Page is one page of books plus totals over the whole listing.
type Page struct {
	Items         []View
	TotalElements int
	TotalPages    int
	Request       PageRequest
}

func totalPages(total, size int) int {
	if total == 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// FieldViolation describes one invalid input field.
type FieldViolation struct {
	Field   string
	Rule    string
	Message string
}

// ValidationError is returned when input fails validation before any
// operation runs.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}
