package book

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParsePageRequest reads page, size and sort from a query string. Missing or
// unparsable page and size fall back to defaults. Each sort value has the
// form property(,property)*(,asc|desc); an unknown property or direction is
// a validation error.
func ParsePageRequest(q url.Values) (PageRequest, error) {
	p := PageRequest{Page: 0, Size: DefaultPageSize}

	// Out of range pages saturate and yield an empty page.
	if v, err := strconv.ParseInt(q.Get("page"), 10, 64); (err == nil || errors.Is(err, strconv.ErrRange)) && v > 0 {
		p.Page = int(min(v, MaxPage))
	}
	if v, err := strconv.Atoi(q.Get("size")); err == nil && v > 0 {
		p.Size = v
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}

	verr := &ValidationError{}
	for _, raw := range q["sort"] {
		orders, err := parseSort(raw)
		if err != nil {
			verr.Violations = append(verr.Violations, FieldViolation{
				Field:   "sort",
				Rule:    "sort",
				Message: err.Error(),
			})
			continue
		}
		p.Sort = append(p.Sort, orders...)
	}
	if len(verr.Violations) > 0 {
		return PageRequest{}, verr
	}
	return p, nil
}

func parseSort(raw string) ([]Order, error) {
	var tokens []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	dir := Asc
	switch strings.ToLower(tokens[len(tokens)-1]) {
	case "asc":
		tokens = tokens[:len(tokens)-1]
	case "desc":
		dir = Desc
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("sort %q names no property", raw)
	}

	orders := make([]Order, 0, len(tokens))
	for _, prop := range tokens {
		if !Sortable(prop) {
			return nil, fmt.Errorf("sort property %q is not supported", prop)
		}
		orders = append(orders, Order{Property: prop, Direction: dir})
	}
	return orders, nil
}
