package book

import (
	"net/http"

	"mylibrary/internal/hal"
)

const (
	collectionTemplate = "/books"
	itemTemplate       = "/books/{isbn}"
)

// Resource is a View with its hypermedia links.
type Resource struct {
	View
	Links hal.Links `json:"_links"`
}

// PagedResources is one page of the book collection.
type PagedResources struct {
	Embedded *EmbeddedBooks   `json:"_embedded,omitempty"`
	Links    hal.Links        `json:"_links"`
	Page     hal.PageMetadata `json:"page"`
}

type EmbeddedBooks struct {
	Books []Resource `json:"books"`
}

// Assembler attaches links to outgoing book representations.
type Assembler struct {
	basePath  string
	publicURL string
}

// NewAssembler creates an assembler for routes mounted under basePath.
// publicURL, when set, replaces the request origin in every link.
func NewAssembler(basePath, publicURL string) *Assembler {
	return &Assembler{basePath: basePath, publicURL: publicURL}
}

// ItemPath is the route pattern of a single book.
func (a *Assembler) ItemPath() string {
	return a.basePath + itemTemplate
}

// CollectionPath is the route pattern of the book collection.
func (a *Assembler) CollectionPath() string {
	return a.basePath + collectionTemplate
}

// ToResource adds the self link of v.
func (a *Assembler) ToResource(r *http.Request, v View) Resource {
	self := hal.BaseURL(r, a.publicURL) + hal.Expand(a.ItemPath(), map[string]string{"isbn": v.ISBN})
	return Resource{
		View:  v,
		Links: hal.Links{"self": {Href: self}},
	}
}

// ToPagedResources links every item of p and adds page metadata plus a self
// link carrying the effective page, size and sort parameters.
func (a *Assembler) ToPagedResources(r *http.Request, p Page) PagedResources {
	out := PagedResources{
		Links: hal.Links{"self": {Href: a.pageHref(r, p.Request, p.Request.Page)}},
		Page: hal.PageMetadata{
			PageSize:      p.Request.Size,
			TotalElements: p.TotalElements,
			TotalPages:    p.TotalPages,
			CurrentPage:   p.Request.Page,
		},
	}

	if len(p.Items) > 0 {
		books := make([]Resource, 0, len(p.Items))
		for _, v := range p.Items {
			books = append(books, a.ToResource(r, v))
		}
		out.Embedded = &EmbeddedBooks{Books: books}
	}

	if p.TotalPages > 0 {
		last := p.TotalPages - 1
		out.Links["first"] = hal.Link{Href: a.pageHref(r, p.Request, 0)}
		out.Links["last"] = hal.Link{Href: a.pageHref(r, p.Request, last)}
		if p.Request.Page > 0 {
			prev := p.Request.Page - 1
			if prev > last {
				prev = last
			}
			out.Links["prev"] = hal.Link{Href: a.pageHref(r, p.Request, prev)}
		}
		if p.Request.Page < last {
			out.Links["next"] = hal.Link{Href: a.pageHref(r, p.Request, p.Request.Page+1)}
		}
	}
	return out
}

func (a *Assembler) pageHref(r *http.Request, req PageRequest, page int) string {
	sort := make([]string, 0, len(req.Sort))
	for _, o := range req.Sort {
		sort = append(sort, o.String())
	}
	return hal.BaseURL(r, a.publicURL) + a.CollectionPath() + "?" + hal.PageQuery(page, req.Size, sort)
}
