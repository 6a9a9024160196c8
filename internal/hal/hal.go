// Package hal builds the hypermedia parts of HAL JSON responses.
package hal

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// MediaType is the content type of HAL responses.
const MediaType = "application/hal+json;charset=UTF-8"

// Link is a single hypermedia link.
type Link struct {
	Href string `json:"href"`
}

// Links maps relation names such as "self" to their targets.
type Links map[string]Link

// PageMetadata describes a page of a collection resource.
type PageMetadata struct {
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	CurrentPage   int `json:"currentPage"`
}

// Expand replaces each {name} in template with the path-escaped value of
// params[name]. Placeholders with no value are left untouched.
func Expand(template string, params map[string]string) string {
	var sb strings.Builder
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			break
		}
		end += open
		sb.WriteString(rest[:open])
		name := rest[open+1 : end]
		if v, ok := params[name]; ok {
			sb.WriteString(url.PathEscape(v))
		} else {
			sb.WriteString(rest[open : end+1])
		}
		rest = rest[end+1:]
	}
	sb.WriteString(rest)
	return sb.String()
}

// BaseURL returns the absolute origin that links in a response to r start
// with. A configured public URL wins over the request's own scheme and host.
// Forwarded headers are not read here; httpx.ProxyHeadersMiddleware applies
// them to the request when the proxy is trusted.
func BaseURL(r *http.Request, publicURL string) string {
	if publicURL != "" {
		return strings.TrimRight(publicURL, "/")
	}
	scheme := "http"
	if r.TLS != nil || r.URL.Scheme == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// PageQuery renders page, size and sort parameters in that order. Sort
// values keep their literal comma, e.g. sort=title,asc.
func PageQuery(page, size int, sort []string) string {
	var sb strings.Builder
	sb.WriteString("page=")
	sb.WriteString(strconv.Itoa(page))
	sb.WriteString("&size=")
	sb.WriteString(strconv.Itoa(size))
	for _, s := range sort {
		sb.WriteString("&sort=")
		sb.WriteString(strings.ReplaceAll(url.QueryEscape(s), "%2C", ","))
	}
	return sb.String()
}
