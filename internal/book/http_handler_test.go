package book

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"testing"

	"mylibrary/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory Repository for request round trips.
type memRepo struct {
	mu   sync.Mutex
	rows map[string]Record
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[string]Record{}}
}

func (m *memRepo) FindByISBN(_ context.Context, isbn string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[isbn]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

func (m *memRepo) FindAll(_ context.Context, p PageRequest) ([]Record, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]Record, 0, len(m.rows))
	for _, r := range m.rows {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool {
		for _, o := range p.Sort {
			a, b := sortKey(all[i], o.Property), sortKey(all[j], o.Property)
			if a == b {
				continue
			}
			if o.Direction == Desc {
				return a > b
			}
			return a < b
		}
		return all[i].ISBN < all[j].ISBN
	})
	start := len(all)
	if off := p.Offset(); off < int64(len(all)) {
		start = int(off)
	}
	end := start + p.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

// failingRepo fails every call with err.
type failingRepo struct{ err error }

func (f failingRepo) FindByISBN(context.Context, string) (Record, error) { return Record{}, f.err }
func (f failingRepo) FindAll(context.Context, PageRequest) ([]Record, int, error) {
	return nil, 0, f.err
}
func (f failingRepo) Save(context.Context, Record) error   { return f.err }
func (f failingRepo) Delete(context.Context, string) error { return f.err }

func sortKey(r Record, prop string) string {
	switch prop {
	case "title":
		return r.Title
	case "author":
		return r.Author
	default:
		return r.ISBN
	}
}

func (m *memRepo) Save(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[r.ISBN] = r
	return nil
}

func (m *memRepo) Delete(_ context.Context, isbn string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[isbn]; !ok {
		return ErrNotFound
	}
	delete(m.rows, isbn)
	return nil
}

func newTestRouter(repo Repository, basePath string) (*http.ServeMux, *Service) {
	service := NewService(repo)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHTTPHandler(service, NewAssembler(basePath, ""), logger)
	mux := http.NewServeMux()
	handler.Register(mux)
	return mux, service
}

func TestHTTPHandler_GetByISBN(t *testing.T) {
	mux, service := newTestRouter(newMemRepo(), "")
	_, err := service.Create(context.Background(), View{ISBN: "1", Title: "Star Wars: Return of the Jedi", Author: "", Volume: 0})
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		w := testutil.Do(mux, http.MethodGet, "/books/1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/hal+json;charset=UTF-8", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{
			"isbn": "1",
			"title": "Star Wars: Return of the Jedi",
			"author": "",
			"volume": 0,
			"_links": {"self": {"href": "http://localhost/books/1"}}
		}`, w.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		w := testutil.Do(mux, http.MethodGet, "/books/2", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{
			"title": "Resource not found",
			"detail": "Requested resource cannot be found",
			"instance": "/books/2",
			"status": 404
		}`, w.Body.String())
	})
}

func TestHTTPHandler_List(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		mux, _ := newTestRouter(newMemRepo(), "")
		w := testutil.Do(mux, http.MethodGet, "/books", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/hal+json;charset=UTF-8", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{
			"_links": {"self": {"href": "http://localhost/books?page=0&size=10&sort=title,asc"}},
			"page": {"pageSize": 10, "totalElements": 0, "totalPages": 0, "currentPage": 0}
		}`, w.Body.String())
	})

	t.Run("sorted pages with navigation", func(t *testing.T) {
		repo := newMemRepo()
		mux, service := newTestRouter(repo, "")
		for _, v := range []View{
			{ISBN: "1", Title: "C", Author: "x", Volume: 1},
			{ISBN: "2", Title: "A", Author: "y", Volume: 1},
			{ISBN: "3", Title: "B", Author: "z", Volume: 1},
		} {
			_, err := service.Create(context.Background(), v)
			require.NoError(t, err)
		}

		w := testutil.Do(mux, http.MethodGet, "/books?page=1&size=2", "")
		require.Equal(t, http.StatusOK, w.Code)

		var body PagedResources
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotNil(t, body.Embedded)
		require.Len(t, body.Embedded.Books, 1)
		assert.Equal(t, "C", body.Embedded.Books[0].Title)
		assert.Equal(t, "http://localhost/books/1", body.Embedded.Books[0].Links["self"].Href)
		assert.Equal(t, 3, body.Page.TotalElements)
		assert.Equal(t, 2, body.Page.TotalPages)
		assert.Equal(t, 1, body.Page.CurrentPage)
		assert.Equal(t, "http://localhost/books?page=1&size=2&sort=title,asc", body.Links["self"].Href)
		assert.Equal(t, "http://localhost/books?page=0&size=2&sort=title,asc", body.Links["prev"].Href)
		assert.Equal(t, "http://localhost/books?page=0&size=2&sort=title,asc", body.Links["first"].Href)
		assert.Equal(t, "http://localhost/books?page=1&size=2&sort=title,asc", body.Links["last"].Href)
		assert.NotContains(t, body.Links, "next")
	})

	t.Run("page beyond int range is empty", func(t *testing.T) {
		mux, service := newTestRouter(newMemRepo(), "")
		_, err := service.Create(context.Background(), View{ISBN: "1", Title: "A", Author: "x", Volume: 1})
		require.NoError(t, err)

		w := testutil.Do(mux, http.MethodGet, "/books?page=9223372036854775807&size=10", "")

		require.Equal(t, http.StatusOK, w.Code)
		var body PagedResources
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Nil(t, body.Embedded)
		assert.Equal(t, 1, body.Page.TotalElements)
		assert.Equal(t, MaxPage, body.Page.CurrentPage)
		assert.Equal(t, "http://localhost/books?page=0&size=10&sort=title,asc", body.Links["prev"].Href)
		assert.NotContains(t, body.Links, "next")
	})

	t.Run("sort parameters reproduced", func(t *testing.T) {
		mux, _ := newTestRouter(newMemRepo(), "")
		w := testutil.Do(mux, http.MethodGet, "/books?sort=author,desc&sort=isbn", "")

		require.Equal(t, http.StatusOK, w.Code)
		var body PagedResources
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "http://localhost/books?page=0&size=10&sort=author,desc&sort=isbn,asc", body.Links["self"].Href)
	})

	t.Run("unknown sort property", func(t *testing.T) {
		mux, _ := newTestRouter(newMemRepo(), "")
		w := testutil.Do(mux, http.MethodGet, "/books?sort=publisher", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	})

	t.Run("store failure", func(t *testing.T) {
		mux, _ := newTestRouter(failingRepo{err: context.DeadlineExceeded}, "")

		w := testutil.Do(mux, http.MethodGet, "/books", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{
			"title": "Internal server error",
			"detail": "Unexpected Internal Error",
			"instance": "/books",
			"status": 500
		}`, w.Body.String())
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	const body = `{"isbn":"1","title":"Star Wars: Return of the Jedi","author":"George Lucas","volume":6}`

	t.Run("created then fetched", func(t *testing.T) {
		mux, _ := newTestRouter(newMemRepo(), "")

		w := testutil.Do(mux, http.MethodPost, "/books", body)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "application/hal+json;charset=UTF-8", w.Header().Get("Content-Type"))
		want := `{
			"isbn": "1",
			"title": "Star Wars: Return of the Jedi",
			"author": "George Lucas",
			"volume": 6,
			"_links": {"self": {"href": "http://localhost/books/1"}}
		}`
		assert.JSONEq(t, want, w.Body.String())

		w = testutil.Do(mux, http.MethodGet, "/books/1", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, want, w.Body.String())
	})

	t.Run("conflict keeps stored record", func(t *testing.T) {
		mux, _ := newTestRouter(newMemRepo(), "")
		require.Equal(t, http.StatusCreated, testutil.Do(mux, http.MethodPost, "/books", body).Code)

		w := testutil.Do(mux, http.MethodPost, "/books", `{"isbn":"1","title":"Other","author":"Someone","volume":1}`)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{
			"title": "Conflict",
			"detail": "Book with such ISBN already exists",
			"instance": "/books",
			"status": 409
		}`, w.Body.String())

		w = testutil.Do(mux, http.MethodGet, "/books/1", "")
		assert.Contains(t, w.Body.String(), `"title":"Star Wars: Return of the Jedi"`)
	})

	t.Run("validation failure", func(t *testing.T) {
		mux, _ := newTestRouter(newMemRepo(), "")

		w := testutil.Do(mux, http.MethodPost, "/books", `{"isbn":"1","title":"Star Wars: Return of the Jedi"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var p struct {
			Title  string `json:"title"`
			Status int    `json:"status"`
			Errors []struct {
				Type string `json:"type"`
			} `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		assert.Equal(t, "Validation failed", p.Title)
		assert.Equal(t, 400, p.Status)
		var types []string
		for _, e := range p.Errors {
			types = append(types, e.Type)
		}
		assert.ElementsMatch(t, []string{"author.required", "volume.required"}, types)

		assert.Equal(t, http.StatusNotFound, testutil.Do(mux, http.MethodGet, "/books/1", "").Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		mux, _ := newTestRouter(newMemRepo(), "")

		w := testutil.Do(mux, http.MethodPost, "/books", `{"isbn":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	})
}

func TestHTTPHandler_Update(t *testing.T) {
	t.Run("changes title only", func(t *testing.T) {
		mux, service := newTestRouter(newMemRepo(), "")
		_, err := service.Create(context.Background(), View{ISBN: "1", Title: "Old", Author: "John Doe", Volume: 1})
		require.NoError(t, err)

		w := testutil.Do(mux, http.MethodPut, "/books/1", `{"isbn":"1","title":"New","author":"Jane Roe","volume":7}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"isbn": "1",
			"title": "New",
			"author": "Jane Roe",
			"volume": 7,
			"_links": {"self": {"href": "http://localhost/books/1"}}
		}`, w.Body.String())

		stored, err := service.GetByISBN(context.Background(), "1")
		require.NoError(t, err)
		assert.Equal(t, View{ISBN: "1", Title: "New", Author: "John Doe", Volume: 1}, stored)
	})

	t.Run("isbn taken from path", func(t *testing.T) {
		mux, service := newTestRouter(newMemRepo(), "")
		_, err := service.Create(context.Background(), View{ISBN: "1", Title: "Old", Author: "John Doe", Volume: 1})
		require.NoError(t, err)

		w := testutil.Do(mux, http.MethodPut, "/books/1", `{"title":"New","author":"John Doe","volume":1}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("isbn mismatch", func(t *testing.T) {
		mux, _ := newTestRouter(newMemRepo(), "")

		w := testutil.Do(mux, http.MethodPut, "/books/1", `{"isbn":"2","title":"New","author":"John Doe","volume":1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mux, _ := newTestRouter(newMemRepo(), "")

		w := testutil.Do(mux, http.MethodPut, "/books/1", `{"isbn":"1","title":"New","author":"John Doe","volume":1}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"instance":"/books/1"`)
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	mux, _ := newTestRouter(newMemRepo(), "")
	require.Equal(t, http.StatusCreated,
		testutil.Do(mux, http.MethodPost, "/books", `{"isbn":"2","title":"Star Wars: Return of the Jedi 2","author":"George Lucas","volume":1}`).Code)

	w := testutil.Do(mux, http.MethodDelete, "/books/2", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	assert.Equal(t, http.StatusNotFound, testutil.Do(mux, http.MethodGet, "/books/2", "").Code)
	assert.Equal(t, http.StatusNotFound, testutil.Do(mux, http.MethodDelete, "/books/2", "").Code)
}

func TestHTTPHandler_BasePath(t *testing.T) {
	mux, service := newTestRouter(newMemRepo(), "/mylibrary")
	_, err := service.Create(context.Background(), View{ISBN: "1", Title: "T", Author: "A", Volume: 1})
	require.NoError(t, err)

	w := testutil.Do(mux, http.MethodGet, "/mylibrary/books/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"href":"http://localhost/mylibrary/books/1"`)

	assert.Equal(t, http.StatusNotFound, testutil.Do(mux, http.MethodGet, "/books/1", "").Code)
}
