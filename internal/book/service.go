package book

import (
	"context"
	"errors"
	"fmt"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByISBN returns a book by its ISBN.
func (s *Service) GetByISBN(ctx context.Context, isbn string) (View, error) {
	r, err := s.load(ctx, isbn)
	if err != nil {
		return View{}, err
	}
	return ToView(r), nil
}

// List returns one page of books, sorted by title when no order is given.
func (s *Service) List(ctx context.Context, p PageRequest) (Page, error) {
	p = p.withDefaults()
	records, total, err := s.repo.FindAll(ctx, p)
	if err != nil {
		return Page{}, fmt.Errorf("list books: %w", err)
	}
	return Page{
		Items:         toViews(records),
		TotalElements: total,
		TotalPages:    totalPages(total, p.Size),
		Request:       p,
	}, nil
}

// Create stores a new book and returns v unchanged.
func (s *Service) Create(ctx context.Context, v View) (View, error) {
	_, err := s.repo.FindByISBN(ctx, v.ISBN)
	switch {
	case err == nil:
		return View{}, ErrConflict
	case !errors.Is(err, ErrNotFound):
		return View{}, fmt.Errorf("create book %s: %w", v.ISBN, err)
	}

	if err := s.repo.Save(ctx, ToRecord(v)); err != nil {
		return View{}, fmt.Errorf("create book %s: %w", v.ISBN, err)
	}
	return v, nil
}

// Update overwrites the title of an existing book and returns v unchanged.
// Author and volume in v are ignored.
func (s *Service) Update(ctx context.Context, v View) (View, error) {
	r, err := s.load(ctx, v.ISBN)
	if err != nil {
		return View{}, err
	}
	r.Title = v.Title

	if err := s.repo.Save(ctx, r); err != nil {
		return View{}, fmt.Errorf("update book %s: %w", v.ISBN, err)
	}
	return v, nil
}

// Delete removes an existing book.
func (s *Service) Delete(ctx context.Context, isbn string) error {
	r, err := s.load(ctx, isbn)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, r.ISBN); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete book %s: %w", isbn, err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, isbn string) (Record, error) {
	r, err := s.repo.FindByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("load book %s: %w", isbn, err)
	}
	return r, nil
}
