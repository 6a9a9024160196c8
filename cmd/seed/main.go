package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"mylibrary/internal/book"
	"mylibrary/internal/config"
	"mylibrary/internal/platform/database"
)

var sampleBooks = []book.View{
	{ISBN: "9780132350884", Title: "Clean Code", Author: "Robert C. Martin", Volume: 1},
	{ISBN: "9780201633610", Title: "Design Patterns", Author: "Erich Gamma", Volume: 1},
	{ISBN: "9780134190440", Title: "The Go Programming Language", Author: "Alan A. A. Donovan", Volume: 1},
	{ISBN: "9780201616224", Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Volume: 1},
	{ISBN: "9780321125217", Title: "Domain-Driven Design", Author: "Eric Evans", Volume: 1},
	{ISBN: "9780201835953", Title: "The Mythical Man-Month", Author: "Frederick P. Brooks Jr.", Volume: 1},
	{ISBN: "9780262033848", Title: "Introduction to Algorithms", Author: "Thomas H. Cormen", Volume: 3},
	{ISBN: "9780201896831", Title: "The Art of Computer Programming", Author: "Donald E. Knuth", Volume: 1},
	{ISBN: "9780201896848", Title: "The Art of Computer Programming", Author: "Donald E. Knuth", Volume: 2},
	{ISBN: "9780201896855", Title: "The Art of Computer Programming", Author: "Donald E. Knuth", Volume: 3},
	{ISBN: "9781449373320", Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Volume: 1},
	{ISBN: "9780137081073", Title: "The Clean Coder", Author: "Robert C. Martin", Volume: 1},
}

func main() {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.Logger()

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("connect to database", "dsn", cfg.RedactedDSN(), "error", err)
		os.Exit(1)
	}
	defer db.Close()

	svc := book.NewService(book.NewPostgresRepo(db.SQL, cfg.QueryTimeout))
	created, skipped, err := seed(ctx, svc, sampleBooks, logger)
	if err != nil {
		logger.Error("seed failed", "created", created, "error", err)
		os.Exit(1)
	}
	logger.Info("seed finished", "created", created, "skipped", skipped)
}

type creator interface {
	Create(ctx context.Context, v book.View) (book.View, error)
}

// seed inserts books one by one. Books whose ISBN is already stored are
// skipped.
func seed(ctx context.Context, svc creator, books []book.View, logger *slog.Logger) (created, skipped int, err error) {
	for _, b := range books {
		if _, err := svc.Create(ctx, b); err != nil {
			if errors.Is(err, book.ErrConflict) {
				logger.Debug("book already exists", "isbn", b.ISBN)
				skipped++
				continue
			}
			return created, skipped, fmt.Errorf("create %s: %w", b.ISBN, err)
		}
		created++
	}
	return created, skipped, nil
}
