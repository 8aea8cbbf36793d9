// Package main provides a tool to seed the database with demo readers, books
// and reviews.
//
// Seeding is idempotent: existing readers are logged in instead of created,
// books already in the catalog are reused, and duplicate reviews are skipped.
//
// Usage:
//
//	go run ./cmd/seed
//	go run ./cmd/seed -readers 8 -password hunter22 -- -data-path ~/BookReview/data
//
// Arguments after "--" are passed to the server configuration loader.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/samber/do/v2"

	"github.com/bookreview/bookreview-server/internal/config"
	"github.com/bookreview/bookreview-server/internal/di"
	"github.com/bookreview/bookreview-server/internal/domain"
	domainerrors "github.com/bookreview/bookreview-server/internal/errors"
	"github.com/bookreview/bookreview-server/internal/service"
)

var catalog = []service.CreateBookRequest{
	{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction"},
	{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Genre: "Science Fiction"},
	{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy"},
	{Title: "The Fellowship of the Ring", Author: "J.R.R. Tolkien", Genre: "Fantasy"},
	{Title: "A Wizard of Earthsea", Author: "Ursula K. Le Guin", Genre: "Fantasy"},
	{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Classic"},
	{Title: "Middlemarch", Author: "George Eliot", Genre: "Classic"},
	{Title: "The Name of the Rose", Author: "Umberto Eco", Genre: "Mystery"},
	{Title: "The Hound of the Baskervilles", Author: "Arthur Conan Doyle", Genre: "Mystery"},
	{Title: "Sapiens", Author: "Yuval Noah Harari"},
}

var comments = []string{
	"",
	"Could not put it down.",
	"Slow start, strong finish.",
	"Not for me.",
	"A re-read every few years.",
	"The ending felt rushed.",
}

type options struct {
	readers  int
	password string
	seed     uint64
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	readers := fs.Int("readers", 5, "Number of demo readers to create")
	password := fs.String("password", "password123", "Password for every demo reader")
	seed := fs.Uint64("seed", 1, "Random seed for ratings")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *readers < 1 {
		return errors.New("-readers must be at least 1")
	}

	cfg, err := config.Load(fs.Args())
	if err != nil {
		return err
	}

	injector := di.NewContainer()
	do.OverrideValue(injector, cfg)
	defer func() { _ = injector.Shutdown() }()

	log, err := do.Invoke[*slog.Logger](injector)
	if err != nil {
		return err
	}
	authSvc, err := do.Invoke[*service.AuthService](injector)
	if err != nil {
		return err
	}
	bookSvc, err := do.Invoke[*service.BookService](injector)
	if err != nil {
		return err
	}
	reviewSvc, err := do.Invoke[*service.ReviewService](injector)
	if err != nil {
		return err
	}

	return seedAll(context.Background(), log, authSvc, bookSvc, reviewSvc,
		options{readers: *readers, password: *password, seed: *seed})
}

func seedAll(ctx context.Context, log *slog.Logger, authSvc *service.AuthService, bookSvc *service.BookService, reviewSvc *service.ReviewService, opts options) error {
	actors := make([]*domain.Actor, 0, opts.readers)
	for n := 1; n <= opts.readers; n++ {
		actor, err := ensureReader(ctx, authSvc, fmt.Sprintf("reader%d", n), opts.password)
		if err != nil {
			return err
		}
		actors = append(actors, actor)
	}

	books := make([]*domain.Book, 0, len(catalog))
	for _, req := range catalog {
		book, err := ensureBook(ctx, bookSvc, req)
		if err != nil {
			return err
		}
		books = append(books, book)
	}

	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	added, skipped := 0, 0
	for _, actor := range actors {
		// Each reader reviews a random half of the catalog.
		for _, idx := range rng.Perm(len(books))[:len(books)/2] {
			req := service.AddReviewRequest{
				Rating:  1 + rng.IntN(5),
				Comment: comments[rng.IntN(len(comments))],
			}
			_, err := reviewSvc.AddReview(ctx, books[idx].ID, actor, req)
			switch {
			case err == nil:
				added++
			case errors.Is(err, domainerrors.ErrDuplicateReview):
				skipped++
			default:
				return fmt.Errorf("review %q as %s: %w", books[idx].Title, actor.Username, err)
			}
		}
	}

	log.Info("Seed complete",
		"readers", len(actors),
		"books", len(books),
		"reviews_added", added,
		"reviews_skipped", skipped,
	)
	return nil
}

// ensureReader signs the reader up, or logs them in when the username is taken.
func ensureReader(ctx context.Context, authSvc *service.AuthService, username, password string) (*domain.Actor, error) {
	actor, err := authSvc.Signup(ctx, service.SignupRequest{Username: username, Password: password})
	if err == nil {
		return actor, nil
	}
	if !errors.Is(err, domainerrors.ErrAlreadyExists) {
		return nil, fmt.Errorf("signup %s: %w", username, err)
	}

	user, err := authSvc.VerifyCredentials(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("reader %s exists with a different password: %w", username, err)
	}
	return user.Actor(), nil
}

// ensureBook reuses a catalog entry with the same title and author.
func ensureBook(ctx context.Context, bookSvc *service.BookService, req service.CreateBookRequest) (*domain.Book, error) {
	matches, err := bookSvc.SearchBooks(ctx, req.Title)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", req.Title, err)
	}
	for _, b := range matches {
		if strings.EqualFold(b.Title, req.Title) && strings.EqualFold(b.Author, req.Author) {
			return b, nil
		}
	}

	book, err := bookSvc.CreateBook(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create %q: %w", req.Title, err)
	}
	return book, nil
}
