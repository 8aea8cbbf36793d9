package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bookreview/bookreview-server/internal/domain"
	"github.com/bookreview/bookreview-server/internal/id"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// makeTestUser creates and persists a user with the given username.
func makeTestUser(t *testing.T, s *Store, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Record:       domain.Record{ID: id.MustGenerate(id.PrefixUser)},
		Username:     username,
		PasswordHash: "$argon2id$fakehashfortest",
	}
	u.InitTimestamps()
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return u
}

// makeTestBook creates and persists a book created at the given time.
func makeTestBook(t *testing.T, s *Store, title, author, genre string, createdAt time.Time) *domain.Book {
	t.Helper()
	b := &domain.Book{
		Record: domain.Record{ID: id.MustGenerate(id.PrefixBook), CreatedAt: createdAt, UpdatedAt: createdAt},
		Title:  title,
		Author: author,
		Genre:  genre,
	}
	if err := s.CreateBook(context.Background(), b); err != nil {
		t.Fatalf("CreateBook(%s): %v", title, err)
	}
	return b
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	for _, table := range []string{"users", "books", "reviews"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}

	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestOpen_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	s, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	u := makeTestUser(t, s, "alice")
	s.Close()

	s, err = Open(dbPath, nil)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s.Close()

	got, err := s.GetUser(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetUser after reopen: %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("Username: got %q, want alice", got.Username)
	}
}

func TestTimeLayout_SortsLexically(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	earlier := formatTime(base)
	later := formatTime(base.Add(100 * time.Millisecond))

	if len(earlier) != len(later) {
		t.Fatalf("layout is not fixed width: %q vs %q", earlier, later)
	}
	if !(earlier < later) {
		t.Errorf("expected %q < %q", earlier, later)
	}

	parsed, err := parseTime(later)
	if err != nil {
		t.Fatalf("parseTime: %v", err)
	}
	if !parsed.Equal(base.Add(100 * time.Millisecond)) {
		t.Errorf("round trip: got %v", parsed)
	}
}
