package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pressly/goose/v3"

	"bookscanner/db"
	"bookscanner/internal/book"
	"bookscanner/internal/config"
	"bookscanner/internal/ingest"
	"bookscanner/internal/platform/googlebooks"
	"bookscanner/internal/platform/postgres"
	"bookscanner/internal/user"
)

var (
	migrate    = postgres.Migrate
	newCatalog = func(cfg config.Config) ingest.MetadataLookup {
		return googlebooks.NewClient(googlebooks.Config{
			BaseURL:    cfg.GoogleBooksBaseURL,
			APIKey:     cfg.GoogleBooksAPIKey,
			UserAgent:  cfg.UserAgent,
			RPS:        cfg.GoogleBooksRPS,
			MaxRetries: cfg.GoogleBooksMaxRetries,
			Timeout:    cfg.GoogleBooksTimeout,
		})
	}
	openStores = openPostgresStores
)

type stores struct {
	users    user.Repository
	books    book.Repository
	attempts ingest.Repository
}

func openPostgresStores(ctx context.Context, cfg config.Config) (*stores, func(), error) {
	if cfg.DatabaseDSN == "" {
		return nil, nil, errors.New("DB_DSN is required")
	}
	pool, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	return &stores{
		users:    user.NewPostgresRepo(pool, cfg.DBTimeout),
		books:    book.NewPostgresRepo(pool, cfg.DBTimeout),
		attempts: ingest.NewPostgresRepo(pool, cfg.DBTimeout),
	}, pool.Close, nil
}

type MigrateCmd struct {
	Command string `arg:"" enum:"up,down,status,create" help:"One of up, down, status, create"`
	Name    string `arg:"" optional:"" help:"Migration name for create"`
	Dir     string `help:"Migrations directory used by create" default:"db/migrations" env:"MIGRATIONS_DIR"`
}

func (m *MigrateCmd) Run(env *runEnv) error {
	if m.Command == "create" {
		if m.Name == "" {
			return errors.New("name is required for create")
		}
		if err := goose.Create(nil, m.Dir, m.Name, "sql"); err != nil {
			return fmt.Errorf("create migration: %w", err)
		}
		fmt.Fprintf(env.out, "Migration created: %s\n", m.Name)
		return nil
	}

	if env.cfg.DatabaseDSN == "" {
		return errors.New("DB_DSN is required")
	}
	if err := migrate(env.ctx, env.cfg.DatabaseDSN, db.Migrations(), m.Command); err != nil {
		return err
	}
	switch m.Command {
	case "up":
		fmt.Fprintln(env.out, "Migrations applied successfully")
	case "down":
		fmt.Fprintln(env.out, "Migrations rolled back successfully")
	}
	return nil
}

type LookupCmd struct {
	ISBN string `arg:"" help:"ISBN to look up"`
}

func (l *LookupCmd) Run(env *runEnv) error {
	isbn := strings.TrimSpace(l.ISBN)
	vol, err := newCatalog(env.cfg).LookupISBN(env.ctx, isbn)
	if errors.Is(err, googlebooks.ErrNoMatch) {
		return fmt.Errorf("no book found with ISBN %s", isbn)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(env.out)
	enc.SetIndent("", "  ")
	return enc.Encode(ingest.BookFromVolume(isbn, vol))
}

type ImportCmd struct {
	Email string   `required:"" help:"Email of the collection owner"`
	File  string   `short:"f" type:"existingfile" help:"File with one ISBN per line"`
	ISBNs []string `arg:"" optional:"" name:"isbn" help:"ISBNs to add"`
}

func (c *ImportCmd) Run(env *runEnv) error {
	isbns, err := c.collect()
	if err != nil {
		return err
	}
	if len(isbns) == 0 {
		return errors.New("no ISBNs given")
	}

	st, closeFn, err := openStores(env.ctx, env.cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	owner, err := user.NewService(st.users).GetByEmail(env.ctx, c.Email)
	if err != nil {
		return fmt.Errorf("find user %s: %w", c.Email, err)
	}

	svc := ingest.NewService(newCatalog(env.cfg), book.NewService(st.books), st.attempts, env.logger)
	counts := make(map[ingest.Status]int)
	for _, isbn := range isbns {
		out := svc.Ingest(env.ctx, owner.ID, isbn, ingest.SourceManual)
		counts[out.Status]++
		fmt.Fprintf(env.out, "%-16s %-14s %s\n", isbn, out.Status, out.Message())
	}
	fmt.Fprintf(env.out, "added=%d duplicate=%d not_found=%d lookup_failed=%d failed=%d\n",
		counts[ingest.StatusAdded], counts[ingest.StatusDuplicate], counts[ingest.StatusNotFound],
		counts[ingest.StatusLookupFailed], counts[ingest.StatusFailed])
	return nil
}

func (c *ImportCmd) collect() ([]string, error) {
	var isbns []string
	for _, v := range c.ISBNs {
		if v = strings.TrimSpace(v); v != "" {
			isbns = append(isbns, v)
		}
	}
	if c.File == "" {
		return isbns, nil
	}

	f, err := os.Open(c.File)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		isbns = append(isbns, line)
	}
	return isbns, sc.Err()
}
