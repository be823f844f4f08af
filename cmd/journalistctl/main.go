package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"journalist-api/internal/config"
	"journalist-api/internal/observability/logging"
	"journalist-api/internal/service"
	impl "journalist-api/internal/service/impl"
	"journalist-api/internal/storage"
	"journalist-api/internal/store"
	"journalist-api/pkg/db"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	cfg := config.Load()
	slog.SetDefault(logging.NewLogger(logging.Config{
		ServiceName: "journalistctl",
		Environment: cfg.Environment,
		Level:       "warn",
		Output:      os.Stderr,
	}))

	var err error
	switch cmd {
	case "add-user":
		err = runAddUser(cfg, args)
	case "delete-user":
		err = runDeleteUser(cfg, args)
	case "add-source":
		err = runAddSource(cfg, args)
	case "add-submission":
		err = runAddSubmission(cfg, args)
	default:
		usage()
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  add-user        Create a journalist account and print its TOTP URI")
	fmt.Fprintln(os.Stderr, "  delete-user     Delete a journalist, handing their work to the deleted account")
	fmt.Fprintln(os.Stderr, "  add-source      Create a source")
	fmt.Fprintln(os.Stderr, "  add-submission  Store an encrypted message or document for a source")
	os.Exit(2)
}

type backend struct {
	store *store.Store
	blobs storage.BlobStore
}

func open(ctx context.Context, cfg config.Config) (*backend, error) {
	gdb, err := db.OpenGorm(cfg.DB())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	st := store.New(gdb)
	if err := st.AutoMigrate(ctx); err != nil {
		return nil, err
	}
	if _, err := st.Users().EnsureDeletedSentinel(ctx); err != nil {
		return nil, err
	}
	blobs, err := storage.Open(ctx, cfg.Storage())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return &backend{store: st, blobs: blobs}, nil
}

type addUserOpts struct {
	username string
	password string
	first    string
	last     string
	admin    bool
}

func parseAddUserFlags(args []string) (addUserOpts, error) {
	fs := flag.NewFlagSet("add-user", flag.ContinueOnError)
	var opts addUserOpts
	fs.StringVar(&opts.username, "username", "", "journalist username")
	fs.StringVar(&opts.password, "password", "", "passphrase (read from stdin when empty)")
	fs.StringVar(&opts.first, "first", "", "first name")
	fs.StringVar(&opts.last, "last", "", "last name")
	fs.BoolVar(&opts.admin, "admin", false, "grant admin")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.username == "" {
		return opts, errors.New("-username is required")
	}
	return opts, nil
}

func runAddUser(cfg config.Config, args []string) error {
	opts, err := parseAddUserFlags(args)
	if err != nil {
		return err
	}
	if opts.password == "" {
		if opts.password, err = readLine(os.Stdin); err != nil {
			return fmt.Errorf("read passphrase: %w", err)
		}
	}

	ctx := context.Background()
	b, err := open(ctx, cfg)
	if err != nil {
		return err
	}
	users := impl.NewUserService(b.store, impl.NewPasswordServiceArgon2id(), cfg.Issuer)
	user, uri, err := users.Create(ctx, service.NewUser{
		Username:  opts.username,
		Password:  opts.password,
		FirstName: optional(opts.first),
		LastName:  optional(opts.last),
		IsAdmin:   opts.admin,
	})
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"uuid":     user.UUID.String(),
		"username": user.Username,
		"otp_uri":  uri,
	})
}

func runDeleteUser(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("delete-user", flag.ContinueOnError)
	username := fs.String("username", "", "journalist username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("-username is required")
	}

	ctx := context.Background()
	b, err := open(ctx, cfg)
	if err != nil {
		return err
	}
	users := impl.NewUserService(b.store, impl.NewPasswordServiceArgon2id(), cfg.Issuer)
	counts, err := users.Delete(ctx, *username)
	if err != nil {
		return err
	}
	return printJSON(counts)
}

func runAddSource(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("add-source", flag.ContinueOnError)
	designation := fs.String("designation", "", "journalist designation, e.g. \"conceited ferret\"")
	keyPath := fs.String("public-key", "", "path to the source's armored public key")
	fingerprint := fs.String("fingerprint", "", "public key fingerprint")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var publicKey string
	if *keyPath != "" {
		raw, err := os.ReadFile(*keyPath)
		if err != nil {
			return err
		}
		publicKey = string(raw)
	}

	ctx := context.Background()
	b, err := open(ctx, cfg)
	if err != nil {
		return err
	}
	src, err := impl.NewIngestService(b.store, b.blobs).AddSource(ctx, *designation, publicKey, *fingerprint)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"uuid":          src.UUID.String(),
		"filesystem_id": src.FilesystemID,
		"designation":   src.JournalistDesignation,
	})
}

func runAddSubmission(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("add-submission", flag.ContinueOnError)
	sourceUUID := fs.String("source", "", "source uuid")
	path := fs.String("file", "", "encrypted payload (stdin when empty)")
	message := fs.Bool("message", false, "store as a message rather than a document")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sourceUUID == "" {
		return errors.New("-source is required")
	}

	var body io.Reader = os.Stdin
	if *path != "" {
		f, err := os.Open(*path)
		if err != nil {
			return err
		}
		defer f.Close()
		body = f
	}

	ctx := context.Background()
	b, err := open(ctx, cfg)
	if err != nil {
		return err
	}
	sub, err := impl.NewIngestService(b.store, b.blobs).AddSubmission(ctx, *sourceUUID, *message, body)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"uuid":     sub.UUID.String(),
		"filename": sub.Filename,
		"size":     sub.Size,
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func readLine(r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(r, 4096)); err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(buf.String(), "\n")
	return strings.TrimRight(line, "\r"), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
