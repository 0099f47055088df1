package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/propkeeper/internal/api"
	"github.com/erazemk/propkeeper/internal/config"
	"github.com/erazemk/propkeeper/internal/db"
	"github.com/erazemk/propkeeper/internal/logging"
	"github.com/erazemk/propkeeper/internal/model"
	"github.com/erazemk/propkeeper/internal/store"
)

const usage = `Usage: propkeeper <command> [flags]

Commands:
  serve                 run the HTTP server
  init                  create the database schema
  user add              add a user (-username, -password, -full-name)
  user list             list users

Common flags:
  -config <path>        YAML config file (default: $PROPKEEPER_CONFIG)
  -db <path>            SQLite database path, overrides database.path
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("missing command")
	}

	switch args[0] {
	case "serve":
		return cmdServe(args[1:])
	case "init":
		return cmdInit(args[1:], stdout)
	case "user":
		if len(args) < 2 {
			return errors.New("usage: propkeeper user <add|list>")
		}
		switch args[1] {
		case "add":
			return cmdUserAdd(args[2:], stdout)
		case "list":
			return cmdUserList(args[2:], stdout)
		}
		return fmt.Errorf("unknown user command: %s", args[1])
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	}
	return fmt.Errorf("unknown command: %s", args[0])
}

// commonFlags registers -config and -db on fs and returns a loader that
// reads the configuration after fs has been parsed.
func commonFlags(fs *flag.FlagSet) func() (*config.Config, error) {
	configPath := fs.String("config", "", "YAML config file")
	dbPath := fs.String("db", "", "SQLite database path")

	return func() (*config.Config, error) {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		if *dbPath != "" {
			cfg.Database.Path = *dbPath
		}
		logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
		return cfg, nil
	}
}

// openDatabase opens the configured database and brings its schema up to date.
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return database, nil
}

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	load := commonFlags(fs)
	addr := fs.String("addr", "", "listen address, overrides server.addr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := load()
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	logging.Info().Str("path", cfg.Database.Path).Msg("database ready")

	server := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: api.NewRouter(database, api.Options{
			CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
			RateLimitRequests:  cfg.Server.RateLimitRequests,
			RateLimitWindow:    cfg.Server.RateLimitWindow,
		}),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.Server.Addr).Msg("server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logging.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server forced to shutdown")
	}

	logging.Info().Msg("server stopped, closing database")
	return nil
}

func cmdInit(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	load := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := load()
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	fmt.Fprintf(stdout, "Database ready: %s\n", cfg.Database.Path)
	return nil
}

func cmdUserAdd(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("user add", flag.ContinueOnError)
	load := commonFlags(fs)
	username := fs.String("username", "", "username (required)")
	password := fs.String("password", "", "password; generated when empty")
	fullName := fs.String("full-name", "", "full name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("-username is required")
	}

	generated := false
	if *password == "" {
		p, err := generatePassword(16)
		if err != nil {
			return fmt.Errorf("generating password: %w", err)
		}
		*password = p
		generated = true
	}
	if err := model.ValidatePassword(*password); err != nil {
		return err
	}

	cfg, err := load()
	if err != nil {
		return err
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	user, err := addUser(context.Background(), database, *username, *password, *fullName)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "User created: %s (id %d)\n", user.Username, user.ID)
	if generated {
		fmt.Fprintf(stdout, "Password: %s\n", *password)
		fmt.Fprintln(stdout, "Save this password. It cannot be recovered.")
	}
	return nil
}

// addUser hashes password and stores the user.
func addUser(ctx context.Context, database *sql.DB, username, password, fullName string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	var name *string
	if fullName != "" {
		name = &fullName
	}

	user, err := store.AddUser(ctx, database, username, string(hash), name)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, fmt.Errorf("user %s already exists", username)
	}
	return user, err
}

func cmdUserList(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("user list", flag.ContinueOnError)
	load := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := load()
	if err != nil {
		return err
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	users, err := store.GetUsers(context.Background(), database)
	if err != nil {
		return err
	}
	return printUsers(stdout, users)
}

func printUsers(w io.Writer, users []model.User) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tFULL NAME\tCREATED")
	for _, u := range users {
		name := ""
		if u.FullName != nil {
			name = *u.FullName
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Username, name, u.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
