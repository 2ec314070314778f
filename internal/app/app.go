package app

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/andy/orionledger/internal/config"
	"github.com/andy/orionledger/internal/crypto"
	"github.com/andy/orionledger/internal/db"
	"github.com/andy/orionledger/internal/logging"
	"github.com/andy/orionledger/internal/render"
	"github.com/andy/orionledger/internal/repository"
	"github.com/andy/orionledger/internal/service"
)

// App is the dependency injection container for all application components
type App struct {
	Config     *config.Config
	ConfigPath string
	DB         *db.DB
	Logger     *zap.Logger

	// Repositories
	ClientRepo  repository.ClientRepository
	InvoiceRepo repository.InvoiceRepository
	CounterRepo repository.CounterRepository

	// Services
	Sequence       service.SequenceGenerator
	Clients        service.ClientRegistry
	Persister      service.InvoicePersister
	InvoiceService service.InvoiceService
	Exporter       *render.PDFRenderer
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config
// 2. Getting encryption key from keyring
// 3. Opening database
// 4. Running migrations
// 5. Wiring repositories and services
func New(ctx context.Context) (*App, error) {
	path := config.DefaultConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	password, stored, err := crypto.LoadOrCreate(crypto.NewKeyring(), promptForPassword)
	if err != nil {
		return nil, err
	}
	if !stored {
		fmt.Fprintf(os.Stderr, "No system keyring available. Set %s to reuse this password.\n", crypto.EnvKey)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	database, err := db.Open(cfg.Database.Path, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a, err := NewWithDB(ctx, cfg, database, logger)
	if err != nil {
		database.Close()
		return nil, err
	}
	a.ConfigPath = path
	return a, nil
}

// NewWithDB wires an App around an already opened database (useful for testing)
func NewWithDB(ctx context.Context, cfg *config.Config, database *db.DB, logger *zap.Logger) (*App, error) {
	if err := database.RunMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a := &App{
		Config:      cfg,
		DB:          database,
		Logger:      logger,
		ClientRepo:  repository.NewClientRepo(database),
		InvoiceRepo: repository.NewInvoiceRepo(database),
		CounterRepo: repository.NewCounterRepo(database),
	}
	a.wire()

	// Repair a missing counter before any form is shown
	if _, err := a.Sequence.PeekNext(ctx); err != nil {
		return nil, fmt.Errorf("failed to read invoice counter: %w", err)
	}

	return a, nil
}

// wire builds the services from the repositories and current config
func (a *App) wire() {
	a.Sequence = service.NewSequenceGenerator(a.CounterRepo, a.Config.Invoice.NumberPrefix, a.Logger)
	a.Clients = service.NewClientRegistry(a.ClientRepo)
	a.Exporter = render.NewPDFRenderer(a.Config.Invoice.OutputDir, a.Letterhead(), a.Logger)
	a.Persister = service.NewInvoicePersister(a.Sequence, a.InvoiceRepo, a.Clients, a.Exporter, a.Logger)
	a.InvoiceService = service.NewInvoiceService(a.InvoiceRepo, a.Clients, a.Exporter)
}

// Letterhead is the issuing business block from config
func (a *App) Letterhead() render.Letterhead {
	b := a.Config.Business
	return render.Letterhead{
		Title:   a.Config.Invoice.Title,
		Name:    b.Name,
		Address: b.Address,
		Email:   b.Email,
		Phone:   b.Phone,
	}
}

// NewSession starts a blank invoice form dated today
func (a *App) NewSession(ctx context.Context) (*service.Session, error) {
	return service.NewSession(ctx, a.Sequence, time.Now(), a.Config.Invoice.Currency)
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// WriteConfig validates cfg and writes it to the config file. It touches no
// App state, so it may run off the UI goroutine; ApplyConfig switches over.
func (a *App) WriteConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if a.ConfigPath != "" {
		if err := cfg.Save(a.ConfigPath); err != nil {
			return err
		}
	}
	return nil
}

// ApplyConfig makes cfg current and rebuilds the services so a changed
// prefix or output dir takes effect
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	a.wire()
}

// promptForPassword prompts user for a new database password (first run)
// This should be called when keyring has no stored key
func promptForPassword() (string, error) {
	fmt.Println("Setting up database encryption for the first time...")
	fmt.Println()
	fmt.Println("Your clients and invoices will be encrypted with a password.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	// Read password securely (no echo)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured")
	fmt.Println()

	return string(password), nil
}
