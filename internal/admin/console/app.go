package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/referralhub/internal/common"
	"github.com/dmitrijs2005/referralhub/internal/logging"
	"github.com/dmitrijs2005/referralhub/internal/server/auth"
	"github.com/dmitrijs2005/referralhub/internal/server/config"
	"github.com/dmitrijs2005/referralhub/internal/server/models"
	"github.com/dmitrijs2005/referralhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/referralhub/internal/server/services"
)

const maxLoginAttempts = 3

var openRepositories = repomanager.Open

// ErrEphemeralStore is returned when the DSN names the in-memory store, which
// would start empty and share nothing with the running server.
var ErrEphemeralStore = errors.New("admin console needs a persistent store")

// AccountAdmin is the part of services.AccountService the console drives.
type AccountAdmin interface {
	ListAccounts(ctx context.Context) ([]models.Account, error)
	VerifyPayment(ctx context.Context, id string) error
	ResetPassword(ctx context.Context, id string) error
	DeleteAccount(ctx context.Context, id string) error
}

var (
	_ AccountAdmin = (*services.AccountService)(nil)
	_ execIface    = (*App)(nil)
)

type passwordChecker interface {
	Check(candidate string) bool
}

type App struct {
	accounts AccountAdmin
	gate     passwordChecker
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	closers  []func(ctx context.Context)
}

// NewApp opens the configured store and builds the account service on top
// of it. Only errors are logged unless the configured level is debug, so log
// lines do not interleave with the prompt.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	kind, err := repomanager.Kind(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if kind == repomanager.KindMemory {
		return nil, fmt.Errorf("%w: set DATABASE_DSN to a postgres or mongodb URL", ErrEphemeralStore)
	}

	opts := c.LoggingOptions()
	if !strings.EqualFold(opts.Level, "debug") {
		opts.Level = "error"
	}
	logger, closeLog, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	app := &App{
		gate:    auth.NewAdminGate(c.AdminPassword),
		logger:  logger.With("module", "admin_console"),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		closers: []func(context.Context){func(context.Context) { closeLog() }},
	}

	repos, err := openRepositories(ctx, c.DatabaseDSN, c.MongoDatabase)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.closers = append(app.closers, func(ctx context.Context) {
		if err := repos.Close(ctx); err != nil {
			app.logger.Error(ctx, "error closing repositories", "error", err)
		}
	})

	if err := repos.RunMigrations(ctx); err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app.accounts = services.NewAccountService(repos, auth.NewBcryptHasher(c.BcryptCost), c, logger, nil)
	return app, nil
}

// Run authenticates the operator and then serves commands until exit.
func (a *App) Run(ctx context.Context) error {
	defer a.close(ctx)

	if err := a.login(ctx); err != nil {
		return err
	}

	fmt.Fprintln(a.out, helpText)
	runREPL(ctx, a, a.reader, a.out)
	return nil
}

func (a *App) login(ctx context.Context) error {
	for i := 0; i < maxLoginAttempts; i++ {
		pw, err := GetPassword(a.out)
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		ok := a.gate.Check(string(pw))
		wipe(pw)
		if ok {
			return nil
		}
		a.logger.Warn(ctx, "admin console login failed", "attempt", i+1)
		fmt.Fprintln(a.out, "Incorrect admin password.")
	}
	return common.ErrorUnauthorized
}

func (a *App) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i](ctx)
	}
	a.closers = nil
}

// report prints the outcome of a mutation and passes err through.
func (a *App) report(id, done string, err error) error {
	switch {
	case err == nil:
		fmt.Fprintf(a.out, "%s for %s.\n", done, id)
	case errors.Is(err, common.ErrorNotFound):
		fmt.Fprintf(a.out, "No account with id %s.\n", id)
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
	return err
}

func (a *App) Verify(ctx context.Context, id string) error {
	return a.report(id, "Payment verified", a.accounts.VerifyPayment(ctx, id))
}

func (a *App) Reset(ctx context.Context, id string) error {
	return a.report(id, "Password reset", a.accounts.ResetPassword(ctx, id))
}

// Delete asks for confirmation before removing the account.
func (a *App) Delete(ctx context.Context, id string) error {
	ok, err := Confirm(a.reader, fmt.Sprintf("Delete account %s?", id), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	return a.report(id, "Account deleted", a.accounts.DeleteAccount(ctx, id))
}
