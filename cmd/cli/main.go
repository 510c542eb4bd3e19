package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/amirasaad/minibank/infra/initializer"
	"github.com/amirasaad/minibank/pkg/app"
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/domain/account"
	log "github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

const usage = `Usage: cli <command> [arguments]
Commands:
  demo                                 log in as user 1, list accounts, run two transfers
  accounts <user_id>                   list a user's accounts
  transfer <from> <to> <amount>        transfer between accounts`

func main() {
	color.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal(err)
	}
	deps, cleanup, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	if err := run(context.Background(), os.Stdout, app.New(deps, cfg), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cleanup()
		os.Exit(1) //nolint:gocritic
	}
}

func run(ctx context.Context, out io.Writer, a *app.App, args []string) error {
	if len(args) == 0 {
		args = []string{"demo"}
	}
	switch args[0] {
	case "demo":
		return demo(ctx, out, a)
	case "accounts":
		if len(args) < 2 {
			return fmt.Errorf("usage: accounts <user_id>")
		}
		userID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", args[1], err)
		}
		u, ok := a.AuthService.Login(ctx, userID)
		if !ok {
			return fmt.Errorf("user %d not found", userID)
		}
		fmt.Fprintln(out, "Accounts for", u.Name, "->", a.AccountService.ListAccounts(ctx, u))
		return nil
	case "transfer":
		if len(args) < 4 {
			return fmt.Errorf("usage: transfer <from> <to> <amount>")
		}
		from, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid account id %q: %w", args[1], err)
		}
		to, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid account id %q: %w", args[2], err)
		}
		amount, err := decimal.NewFromString(args[3])
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[3], err)
		}
		tx, err := a.AccountService.Transfer(ctx, from, to, amount)
		if err != nil {
			return err
		}
		printResult(out, tx)
		return nil
	default:
		fmt.Fprintln(out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func demo(ctx context.Context, out io.Writer, a *app.App) error {
	u, ok := a.AuthService.Login(ctx, 1)
	if !ok {
		return fmt.Errorf("demo user 1 not found; is SEED_DEMO_DATA disabled?")
	}
	fmt.Fprintln(out, "User logged in ->", u)

	fmt.Fprintln(out, "Accounts for", u.Name, "->", a.AccountService.ListAccounts(ctx, u))

	for _, t := range []struct {
		from, to int64
		amount   decimal.Decimal
	}{
		{101, 201, decimal.NewFromInt(120)},
		{102, 201, decimal.NewFromInt(500)},
	} {
		tx, err := a.AccountService.Transfer(ctx, t.from, t.to, t.amount)
		if err != nil {
			return err
		}
		printResult(out, tx)
	}
	return nil
}

// printResult colors the transaction line by outcome when color is enabled.
func printResult(out io.Writer, tx *account.Transaction) {
	c := color.New(color.FgGreen)
	if tx.Status() != account.StatusCompleted {
		c = color.New(color.FgRed)
	}
	fmt.Fprintln(out, "Transaction result ->", c.Sprint(tx))
}
