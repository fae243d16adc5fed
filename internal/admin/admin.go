// Package admin implements the operator commands of pulsectl: promoting or
// demoting an account and bootstrapping the first administrator.
package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/pulsecity/internal/server/models"
)

var ErrUsage = errors.New("usage: pulsectl [flags] set-role <email> <USER|ADMIN> | create-admin")

type Accounts interface {
	SetRole(ctx context.Context, email string, role models.Role) error
	CreateAdmin(ctx context.Context, account models.Account) error
}

type CLI struct {
	accounts Accounts
	in       *bufio.Reader
	out      io.Writer
}

func New(accounts Accounts, in io.Reader, out io.Writer) *CLI {
	return &CLI{accounts: accounts, in: bufio.NewReader(in), out: out}
}

// Run executes the command named by args[0].
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	switch args[0] {
	case "set-role":
		if len(args) != 3 {
			return ErrUsage
		}
		return c.setRole(ctx, args[1], args[2])
	case "create-admin":
		if len(args) != 1 {
			return ErrUsage
		}
		return c.createAdmin(ctx)
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], ErrUsage)
	}
}

func (c *CLI) setRole(ctx context.Context, email, role string) error {
	r := models.ParseRole(strings.ToUpper(role))
	if !r.Valid() {
		return fmt.Errorf("invalid role %q: %w", role, ErrUsage)
	}

	if err := c.accounts.SetRole(ctx, email, r); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Role of %s set to %s\n", email, r)
	return nil
}

func (c *CLI) createAdmin(ctx context.Context) error {
	email, err := GetSimpleText(c.in, "Email", c.out)
	if err != nil {
		return err
	}

	pw, err := GetPassword(c.out)
	if err != nil {
		return err
	}
	defer clear(pw)

	if err := c.accounts.CreateAdmin(ctx, models.Account{Email: email, Password: string(pw)}); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Administrator %s created\n", email)
	return nil
}
