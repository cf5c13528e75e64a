// Package admin implements the operator commands of cmd/admin.
package admin

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/secretkeeper/internal/common"
	"github.com/dmitrijs2005/secretkeeper/internal/flagx"
	"github.com/dmitrijs2005/secretkeeper/internal/logging"
	"github.com/dmitrijs2005/secretkeeper/internal/server/auth"
	"github.com/dmitrijs2005/secretkeeper/internal/server/config"
	"github.com/dmitrijs2005/secretkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/secretkeeper/internal/server/services"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// Registrar is the part of services.AuthService the command needs.
type Registrar interface {
	Register(ctx context.Context, email, password string) (*services.Session, error)
}

// EmailFlag returns the value of -email from args.
func EmailFlag(args []string) (string, error) {
	var email string

	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&email, "email", "", "email of the account to create")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-email"})); err != nil {
		return "", err
	}
	return email, nil
}

// GetPassword prints a prompt to w and reads a password from the terminal
// without echo. The caller wipes the returned slice.
func GetPassword(in *os.File, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(in.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetSimpleText prints a prompt to w and reads one trimmed line.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// CreateUser registers a local account and reports the new id on w.
func CreateUser(ctx context.Context, r Registrar, email string, password []byte, w io.Writer) error {
	sess, err := r.Register(ctx, email, string(password))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "created user %s (%s)\n", sess.User.Email, sess.User.ID)
	return err
}

// Run is the create-user command: it opens the configured store, migrates
// it, asks for the email when -email is absent and then for the password.
func Run(ctx context.Context, cfg *config.Config, email string, in *os.File, w io.Writer) error {
	if cfg.DatabaseDSN == repomanager.MemoryDSN {
		return errors.New("the in-memory store lives inside the server process; pass a database DSN with -d")
	}

	rm, db, err := repomanager.Open(ctx, cfg.DatabaseDSN, cfg.StoreTimeout)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	if email == "" {
		email, err = GetSimpleText(bufio.NewReader(in), "Enter email", w)
		if err != nil {
			return err
		}
	}

	password, err := GetPassword(in, w)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	as := services.NewAuthService(db, rm, cfg, auth.NewBcryptHasher(cfg.PasswordHashCost), nil, logging.Nop())
	return CreateUser(ctx, as, email, password, w)
}
