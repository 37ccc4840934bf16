package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/bootstrap"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/config"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/database"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/services"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/signing"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type cli struct {
	cfg       *config.Config
	openStore func(ctx context.Context) (*store.Store, error)
	migrate   func(ctx context.Context) error
	status    func(ctx context.Context) error
	stdin     io.Reader
}

func newCLI(cfg *config.Config) *cli {
	return &cli{
		cfg: cfg,
		openStore: func(ctx context.Context) (*store.Store, error) {
			return bootstrap.OpenStore(ctx, cfg, false)
		},
		migrate: func(ctx context.Context) error {
			return bootstrap.MigrateUp(ctx, cfg)
		},
		status: func(ctx context.Context) error {
			db, err := database.OpenSQL(ctx, cfg.DSN())
			if err != nil {
				return err
			}
			defer db.Close()
			return database.MigrationStatus(ctx, db)
		},
		stdin: os.Stdin,
	}
}

func newRootCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "lockerctl",
		Short:        "Document locker administration",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		c.newMigrateCmd(),
		c.newUsersCmd(),
		newKeysCmd(),
	)
	return cmd
}

func (c *cli) newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := c.migrate(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print migration status",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.status(cmd.Context())
			},
		},
	)
	return cmd
}

func (c *cli) authService(ctx context.Context) (*services.AuthService, error) {
	st, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	return services.NewAuthService(st.Users, st.RefreshTokens, c.cfg), nil
}

func (c *cli) newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect and create locker accounts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			auth, err := c.authService(cmd.Context())
			if err != nil {
				return err
			}
			users, err := auth.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSER ID\tEMAIL\tROLE\tNAME\tACTIVE")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n", u.ID, u.UserCode, u.Email, u.Role, u.FullName(), u.IsActive)
			}
			return w.Flush()
		},
	}

	var req dto.RegisterRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user, prompting for the password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := c.password(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			req.Password = pw

			auth, err := c.authService(cmd.Context())
			if err != nil {
				return err
			}
			user, err := auth.CreateUser(cmd.Context(), &req)
			if err != nil {
				var verr *services.ValidationError
				if errors.As(err, &verr) || errors.Is(err, services.ErrDuplicateEmail) {
					return err
				}
				return fmt.Errorf("failed to create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", user.ID, user.UserCode)
			return nil
		},
	}
	create.Flags().StringVar(&req.Email, "email", "", "Email address")
	create.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	create.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	create.Flags().StringVar(&req.Role, "role", "student", "student or institute")
	create.Flags().StringVar(&req.StudentID, "student-id", "", "Student ID (students only)")
	_ = create.MarkFlagRequired("email")

	cmd.AddCommand(list, create)
	return cmd
}

// password reads without echo from a terminal, or one line from stdin
// otherwise.
func (c *cli) password(w io.Writer) (string, error) {
	if f, ok := c.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(w, "Password: ")
		pw, err := readPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	line, err := bufio.NewReader(c.stdin).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the document signing key",
	}

	var (
		out  string
		bits int
	)
	gen := &cobra.Command{
		Use:   "generate",
		Short: "Write a new RSA private key for SIGNING_KEY_PATH",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := signing.GenerateRSASigner(bits)
			if err != nil {
				return err
			}
			f, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
			if err != nil {
				return fmt.Errorf("create key file: %w", err)
			}
			if _, err := f.Write(s.PrivateKeyPEM()); err != nil {
				f.Close()
				return fmt.Errorf("write key file: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			pub, err := s.PublicKeyPEM()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n%s", out, pub)
			return nil
		},
	}
	gen.Flags().StringVarP(&out, "out", "o", "signing.pem", "Where to write the PEM private key")
	gen.Flags().IntVar(&bits, "bits", signing.DefaultKeyBits, "RSA key size")

	cmd.AddCommand(gen)
	return cmd
}
