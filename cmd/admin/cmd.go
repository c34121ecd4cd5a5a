package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/AnshRaj112/studio-backend/internal/models"
	"github.com/AnshRaj112/studio-backend/internal/store"
	"github.com/AnshRaj112/studio-backend/pkg/utils"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

const minPasswordLength = 8

type commandLine struct{}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  create-admin -username USERNAME -email EMAIL - create an admin account (password is prompted)")
	fmt.Println("  seed-packages - insert or update the default service packages")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createAdminCmd := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	createAdminUsername := createAdminCmd.String("username", "", "The admin's username.")
	createAdminEmail := createAdminCmd.String("email", "", "The admin's email address.")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch args[1] {
	case "create-admin":
		if err := createAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		username := utils.NormalizeUsername(*createAdminUsername)
		email := strings.ToLower(strings.TrimSpace(*createAdminEmail))
		if username == "" || email == "" {
			createAdminCmd.Usage()
			return errHelp
		}
		if err := utils.ValidateUsername(username); err != nil {
			return err
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) < minPasswordLength {
			return fmt.Errorf("password must be at least %d characters", minPasswordLength)
		}
		return cli.createAdmin(ctx, username, email, string(pwd))
	case "seed-packages":
		return cli.seedPackages(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) createAdmin(ctx context.Context, username, email, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.Admin{Username: username, Email: email, PasswordHash: hash}
	if err := store.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return fmt.Errorf("admin %q or email %q already exists", username, email)
		}
		return err
	}
	fmt.Printf("✅ Admin %s created (%s)\n", admin.Username, admin.ID)
	return nil
}

func (cli *commandLine) seedPackages(ctx context.Context) error {
	for _, p := range store.DefaultPackages {
		p := p
		if err := store.UpsertPackage(ctx, &p); err != nil {
			return fmt.Errorf("seed package %s: %w", p.Slug, err)
		}
		fmt.Printf("✅ Package %s ready\n", p.Slug)
	}
	return nil
}
