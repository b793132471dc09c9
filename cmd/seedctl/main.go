package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/avolkov/doorkeeper/internal/domain/registry"
	"github.com/avolkov/doorkeeper/internal/infra/config"
	"github.com/avolkov/doorkeeper/internal/infra/regstore"
	"github.com/avolkov/doorkeeper/pkg/logger"
)

const defaultSeedFile = "configs/seed.ini"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "seed":
		err = commandSeed(args)
	case "register":
		err = commandRegister(args)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// commandSeed provisions the key-value namespace from a seed file's [data]
// section. The first failed write aborts; keys already written stay written.
func commandSeed(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "Print pairs without writing them")
	timeout := fs.Duration("timeout", 30*time.Second, "Overall seeding timeout")
	fs.Parse(args)

	path := fs.Arg(0)
	if path == "" {
		path = defaultSeedFile
	}

	pairs, err := parseSeedFile(path)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		fmt.Printf("no [data] entries in %s, nothing to do\n", path)
		return nil
	}

	if *dryRun {
		for _, pair := range pairs {
			fmt.Printf("%s = %s\n", pair.Key, pair.Value)
		}
		fmt.Printf("%d pair(s) parsed, no writes performed\n", len(pairs))
		return nil
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := seedPairs(ctx, store, pairs); err != nil {
		return err
	}
	fmt.Printf("seeded %d pair(s) from %s\n", len(pairs), path)
	return nil
}

// seedPairs writes each pair in order. The first failed write aborts with
// that pair's error; keys already written stay written.
func seedPairs(ctx context.Context, store registry.Store, pairs []seedPair) error {
	for _, pair := range pairs {
		if err := store.Put(ctx, pair.Key, pair.Value); err != nil {
			return fmt.Errorf("seed %q: %w", pair.Key, err)
		}
	}
	return nil
}

// commandRegister registers a single user through the full registration
// guards: allow-list, duplicate check, bcrypt hash, write verification.
func commandRegister(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "Email address to register")
	password := fs.String("password", "", "Password (supply to avoid prompt)")
	timeout := fs.Duration("timeout", 15*time.Second, "Registration timeout")
	fs.Parse(args)

	if strings.TrimSpace(*email) == "" {
		return errors.New("-email is required")
	}

	secret := strings.TrimSpace(*password)
	if secret == "" {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Print("\n")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		secret = string(raw)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New()
	store := regstore.New(cfg, log)
	svc := registry.NewService(registry.Config{
		AllowedEmails: cfg.Registry.AllowedEmails,
		BcryptCost:    cfg.Registry.BcryptCost,
	}, store, log)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	record, err := svc.Register(ctx, registry.Credentials{Email: *email, Password: secret})
	if err != nil {
		return err
	}
	fmt.Printf("registered %s\n", record.Email)
	return nil
}

func openStore() (registry.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return regstore.New(cfg, logger.New()), nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `seedctl provisions the doorkeeper user registry.

Usage:
  seedctl seed [-dry-run] [-timeout 30s] [seedfile]
      Write the [data] section of an INI-style seed file (default %s)
      into the configured key-value namespace, values taken literally.
  seedctl register -email <addr> [-password <secret>]
      Register one user through the normal guards; prompts for the
      password when not supplied.
  seedctl help
      Show this message.

The store backend comes from the service configuration (CONFIG_PATH or
configs/config.yaml, plus STORE_* environment overrides).
`, defaultSeedFile)
}
