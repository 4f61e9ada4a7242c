package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/guildsite/internal/auth"
	"github.com/2beens/guildsite/internal/config"
	"github.com/2beens/guildsite/internal/db"
	"github.com/2beens/guildsite/pkg"
)

const adminPasswordEnvVar = "GUILDSITE_ADMIN_PASSWORD"

type createAdminParams struct {
	env        string
	configPath string
	email      string
	name       string
	getenv     func(string) string
}

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | test]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	email := flag.String("email", "", "admin email")
	name := flag.String("name", "", "admin display name")
	flag.Parse()

	if err := run(createAdminParams{
		env:        *env,
		configPath: *configPath,
		email:      *email,
		name:       *name,
		getenv:     os.Getenv,
	}); err != nil {
		log.Fatalf("create admin: %s", err)
	}
}

func run(params createAdminParams) error {
	email := strings.TrimSpace(params.email)
	name := strings.TrimSpace(params.name)
	if email == "" || name == "" {
		return errors.New("both -email and -name are required")
	}
	if !pkg.IsValidEmail(email) {
		return fmt.Errorf("invalid email: %s", email)
	}

	cfg, err := config.Load(params.env, params.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	password, generated, err := adminPassword(params.getenv(adminPasswordEnvVar))
	if err != nil {
		return fmt.Errorf("admin password: %w", err)
	}

	hasher, err := auth.NewHasher(auth.DefaultHashCost)
	if err != nil {
		return fmt.Errorf("new hasher: %w", err)
	}
	passwordHash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: params.getenv("GUILDSITE_PG_PASSWORD"),
		SSLMode:    cfg.PostgresSSLMode,
	})
	if err != nil {
		return fmt.Errorf("new db pool: %w", err)
	}
	defer dbPool.Close()

	if err := db.EnsureSchema(ctx, dbPool); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	admin, err := auth.NewAdminRepo(dbPool).Create(ctx, &auth.Admin{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, auth.ErrAdminExists) {
			return fmt.Errorf("admin with email %s already exists, refusing to overwrite: %w", email, err)
		}
		return fmt.Errorf("insert admin: %w", err)
	}

	log.Infof("admin created: %s [%s]", admin.Email, admin.ID)
	if generated {
		fmt.Printf("generated password (shown once, change it after first login): %s\n", password)
	}
	return nil
}

// adminPassword returns fromEnv when set, otherwise a freshly generated one.
func adminPassword(fromEnv string) (string, bool, error) {
	if fromEnv != "" {
		if auth.PasswordLength(fromEnv) < auth.MinPasswordLength {
			return "", false, fmt.Errorf("%s must be at least %d characters long", adminPasswordEnvVar, auth.MinPasswordLength)
		}
		return fromEnv, false, nil
	}
	generated, err := pkg.GenerateRandomString(18)
	if err != nil {
		return "", false, err
	}
	return generated, true, nil
}
