// Command seed-root creates the platform operator account. Root accounts are
// never created through the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-backend/internal/identity"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const passwordEnv = "STOREFRONT_ROOT_PASSWORD"

func main() {
	_ = godotenv.Load()

	email := flag.String("email", "", "root account email")
	name := flag.String("name", "Platform Root", "display name")
	flag.Parse()

	password := os.Getenv(passwordEnv)
	if *email == "" || password == "" {
		fmt.Fprintf(os.Stderr, "usage: %s=... seed-root -email root@example.com [-name NAME]\n", passwordEnv)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logg := logger.New(logger.Options{
		ServiceName: "seed-root",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env, "email": *email})

	id, err := seed(ctx, cfg, logg, *email, password, *name)
	if err != nil {
		logg.Error(ctx, "seed_root.failed", err)
		os.Exit(1)
	}
	logg.Info(logg.WithUserID(ctx, id.String()), "seed_root.created")
}

func seed(ctx context.Context, cfg *config.Config, logg *logger.Logger, email, password, name string) (uuid.UUID, error) {
	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return uuid.Nil, err
	}
	defer client.Close()

	admin, err := identity.NewAdmin(identity.NewCredentialRepository(client.DB()), cfg.Password, cfg.Identity, logg)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := admin.CreateCredential(ctx, email, password, true)
	if err != nil {
		return uuid.Nil, err
	}

	_, err = users.NewRepository(client.DB()).Create(ctx, users.CreateUserDTO{
		ID:    id,
		Name:  name,
		Email: strings.ToLower(strings.TrimSpace(email)),
		Role:  enums.RoleRoot,
	})
	if err != nil {
		// Leave nothing behind that could sign in without a profile.
		return uuid.Nil, multierr.Append(err, admin.DeleteCredential(context.WithoutCancel(ctx), id))
	}
	return id, nil
}
