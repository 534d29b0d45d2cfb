package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/shelfauth/internal/app"
	"github.com/dropDatabas3/shelfauth/internal/config"
	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
	"github.com/dropDatabas3/shelfauth/internal/store/pg"
	"github.com/dropDatabas3/shelfauth/internal/tokenstore"
)

func main() {
	// .env es opcional; el entorno del sistema siempre gana.
	_ = godotenv.Load()

	var cfgPath = envOr("SHELFAUTH_CONFIG", "")

	root := &cobra.Command{
		Use:           "shelfauth",
		Short:         "Servicio de autenticación y sesiones",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", cfgPath, "Ruta al config.yaml (env SHELFAUTH_CONFIG)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "shelfauth", Version: cfg.App.Version})
		return cfg, nil
	}

	// serve
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP y el sweeper de blacklist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.Run(ctx)
		},
	}

	// migrate
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones de Postgres (goose)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Database.DSN == "" {
				return errors.New("database.dsn es requerido para migrate")
			}
			ctx := cmd.Context()

			s, err := pg.New(ctx, cfg.Database.DSN, pg.PoolConfig{MaxConns: 2})
			if err != nil {
				return err
			}
			defer s.Close()

			return pg.Migrate(ctx, s.Pool())
		},
	}

	// sweep
	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Ejecuta un Purge del token store y termina",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			stores, err := app.OpenStores(ctx, cfg, nil)
			if err != nil {
				return err
			}
			defer stores.Close()

			n, err := tokenstore.NewSweeper(stores.Tokens, cfg.TokenStore.SweepInterval).SweepOnce(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("purged=%d\n", n)
			return nil
		},
	}

	// admin grant|revoke <account-id>
	setAdmin := func(admin bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Database.DSN == "" {
				return errors.New("database.dsn es requerido: las cuentas en memoria no sobreviven al proceso")
			}
			ctx := cmd.Context()

			stores, err := app.OpenStores(ctx, cfg, nil)
			if err != nil {
				return err
			}
			defer stores.Close()

			if err := stores.Accounts.SetAdmin(ctx, args[0], admin); err != nil {
				return fmt.Errorf("set admin %s: %w", args[0], err)
			}
			fmt.Println("ok")
			return nil
		}
	}
	adminCmd := &cobra.Command{Use: "admin", Short: "Operaciones sobre cuentas"}
	adminCmd.AddCommand(&cobra.Command{
		Use:   "grant <account-id>",
		Short: "Otorga el flag admin a una cuenta",
		Args:  cobra.ExactArgs(1),
		RunE:  setAdmin(true),
	})
	adminCmd.AddCommand(&cobra.Command{
		Use:   "revoke <account-id>",
		Short: "Quita el flag admin de una cuenta",
		Args:  cobra.ExactArgs(1),
		RunE:  setAdmin(false),
	})

	root.AddCommand(serveCmd, migrateCmd, sweepCmd, adminCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
