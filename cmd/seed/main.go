// seed carga datos en la cuenta de un usuario usando el mismo motor de sincronización que la API:
// registra (si hace falta) e inicia sesión, sigue la identidad con un engine y escribe por él.
//
// Uso:
//
//	go run ./cmd/seed demo   --email ana@example.com --password secreta123
//	go run ./cmd/seed import --email ana@example.com --password secreta123 movimientos.csv
//
// Con STORE_DRIVER=memory los datos se pierden al terminar; sirve solo para probar el flujo.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/datasync"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/export"
	"github.com/jhoicas/backoffice-api/internal/application/metrics"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/backend"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/date"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

var (
	email    string
	password string
	name     string
	timeout  time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Carga datos de ejemplo o movimientos heredados en la cuenta de un usuario",
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Crea gastos, ingresos, productos, clientes, empleados y tareas de ejemplo",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(ctx context.Context, e *datasync.Engine, log *logger.Logger) (int, error) {
			n, err := seedDemo(ctx, e, date.Today())
			if err != nil {
				return n, err
			}
			log.Info().Int("records", n).Msg("datos de ejemplo creados")
			return n, nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <archivo.csv>",
	Short: "Importa ingresos y gastos de un CSV heredado (Latin-1, separado por ;)",
	Long: `Importa movimientos desde un CSV con columnas:

  tipo;descripcion;valor;fecha;categoria;estado

tipo es "ingreso" o "gasto". Las filas inválidas se informan y se omiten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("abrir CSV: %w", err)
		}
		defer f.Close()
		return withSession(cmd.Context(), func(ctx context.Context, e *datasync.Engine, log *logger.Logger) (int, error) {
			res, err := export.ImportMovements(ctx, e, f)
			if res == nil {
				return 0, err
			}
			for _, r := range res.Rejected {
				log.Warn().Int("line", r.Line).Str("error", r.Err).Msg("fila omitida")
			}
			log.Info().Int("incomes", res.Incomes).Int("expenses", res.Expenses).Int("rejected", len(res.Rejected)).Msg("importación terminada")
			return res.Incomes + res.Expenses, err
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&email, "email", "", "email de la cuenta (requerido)")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "password de la cuenta (requerido)")
	rootCmd.PersistentFlags().StringVar(&name, "name", "", "nombre visible si la cuenta se crea")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "espera máxima de sincronización")
	_ = rootCmd.MarkPersistentFlagRequired("email")
	_ = rootCmd.MarkPersistentFlagRequired("password")
	rootCmd.AddCommand(demoCmd, importCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// withSession abre el backend, inicia sesión y entrega un engine ya sincronizado.
// fn devuelve cuántos registros creó; se espera a verlos en los snapshots antes de cerrar.
func withSession(parent context.Context, fn func(ctx context.Context, e *datasync.Engine, log *logger.Logger) (int, error)) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	if cfg.JWT.Secret == "" {
		// El token no se usa fuera del proceso; basta con un secreto local.
		cfg.JWT.Secret = "seed-local"
	}

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	be, err := backend.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer be.Close()

	authUC := auth.NewAuthUseCase(be.Users, auth.JWTConfig{
		Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer,
	})
	if _, err := authUC.RegisterUser(ctx, dto.RegisterRequest{Email: email, Password: password, Name: name}); err != nil {
		if !errors.Is(err, domain.ErrEmailAlreadyExists) {
			return fmt.Errorf("registrar: %w", err)
		}
	}

	engine := datasync.NewEngine(be.Store, log)
	stop := datasync.Follow(ctx, engine, authUC.Identity())
	defer stop()

	resp, err := authUC.SignIn(ctx, dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("iniciar sesión: %w", err)
	}
	log.Info().Str("user_id", resp.User.ID).Str("store", cfg.Store.Driver).Msg("sesión iniciada")

	if err := engine.Ready(ctx); err != nil {
		return fmt.Errorf("sincronizar: %w", err)
	}
	before := total(engine.Snapshot())
	created, err := fn(ctx, engine, log)
	if err != nil {
		return err
	}
	if err := waitFor(ctx, engine, before+created); err != nil {
		log.Warn().Err(err).Msg("no se confirmaron todas las escrituras antes del límite")
	}
	authUC.SignOut()
	return nil
}

// waitFor espera hasta que el engine vea al menos want registros en total.
func waitFor(ctx context.Context, e *datasync.Engine, want int) error {
	changed := make(chan struct{}, 1)
	cancel := e.OnChange(func(entity.Kind) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer cancel()
	for total(e.Snapshot()) < want {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
	return nil
}

func total(ds metrics.Dataset) int {
	return len(ds.Expenses) + len(ds.Incomes) + len(ds.Products) +
		len(ds.Customers) + len(ds.Employees) + len(ds.Tasks)
}
