package main

import (
	"context"
	"fmt"
	"os"

	auth "github.com/Rajesh-Alachandra/jobportal-auth"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()
	logger := &zlogAdapter{log: log}

	ctx := context.Background()

	cfg, err := auth.LoadConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	store, err := cfg.NewStore(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open session store")
	}

	broker, err := cfg.NewBroker()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build credential broker")
	}

	service := auth.NewAuthService(broker, store).WithLogger(logger)
	service.Initialize(ctx)

	table := auth.DefaultRouteTable()
	routes := auth.DefaultRouteConfig()
	guard := auth.NewHTTPGuard(auth.NewGuard(service, table, routes).WithLogger(logger))

	app := fiber.New(fiber.Config{
		AppName: "jobportal",
	})

	app.Use(guard.Middleware())

	controller := auth.RegisterAuthRoutes(app,
		auth.WithAuthService(service),
		auth.WithHTTPGuard(guard),
		auth.WithControllerLogger(logger),
	)
	controller.Debug = cfg.Debug

	for path, access := range table {
		app.Get(path, pageHandler(path, access))
	}

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Page not found",
			"path":    c.Path(),
		})
	})

	log.Info().
		Str("addr", cfg.Listen).
		Str("mode", cfg.Mode).
		Str("store", cfg.Store).
		Msg("portal listening")

	if err := app.Listen(cfg.Listen); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// pageHandler stands in for the portal's page components: it reports what
// would render and for whom.
func pageHandler(path string, access auth.RouteAccess) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := fiber.Map{
			"success": true,
			"page":    path,
			"access":  access.String(),
		}
		if identity, ok := auth.IdentityFrom(c); ok {
			payload["user"] = identity
		}
		return c.JSON(payload)
	}
}

// zlogAdapter exposes zerolog through the auth.Logger interface
type zlogAdapter struct {
	log zerolog.Logger
}

func (z *zlogAdapter) Debug(msg string, args ...any) { z.emit(z.log.Debug(), msg, args) }
func (z *zlogAdapter) Info(msg string, args ...any)  { z.emit(z.log.Info(), msg, args) }
func (z *zlogAdapter) Warn(msg string, args ...any)  { z.emit(z.log.Warn(), msg, args) }
func (z *zlogAdapter) Error(msg string, args ...any) { z.emit(z.log.Error(), msg, args) }

func (z *zlogAdapter) emit(ev *zerolog.Event, msg string, args []any) {
	for i := 0; i+1 < len(args); i += 2 {
		ev = ev.Interface(fmt.Sprint(args[i]), args[i+1])
	}
	ev.Msg(msg)
}
