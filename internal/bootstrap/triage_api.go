package bootstrap

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/imaglide/eisenhower-triage/adapter/in/http"
	"github.com/imaglide/eisenhower-triage/config"
)

// NewAPI builds the fiber application and its dependency graph. The returned
// cleanup func releases database connections and must run on shutdown.
func NewAPI(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*fiber.App, func(), error) {
	deps, err := NewDependencies(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               "eisenhower-triage",
		DisableStartupMessage: !cfg.IsDevelopment(),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		BodyLimit:             10 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New())

	handler := http.NewTriageHandler(deps.TriageService, deps.Results, deps.SenderProfiles, log)
	handler.Register(app)

	return app, deps.Close, nil
}
