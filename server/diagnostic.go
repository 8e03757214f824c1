package server

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"

	"github.com/formation-app/centre-server/auth"
)

// DiagnosticController serves the public health probes and the embedded
// database console of the diagnostic pipeline.
type DiagnosticController struct {
	db      *bun.DB
	started time.Time
	version string
	logger  auth.Logger
}

func NewDiagnosticController(db *bun.DB, version string, logger auth.Logger) *DiagnosticController {
	return &DiagnosticController{
		db:      db,
		started: time.Now(),
		version: version,
		logger:  logger,
	}
}

// RegisterAPI mounts the public probe endpoints on the API pipeline.
func (dc *DiagnosticController) RegisterAPI(app fiber.Router) {
	app.Get("/api/diagnostic/health", dc.Health)
	app.Get("/api/diagnostic/info", dc.Info)
}

// RegisterConsole mounts the database console on its own pipeline.
func (dc *DiagnosticController) RegisterConsole(app fiber.Router) {
	app.Get("/db-console", dc.ConsoleShow)
	app.Post("/db-console", dc.ConsoleQuery)
}

func (dc *DiagnosticController) Health(c *fiber.Ctx) error {
	status := "UP"
	code := fiber.StatusOK

	if err := dc.db.PingContext(c.UserContext()); err != nil {
		dc.logger.Error("health probe database ping failed", "error", err)
		status = "DOWN"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
	})
}

func (dc *DiagnosticController) Info(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"application": "centre-server",
		"version":     dc.version,
		"uptime":      time.Since(dc.started).Round(time.Second).String(),
	})
}

func (dc *DiagnosticController) ConsoleShow(c *fiber.Ctx) error {
	return c.Render("console", fiber.Map{
		"Title": "DB Console",
	})
}

// ConsoleQuery runs one read query and renders the result grid. The
// console is a local diagnostic tool, it accepts whatever SQL the
// operator types.
func (dc *DiagnosticController) ConsoleQuery(c *fiber.Ctx) error {
	query := c.FormValue("query")
	if query == "" {
		return c.Render("console", fiber.Map{
			"Title": "DB Console",
			"Error": "empty query",
		})
	}

	rows, err := dc.db.QueryContext(c.UserContext(), query)
	if err != nil {
		return c.Render("console", fiber.Map{
			"Title": "DB Console",
			"Query": query,
			"Error": err.Error(),
		})
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return c.Render("console", fiber.Map{
			"Title": "DB Console",
			"Query": query,
			"Error": err.Error(),
		})
	}

	var results [][]string
	for rows.Next() {
		values := make([]any, len(columns))
		for i := range values {
			values[i] = new(any)
		}
		if err := rows.Scan(values...); err != nil {
			break
		}
		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = stringify(*(v.(*any)))
		}
		results = append(results, row)
	}

	return c.Render("console", fiber.Map{
		"Title":   "DB Console",
		"Query":   query,
		"Columns": columns,
		"Rows":    results,
	})
}

func stringify(v any) string {
	if v == nil {
		return "NULL"
	}
	switch t := v.(type) {
	case []byte:
		return string(t)
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", t)
	}
}
