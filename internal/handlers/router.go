package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Route is one entry of the API route table.
type Route struct {
	Method  string
	Path    string
	Handler fiber.Handler
}

// NewRouteTable lists every API route relative to the /api group.
func NewRouteTable(resume *ResumeHandler, analyze *AnalyzeHandler, jd *JDHandler) []Route {
	return []Route{
		{Method: fiber.MethodPost, Path: "/ProcessResume", Handler: resume.HandleProcessResume},
		{Method: fiber.MethodPost, Path: "/AnalyzeWithGPT", Handler: analyze.HandleAnalyze},
		{Method: fiber.MethodGet, Path: "/ManageJD", Handler: jd.HandleList},
		{Method: fiber.MethodPost, Path: "/ManageJD", Handler: jd.HandleManage},
		{Method: fiber.MethodPost, Path: "/ImportJDFromExcel", Handler: jd.HandleImport},
		{Method: fiber.MethodGet, Path: "/health", Handler: HandleHealth},
	}
}

// RegisterRoutes adds routes to router and answers OPTIONS on each path.
func RegisterRoutes(router fiber.Router, routes []Route) {
	preflight := make(map[string]bool)
	for _, r := range routes {
		router.Add(r.Method, r.Path, r.Handler)
		if !preflight[r.Path] {
			router.Options(r.Path, Preflight)
			preflight[r.Path] = true
		}
	}
}

// Endpoints describes routes as "METHOD /prefix/path" strings.
func Endpoints(prefix string, routes []Route) []string {
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		out = append(out, r.Method+" "+prefix+r.Path)
	}
	return out
}

func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now(),
	})
}
