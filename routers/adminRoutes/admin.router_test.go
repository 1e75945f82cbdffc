package adminRoutes

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestSetupAdminRoutesRegistersEndpoints(t *testing.T) {
	app := fiber.New()
	SetupAdminRoutes(app)

	registered := make(map[string]bool)
	for _, route := range app.GetRoutes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /admin/dashboard",
		"POST /admin/company",
		"GET /admin/company/list",
		"POST /admin/instructor",
		"POST /admin/course",
		"GET /admin/course/list",
		"PUT /admin/course/:id",
		"DELETE /admin/course/:id",
		"POST /admin/course/:id/subcourse",
		"DELETE /admin/subcourse/:id",
		"POST /admin/subcourse/:id/module",
		"DELETE /admin/module/:id",
		"POST /admin/course/:id/test",
		"POST /admin/test/:id/question",
		"GET /admin/test/:id/question/list",
		"DELETE /admin/certificate/:id",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
}
