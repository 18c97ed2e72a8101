package attendance

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsuyunov/abis-edu-sub011/app/attendance"
)

func TestListFilterClampsPaging(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", query: "", wantPage: 1, wantLimit: 20},
		{name: "zero limit", query: "page=1&limit=0", wantPage: 1, wantLimit: 20},
		{name: "negative values", query: "page=-3&limit=-5", wantPage: 1, wantLimit: 20},
		{name: "valid values kept", query: "page=3&limit=50", wantPage: 3, wantLimit: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			var got attendance.Filter
			app.Get("/api/attendance", func(c *fiber.Ctx) error {
				got = listFilter(c)
				return c.SendStatus(fiber.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/api/attendance?"+tt.query, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestListFilterCarriesQueryScope(t *testing.T) {
	app := fiber.New()
	var got attendance.Filter
	app.Get("/api/attendance", func(c *fiber.Ctx) error {
		got = listFilter(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET",
		"/api/attendance?branchId=b1&classId=c1&studentId=st1&status=PRESENT&date=2024-09-06", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, "b1", got.BranchID)
	assert.Equal(t, "c1", got.ClassID)
	assert.Equal(t, "st1", got.StudentID)
	assert.Equal(t, "PRESENT", got.Status)
	assert.Equal(t, "2024-09-06", got.Date)
}
