package container

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"container-tracker/logger"
	"container-tracker/middleware"
	containerModel "container-tracker/models/container"
	userModel "container-tracker/models/user"
	"container-tracker/types"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	token string
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&userModel.User{},
		&containerModel.ContainerType{},
		&containerModel.Container{},
		&containerModel.ContainerHistory{},
	))

	account := userModel.User{
		Username:     "manager1",
		Email:        "manager1@example.com",
		PasswordHash: "x",
		FullName:     "Test Manager",
		Role:         userModel.RoleManager,
	}
	require.NoError(t, db.Create(&account).Error)
	require.NoError(t, db.Create(&containerModel.ContainerType{Name: "Mattress", Description: "Mattress containers"}).Error)

	token, err := middleware.IssueToken(&account)
	require.NoError(t, err)

	controller := NewContainerController(db, logger.NewAsyncLogger(db))

	app := fiber.New()
	api := app.Group("/api")
	group := api.Group("/containers")
	group.Get("/", controller.Index)
	group.Get("/stats/overview", controller.Stats)
	group.Get("/:id", controller.Show)
	group.Post("/", middleware.IsAuthenticated(), controller.Store)
	group.Put("/:id", middleware.IsAuthenticated(), controller.Update)
	group.Delete("/:id", middleware.IsAuthenticated(), controller.Destroy)
	api.Get("/container-types", controller.Types)

	return &testEnv{app: app, db: db, token: token}
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}, authed bool) (int, types.ApiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed types.ApiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

func TestContainerLifecycle(t *testing.T) {
	env := setupEnv(t)

	// Create.
	status, resp := env.request(t, "POST", "/api/containers/", map[string]interface{}{
		"container_number":      "CONT-100",
		"container_type_id":     1,
		"source":                "Shanghai",
		"expected_arrival_date": "2026-09-20",
	}, true)
	require.Equal(t, fiber.StatusCreated, status)

	created, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	id := fmt.Sprintf("%v", created["id"])

	// Update writes history.
	status, resp = env.request(t, "PUT", "/api/containers/"+id, map[string]interface{}{
		"status": "in_transit",
	}, true)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "Container updated successfully", resp.Message)

	// Same patch again is a no-op.
	status, resp = env.request(t, "PUT", "/api/containers/"+id, map[string]interface{}{
		"status": "in_transit",
	}, true)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "No changes detected", resp.Message)

	// Detail includes the single history row.
	status, resp = env.request(t, "GET", "/api/containers/"+id, nil, false)
	require.Equal(t, fiber.StatusOK, status)
	detail, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "CONT-100", detail["container_number"])
	require.Equal(t, "in_transit", detail["status"])
	history, ok := detail["history"].([]interface{})
	require.True(t, ok)
	require.Len(t, history, 1)
	entry := history[0].(map[string]interface{})
	require.Equal(t, "status", entry["field_name"])
	require.Equal(t, "planned", entry["old_value"])
	require.Equal(t, "in_transit", entry["new_value"])

	// Delete.
	status, _ = env.request(t, "DELETE", "/api/containers/"+id, nil, true)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = env.request(t, "GET", "/api/containers/"+id, nil, false)
	require.Equal(t, fiber.StatusNotFound, status)
}

func TestContainerMutationsRequireAuth(t *testing.T) {
	env := setupEnv(t)

	status, _ := env.request(t, "POST", "/api/containers/", map[string]interface{}{
		"container_number":  "CONT-101",
		"container_type_id": 1,
		"source":            "Shanghai",
	}, false)
	require.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = env.request(t, "PUT", "/api/containers/1", map[string]interface{}{
		"status": "arrived",
	}, false)
	require.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = env.request(t, "DELETE", "/api/containers/1", nil, false)
	require.Equal(t, fiber.StatusUnauthorized, status)
}

func TestContainerValidationErrors(t *testing.T) {
	env := setupEnv(t)

	status, resp := env.request(t, "POST", "/api/containers/", map[string]interface{}{}, true)
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "Validation failed", resp.Message)

	fields, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	require.Contains(t, fields, "container_number")
	require.Contains(t, fields, "source")

	status, resp = env.request(t, "POST", "/api/containers/", map[string]interface{}{
		"container_number":  "CONT-102",
		"container_type_id": 1,
		"source":            "Shanghai",
		"status":            "teleported",
	}, true)
	require.Equal(t, fiber.StatusBadRequest, status)
	fields, ok = resp.Data.(map[string]interface{})
	require.True(t, ok)
	require.Contains(t, fields, "status")
}

func TestContainerRejectsInvalidDates(t *testing.T) {
	env := setupEnv(t)

	for _, bad := range []string{"", "2026-13-40", "15/09/2026", "2026-09"} {
		status, _ := env.request(t, "POST", "/api/containers/", map[string]interface{}{
			"container_number":  "CONT-BAD",
			"container_type_id": 1,
			"source":            "Shanghai",
			"planned_date":      bad,
		}, true)
		require.Equal(t, fiber.StatusBadRequest, status, "planned_date %q must be rejected", bad)
	}

	var count int64
	require.NoError(t, env.db.Model(&containerModel.Container{}).Count(&count).Error)
	require.Zero(t, count)

	status, _ := env.request(t, "POST", "/api/containers/", map[string]interface{}{
		"container_number":  "CONT-110",
		"container_type_id": 1,
		"source":            "Shanghai",
	}, true)
	require.Equal(t, fiber.StatusCreated, status)

	// An empty-string date in a patch is rejected, writes nothing and leaves
	// no history behind.
	status, _ = env.request(t, "PUT", "/api/containers/1", map[string]interface{}{
		"planned_date": "",
	}, true)
	require.Equal(t, fiber.StatusBadRequest, status)

	status, _ = env.request(t, "PUT", "/api/containers/1", map[string]interface{}{
		"expected_arrival_date": "not-a-date",
	}, true)
	require.Equal(t, fiber.StatusBadRequest, status)

	var stored containerModel.Container
	require.NoError(t, env.db.First(&stored, 1).Error)
	require.Nil(t, stored.PlannedDate)

	require.NoError(t, env.db.Model(&containerModel.ContainerHistory{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestContainerDuplicateNumber(t *testing.T) {
	env := setupEnv(t)

	payload := map[string]interface{}{
		"container_number":  "CONT-103",
		"container_type_id": 1,
		"source":            "Shanghai",
	}
	status, _ := env.request(t, "POST", "/api/containers/", payload, true)
	require.Equal(t, fiber.StatusCreated, status)

	status, resp := env.request(t, "POST", "/api/containers/", payload, true)
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "Container number already exists", resp.Message)
}

func TestContainerTypesEndpoint(t *testing.T) {
	env := setupEnv(t)

	status, resp := env.request(t, "GET", "/api/container-types", nil, false)
	require.Equal(t, fiber.StatusOK, status)

	rows, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)
}

func TestContainerStatsEndpoint(t *testing.T) {
	env := setupEnv(t)

	status, _ := env.request(t, "POST", "/api/containers/", map[string]interface{}{
		"container_number":  "CONT-104",
		"container_type_id": 1,
		"source":            "Shanghai",
	}, true)
	require.Equal(t, fiber.StatusCreated, status)

	status, resp := env.request(t, "GET", "/api/containers/stats/overview", nil, false)
	require.Equal(t, fiber.StatusOK, status)

	overview, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	require.Contains(t, overview, "statusBreakdown")
	require.Contains(t, overview, "sourceBreakdown")
	require.Contains(t, overview, "typeBreakdown")
	require.Contains(t, overview, "upcomingContainers")
}
