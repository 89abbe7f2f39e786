package importing_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zonekeeper/zonekeeper/internal/config"
	"github.com/zonekeeper/zonekeeper/internal/db/models"
	"github.com/zonekeeper/zonekeeper/internal/store"
	"github.com/zonekeeper/zonekeeper/internal/web/handler/importing"
	"github.com/zonekeeper/zonekeeper/internal/zone"
)

const bindUpload = "$ORIGIN example.com.\n" +
	"$TTL 3600\n" +
	"@ IN SOA ns1.example.com. hostmaster.example.com. 1 2 3 4 5\n" +
	"@ IN NS ns1.example.com.\n" +
	"www IN A 192.0.2.1\n"

func testApp(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Zone{}))

	repo, err := store.NewGormRepository(db)
	require.NoError(t, err)

	zoneStore := store.New(repo, nil)

	app := fiber.New()

	var svc importing.Service
	svc.Init(app, &config.Config{}, zoneStore)

	return app, zoneStore
}

func jsonRequest(target string, body any) *http.Request {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)

	req := httptest.NewRequest(fiber.MethodPost, target, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))

	return body
}

func TestPreview(t *testing.T) {
	app, zoneStore := testApp(t)

	resp, err := app.Test(jsonRequest("/api/import/preview", fiber.Map{"content": bindUpload}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])

	preview, ok := body["preview"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "bind", preview["format"])
	assert.Equal(t, false, preview["has_errors"])

	// preview persists nothing
	_, err = zoneStore.GetZone(context.Background(), "example.com.")
	assert.ErrorIs(t, err, store.ErrZoneNotFound)
}

func TestPreviewReportsValidationErrors(t *testing.T) {
	app, _ := testApp(t)

	content := "$ORIGIN example.com.\n$TTL 3600\nwww IN A not-an-ip\n"

	resp, err := app.Test(jsonRequest("/api/import/preview", fiber.Map{"content": content}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	preview := decodeBody(t, resp)["preview"].(map[string]any)
	assert.Equal(t, true, preview["has_errors"])
}

func TestPreviewBadRequests(t *testing.T) {
	app, _ := testApp(t)

	tests := []struct {
		name string
		body fiber.Map
		want int
	}{
		{
			name: "missing content",
			body: fiber.Map{"format": "bind"},
			want: fiber.StatusBadRequest,
		},
		{
			name: "unknown format",
			body: fiber.Map{"content": bindUpload, "format": "yaml"},
			want: fiber.StatusBadRequest,
		},
		{
			name: "invalid json payload",
			body: fiber.Map{"content": `{"name": "example.com`, "format": "json"},
			want: fiber.StatusUnprocessableEntity,
		},
		{
			name: "strict parse failure",
			body: fiber.Map{"content": "$ORIGIN example.com.\nbroken\n", "strict": true},
			want: fiber.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest("/api/import/preview", tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestCommit(t *testing.T) {
	app, zoneStore := testApp(t)

	resp, err := app.Test(jsonRequest("/api/import/commit", fiber.Map{"content": bindUpload}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	outcomes, ok := body["outcomes"].([]any)
	require.True(t, ok)
	require.Len(t, outcomes, 1)
	assert.Equal(t, "created", outcomes[0].(map[string]any)["status"])

	z, err := zoneStore.GetZone(context.Background(), "example.com.")
	require.NoError(t, err)
	assert.NotNil(t, z.RRSet("www.example.com.", zone.TypeA))
}

func TestCommitSkipMode(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(jsonRequest("/api/import/commit", fiber.Map{"content": bindUpload}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest("/api/import/commit", fiber.Map{"content": bindUpload, "mode": "skip"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	outcomes := decodeBody(t, resp)["outcomes"].([]any)
	require.Len(t, outcomes, 1)
	assert.Equal(t, "skipped", outcomes[0].(map[string]any)["status"])
}

func TestCommitRejectsUnknownMode(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(jsonRequest("/api/import/commit", fiber.Map{"content": bindUpload, "mode": "replace"}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCommitCancelledRequest(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Zone{}))

	repo, err := store.NewGormRepository(db)
	require.NoError(t, err)

	zoneStore := store.New(repo, nil)

	app := fiber.New()

	// the client went away before the commit loop started
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c.SetUserContext(ctx)

		return c.Next()
	})

	var svc importing.Service
	svc.Init(app, &config.Config{}, zoneStore)

	resp, err := app.Test(jsonRequest("/api/import/commit", fiber.Map{"content": bindUpload}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])

	outcomes, ok := body["outcomes"].([]any)
	require.True(t, ok)
	assert.Empty(t, outcomes)

	_, err = zoneStore.GetZone(context.Background(), "example.com.")
	assert.ErrorIs(t, err, store.ErrZoneNotFound)
}
