package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/urlkit/urlkit/internal/config"
	"github.com/urlkit/urlkit/internal/handler"
	"github.com/urlkit/urlkit/internal/models"
	"github.com/urlkit/urlkit/internal/repository"
	"github.com/urlkit/urlkit/internal/service"
	"github.com/urlkit/urlkit/internal/shortid"
	"go.uber.org/zap"
)

const testPrefix = "https://urlkit.io/"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type TestEnv struct {
	router         *gin.Engine
	linkRepo       repository.LinkRepository
	dbContainer    testcontainers.Container
	redisContainer testcontainers.Container
	db             *repository.PostgresDB
	redis          *repository.RedisDB
}

// setupTestEnv runs PostgreSQL and Redis containers and wires the
// full stack on top of them.
func setupTestEnv(t *testing.T) *TestEnv {
	ctx := t.Context()

	dbContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("urlkit"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	redisContainer, err := redis.Run(ctx,
		"redis:7-alpine",
	)
	require.NoError(t, err)

	dbHost, err := dbContainer.Host(ctx)
	require.NoError(t, err)
	dbPort, err := dbContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	redisHost, err := redisContainer.Host(ctx)
	require.NoError(t, err)
	redisPort, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	db, err := repository.NewPostgresDB(config.DBConfig{
		Host:     dbHost,
		Port:     dbPort.Port(),
		User:     "user",
		Password: "password",
		Name:     "urlkit",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx))

	redisClient, err := repository.NewRedisClient(config.RedisConfig{
		Host: redisHost,
		Port: redisPort.Port(),
	})
	require.NoError(t, err)

	linkRepo := repository.NewLinkRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	gen, err := shortid.New(shortid.DefaultLength)
	require.NoError(t, err)

	linkService := service.NewLinkService(linkRepo, cacheRepo, gen, zap.NewNop(), service.Config{
		DomainPrefix: testPrefix,
	})

	router := handler.NewRouter(linkService, zap.NewNop(), false)

	return &TestEnv{
		router:         router,
		linkRepo:       linkRepo,
		dbContainer:    dbContainer,
		redisContainer: redisContainer,
		db:             db,
		redis:          redisClient,
	}
}

func (env *TestEnv) teardown(t *testing.T) {
	env.db.Close()
	env.redis.Close()

	ctx := t.Context()
	if env.dbContainer != nil {
		env.dbContainer.Terminate(ctx)
	}
	if env.redisContainer != nil {
		env.redisContainer.Terminate(ctx)
	}
}

func (env *TestEnv) createLink(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/urls", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(w, req)
	return w
}

func TestIntegration_CreateLink(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	env := setupTestEnv(t)
	defer env.teardown(t)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectError    bool
	}{
		{
			name:           "valid URL",
			body:           `{"url": "https://example.com/test", "expires_in_days": 30}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "valid URL with default expiry",
			body:           `{"url": "https://example.com/defaults"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "URL too short",
			body:           `{"url": "ab"}`,
			expectedStatus: http.StatusBadRequest,
			expectError:    true,
		},
		{
			name:           "blocked internal host",
			body:           `{"url": "http://localhost:8080/admin"}`,
			expectedStatus: http.StatusBadRequest,
			expectError:    true,
		},
		{
			name:           "dangerous scheme",
			body:           `{"url": "javascript:alert(1)"}`,
			expectedStatus: http.StatusBadRequest,
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.createLink(t, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectError {
				var errResp handler.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
				assert.NotEmpty(t, errResp.Error)
				assert.NotEmpty(t, errResp.RequestID)
			} else {
				var resp models.CreateLinkResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.True(t, strings.HasPrefix(resp.ShortURL, testPrefix))
				assert.Equal(t, models.StatusActive, resp.Status)
			}
		})
	}
}

func TestIntegration_Redirect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	env := setupTestEnv(t)
	defer env.teardown(t)

	w := env.createLink(t, `{"url": "https://example.com/integration-test"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var created models.CreateLinkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	shortID := strings.TrimPrefix(created.ShortURL, testPrefix)

	t.Run("redirects to the original URL", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/"+shortID, nil)
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusMovedPermanently, w.Code)
		assert.Equal(t, "https://example.com/integration-test", w.Header().Get("Location"))
		assert.Equal(t, "no-cache, no-store, must-revalidate", w.Header().Get("Cache-Control"))
	})

	t.Run("unknown identifier", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/zzzzzzz", nil)
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("click counter advances", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/"+shortID, nil)
			env.router.ServeHTTP(w, req)
			require.Equal(t, http.StatusMovedPermanently, w.Code)
		}

		rec, err := env.linkRepo.GetLatestByShortID(t.Context(), shortID)
		require.NoError(t, err)
		// One redirect above plus three here.
		assert.GreaterOrEqual(t, rec.Clicks, int64(4))
		assert.Greater(t, rec.LastAccessed, int64(0))
	})
}

func TestIntegration_CollisionReusesNothing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	env := setupTestEnv(t)
	defer env.teardown(t)

	// Two creates for the same URL still mint distinct identifiers.
	w1 := env.createLink(t, `{"url": "https://example.com/same"}`)
	w2 := env.createLink(t, `{"url": "https://example.com/same"}`)
	require.Equal(t, http.StatusOK, w1.Code)
	require.Equal(t, http.StatusOK, w2.Code)

	var r1, r2 models.CreateLinkResponse
	require.NoError(t, json.Unmarshal(w1.Body.Bytes(), &r1))
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &r2))
	assert.NotEqual(t, r1.ShortURL, r2.ShortURL)
}

func TestIntegration_EdgeRedirect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	env := setupTestEnv(t)
	defer env.teardown(t)

	w := env.createLink(t, `{"url": "https://example.com/edge-test"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var created models.CreateLinkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	shortID := strings.TrimPrefix(created.ShortURL, testPrefix)

	body, _ := json.Marshal(handler.EdgeRequest{URI: "/" + shortID})
	w = httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/edge/redirect", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp handler.EdgeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "301", resp.Status)
	require.Len(t, resp.Headers["location"], 1)
	assert.Equal(t, "https://example.com/edge-test", resp.Headers["location"][0].Value)
}

func TestIntegration_HealthCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	env := setupTestEnv(t)
	defer env.teardown(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "urlkit", resp["service"])
}
