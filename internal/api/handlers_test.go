package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/axellelanca/happythoughts/internal/models"
	"github.com/axellelanca/happythoughts/internal/repository"
	"github.com/axellelanca/happythoughts/internal/services"
)

type thoughtEnvelope struct {
	Success  bool           `json:"success"`
	Response models.Thought `json:"response"`
	Message  string         `json:"message"`
}

type feedEnvelope struct {
	Success  bool             `json:"success"`
	Response []models.Thought `json:"response"`
	Message  string           `json:"message"`
}

type failureEnvelope struct {
	Success  bool        `json:"success"`
	Response ErrorDetail `json:"response"`
	Message  string      `json:"message"`
}

func newTestRouter(t *testing.T, repo repository.ThoughtRepository, opts Options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, services.NewThoughtService(repo), opts)
	return router
}

func newSQLiteRouter(t *testing.T, opts Options) (*gin.Engine, repository.ThoughtRepository) {
	t.Helper()
	repo, err := repository.OpenAndMigrate(context.Background(), repository.DriverSQLite, filepath.Join(t.TempDir(), "thoughts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return newTestRouter(t, repo, opts), repo
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRootHandler(t *testing.T) {
	req := require.New(t)
	router, _ := newSQLiteRouter(t, Options{})

	rec := doRequest(router, http.MethodGet, "/", "")
	req.Equal(http.StatusOK, rec.Code)
	req.Equal(Greeting, rec.Body.String())
}

func TestHappyPath_CreateLikeList(t *testing.T) {
	req := require.New(t)
	router, _ := newSQLiteRouter(t, Options{})

	rec := doRequest(router, http.MethodPost, "/thoughts", `{"message":"Hello world!"}`)
	req.Equal(http.StatusCreated, rec.Code)
	var created thoughtEnvelope
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	req.True(created.Success)
	req.Equal("new thought created successfully", created.Message)
	req.Equal("Hello world!", created.Response.Message)
	req.Equal(int64(0), created.Response.Hearts)
	req.NotEmpty(created.Response.ID)
	req.False(created.Response.CreatedAt.IsZero())

	rec = doRequest(router, http.MethodPost, "/thoughts/"+created.Response.ID+"/like", "")
	req.Equal(http.StatusCreated, rec.Code)
	var liked thoughtEnvelope
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &liked))
	req.True(liked.Success)
	req.Equal("like of thought successful", liked.Message)
	req.Equal(created.Response.ID, liked.Response.ID)
	req.Equal(int64(1), liked.Response.Hearts)

	rec = doRequest(router, http.MethodGet, "/thoughts", "")
	req.Equal(http.StatusOK, rec.Code)
	var feed feedEnvelope
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &feed))
	req.True(feed.Success)
	req.Equal("thought fetch successful", feed.Message)
	req.Len(feed.Response, 1)
	req.Equal(created.Response.ID, feed.Response[0].ID)
	req.Equal(int64(1), feed.Response[0].Hearts)
}

func TestThoughtJSONShape(t *testing.T) {
	req := require.New(t)
	router, _ := newSQLiteRouter(t, Options{})

	rec := doRequest(router, http.MethodPost, "/thoughts", `{"message":"Shape of a thought"}`)
	req.Equal(http.StatusCreated, rec.Code)

	var raw map[string]json.RawMessage
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &raw))
	req.JSONEq(`true`, string(raw["success"]))

	var thought map[string]interface{}
	req.NoError(json.Unmarshal(raw["response"], &thought))
	keys := make([]string, 0, len(thought))
	for k := range thought {
		keys = append(keys, k)
	}
	req.ElementsMatch([]string{"id", "message", "hearts", "createdAt"}, keys)
	req.NotContains(thought, "seq")
	req.Equal("Shape of a thought", thought["message"])
	req.Equal(float64(0), thought["hearts"])
}

func TestListThoughts_EmptyFeedIsAnArray(t *testing.T) {
	req := require.New(t)
	router, _ := newSQLiteRouter(t, Options{})

	rec := doRequest(router, http.MethodGet, "/thoughts", "")
	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), `"response":[]`)
}

func TestListThoughts_NewestFirstAndAtMostTwenty(t *testing.T) {
	req := require.New(t)
	router, _ := newSQLiteRouter(t, Options{})

	var lastID string
	for i := 0; i < 23; i++ {
		rec := doRequest(router, http.MethodPost, "/thoughts", fmt.Sprintf(`{"message":"happy thought %02d"}`, i))
		req.Equal(http.StatusCreated, rec.Code)
		var created thoughtEnvelope
		req.NoError(json.Unmarshal(rec.Body.Bytes(), &created))
		lastID = created.Response.ID
	}

	rec := doRequest(router, http.MethodGet, "/thoughts", "")
	var feed feedEnvelope
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &feed))
	req.Len(feed.Response, 20)
	req.Equal(lastID, feed.Response[0].ID)
	for i := 1; i < len(feed.Response); i++ {
		req.False(feed.Response[i].CreatedAt.After(feed.Response[i-1].CreatedAt))
	}
}

func TestCreateThought_ValidationFailures(t *testing.T) {
	req := require.New(t)
	router, repo := newSQLiteRouter(t, Options{})

	bodies := map[string]string{
		"too short":         `{"message":"Hi"}`,
		"blank":             `{"message":"     "}`,
		"missing":           `{}`,
		"empty body":        "",
		"too long":          fmt.Sprintf(`{"message":"%s"}`, strings.Repeat("a", 141)),
		"not json":          `message=hello`,
		"not a string":      `{"message":12345}`,
		"short with hearts": `{"message":"Hi","hearts":99}`,
		"trailing garbage":  `{"message":"hello there"} trailing`,
		"two objects":       `{"message":"hello there"}{"message":"again"}`,
	}
	for name, body := range bodies {
		rec := doRequest(router, http.MethodPost, "/thoughts", body)
		req.Equal(http.StatusBadRequest, rec.Code, name)

		var failed failureEnvelope
		req.NoError(json.Unmarshal(rec.Body.Bytes(), &failed), name)
		req.False(failed.Success, name)
		req.Equal("error occurred, could not create new thought", failed.Message, name)
		req.Equal(ValidationErrorName, failed.Response.Name, name)
	}

	count, err := repo.CountThoughts(context.Background())
	req.NoError(err)
	req.Equal(int64(0), count)
}

func TestCreateThought_AcceptsTrailingWhitespace(t *testing.T) {
	req := require.New(t)
	router, _ := newSQLiteRouter(t, Options{})

	rec := doRequest(router, http.MethodPost, "/thoughts", "{\"message\":\"  hello there  \"}\n\t ")
	req.Equal(http.StatusCreated, rec.Code)
	var created thoughtEnvelope
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	req.Equal("hello there", created.Response.Message)
}

func TestCreateThought_IgnoresClientAssignedFields(t *testing.T) {
	req := require.New(t)
	router, _ := newSQLiteRouter(t, Options{})
	forgedID := uuid.NewString()

	body := fmt.Sprintf(`{"message":"Sneaky thought","hearts":42,"id":%q,"createdAt":"2001-01-01T00:00:00Z"}`, forgedID)
	rec := doRequest(router, http.MethodPost, "/thoughts", body)
	req.Equal(http.StatusCreated, rec.Code)

	var created thoughtEnvelope
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	req.Equal(int64(0), created.Response.Hearts)
	req.NotEqual(forgedID, created.Response.ID)
	req.True(created.Response.CreatedAt.After(time.Date(2001, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestLikeThought_Failures(t *testing.T) {
	req := require.New(t)
	router, repo := newSQLiteRouter(t, Options{})

	cases := map[string]struct {
		id   string
		name string
	}{
		"unknown id":   {uuid.NewString(), NotFoundErrorName},
		"malformed id": {"507f1f77bcf86cd799439011", CastErrorName},
	}
	for label, tc := range cases {
		rec := doRequest(router, http.MethodPost, "/thoughts/"+tc.id+"/like", "")
		req.Equal(http.StatusBadRequest, rec.Code, label)

		var failed failureEnvelope
		req.NoError(json.Unmarshal(rec.Body.Bytes(), &failed), label)
		req.False(failed.Success, label)
		req.Equal("error occurred, could not like thought", failed.Message, label)
		req.Equal(tc.name, failed.Response.Name, label)
	}

	count, err := repo.CountThoughts(context.Background())
	req.NoError(err)
	req.Equal(int64(0), count)
}

func TestPreciseStatusCodes(t *testing.T) {
	req := require.New(t)
	router, _ := newSQLiteRouter(t, Options{PreciseStatusCodes: true})

	rec := doRequest(router, http.MethodPost, "/thoughts/"+uuid.NewString()+"/like", "")
	req.Equal(http.StatusNotFound, rec.Code)

	rec = doRequest(router, http.MethodPost, "/thoughts/nope/like", "")
	req.Equal(http.StatusBadRequest, rec.Code)

	rec = doRequest(router, http.MethodPost, "/thoughts", `{"message":"Hi"}`)
	req.Equal(http.StatusBadRequest, rec.Code)
}

// unreachableStore behaves like a store whose backend is down.
type unreachableStore struct {
	repository.ThoughtRepository
}

var errBackendDown = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

func (unreachableStore) ListRecentThoughts(context.Context, int) ([]models.Thought, error) {
	return nil, errBackendDown
}

func (unreachableStore) CreateThought(context.Context, *models.Thought) error {
	return errBackendDown
}

func (unreachableStore) Ping(context.Context) error {
	return errBackendDown
}

func TestStorageFailures(t *testing.T) {
	req := require.New(t)
	router := newTestRouter(t, unreachableStore{}, Options{})

	rec := doRequest(router, http.MethodGet, "/thoughts", "")
	req.Equal(http.StatusBadRequest, rec.Code)
	var failed failureEnvelope
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &failed))
	req.False(failed.Success)
	req.Equal("thought not found", failed.Message)
	req.Equal(StorageErrorName, failed.Response.Name)
	req.Contains(failed.Response.Message, "connection refused")

	rec = doRequest(router, http.MethodPost, "/thoughts", `{"message":"Hello world!"}`)
	req.Equal(http.StatusBadRequest, rec.Code)

	precise := newTestRouter(t, unreachableStore{}, Options{PreciseStatusCodes: true})
	rec = doRequest(precise, http.MethodGet, "/thoughts", "")
	req.Equal(http.StatusInternalServerError, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	req := require.New(t)

	router, _ := newSQLiteRouter(t, Options{})
	rec := doRequest(router, http.MethodGet, "/health", "")
	req.Equal(http.StatusOK, rec.Code)
	req.JSONEq(`{"status":"ok"}`, rec.Body.String())

	down := newTestRouter(t, unreachableStore{}, Options{})
	rec = doRequest(down, http.MethodGet, "/health", "")
	req.Equal(http.StatusServiceUnavailable, rec.Code)
	req.JSONEq(`{"status":"unavailable"}`, rec.Body.String())
}

func TestCORSHeaders(t *testing.T) {
	req := require.New(t)
	router, _ := newSQLiteRouter(t, Options{CORSOrigins: []string{"*"}})

	r := httptest.NewRequest(http.MethodGet, "/thoughts", nil)
	r.Header.Set("Origin", "https://happy-thoughts.example")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	req.Equal(http.StatusOK, rec.Code)
	req.Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
}
