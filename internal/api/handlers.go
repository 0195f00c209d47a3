package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	customerrors "github.com/axellelanca/happythoughts/internal/errors"
	"github.com/axellelanca/happythoughts/internal/services"
)

// Greeting is served on the root route.
const Greeting = "Time for some happy thoughts!"

// Envelope messages, one pair per operation.
const (
	msgListOK      = "thought fetch successful"
	msgListFailed  = "thought not found"
	msgCreateOK    = "new thought created successfully"
	msgCreateFail  = "error occurred, could not create new thought"
	msgLikeOK      = "like of thought successful"
	msgLikeFailed  = "error occurred, could not like thought"
	healthOK       = "ok"
	healthDegraded = "unavailable"
)

// Options tunes the HTTP surface.
type Options struct {
	// PreciseStatusCodes answers 404 for unknown thoughts and 500 for store failures.
	// When false every failure is a 400, which existing clients rely on.
	PreciseStatusCodes bool
	// CORSOrigins lists allowed origins; "*" or an empty list allows any origin.
	CORSOrigins []string
}

// SetupRoutes configures all Gin API routes and injects necessary dependencies
func SetupRoutes(router *gin.Engine, thoughtService *services.ThoughtService, opts Options) {
	router.Use(cors.New(corsConfig(opts.CORSOrigins)))

	router.GET("/", RootHandler)
	router.GET("/health", HealthCheckHandler(thoughtService))

	thoughts := router.Group("/thoughts")
	{
		thoughts.GET("", ListThoughtsHandler(thoughtService, opts))
		thoughts.POST("", CreateThoughtHandler(thoughtService, opts))
		thoughts.POST("/:thoughtId/like", LikeThoughtHandler(thoughtService, opts))
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// RootHandler greets whoever reaches the root route.
func RootHandler(c *gin.Context) {
	c.String(http.StatusOK, Greeting)
}

// HealthCheckHandler reports whether the store answers.
func HealthCheckHandler(thoughtService *services.ThoughtService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := thoughtService.Health(c.Request.Context()); err != nil {
			log.Printf("[API] Health check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": healthDegraded})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": healthOK})
	}
}

// CreateThoughtRequest is the JSON body of POST /thoughts.
// Only the message is read; hearts, id and createdAt sent by a client are ignored.
type CreateThoughtRequest struct {
	Message string `json:"message"`
}

// bindCreateThought decodes exactly one JSON value from the body.
// An empty body is a missing message, reported later by validation.
func bindCreateThought(c *gin.Context, req *CreateThoughtRequest) error {
	body, err := c.GetRawData()
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := binding.JSON.BindBody(body, req); err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	var first json.RawMessage
	if err := dec.Decode(&first); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

var errTrailingData = errors.New("unexpected data after JSON body")

// ListThoughtsHandler answers GET /thoughts with the recent feed.
func ListThoughtsHandler(thoughtService *services.ThoughtService, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		thoughts, err := thoughtService.ListRecentThoughts(c.Request.Context())
		if err != nil {
			fail(c, opts, err, msgListFailed)
			return
		}
		c.JSON(http.StatusOK, Envelope{Success: true, Response: thoughts, Message: msgListOK})
	}
}

// CreateThoughtHandler answers POST /thoughts.
func CreateThoughtHandler(thoughtService *services.ThoughtService, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateThoughtRequest
		if err := bindCreateThought(c, &req); err != nil {
			fail(c, opts, customerrors.ValidationError{Field: "body", Reason: "must be a JSON object with a string message"}, msgCreateFail)
			return
		}

		thought, err := thoughtService.CreateThought(c.Request.Context(), req.Message)
		if err != nil {
			fail(c, opts, err, msgCreateFail)
			return
		}
		c.JSON(http.StatusCreated, Envelope{Success: true, Response: thought, Message: msgCreateOK})
	}
}

// LikeThoughtHandler answers POST /thoughts/:thoughtId/like.
func LikeThoughtHandler(thoughtService *services.ThoughtService, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		thought, err := thoughtService.LikeThought(c.Request.Context(), c.Param("thoughtId"))
		if err != nil {
			fail(c, opts, err, msgLikeFailed)
			return
		}
		c.JSON(http.StatusCreated, Envelope{Success: true, Response: thought, Message: msgLikeOK})
	}
}

// fail writes the failure envelope. Storage errors are logged, the others are client mistakes.
func fail(c *gin.Context, opts Options, err error, message string) {
	status, detail := describeError(err)
	if detail.Name == StorageErrorName {
		log.Printf("[API] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	if !opts.PreciseStatusCodes {
		status = http.StatusBadRequest
	}
	c.JSON(status, Envelope{Success: false, Response: detail, Message: message})
}
