package handlers

import (
	"errors"
	"log"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"feedgram/apperror"
	"feedgram/cache"
	"feedgram/storage"
	"feedgram/token"
)

// Package-level collaborators, wired once at startup.
var (
	tokens       *token.Service
	profileCache *cache.Cache
	media        storage.Uploader
	devMode      bool
)

// Init wires the handler package's collaborators.
func Init(t *token.Service, c *cache.Cache, u storage.Uploader, dev bool) {
	tokens = t
	profileCache = c
	media = u
	devMode = dev
}

// Response is the uniform envelope for every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Stack   string      `json:"stack,omitempty"`
}

func respondSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// respondError translates any error into the envelope. Store-level errors
// are classified here: duplicate keys become conflicts, everything
// unrecognized becomes a 500. Stack traces only leave the process outside
// production.
func respondError(c *gin.Context, err error) {
	status := apperror.StatusOf(err)
	message := apperror.MessageOf(err)

	var app *apperror.AppError
	if !errors.As(err, &app) {
		if mongo.IsDuplicateKeyError(err) {
			conflict := apperror.Conflict("email")
			status = conflict.StatusCode
			message = conflict.Message
		}
	}

	log.Printf("[%s %s] request failed: %v", c.Request.Method, c.Request.URL.Path, err)

	resp := Response{Success: false, Message: message}
	if devMode {
		resp.Stack = err.Error() + "\n" + string(debug.Stack())
	}
	c.JSON(status, resp)
}
