// FILE: ultralog/server/http.go
// Package server receives log records over the network and writes them to a
// Recorder: an HTTP endpoint served by fasthttp and a TCP line protocol
// served by gnet.
package server

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/ultralog"
	"github.com/lixenwraith/ultralog/sanitizer"
)

// Recorder is where received records go, usually an *ultralog.Logger
type Recorder interface {
	Log(level int64, message string)
}

var bearerPrefix = []byte("Bearer ")

// logRequest is the /log body; both fields are optional
type logRequest struct {
	Level   *string `json:"level"`
	Message *string `json:"message"`
}

// Handler serves GET /health and POST /log
type Handler struct {
	token     []byte
	recorder  Recorder
	sanitizer *sanitizer.Sanitizer
}

// NewHandler creates a handler that accepts records authenticated by token
func NewHandler(token string, recorder Recorder) *Handler {
	return &Handler{
		token:     []byte(token),
		recorder:  recorder,
		sanitizer: sanitizer.New().Policy(sanitizer.PolicyTxt),
	}
}

// HandleRequest is a fasthttp.RequestHandler
func (h *Handler) HandleRequest(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/health":
		if !ctx.IsGet() && !ctx.IsHead() {
			writeJSON(ctx, fasthttp.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "healthy"})

	case "/log":
		if !ctx.IsPost() {
			writeJSON(ctx, fasthttp.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		h.handleLog(ctx)

	default:
		writeJSON(ctx, fasthttp.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (h *Handler) handleLog(ctx *fasthttp.RequestCtx) {
	auth := ctx.Request.Header.Peek(fasthttp.HeaderAuthorization)
	if !bytes.HasPrefix(auth, bearerPrefix) {
		writeJSON(ctx, fasthttp.StatusForbidden, map[string]string{"error": "missing bearer token"})
		return
	}
	if subtle.ConstantTimeCompare(auth[len(bearerPrefix):], h.token) != 1 {
		writeJSON(ctx, fasthttp.StatusUnauthorized, map[string]string{"error": "invalid token"})
		return
	}

	var req logRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeJSON(ctx, fasthttp.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	// Only level names count; numbers and unknown names are INFO
	level := ultralog.LevelInfo
	if req.Level != nil {
		if named, ok := ultralog.LevelByName(*req.Level); ok {
			level = named
		}
	}
	var message string
	if req.Message != nil {
		message = h.sanitizer.Sanitize(*req.Message)
	}

	h.recorder.Log(level, message)
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "success"})
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, body map[string]string) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	// Marshalling a map[string]string cannot fail
	data, _ := json.Marshal(body)
	ctx.SetBody(data)
}
