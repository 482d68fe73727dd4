package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deckhand-io/deckhand/internal/domain"
	"github.com/deckhand-io/deckhand/internal/service"
)

// Chat runs one conversational turn.
// POST /v1/chat
//
// With ?stream=true the response is an SSE stream of progress frames followed
// by a final done frame carrying the full updated history.
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if c.QueryParam("stream") == "true" {
		return h.chatStream(c, req)
	}

	resp, err := h.service.Chat(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrMissingMessage) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) chatStream(c echo.Context, req domain.ChatRequest) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	writeFrame := func(frame domain.StreamFrame) {
		data, err := json.Marshal(frame)
		if err != nil {
			return
		}
		fmt.Fprintf(res, "data: %s\n\n", data)
		res.Flush()
	}

	resp, err := h.service.ChatStream(c.Request().Context(), req, writeFrame)
	if err != nil {
		writeFrame(domain.StreamFrame{Type: "error", Message: err.Error()})
		return nil
	}

	writeFrame(domain.StreamFrame{Type: "done", Messages: resp.Messages})
	return nil
}
