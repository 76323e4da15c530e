package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// streamEvents relays broadcaster events as server-sent events until the
// client disconnects or the broadcaster closes.
func (h *Handler) streamEvents(c *gin.Context) {
	id, ch := h.Events.Subscribe()
	defer h.Events.Unsubscribe(id)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			c.SSEvent(string(e.Type), e.Data)
			c.Writer.Flush()
		}
	}
}
