package stream

import (
	"encoding/json"
	"net/http"
	"time"

	"fxradar/internal/platform/logger"
)

const keepAliveInterval = 25 * time.Second

// SSEHandler serves the live event stream. One message per record, with a
// periodic comment frame so intermediaries keep the connection open
func (h *Hub) SSEHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		sub := h.Subscribe()
		defer h.Unsubscribe(sub)

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := w.Write([]byte(": keep-alive\n\n")); err != nil {
					return
				}
				flusher.Flush()
			case rec, ok := <-sub.C:
				if !ok {
					return
				}
				payload, err := json.Marshal(rec)
				if err != nil {
					logger.C(ctx).Error().Err(err).Str("id", rec.ID).Msg("encode stream event")
					continue
				}
				if _, err := w.Write([]byte("data: ")); err != nil {
					return
				}
				if _, err := w.Write(payload); err != nil {
					return
				}
				if _, err := w.Write([]byte("\n\n")); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}
