package stream

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"
)

// Event names written to the client.
const (
	EventReady        = "ready"
	EventNotification = "notification"
	EventPing         = "ping"
)

// Writer emits one named event with a JSON payload to the client.
type Writer interface {
	WriteEvent(name string, data any) error
}

// SSEWriter writes events in the Server-Sent Events wire format.
type SSEWriter struct {
	sse *datastar.ServerSentEventGenerator
}

// NewSSEWriter starts an event stream on w. Response headers are flushed
// immediately.
func NewSSEWriter(w http.ResponseWriter, r *http.Request) *SSEWriter {
	return &SSEWriter{sse: datastar.NewSSE(w, r)}
}

func (w *SSEWriter) WriteEvent(name string, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return errors.Join(ErrWriterFailed, err)
	}
	if err := w.sse.Send(datastar.EventType(name), []string{string(b)}); err != nil {
		return errors.Join(ErrWriterFailed, err)
	}
	return nil
}
