package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"retrofit_risk/internal/api/dto"
	"retrofit_risk/internal/reporting"
)

// StreamHandler serves GET /ws/risk-assessment: the client sends one
// assessment request as the first text message, the server streams
// progress frames while the engine runs, then the final envelope.
type StreamHandler struct {
	service  AssessmentService
	defaults DefaultsResolver
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewStreamHandler creates a new websocket streaming handler
func NewStreamHandler(service AssessmentService, defaults DefaultsResolver, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		service:  service,
		defaults: defaults,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The browser dashboard is served from another origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Stream upgrades the connection and runs one streamed assessment
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		return
	}

	var req dto.RiskAssessmentRequest
	if err := json.Unmarshal(message, &req); err != nil {
		h.writeClose(conn, websocket.ClosePolicyViolation, "invalid request payload")
		return
	}

	// The assessment handler owns request resolution; reuse it here so
	// both transports resolve defaults and options the same way. The
	// binding-tag checks of the HTTP path are not applied to this payload;
	// the service's input validation still runs.
	resolver := &AssessmentHandler{service: h.service, defaults: h.defaults, logger: h.logger}
	inputs, opts, err := resolver.resolve(c, &req)
	if err != nil {
		h.writeClose(conn, websocket.ClosePolicyViolation, err.Error())
		return
	}

	// Progress updates arrive from kernel workers; funnel them through a
	// channel so a single goroutine performs all websocket writes
	progressCh := make(chan dto.ProgressFrame, 64)
	opts.Progress = func(completed, total int) {
		select {
		case progressCh <- dto.ProgressFrame{Type: "progress", Completed: completed, Total: total}:
		default:
		}
	}

	type outcome struct {
		envelope *reporting.ResultEnvelope
		err      error
	}
	resultCh := make(chan outcome, 1)
	go func() {
		envelope, runErr := h.service.RunRiskAssessment(c.Request.Context(), inputs, opts)
		resultCh <- outcome{envelope: envelope, err: runErr}
	}()

	for {
		select {
		case frame := <-progressCh:
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
		case result := <-resultCh:
			if result.err != nil {
				h.writeClose(conn, websocket.CloseInternalServerErr, result.err.Error())
				return
			}
			if err := conn.WriteJSON(dto.ResultFrame{Type: "result", Data: result.envelope}); err != nil {
				return
			}
			h.writeClose(conn, websocket.CloseNormalClosure, "")
			return
		}
	}
}

func (h *StreamHandler) writeClose(conn *websocket.Conn, code int, reason string) {
	// Close frame payloads are capped at 125 bytes by the protocol
	if len(reason) > 120 {
		reason = reason[:120]
	}
	deadline := time.Now().Add(5 * time.Second)
	conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
}
