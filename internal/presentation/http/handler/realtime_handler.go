package handler

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/internal/presentation/http/dto/response"
	"go.uber.org/zap"
)

const (
	allTables         = "*"
	realtimeBuffer    = 32
	realtimeKeepAlive = 25 * time.Second
)

var streamableTables = map[string]bool{
	allTables:                             true,
	repository.TableInventoryItems:        true,
	repository.TableInventoryTransactions: true,
	repository.TableWorkers:               true,
	repository.TableServices:              true,
	repository.TableCustomers:             true,
	repository.TableAlerts:                true,
}

// RealtimeHandler streams change events to browsers as server-sent events
type RealtimeHandler struct {
	subscriber repository.ChangeSubscriber
	keepAlive  time.Duration
	log        *zap.Logger

	closing   chan struct{}
	closeOnce sync.Once
}

// NewRealtimeHandler creates a new realtime handler
func NewRealtimeHandler(subscriber repository.ChangeSubscriber, log *zap.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		subscriber: subscriber,
		keepAlive:  realtimeKeepAlive,
		log:        log,
		closing:    make(chan struct{}),
	}
}

// Close ends every open stream. http.Server.Shutdown waits for active
// requests, so it is registered with RegisterOnShutdown.
func (h *RealtimeHandler) Close() {
	h.closeOnce.Do(func() { close(h.closing) })
}

// Stream sends a "change" event for every committed write to :table until
// the client disconnects. Slow clients miss events rather than block the
// hub; they should re-fetch on reconnect.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	table := c.Param("table")
	if !streamableTables[table] {
		response.NotFound(c, "Unknown table")
		return
	}

	events := make(chan repository.ChangeEvent, realtimeBuffer)
	unsubscribe := h.subscriber.Subscribe(table, func(_ context.Context, event repository.ChangeEvent) {
		select {
		case events <- event:
		default:
			h.log.Debug("Dropping change event for slow client", zap.String("table", event.Table))
		}
	})
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.SSEvent("ready", gin.H{"table": table})
	c.Writer.Flush()

	ctx := c.Request.Context()
	select {
	case <-h.closing:
		return
	default:
	}
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-h.closing:
			return false
		case event := <-events:
			c.SSEvent("change", event)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC())
			return true
		}
	})
}
