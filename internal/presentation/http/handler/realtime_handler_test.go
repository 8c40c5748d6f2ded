package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// closeNotifyingRecorder satisfies http.CloseNotifier, which gin's Stream needs
type closeNotifyingRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyingRecorder) CloseNotify() <-chan bool { return r.closed }

type fakeFeed struct {
	mu           sync.Mutex
	tables       []string
	unsubscribed int
	onSubscribe  func(repository.ChangeHandler)
}

func (f *fakeFeed) Subscribe(table string, h repository.ChangeHandler) func() {
	f.mu.Lock()
	f.tables = append(f.tables, table)
	f.mu.Unlock()
	if f.onSubscribe != nil {
		f.onSubscribe(h)
	}
	return func() {
		f.mu.Lock()
		f.unsubscribed++
		f.mu.Unlock()
	}
}

func streamRouter(feed *fakeFeed) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/realtime/:table", NewRealtimeHandler(feed, zap.NewNop()).Stream)
	return r
}

func TestStreamRejectsUnknownTable(t *testing.T) {
	feed := &fakeFeed{}
	rec := httptest.NewRecorder()
	streamRouter(feed).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/realtime/payments", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, feed.tables)
}

func TestStreamForwardsChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recordID := uuid.New()
	feed := &fakeFeed{onSubscribe: func(h repository.ChangeHandler) {
		h(context.Background(), repository.ChangeEvent{
			Table:    repository.TableInventoryItems,
			Action:   repository.ChangeUpdate,
			RecordID: recordID,
			At:       time.Now(),
		})
		time.AfterFunc(100*time.Millisecond, cancel)
	}}

	req := httptest.NewRequest(http.MethodGet, "/realtime/inventory_items", nil).WithContext(ctx)
	rec := &closeNotifyingRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	streamRouter(feed).ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/event-stream"), rec.Header().Get("Content-Type"))
	assert.True(t, strings.Index(body, "event:ready") < strings.Index(body, "event:change"), body)
	assert.Contains(t, body, recordID.String())
	assert.Equal(t, []string{"inventory_items"}, feed.tables)
	assert.Equal(t, 1, feed.unsubscribed)
}

func TestCloseEndsOpenStreams(t *testing.T) {
	feed := &fakeFeed{}
	h := NewRealtimeHandler(feed, zap.NewNop())
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/realtime/:table", h.Stream)

	done := make(chan struct{})
	rec := &closeNotifyingRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	go func() {
		defer close(done)
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/realtime/inventory_items", nil))
	}()

	assert.Eventually(t, func() bool {
		feed.mu.Lock()
		defer feed.mu.Unlock()
		return len(feed.tables) == 1
	}, time.Second, 10*time.Millisecond)

	h.Close()
	h.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream still open after Close")
	}
	assert.Equal(t, 1, feed.unsubscribed)
}
