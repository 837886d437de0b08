package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestTokenBucketPerIPThrottlesBursts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TokenBucketPerIP())
	router.POST("/pair", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	statuses := map[int]int{}
	for i := 0; i < 50; i++ {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/pair", nil)
		request.RemoteAddr = "10.1.2.3:40000"
		router.ServeHTTP(recorder, request)
		statuses[recorder.Code]++
	}

	if statuses[http.StatusOK] == 0 {
		t.Fatal("expected the first requests in the burst to pass")
	}
	if statuses[http.StatusTooManyRequests] == 0 {
		t.Fatal("expected a 50-request burst from one address to be throttled")
	}
}
