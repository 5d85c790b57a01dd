package observability

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestInitLoggerAppliesLevel(t *testing.T) {
	cases := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"info", zerolog.InfoLevel},
		{"not-a-level", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		logger := InitLogger("enbagent", tc.level)
		if got := logger.GetLevel(); got != tc.want {
			t.Fatalf("level %q: got=%v want=%v", tc.level, got, tc.want)
		}
	}
}

func TestMetricsRouterServesScrape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	RecordConnectAttempt(true)

	router := MetricsRouter("enbagent", time.Now())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != 200 {
		t.Fatalf("metrics status: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "enbagent_session_connect_attempts_total") {
		t.Fatal("scrape output missing session collectors")
	}
}

func TestMetricsRouterHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := MetricsRouter("enbagent", time.Now())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != 200 {
		t.Fatalf("health status: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health body: %s", w.Body.String())
	}
}
