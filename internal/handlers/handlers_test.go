package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"

	"github.com/peerhaven/signaling/internal/handlers"
	"github.com/peerhaven/signaling/internal/models"
	"github.com/peerhaven/signaling/internal/registry"
)

func TestGetRoomSnapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rooms := registry.NewRooms()
	rooms.CreateOrJoin("r1", "a")
	rooms.CreateOrJoin("r1", "b")

	router := gin.New()
	router.GET("/api/rooms/:roomId", handlers.GetRoom(rooms))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms/r1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var info models.RoomInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info.Room != "r1" || len(info.Members) != 2 || info.Admin != "a" || !info.Full {
		t.Fatalf("unexpected snapshot: %+v", info)
	}
}

func TestGetRoomNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/api/rooms/:roomId", handlers.GetRoom(registry.NewRooms()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms/ghost", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetICEServers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	servers := []webrtc.ICEServer{{URLs: []string{"stun:stun.example.com:3478"}}}
	router := gin.New()
	router.GET("/api/ice", handlers.GetICEServers(servers))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ice", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		ICEServers []struct {
			URLs []string `json:"urls"`
		} `json:"iceServers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.ICEServers) != 1 || body.ICEServers[0].URLs[0] != "stun:stun.example.com:3478" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetICEServersEmptyListIsNotNull(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/api/ice", handlers.GetICEServers(nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ice", nil))

	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if string(body["iceServers"]) != "[]" {
		t.Fatalf("iceServers = %s, want []", body["iceServers"])
	}
}

func TestOriginFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(handlers.OriginFilter([]string{"http://allowed.example.com"}))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	cases := []struct {
		name       string
		origin     string
		wantStatus int
	}{
		{"allowed origin", "http://allowed.example.com", http.StatusOK},
		{"forbidden origin", "http://evil.example.com", http.StatusForbidden},
		{"no origin header", "", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantStatus == http.StatusOK && tc.origin != "" {
				if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.origin {
					t.Fatalf("Access-Control-Allow-Origin = %q, want %q", got, tc.origin)
				}
			}
		})
	}
}
