package main

import (
	"log"

	"github.com/peerhaven/signaling/config"
	"github.com/peerhaven/signaling/internal/handlers"
	"github.com/peerhaven/signaling/internal/relay"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Global CORS middleware (runs before routing)
	router.Use(handlers.OriginFilter(cfg.AllowedOrigins))

	coordinator := relay.NewCoordinator()

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Read-only API
	apiGroup := router.Group("/api")
	{
		// STUN/TURN configuration handed to clients
		apiGroup.GET("/ice", handlers.GetICEServers(cfg.ICEServers))

		// Room occupancy snapshot
		apiGroup.GET("/rooms/:roomId", handlers.GetRoom(coordinator.Rooms()))
	}

	// WebSocket signaling endpoint
	wsGroup := router.Group("/ws")
	{
		wsGroup.GET("/signal", handlers.HandleSignaling(coordinator, cfg.ICEServers))
	}

	// Start server
	log.Printf("Starting signaling relay on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
