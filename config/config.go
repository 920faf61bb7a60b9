package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pion/webrtc/v4"
)

type Config struct {
	Port           string
	Environment    string
	AllowedOrigins []string
	ICEServers     []webrtc.ICEServer
}

// Load builds the configuration from the environment. The ICE server list is
// static: the relay only hands it to clients, it never dials STUN or TURN
// itself.
func Load() (*Config, error) {
	// Parse allowed origins (comma-separated)
	originsStr := getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	origins := strings.Split(originsStr, ",")

	iceServers, err := loadICEServers()
	if err != nil {
		return nil, fmt.Errorf("ice configuration: %w", err)
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		AllowedOrigins: origins,
		ICEServers:     iceServers,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
