package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"

	"github.com/peerhaven/signaling/internal/models"
	"github.com/peerhaven/signaling/internal/registry"
)

// GetRoom returns an occupancy snapshot for a room (public).
func GetRoom(rooms *registry.Rooms) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("roomId")

		members, admin, ok := rooms.Snapshot(roomID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}

		c.JSON(http.StatusOK, models.RoomInfo{
			Room:    roomID,
			Members: members,
			Admin:   admin,
			Full:    len(members) >= registry.RoomCapacity,
		})
	}
}

// GetICEServers returns the static STUN/TURN list clients should hand to
// their RTCPeerConnection. The relay never uses these servers itself.
func GetICEServers(iceServers []webrtc.ICEServer) gin.HandlerFunc {
	// Never serve a JSON null; an empty list is still a valid configuration.
	if iceServers == nil {
		iceServers = []webrtc.ICEServer{}
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": iceServers})
	}
}
