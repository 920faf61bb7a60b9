package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"

	"github.com/peerhaven/signaling/internal/models"
	"github.com/peerhaven/signaling/internal/relay"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking is handled by middleware
		return true
	},
}

// HandleSignaling upgrades the connection, assigns it an identifier, and
// hands the socket to the coordinator. The first message on the socket is the
// "connected" welcome carrying the peer's id and the ICE server list it
// should use for negotiation.
func HandleSignaling(coord *relay.Coordinator, iceServers []webrtc.ICEServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("Failed to upgrade connection: %v", err)
			return
		}

		peerID := uuid.New().String()
		client := newClient(peerID, conn)

		if err := coord.Connect(client); err != nil {
			log.Printf("Failed to register peer %s: %v", peerID, err)
			conn.Close()
			return
		}

		welcome := models.ServerMessage{
			Type: models.ServerTypeConnected,
			From: peerID,
		}
		if payload, err := json.Marshal(gin.H{"iceServers": iceServers}); err == nil {
			welcome.Payload = payload
		}
		client.Deliver(welcome)

		go client.writePump()
		go client.readPump(coord)
	}
}
