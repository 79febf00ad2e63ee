package controllers

import (
	"log"
	"net/http"

	"essayhub/db"
	"essayhub/services"
	"essayhub/websocket"

	"github.com/gin-gonic/gin"
)

var (
	store        *db.Store
	orchestrator *services.Orchestrator
	aggregator   *services.Aggregator
	policy       *services.AccessPolicy
	notifier     *websocket.Notifier
	uploadDir    string
)

// Init wires the shared collaborators into the handler package. Must be
// called once before the router is set up.
func Init(s *db.Store, o *services.Orchestrator, a *services.Aggregator, p *services.AccessPolicy, n *websocket.Notifier, uploads string) {
	store = s
	orchestrator = o
	aggregator = a
	policy = p
	notifier = n
	uploadDir = uploads
}

// respondError maps the core error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case services.IsPermission(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func currentUser(c *gin.Context) (userID, role string) {
	return c.GetString("userId"), c.GetString("userRole")
}
