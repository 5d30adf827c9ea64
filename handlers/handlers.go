package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"

	"safestreet-service/metrics"
	"safestreet-service/models"
	"safestreet-service/service"
	ws "safestreet-service/websocket"
)

// ServiceName identifies this service in health responses
const ServiceName = "safestreet-service"

// Handlers contains all HTTP handlers
type Handlers struct {
	svc *service.Service
}

// NewHandlers creates a new handlers instance
func NewHandlers(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

// SubmitReport handles POST /api/report
func (h *Handlers) SubmitReport(c *gin.Context) {
	var args models.ReportArgs
	if err := c.ShouldBindJSON(&args); err != nil {
		metrics.ReportsRejected.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	report, err := h.svc.SubmitReport(args)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			metrics.ReportsRejected.Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		log.Errorf("Failed to save report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save report"})
		return
	}

	metrics.ReportsSubmitted.Inc()
	c.JSON(http.StatusOK, models.SubmitResponse{Status: "ok", Report: report})
}

// GetHazards handles GET /api/hazards?location=<query>
func (h *Handlers) GetHazards(c *gin.Context) {
	hazards, err := h.svc.RecentHazards(c.Query("location"))
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		log.Errorf("Failed to get hazards: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reports"})
		return
	}

	metrics.HazardQueries.Inc()
	c.JSON(http.StatusOK, models.HazardsResponse{Hazards: hazards})
}

// Predict handles GET /api/predict?location=<query>
func (h *Handlers) Predict(c *gin.Context) {
	prediction, err := h.svc.PredictForLocation(c.Query("location"))
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		log.Errorf("Failed to compute prediction: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute prediction"})
		return
	}

	metrics.Predictions.WithLabelValues(strconv.FormatBool(prediction.ShouldAvoid)).Inc()
	c.JSON(http.StatusOK, prediction)
}

// WebSocket upgrader
var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now
		return true
	},
}

// ListenHazards handles WebSocket connections for live report streaming
func (h *Handlers) ListenHazards(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("Failed to upgrade connection to WebSocket: %v", err)
		return
	}

	client := ws.NewClient(h.svc.Hub(), conn)
	h.svc.Hub().Register <- client

	go client.WritePump()
	go client.ReadPump()

	log.Infof("WebSocket connection established")
}

// HealthCheck returns the service health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	connectedClients, _ := h.svc.Hub().Stats()

	response := models.HealthResponse{
		Status:           "healthy",
		Service:          ServiceName,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		ConnectedClients: connectedClients,
		ReportsFile:      h.svc.Store().Path(),
	}

	c.JSON(http.StatusOK, response)
}
