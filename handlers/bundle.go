package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups the endpoint handlers for route registration.
type HandlerBundle struct {
	// Webhook endpoints
	SignalHandler gin.HandlerFunc

	// Operational endpoints
	HealthHandler gin.HandlerFunc
}
