package restapi

import (
	"net/http"

	"nest_dashboard/internal/client"
	"nest_dashboard/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const proxyErrorMessage = "Failed to fetch vault data"

// VaultHandler serves the vault metadata proxy endpoint.
type VaultHandler struct {
	nestClient client.NestAPIClient
	logger     *zap.Logger
}

// NewVaultHandler creates a new VaultHandler.
func NewVaultHandler(nestClient client.NestAPIClient, logger *zap.Logger) *VaultHandler {
	return &VaultHandler{
		nestClient: nestClient,
		logger:     logger.Named("VaultHandler"),
	}
}

// GetVaultsHandler forwards the vault list from the upstream provider. On
// success the upstream body is passed through verbatim, whatever its shape.
// Any upstream failure collapses to a single 500 error response.
func (h *VaultHandler) GetVaultsHandler(c *gin.Context) {
	status, body, err := h.nestClient.FetchRaw(c.Request.Context())
	if err != nil || status != http.StatusOK {
		h.logger.Error("Error fetching vault data",
			zap.Int("upstream_status", status),
			zap.Error(err))
		metrics.ProxyFailuresTotal.Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": proxyErrorMessage})
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}
