package restapi

import (
	"net/http"

	"nest_dashboard/internal/app/port"
	"nest_dashboard/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// TransactionsResponse is the response shape of the transactions endpoint.
type TransactionsResponse struct {
	Transactions        []entity.Transaction `json:"transactions"`
	TransactionsLoading bool                 `json:"transactionsLoading"`
	TransactionsError   string               `json:"transactionsError,omitempty"`
}

// DashboardHandler serves the aggregated dashboard snapshots.
type DashboardHandler struct {
	balances port.BalanceService
	history  port.HistoryService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(balances port.BalanceService, history port.HistoryService) *DashboardHandler {
	return &DashboardHandler{
		balances: balances,
		history:  history,
	}
}

// GetBalanceHandler returns the latest balance summary.
func (h *DashboardHandler) GetBalanceHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.balances.Latest())
}

// GetTransactionsHandler returns the latest reconstructed transaction history.
func (h *DashboardHandler) GetTransactionsHandler(c *gin.Context) {
	transactions, loading, err := h.history.Latest()
	if transactions == nil {
		transactions = []entity.Transaction{}
	}

	response := TransactionsResponse{
		Transactions:        transactions,
		TransactionsLoading: loading,
	}
	if err != nil {
		response.TransactionsError = err.Error()
	}
	c.JSON(http.StatusOK, response)
}
