package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xssnick/tonutils-go/address"

	"raffle-backend/internal/features/raffle/gateway"
	"raffle-backend/internal/features/raffle/models"
	"raffle-backend/internal/features/raffle/models/dto"
	"raffle-backend/internal/features/raffle/repository"
	"raffle-backend/internal/features/raffle/service"
	"raffle-backend/internal/middleware"
)

type RaffleHandler struct {
	service service.RaffleService
	gateway *gateway.Gateway
}

func NewRaffleHandler(svc service.RaffleService, gw *gateway.Gateway) *RaffleHandler {
	return &RaffleHandler{service: svc, gateway: gw}
}

// RegisterRoutes mounts the public raffle API and the oracle callback
// endpoint. The callback group carries the capability middleware; everything
// else is open.
func (h *RaffleHandler) RegisterRoutes(router *gin.RouterGroup, callbackToken string) {
	raffle := router.Group("/raffle")
	{
		raffle.POST("/entries", h.enter)
		raffle.GET("/round", h.getRound)
		raffle.GET("/upkeep", h.checkUpkeep)
		raffle.POST("/upkeep", h.performUpkeep)
		raffle.GET("/winner", h.getWinner)
	}

	oracle := router.Group("/oracle", middleware.OracleCallback(callbackToken))
	{
		oracle.POST("/fulfillments", h.fulfill)
	}
}

func (h *RaffleHandler) enter(c *gin.Context) {
	var input dto.EnterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	// Address shape is a boundary concern; the ledger only gates on round
	// status and fee.
	if _, err := address.ParseAddr(input.Address); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid TON address"})
		return
	}

	round, err := h.service.Admit(c.Request.Context(), input.Address, input.PaidNano)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewRoundResponse(round))
}

func (h *RaffleHandler) getRound(c *gin.Context) {
	round, err := h.service.CurrentRound(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRoundResponse(round))
}

func (h *RaffleHandler) checkUpkeep(c *gin.Context) {
	status, err := h.service.CheckUpkeep(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UpkeepResponse{
		UpkeepNeeded: status.Needed,
		Pot:          status.Pot,
		Participants: status.Participants,
		Status:       status.Status,
		ElapsedSec:   int64(status.Elapsed.Seconds()),
	})
}

func (h *RaffleHandler) performUpkeep(c *gin.Context) {
	req, err := h.service.PerformUpkeep(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request_id": req.ID, "round_id": req.RoundID})
}

func (h *RaffleHandler) fulfill(c *gin.Context) {
	var input dto.FulfillmentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	winner, err := h.gateway.Fulfill(c.Request.Context(), input.RequestID, input.RandomWords)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWinnerResponse(winner))
}

func (h *RaffleHandler) getWinner(c *gin.Context) {
	winner, err := h.service.LatestWinner(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWinnerResponse(winner))
}

// writeError maps core errors to HTTP statuses. The taxonomy is closed, so
// anything unrecognized is a 500.
func (h *RaffleHandler) writeError(c *gin.Context, err error) {
	var upkeepErr *models.UpkeepNotNeededError
	switch {
	case errors.Is(err, models.ErrRoundNotOpen):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrInsufficientPayment):
		c.JSON(http.StatusPaymentRequired, dto.ErrorResponse{Error: err.Error()})
	case errors.As(err, &upkeepErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":        "upkeep not needed",
			"pot_nanoton":  upkeepErr.Pot,
			"participants": upkeepErr.Participants,
			"status":       upkeepErr.Status,
		})
	case errors.Is(err, gateway.ErrBadRandomWords):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrUnknownRequest):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrTransferFailed):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrWinnerNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}
