package http

import (
	"math/big"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quartzlabs/swap-engine/internal/config"
	"github.com/quartzlabs/swap-engine/internal/domain"
	"github.com/quartzlabs/swap-engine/internal/executor"
	"github.com/quartzlabs/swap-engine/internal/http/httputil"
)

type SwapHandler struct {
	engine     *executor.Engine
	engineConf *config.EngineConfig
}

func NewSwapHandler(engine *executor.Engine, engineConf *config.EngineConfig) *SwapHandler {
	return &SwapHandler{engine: engine, engineConf: engineConf}
}

func (h *SwapHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("", h.executeSwap)
}

func (h *SwapHandler) Root() string {
	return "/swap"
}

// SwapHandlerRequest represents the parameters for executing a swap
type SwapHandlerRequest struct {
	// Input token symbol as registered
	TokenIn string `json:"tokenIn" binding:"required" example:"WETH"`

	// Output token symbol as registered
	TokenOut string `json:"tokenOut" binding:"required" example:"USDC"`

	// Amount in smallest token units
	Amount string `json:"amount" binding:"required" example:"1000000000000000000"`

	// Swap mode: "ExactIn" (exact input) or "ExactOut" (exact output)
	SwapMode string `json:"swapMode" binding:"required" enums:"ExactIn,ExactOut" example:"ExactIn"`

	// Slippage tolerance in basis points (1 bps = 0.01%)
	SlippageBps uint16 `json:"slippageBps" example:"50"`

	// Seconds until the swap intent expires; server default applies when omitted
	DeadlineSeconds uint32 `json:"deadlineSeconds" example:"300"`
}

// SwapHandlerResponse reports the on-chain outcome measured as balance deltas
type SwapHandlerResponse struct {
	TxHash    string `json:"txHash" example:"0x7d3c..."`
	Confirmed bool   `json:"confirmed" example:"true"`
	GasUsed   uint64 `json:"gasUsed" example:"192034"`

	// Observed wallet deltas, not quote echoes
	AmountIn  string `json:"amountIn" example:"1000000000000000000"`
	AmountOut string `json:"amountOut" example:"3409120000"`
}

// @Summary Execute swap
// @Description Run a swap end to end: fresh quote, authorization checks (ERC-20
// @Description approval and Permit2 signature as needed), a mandatory dry run,
// @Description submission, and a bounded confirmation wait. Attempts for the same
// @Description input token are serialized; nothing is retried automatically.
// @Tags swap
// @Accept json
// @Produce json
// @Param request body SwapHandlerRequest true "Swap parameters"
// @Success 200 {object} SwapHandlerResponse "Confirmed swap with observed amounts"
// @Failure 400 {object} httputil.Response "Invalid request parameters"
// @Failure 404 {object} httputil.Response "Unknown token symbol"
// @Failure 409 {object} httputil.Response "Transaction landed but reverted"
// @Failure 422 {object} httputil.Response "Quote unavailable or dry run reverted"
// @Failure 504 {object} httputil.Response "Confirmation window elapsed"
// @Router /api/v1/swap [post]
func (h *SwapHandler) executeSwap(c *gin.Context) {
	var req SwapHandlerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		httputil.HandleBadRequest(c, "invalid amount: must be a positive integer")
		return
	}

	var direction domain.Direction
	switch req.SwapMode {
	case "ExactIn":
		direction = domain.ExactIn
	case "ExactOut":
		direction = domain.ExactOut
	default:
		httputil.HandleBadRequest(c, "invalid swapMode: must be ExactIn or ExactOut")
		return
	}

	slippageBps := req.SlippageBps
	if slippageBps == 0 {
		slippageBps = h.engineConf.DefaultSlippageBps
	}
	deadline := h.engineConf.DefaultDeadline
	if req.DeadlineSeconds > 0 {
		deadline = time.Duration(req.DeadlineSeconds) * time.Second
	}

	intent := domain.SwapIntent{
		Wallet:      h.engine.WalletAddress(),
		TokenIn:     req.TokenIn,
		TokenOut:    req.TokenOut,
		Amount:      amount,
		Direction:   direction,
		SlippageBps: slippageBps,
		Deadline:    time.Now().Add(deadline),
	}

	receipt, err := h.engine.Swap(c.Request.Context(), intent)
	if err != nil {
		httputil.HandleEngineError(c, err)
		return
	}

	httputil.HandleSuccess(c, SwapHandlerResponse{
		TxHash:    receipt.TxHash.Hex(),
		Confirmed: receipt.Confirmed,
		GasUsed:   receipt.GasUsed,
		AmountIn:  bigStr(receipt.AmountInActual),
		AmountOut: bigStr(receipt.AmountOutActual),
	})
}

func bigStr(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}
