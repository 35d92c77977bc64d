package http

import (
	"math/big"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/quartzlabs/swap-engine/internal/config"
	"github.com/quartzlabs/swap-engine/internal/domain"
	"github.com/quartzlabs/swap-engine/internal/executor"
	"github.com/quartzlabs/swap-engine/internal/http/httputil"
)

type QuoteHandler struct {
	engine     *executor.Engine
	engineConf *config.EngineConfig
}

func NewQuoteHandler(engine *executor.Engine, engineConf *config.EngineConfig) *QuoteHandler {
	return &QuoteHandler{engine: engine, engineConf: engineConf}
}

func (h *QuoteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getQuote)
}

func (h *QuoteHandler) Root() string {
	return "/quote"
}

// QuoteRequest represents the parameters for requesting a swap quote
type QuoteRequest struct {
	// Input token symbol as registered (e.g. "WETH", "USDC")
	TokenIn string `form:"tokenIn" binding:"required" example:"WETH"`

	// Output token symbol as registered
	TokenOut string `form:"tokenOut" binding:"required" example:"USDC"`

	// Amount in smallest token units (wei for 18-decimal tokens)
	Amount string `form:"amount" binding:"required" example:"1000000000000000000"`

	// Swap mode determines how the amount is interpreted
	// - "ExactIn": Amount is the exact input, output is estimated
	// - "ExactOut": Amount is the exact output desired, input is estimated
	SwapMode string `form:"swapMode" binding:"required" enums:"ExactIn,ExactOut" example:"ExactIn"`

	// Slippage tolerance in basis points (1 bps = 0.01%)
	SlippageBps uint16 `form:"slippageBps" example:"50"`
}

// QuoteResponse contains the calculated quote with routing information
type QuoteResponse struct {
	TokenIn  string `json:"tokenIn" example:"WETH"`
	TokenOut string `json:"tokenOut" example:"USDC"`

	// Base-unit amounts; the exact leg echoes the request, the counter leg
	// comes from the quoter contract.
	AmountIn  string `json:"amountIn" example:"1000000000000000000"`
	AmountOut string `json:"amountOut" example:"3412950000"`

	// Decimal-string renderings using registered token decimals
	AmountInHuman  string `json:"amountInHuman" example:"1"`
	AmountOutHuman string `json:"amountOutHuman" example:"3412.95"`

	// "direct" or "hub"
	RouteKind string `json:"routeKind" example:"direct"`

	// Symbol path from input to output, hub included when routed
	RoutePath []string `json:"routePath" example:"WETH,USDC"`

	HopCount int `json:"hopCount" example:"1"`

	// Gas estimate reported by the quoter contract
	GasEstimate uint64 `json:"gasEstimate" example:"185000"`

	// Minimum output (ExactIn) or maximum input (ExactOut) after slippage
	OtherAmountThreshold string `json:"otherAmountThreshold" example:"3395885250"`

	SlippageBps uint16 `json:"slippageBps" example:"50"`
}

func (h *QuoteHandler) parseIntent(c *gin.Context) (domain.SwapIntent, bool) {
	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.HandleBadRequest(c, "invalid query parameters: "+err.Error())
		return domain.SwapIntent{}, false
	}

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		httputil.HandleBadRequest(c, "invalid amount: must be a positive integer")
		return domain.SwapIntent{}, false
	}

	var direction domain.Direction
	switch req.SwapMode {
	case "ExactIn":
		direction = domain.ExactIn
	case "ExactOut":
		direction = domain.ExactOut
	default:
		httputil.HandleBadRequest(c, "invalid swapMode: must be ExactIn or ExactOut")
		return domain.SwapIntent{}, false
	}

	slippageBps := req.SlippageBps
	if slippageBps == 0 {
		slippageBps = h.engineConf.DefaultSlippageBps
	}

	return domain.SwapIntent{
		TokenIn:     req.TokenIn,
		TokenOut:    req.TokenOut,
		Amount:      amount,
		Direction:   direction,
		SlippageBps: slippageBps,
	}, true
}

func humanAmount(base *big.Int, decimals uint8) string {
	if base == nil {
		return ""
	}
	return decimal.NewFromBigInt(base, -int32(decimals)).String()
}

func buildQuoteResponse(intent domain.SwapIntent, preview domain.Preview) QuoteResponse {
	amountIn, amountOut := intent.Amount, preview.Quote.CounterAmount
	threshold := preview.Bounds.MinAmountOut
	if intent.Direction == domain.ExactOut {
		amountIn, amountOut = preview.Quote.CounterAmount, intent.Amount
		threshold = preview.Bounds.MaxAmountIn
	}

	path := []string{preview.Route.TokenIn.Symbol, preview.Route.TokenOut.Symbol}
	hops := 1
	if preview.Route.Kind == domain.RouteHub {
		path = []string{preview.Route.TokenIn.Symbol, preview.Route.Hub.Symbol, preview.Route.TokenOut.Symbol}
		hops = 2
	}

	return QuoteResponse{
		TokenIn:              intent.TokenIn,
		TokenOut:             intent.TokenOut,
		AmountIn:             amountIn.String(),
		AmountOut:            amountOut.String(),
		AmountInHuman:        humanAmount(amountIn, preview.Route.TokenIn.Decimals),
		AmountOutHuman:       humanAmount(amountOut, preview.Route.TokenOut.Decimals),
		RouteKind:            preview.Route.Kind.String(),
		RoutePath:            path,
		HopCount:             hops,
		GasEstimate:          preview.Quote.GasEstimate,
		OtherAmountThreshold: threshold.String(),
		SlippageBps:          intent.SlippageBps,
	}
}

// @Summary Get swap quote
// @Description Price a swap between two registered tokens without touching wallet state.
// @Description Routing is automatic: pairs involving the hub asset swap through a single
// @Description pool, everything else goes through the hub in two hops.
// @Tags quote
// @Produce json
// @Param tokenIn query string true "Registered input token symbol" example("WETH")
// @Param tokenOut query string true "Registered output token symbol" example("USDC")
// @Param amount query string true "Amount in smallest token units" example("1000000000000000000")
// @Param swapMode query string true "Swap mode: ExactIn or ExactOut" Enums(ExactIn, ExactOut) example("ExactIn")
// @Param slippageBps query int false "Slippage tolerance in basis points" default(50) example(50)
// @Success 200 {object} QuoteResponse "Quote with routing information"
// @Failure 400 {object} httputil.Response "Invalid request parameters"
// @Failure 404 {object} httputil.Response "Unknown token symbol"
// @Failure 422 {object} httputil.Response "Pool cannot price this amount"
// @Router /api/v1/quote [get]
func (h *QuoteHandler) getQuote(c *gin.Context) {
	intent, ok := h.parseIntent(c)
	if !ok {
		return
	}

	preview, err := h.engine.Preview(c.Request.Context(), intent)
	if err != nil {
		httputil.HandleEngineError(c, err)
		return
	}

	httputil.HandleSuccess(c, buildQuoteResponse(intent, preview))
}
