package http

import (
	"github.com/gin-gonic/gin"

	"github.com/quartzlabs/swap-engine/internal/http/httputil"
	"github.com/quartzlabs/swap-engine/internal/registry"
)

type TokensHandler struct {
	registry *registry.Registry
}

func NewTokensHandler(reg *registry.Registry) *TokensHandler {
	return &TokensHandler{registry: reg}
}

func (h *TokensHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.listTokens)
}

func (h *TokensHandler) Root() string {
	return "/tokens"
}

// PoolInfo describes the hub pool a non-hub token trades through
type PoolInfo struct {
	Currency0   string `json:"currency0" example:"0x0000000000000000000000000000000000000000"`
	Currency1   string `json:"currency1" example:"0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"`
	Fee         uint32 `json:"fee" example:"500"`
	TickSpacing int32  `json:"tickSpacing" example:"10"`
	Hooks       string `json:"hooks" example:"0x0000000000000000000000000000000000000000"`
}

// TokenInfo is one registry entry
type TokenInfo struct {
	Symbol   string    `json:"symbol" example:"USDC"`
	Address  string    `json:"address" example:"0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"`
	Decimals uint8     `json:"decimals" example:"6"`
	IsHub    bool      `json:"isHub" example:"false"`
	Pool     *PoolInfo `json:"pool,omitempty"`
}

type TokensResponse struct {
	Hub    string      `json:"hub" example:"WETH"`
	Tokens []TokenInfo `json:"tokens"`
}

// @Summary List registered tokens
// @Description List the static token table the engine trades over, including
// @Description each non-hub token's hub pool parameters.
// @Tags tokens
// @Produce json
// @Success 200 {object} TokensResponse "Registered tokens"
// @Router /api/v1/tokens [get]
func (h *TokensHandler) listTokens(c *gin.Context) {
	entries := h.registry.List()
	tokens := make([]TokenInfo, 0, len(entries))
	for _, e := range entries {
		info := TokenInfo{
			Symbol:   e.Asset.Symbol,
			Address:  e.Asset.Address.Hex(),
			Decimals: e.Asset.Decimals,
			IsHub:    e.IsHub,
		}
		if !e.IsHub {
			info.Pool = &PoolInfo{
				Currency0:   e.Pool.Currency0.Hex(),
				Currency1:   e.Pool.Currency1.Hex(),
				Fee:         e.Pool.Fee,
				TickSpacing: e.Pool.TickSpacing,
				Hooks:       e.Pool.Hooks.Hex(),
			}
		}
		tokens = append(tokens, info)
	}

	httputil.HandleSuccess(c, TokensResponse{
		Hub:    h.registry.Hub().Symbol,
		Tokens: tokens,
	})
}
