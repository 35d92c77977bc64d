package http

import (
	"context"
	gohttp "net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/quartzlabs/swap-engine/internal/config"
	"github.com/quartzlabs/swap-engine/internal/executor"
	"github.com/quartzlabs/swap-engine/internal/http/httputil"
	"github.com/quartzlabs/swap-engine/internal/http/middlewares"
	"github.com/quartzlabs/swap-engine/internal/registry"
)

const API_VERSION = "v1"

type Service struct {
	conf        *config.GeneralConfig
	engineConf  *config.EngineConfig
	rateLimiter *middlewares.RateLimiter
	server      *gohttp.Server

	handlers []httputil.IHttpHandler
}

func NewService(
	conf *config.GeneralConfig,
	engineConf *config.EngineConfig,
	engine *executor.Engine,
	reg *registry.Registry,
) *Service {
	return &Service{
		conf:        conf,
		engineConf:  engineConf,
		rateLimiter: middlewares.NewRateLimiter(10, 20),
		handlers: []httputil.IHttpHandler{
			NewTokensHandler(reg),
			NewQuoteHandler(engine, engineConf),
			NewSwapHandler(engine, engineConf),
		},
	}
}

func (svc *Service) Start() error {
	if svc.conf.Env == config.ProdEnv {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(gin.Recovery())

	corsConf := cors.DefaultConfig()
	corsConf.AllowAllOrigins = true
	corsConf.AllowCredentials = true
	corsConf.AddAllowHeaders("Authorization", "X-Wallet-Address", "X-Timestamp", "X-Signature")
	r.Use(cors.New(corsConf))

	r.Use(middlewares.MetricsMiddleware())
	r.Use(svc.rateLimiter.RateLimitMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(gohttp.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("api")
	pub := api.Group(API_VERSION)
	priv := api.Group(API_VERSION)
	admin := api.Group(API_VERSION + "/admin")

	svc.setupHandlers(pub, priv, admin)

	svc.server = &gohttp.Server{
		Addr:    svc.conf.HTTPHost + ":" + svc.conf.HTTPPort,
		Handler: r,
	}
	log.Info().Str("host", svc.conf.HTTPHost).Str("port", svc.conf.HTTPPort).Msg("http server started")

	if err := svc.server.ListenAndServe(); err != nil && err != gohttp.ErrServerClosed {
		return err
	}

	return nil
}

func (svc *Service) Stop() error {
	if svc.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := svc.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to stop http server")
		return err
	}
	log.Info().Msg("http server stopped gracefully")
	return nil
}

func (svc *Service) setupHandlers(
	rootPub *gin.RouterGroup,
	rootPriv *gin.RouterGroup,
	rootAdmin *gin.RouterGroup,
) {
	for _, h := range svc.handlers {
		pub := rootPub.Group(h.Root())
		priv := rootPriv.Group(h.Root())
		admin := rootAdmin.Group(h.Root())
		h.SetRoutes(pub, priv, admin)
	}
}
