package router

import (
	"time"

	"partth/internal/config"
	"partth/internal/handler"
	"partth/internal/infra"
	"partth/internal/middleware"
	"partth/internal/model"
	"partth/internal/repository"
	"partth/internal/service"
	"partth/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	salaRepo := repository.NewSalaRepository(db)
	disputaRepo := repository.NewDisputaRepository(db)
	referidoRepo := repository.NewReferidoRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, walletRepo, referidoRepo, cfg)
	salaSvc := service.NewSalaService(salaRepo, usuarioRepo, walletRepo, disputaRepo, referidoRepo, dispatcher, cfg)
	disputaSvc := service.NewDisputaService(disputaRepo, salaRepo, usuarioRepo, walletRepo, rdb, dispatcher, cfg)
	walletSvc := service.NewWalletService(walletRepo, usuarioRepo)
	referidoSvc := service.NewReferidoService(referidoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	salasH := handler.NewSalasHandler(salaSvc)
	disputasH := handler.NewDisputasHandler(disputaSvc, salaSvc)
	walletsH := handler.NewWalletsHandler(walletSvc)
	referidosH := handler.NewReferidosHandler(referidoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/registro", authH.Registro)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/me", authH.Me)
		v1.PATCH("/auth/me", authH.ActualizarPerfil)

		// Administracion de cuentas
		soloAdmin := middleware.RequireRole(model.RolAdmin)
		v1.GET("/usuarios", soloAdmin, usuariosH.Listar)
		v1.DELETE("/usuarios/:id", soloAdmin, usuariosH.Desactivar)
		v1.POST("/usuarios/:id/reactivar", soloAdmin, usuariosH.Reactivar)

		// Salas: la marca abre y completa; ambos leen y conversan
		v1.POST("/salas", middleware.RequireRole(model.RolMarca), salasH.CrearSala)
		v1.GET("/salas", salasH.ListarSalas)
		v1.GET("/salas/:id", salasH.ObtenerSala)
		v1.POST("/salas/:id/eventos", salasH.AgregarEvento)
		v1.POST("/salas/:id/evidencia", middleware.RequireRole(model.RolSocio), salasH.EntregarEvidencia)
		v1.POST("/salas/:id/completar", middleware.RequireRole(model.RolMarca), salasH.CompletarSala)

		// Disputas
		v1.POST("/disputas", middleware.RequireRole(model.RolMarca, model.RolSocio), disputasH.AbrirDisputa)
		v1.POST("/disputas/resolver", disputasH.ResolverDisputa)
		v1.GET("/disputas/:id", disputasH.ObtenerDisputa)
		v1.POST("/disputas/mediacion", middleware.RequireRole(model.RolAdmin), disputasH.ResolverMediacion)

		// Wallet
		v1.GET("/wallet", walletsH.ObtenerWallet)
		v1.GET("/wallet/movimientos", walletsH.ListarMovimientos)

		// Referidos
		v1.POST("/referidos/codigo", referidosH.GenerarCodigo)
		v1.GET("/referidos/stats", referidosH.ObtenerStats)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
