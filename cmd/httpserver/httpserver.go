// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chaiwat-s/ledger-api/internal/middleware"
	"github.com/chaiwat-s/ledger-api/internal/transactiondelivery"
	"github.com/chaiwat-s/ledger-api/internal/transactionrepo"
	"github.com/chaiwat-s/ledger-api/internal/transactionservice"
	"github.com/chaiwat-s/ledger-api/internal/userrepo"
	"github.com/chaiwat-s/ledger-api/internal/userservice"
	"github.com/chaiwat-s/ledger-api/pkg/configpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	transactionRepo := transactionrepo.NewRepoPGS(conn)

	userService := userservice.New(userRepo)
	transactionService := transactionservice.New(transactionRepo, userService)

	transactionHandler := transactiondelivery.NewHandler(transactionService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/transaction", transactionHandler.Create)
	engine.GET("/transaction/history", transactionHandler.History)
	engine.PUT("/transaction/:id", transactionHandler.Update)
	engine.DELETE("/transaction/:id", transactionHandler.Delete)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
