package config

import (
	donationHandler "NadaBackend/internal/api/donation/handler"
	donationService "NadaBackend/internal/api/donation/service"
	"NadaBackend/internal/middleware"
	"NadaBackend/pkg/idempotency"
	"NadaBackend/pkg/paygate"
	"NadaBackend/pkg/smtp"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"os"
)

type ServerOption func(*Server) error

type Server struct {
	engine        *fiber.App
	log           *logrus.Logger
	middleware    middleware.Middleware
	validator     *validator.Validate
	handlers      []handler
	gatewayConfig *paygate.Config
	processed     idempotency.IStore
	smtpMailer    smtp.ItfSmtp
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.gatewayConfig == nil {
		return nil, fmt.Errorf("gateway configuration is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithGatewayConfig() ServerOption {
	return func(s *Server) error {
		cfg, err := NewGatewayConfig()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to load gateway configuration: %v", err)
			}
			return fmt.Errorf("failed to load gateway configuration: %w", err)
		}
		s.gatewayConfig = cfg
		return nil
	}
}

func WithIdempotencyStore(store idempotency.IStore) ServerOption {
	return func(s *Server) error {
		s.processed = store
		return nil
	}
}

func WithSMTPMailer(smtpMailer smtp.ItfSmtp) ServerOption {
	return func(s *Server) error {
		s.smtpMailer = smtpMailer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Donation Domain
	gatewayClient := paygate.New(s.gatewayConfig, s.log)
	donationServices := donationService.NewDonationService(s.log, gatewayClient, s.processed, s.smtpMailer)
	donationHandlers := donationHandler.New(s.log, s.validator, s.middleware, donationServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, donationHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
