package handlers

import (
	"converge-backend/internal/config"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

// SetupSentry enables error reporting when SENTRY_DSN is set
func SetupSentry(e *echo.Echo, cfg *config.Config) {
	if cfg.Sentry.DSN == "" {
		e.Logger.Warn("SENTRY_DSN not configured, error reporting will be disabled")
		return
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		ServerName:       cfg.Server.DeployDomain,
		AttachStacktrace: true,
	})
	if err != nil {
		e.Logger.Warnf("Sentry initialization failed: %v", err)
		return
	}

	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
}

// CaptureError is a no-op until Sentry is initialized
func CaptureError(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}
