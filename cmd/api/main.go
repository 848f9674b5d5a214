package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/openleave/lms-backend-go/internal/config"
	"github.com/openleave/lms-backend-go/internal/domain/session"
	appHTTP "github.com/openleave/lms-backend-go/internal/handler/http"
	"github.com/openleave/lms-backend-go/internal/pkg/jwt"
	"github.com/openleave/lms-backend-go/internal/pkg/kvstore"
	"github.com/openleave/lms-backend-go/internal/service/ledger"
	sessionService "github.com/openleave/lms-backend-go/internal/service/session"
)

const sessionKey = "lms_current_user"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	store, err := kvstore.NewFileStore(cfg.Storage.DataDir)
	if err != nil {
		log.Fatal("Failed to initialize data store:", err)
	}

	sessions := sessionService.NewStore(store, sessionKey)
	ledgerService := ledger.NewService(store, cfg.Leave.AnnualAllotment, ledger.CalendarYearPolicy{})

	// Session changes are worth a log line; the UI owns everything else
	sessions.Subscribe(func(identity *session.Identity) {
		if identity == nil {
			slog.Info("session cleared")
			return
		}
		slog.Info("session started", "username", identity.Username, "role", identity.Role)
	})

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	authHandler := appHTTP.NewAuthHandler(JWTService, sessions)
	leaveHandler := appHTTP.NewLeaveHandler(ledgerService)

	router := appHTTP.NewRouter(
		JWTService,
		authHandler,
		leaveHandler,
		cfg.App.FrontendURL,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("server starting", "addr", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
