package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/roamly/roamly-admin/auth"
	"github.com/roamly/roamly-admin/config"
	"github.com/roamly/roamly-admin/db"
	"github.com/roamly/roamly-admin/handlers"
	"github.com/roamly/roamly-admin/logger"
)

func main() {
	log := logger.New()
	defer log.Sync()

	if err := db.InitDB(); err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}
	if err := auth.InitStore(); err != nil {
		log.Fatal("session store init failed", zap.Error(err))
	}

	r := mux.NewRouter()

	c := cors.New(cors.Options{
		AllowedOrigins:   config.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	handler := c.Handler(r)

	// Auth routes
	r.HandleFunc("/login", handlers.LoginHandler)
	r.HandleFunc("/auth/google/callback", handlers.GoogleCallbackHandler)
	r.HandleFunc("/auth/register", handlers.RegisterHandler).Methods("POST")
	r.HandleFunc("/auth/login", handlers.LoginHandlerEmail).Methods("POST")
	r.HandleFunc("/logout", handlers.LogoutHandler)
	r.HandleFunc("/api/me", auth.AuthMiddleware(handlers.GetCurrentUser)).Methods("GET")

	// Survey editor routes
	r.HandleFunc("/api/surveys", auth.AuthMiddleware(handlers.CreateSurvey)).Methods("POST")
	r.HandleFunc("/api/surveys", auth.AuthMiddleware(handlers.ListSurveys)).Methods("GET")
	r.HandleFunc("/api/surveys/{id}", auth.AuthMiddleware(handlers.GetSurvey)).Methods("GET")
	r.HandleFunc("/api/surveys/{id}", auth.AuthMiddleware(handlers.UpdateSurvey)).Methods("PUT")
	r.HandleFunc("/api/surveys/{id}", auth.AuthMiddleware(handlers.DeleteSurvey)).Methods("DELETE")
	r.HandleFunc("/api/surveys/{id}/duplicate", auth.AuthMiddleware(handlers.DuplicateSurvey)).Methods("POST")
	r.HandleFunc("/api/surveys/{id}/publish", auth.AuthMiddleware(handlers.PublishSurvey)).Methods("POST")
	r.HandleFunc("/api/surveys/{id}/close", auth.AuthMiddleware(handlers.CloseSurvey)).Methods("POST")
	r.HandleFunc("/api/surveys/{id}/archive", auth.AuthMiddleware(handlers.ArchiveSurvey)).Methods("POST")

	// Question editor routes
	r.HandleFunc("/api/surveys/{id}/questions", auth.AuthMiddleware(handlers.AppendQuestion)).Methods("POST")
	r.HandleFunc("/api/surveys/{id}/questions/reorder", auth.AuthMiddleware(handlers.ReorderQuestions)).Methods("POST")
	r.HandleFunc("/api/surveys/{id}/questions/{questionID}", auth.AuthMiddleware(handlers.DeleteQuestion)).Methods("DELETE")
	r.HandleFunc("/api/surveys/{id}/questions/{questionID}/duplicate", auth.AuthMiddleware(handlers.DuplicateQuestion)).Methods("POST")

	// Public runtime surface
	r.HandleFunc("/s/{slug}", handlers.PublicRateLimit(handlers.PublicSurvey)).Methods("GET")
	r.HandleFunc("/s/{slug}/visibility", handlers.PublicRateLimit(handlers.EvaluateVisibility)).Methods("POST")

	addr := config.ListenAddr()
	log.Info("server starting", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
