package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/flashcard-ai/backend/internal/auth"
	"github.com/flashcard-ai/backend/internal/database"
	"github.com/flashcard-ai/backend/internal/decks"
	"github.com/flashcard-ai/backend/internal/generator"
	"github.com/flashcard-ai/backend/internal/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize handlers
	authHandler := auth.NewHandler(db)

	deckStore := decks.NewStore(db)
	deckService := decks.NewService(deckStore, generator.NewGenerator())
	deckHandler := decks.NewHandler(deckService)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/decks", deckHandler.ListDecks).Methods("GET")
	protected.HandleFunc("/decks/generate", deckHandler.GenerateDeck).Methods("POST")
	protected.HandleFunc("/decks/import", deckHandler.ImportDeck).Methods("POST")
	protected.HandleFunc("/decks/{deckID}", deckHandler.GetDeck).Methods("GET")
	protected.HandleFunc("/decks/{deckID}", deckHandler.RenameDeck).Methods("PATCH")
	protected.HandleFunc("/decks/{deckID}", deckHandler.DeleteDeck).Methods("DELETE")
	protected.HandleFunc("/decks/{deckID}/study", deckHandler.StudyQueue).Methods("GET")
	protected.HandleFunc("/decks/{deckID}/stats", deckHandler.DeckStats).Methods("GET")
	protected.HandleFunc("/decks/{deckID}/export", deckHandler.ExportDeck).Methods("GET")
	protected.HandleFunc("/decks/{deckID}/cards/{cardID}/grade", deckHandler.GradeCard).Methods("POST")

	protected.HandleFunc("/profile", deckHandler.Profile).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
