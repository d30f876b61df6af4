package api

import (
	"github.com/gorilla/mux"

	"roadmap-backend/internal/api/recovery"
	"roadmap-backend/internal/chat"
	"roadmap-backend/internal/config"
	"roadmap-backend/internal/service"
	"roadmap-backend/internal/store"
)

// NewRouter creates the HTTP router with all API routes. The store is
// injected so tests run against an in-memory filesystem.
func NewRouter(cfg *config.Config, st store.Store, pinger Pinger) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	dev := cfg.Development()

	// Domain services
	progressService := service.NewProgressService(st)
	historyService := service.NewHistoryService(st)
	notesService := service.NewNotesService(st)
	statsService := service.NewStatsService(st)
	summaryService := service.NewSummaryService(st)
	chatClient := chat.New(cfg.ChatBaseURL, cfg.ChatAPIKey, cfg.ChatModel)

	// Handlers
	healthHandler := NewHealthHandler(pinger)
	progressHandler := NewProgressHandler(progressService, historyService, dev)
	syncHandler := NewSyncHandler(progressService, dev)
	notesHandler := NewNotesHandler(notesService, dev)
	exportHandler := NewExportHandler()
	statsHandler := NewStatsHandler(statsService, summaryService, dev)
	chatHandler := NewChatHandler(chatClient, dev)

	// Health
	router.HandleFunc("/api/health", healthHandler.Check).Methods("GET")

	// Progress persistence
	router.HandleFunc("/api/progress/save", progressHandler.Save).Methods("POST")
	router.HandleFunc("/api/progress/load", progressHandler.Load).Methods("GET")
	router.HandleFunc("/api/progress/history", progressHandler.History).Methods("GET")
	router.HandleFunc("/api/progress/history", progressHandler.AppendHistory).Methods("POST")

	// Sync protocol
	router.HandleFunc("/api/sync/push", syncHandler.Push).Methods("POST")
	router.HandleFunc("/api/sync/pull", syncHandler.Pull).Methods("GET")
	router.HandleFunc("/api/sync/status", syncHandler.Status).Methods("GET")

	// Notes
	router.HandleFunc("/api/notes", notesHandler.Get).Methods("GET")
	router.HandleFunc("/api/notes", notesHandler.Upsert).Methods("POST")
	router.HandleFunc("/api/notes", notesHandler.Delete).Methods("DELETE")
	router.HandleFunc("/api/notes/{id}", notesHandler.GetOne).Methods("GET")
	router.HandleFunc("/api/notes/{id}", notesHandler.Update).Methods("PUT")
	router.HandleFunc("/api/notes/{id}", notesHandler.DeleteOne).Methods("DELETE")

	// Export
	router.HandleFunc("/api/export/{format}", exportHandler.Export).Methods("POST")

	// Stats & summary
	router.HandleFunc("/api/stats", statsHandler.Calculate).Methods("POST")
	router.HandleFunc("/api/stats/calculate", statsHandler.Snapshot).Methods("POST")
	router.HandleFunc("/api/stats/calculate", statsHandler.Cached).Methods("GET")
	router.HandleFunc("/api/summary", statsHandler.Summary).Methods("GET")

	// AI chat
	router.HandleFunc("/api/ai/chat", chatHandler.Chat).Methods("POST")

	return router
}
