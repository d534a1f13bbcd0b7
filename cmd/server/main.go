package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inklineapp/inkline/backend/internal/api"
	"github.com/inklineapp/inkline/backend/internal/room"
	"github.com/inklineapp/inkline/backend/internal/ws"
)

func main() {
	registry := room.NewRegistry()

	hub := ws.NewHub(registry)
	go hub.Run()

	apiHandler := api.New(registry)

	router := mux.NewRouter()

	// WebSocket endpoint: room by query parameter or path segment,
	// default room when neither is given
	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, r.URL.Query().Get("room"), w, r)
	})
	router.HandleFunc("/ws/{room}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, mux.Vars(r)["room"], w, r)
	})

	router.HandleFunc("/health", apiHandler.HealthHandler)
	router.HandleFunc("/api/stats", apiHandler.StatsHandler)
	router.HandleFunc("/api/rooms", apiHandler.RoomsHandler)
	router.Handle("/metrics", promhttp.Handler())

	handler := corsMiddleware(router)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		os.Exit(0)
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🖊️ Inkline relay starting on :%s", port)
	log.Println("Endpoints:")
	log.Println("  - WebSocket: /ws?room={roomId} or /ws/{roomId}")
	log.Println("  - Health:    GET /health")
	log.Println("  - Stats:     GET /api/stats")
	log.Println("  - Rooms:     GET /api/rooms")
	log.Println("  - Metrics:   GET /metrics")

	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
