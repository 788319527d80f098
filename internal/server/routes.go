package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"lostcities-calculator/internal/database"
	qr "lostcities-calculator/internal/qrcode"
)

// Results reads archived games. *database.Service implements it.
type Results interface {
	GetAll() ([]database.GameResult, error)
	GetByID(id string) (database.GameResult, error)
	GetByPlayer(name string) ([]database.GameResult, error)
}

// HandleRoutes registers the JSON API and QR code routes on mux.
func HandleRoutes(mux *http.ServeMux, hub *Hub, results Results, publicURL string) {
	mux.HandleFunc("GET /api/state", func(w http.ResponseWriter, r *http.Request) {
		GetStateHandler(hub, w, r)
	})
	log.Println("Registered route: /api/state")

	mux.HandleFunc("GET /api/results/player/{name}", func(w http.ResponseWriter, r *http.Request) {
		GetResultsByPlayerHandler(results, w, r)
	})
	log.Println("Registered route: /api/results/player/{name}")

	mux.HandleFunc("GET /api/results/{id}", func(w http.ResponseWriter, r *http.Request) {
		GetResultHandler(results, w, r)
	})
	log.Println("Registered route: /api/results/{id}")

	mux.HandleFunc("GET /api/results", func(w http.ResponseWriter, r *http.Request) {
		GetResultsHandler(results, w, r)
	})
	log.Println("Registered route: /api/results")

	mux.HandleFunc("GET /api/qr", func(w http.ResponseWriter, r *http.Request) {
		GetQRHandler(publicURL, w, r)
	})
	log.Println("Registered route: /api/qr")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func GetStateHandler(hub *Hub, w http.ResponseWriter, r *http.Request) {
	snap, err := hub.Snapshot(r.Context())
	if err != nil {
		http.Error(w, "State unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, snap)
}

func GetResultsByPlayerHandler(results Results, w http.ResponseWriter, r *http.Request) {
	player := r.PathValue("name")
	if player == "" {
		http.Error(w, "Player name is required", http.StatusBadRequest)
		return
	}

	found, err := results.GetByPlayer(player)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "No results found for player", http.StatusNotFound)
			return
		}
		log.Printf("Failed to fetch results for %q: %v", player, err)
		http.Error(w, "Failed to fetch results", http.StatusInternalServerError)
		return
	}
	writeJSON(w, found)
}

func GetResultHandler(results Results, w http.ResponseWriter, r *http.Request) {
	result, err := results.GetByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Result not found", http.StatusNotFound)
			return
		}
		log.Printf("Failed to fetch result %q: %v", r.PathValue("id"), err)
		http.Error(w, "Failed to fetch result", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

func GetResultsHandler(results Results, w http.ResponseWriter, r *http.Request) {
	all, err := results.GetAll()
	if err != nil {
		log.Printf("Failed to fetch results: %v", err)
		http.Error(w, "Failed to fetch results", http.StatusInternalServerError)
		return
	}
	if all == nil {
		all = []database.GameResult{}
	}
	writeJSON(w, all)
}

// GetQRHandler serves a PNG linking to the calculator so a second phone can open it.
func GetQRHandler(publicURL string, w http.ResponseWriter, r *http.Request) {
	url := publicURL
	if url == "" {
		url = "http://" + r.Host
	}
	url = strings.TrimSuffix(url, "/") + "/"

	png, err := qr.Generate(url)
	if err != nil {
		http.Error(w, "QR generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
