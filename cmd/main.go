package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/plantview/roadview-backend/internal/api/auth"
	"github.com/plantview/roadview-backend/internal/api/hotspots"
	"github.com/plantview/roadview-backend/internal/api/scenes"
	"github.com/plantview/roadview-backend/internal/api/settings"
	"github.com/plantview/roadview-backend/internal/catalog"
	"github.com/plantview/roadview-backend/internal/config"
	"github.com/plantview/roadview-backend/internal/middleware"
	"github.com/plantview/roadview-backend/internal/persistence"
	"github.com/plantview/roadview-backend/internal/roadview"
	"github.com/plantview/roadview-backend/internal/storage/local"
	"github.com/plantview/roadview-backend/internal/storage/memory"
	"github.com/plantview/roadview-backend/internal/storage/valkey"
	"github.com/plantview/roadview-backend/internal/ws"
)

func main() {
	cfg := config.Load()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("[Main] Failed to load scene catalog from %s: %v", cfg.CatalogPath, err)
	}
	log.Printf("[Main] Loaded %d scenes from %s", cat.Len(), cfg.CatalogPath)

	var baseline persistence.BaselineStore
	if cfg.ValkeyAddr != "" {
		store, err := valkey.NewBaselineStore(cfg.ValkeyAddr, cfg.BaselineKey)
		if err != nil {
			log.Fatalf("[Main] Failed to connect to valkey at %s: %v", cfg.ValkeyAddr, err)
		}
		defer store.Close()
		baseline = store
		log.Printf("[Main] Baseline tier: valkey at %s", cfg.ValkeyAddr)
	} else {
		baseline = memory.NewBaselineStore()
		log.Println("[Main] Baseline tier: in-memory (no ROADVIEW_VALKEY_ADDR set)")
	}

	bridge := persistence.NewBridge(baseline, local.NewStore(cfg.LocalSnapshot))

	hub := ws.NewHub()
	go hub.Run()

	session := roadview.NewSession(cat, bridge, hub)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	session.LoadFrom(bridge.Load(ctx))
	cancel()

	editGuard := middleware.RequireEdit([]byte(cfg.JWTSecret))

	authHandler := &auth.Handler{
		PasswordHash: cfg.EditPasswordHash,
		JWTSecret:    []byte(cfg.JWTSecret),
	}
	settingsHandler := &settings.SettingsHandler{Session: session, Bridge: bridge}
	sceneHandler := &scenes.SceneHandler{Session: session}
	hotspotHandler := &hotspots.HotspotHandler{Session: session}

	r := mux.NewRouter()
	auth.RegisterAuthRoutes(r, authHandler)
	settings.RegisterSettingsRoutes(r, settingsHandler, editGuard)
	scenes.RegisterSceneRoutes(r, sceneHandler, editGuard)
	hotspots.RegisterHotspotRoutes(r, hotspotHandler, editGuard)
	r.HandleFunc("/ws/viewer", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWS(hub, w, req)
	})

	handler := middleware.CORS(cfg.AllowedOrigin)(r)

	log.Printf("Server started at %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, handler))
}
