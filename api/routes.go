package api

import (
	"fmt"

	"github.com/gorilla/mux"

	"github.com/garnizeh/inspections/internal/config"
	"github.com/garnizeh/inspections/internal/db"
	"github.com/garnizeh/inspections/internal/inspection"
	"github.com/garnizeh/inspections/internal/repository/sqlite"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, db *db.DB) (*mux.Router, error) {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(TimeoutMiddleware(cfg.APITimeout))

	// Repository
	repo := sqlite.New(db, logger)
	engine := inspection.NewEngine(repo, logger)

	// Create handlers
	systemHandler := NewSystemHandler(db.GetConn())
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	catalogHandler := NewCatalogHandler(repo)
	sitesHandler := NewSitesHandler(repo, repo, repo)
	inspectionsHandler, err := NewInspectionsHandler(engine, repo)
	if err != nil {
		return nil, fmt.Errorf("inspections handler: %w", err)
	}

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")
	authV1.HandleFunc("/me", authHandler.Profile).Methods("GET")
	authV1.HandleFunc("/me", authHandler.UpdateProfile).Methods("PUT")

	// Inspections
	apiV1.HandleFunc("/inspections", inspectionsHandler.CreateInspection).Methods("POST")
	apiV1.HandleFunc("/inspections", inspectionsHandler.ListInspections).Methods("GET")
	apiV1.HandleFunc("/inspections/{id:[0-9]+}", inspectionsHandler.GetInspection).Methods("GET")
	apiV1.HandleFunc("/inspections/{id:[0-9]+}/actions", inspectionsHandler.ListActions).Methods("GET")

	// Catalog
	apiV1.HandleFunc("/item-types", catalogHandler.ListItemTypes).Methods("GET")
	apiV1.HandleFunc("/item-types/{id:[0-9]+}/templates", catalogHandler.ListTemplates).Methods("GET")
	apiV1.HandleFunc("/item-types/{id:[0-9]+}/templates", catalogHandler.UpsertTemplate).Methods("POST")
	apiV1.HandleFunc("/templates/{id:[0-9]+}", catalogHandler.DeleteTemplate).Methods("DELETE")

	// Sites, zones and items
	apiV1.HandleFunc("/sites", sitesHandler.CreateSite).Methods("POST")
	apiV1.HandleFunc("/sites", sitesHandler.ListSites).Methods("GET")
	apiV1.HandleFunc("/sites/{id:[0-9]+}/zones", sitesHandler.CreateZone).Methods("POST")
	apiV1.HandleFunc("/sites/{id:[0-9]+}/zones", sitesHandler.ListZones).Methods("GET")
	apiV1.HandleFunc("/items", sitesHandler.CreateItem).Methods("POST")
	apiV1.HandleFunc("/items", sitesHandler.ListItems).Methods("GET")
	apiV1.HandleFunc("/items/{id:[0-9]+}", sitesHandler.GetItem).Methods("GET")

	return r, nil
}
