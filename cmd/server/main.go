package main

import (
	"context"
	"log"
	"net/http"

	"roadcall/internal/config"
	"roadcall/internal/controllers"
	"roadcall/internal/docstore"
	"roadcall/internal/feed"
	"roadcall/internal/lifecycle"
	"roadcall/internal/logger"
	"roadcall/internal/middleware"
	"roadcall/internal/routes"
	"roadcall/internal/session"
	"roadcall/internal/storage"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	cfg := config.Load()
	middleware.SetSecret(cfg.JWTSecret)

	// Connect to the document store
	ctx := context.Background()
	client, err := docstore.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("failed to connect to document store: %v", err)
	}
	defer client.Disconnect(context.Background())

	store := docstore.NewMongoStore(client.Database(cfg.MongoDatabase), cfg.PollInterval)

	blobs, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("failed to configure blob storage: %v", err)
	}

	resolver := session.NewResolver(store, cfg.StoreDeadline)
	manager := lifecycle.NewManager(store, cfg.StoreDeadline, logger.L())

	hub := feed.NewHub(manager, logger.L())
	go hub.Run(ctx)

	r := routes.SetupRouter(routes.Controllers{
		Auth:     &controllers.AuthController{Resolver: resolver},
		Requests: &controllers.RequestController{Manager: manager, Resolver: resolver},
		Vehicles: &controllers.VehicleController{Resolver: resolver, Store: store},
		Mechanic: &controllers.MechanicController{Resolver: resolver, Manager: manager, Store: store, Blobs: blobs},
		Hub:      &controllers.HubController{Resolver: resolver, Store: store},
		Uploads:  &controllers.UploadController{Blobs: blobs},
		Feed:     &controllers.FeedController{Hub: hub},
	})

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Printf("🚀 Server running at %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, handler))
}
