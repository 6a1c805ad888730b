package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripdesk/auth"
	"tripdesk/db"
	"tripdesk/itinerary"
	"tripdesk/library"
	"tripdesk/mq"
	"tripdesk/printdoc"
	"tripdesk/ratelim"
	"tripdesk/rdx"
	"tripdesk/routes"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"golang.org/x/crypto/bcrypt"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s - %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// buildStores selects the backing implementations at process start. With no
// MONGO_URI both stores run in memory; otherwise itineraries always persist
// to MongoDB and LIBRARY_BACKEND=memory can keep the catalog ephemeral.
func buildStores(ctx context.Context) (itinerary.Store, library.Store) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		log.Println("MONGO_URI not set; running with in-memory stores (data is not persisted)")
		return itinerary.NewMemStore(), library.NewMemStore()
	}

	client, err := db.Connect(ctx, uri)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	colls := db.NewCollections(client, envOr("MONGO_DB", "tripdesk"))

	var libStore library.Store = library.NewMongoStore(colls.Library)
	if os.Getenv("LIBRARY_BACKEND") == "memory" {
		log.Println("LIBRARY_BACKEND=memory; catalog items are not persisted")
		libStore = library.NewMemStore()
	}

	return itinerary.NewMongoStore(colls.Itineraries), libStore
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	itStore, libStore := buildStores(ctx)

	cache := rdx.New(envOr("REDIS_ADDR", "localhost:6379"))
	emitter := mq.NewEmitter(cache)
	go mq.StartIndexingWorker(ctx, cache)

	passwordHash := os.Getenv("BACKOFFICE_PASSWORD_HASH")
	if passwordHash == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOr("BACKOFFICE_PASSWORD", "admin")), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash back-office password: %v", err)
		}
		passwordHash = string(hash)
	}

	rateLimiter := ratelim.NewRateLimiter()

	router := httprouter.New()
	router.GET("/health", Index)
	routes.AddAuthRoutes(router, auth.NewHandler(envOr("BACKOFFICE_USER", "frontdesk"), passwordHash), rateLimiter)
	routes.AddItineraryRoutes(router, itinerary.NewHandler(itStore, emitter), printdoc.NewHandler(itStore), rateLimiter)
	routes.AddLibraryRoutes(router, library.NewHandler(libStore, cache, emitter), rateLimiter)
	routes.AddStaticRoutes(router)

	// apply middleware: CORS -> security headers -> logging -> router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly")
}
