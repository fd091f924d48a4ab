package cmd

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/avisionlabs/avision/handlers"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only query API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := chi.NewRouter()

		corsHandler := cors.New(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		})

		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(corsHandler.Handler)

		photoHandler := &handlers.PhotoHandler{Store: Store}

		r.Route("/api", func(r chi.Router) {
			r.Route("/photos", func(r chi.Router) {
				r.Get("/", photoHandler.ListPhotos)
				r.Get("/{photo_id}", photoHandler.GetPhotoInfo)
			})
			r.Route("/search", func(r chi.Router) {
				r.Get("/objects", photoHandler.SearchByObjects)
				r.Get("/faces", photoHandler.SearchByFaces)
			})
			r.Get("/stats", photoHandler.GetStatistics)
			r.Get("/faces", photoHandler.ListKnownFaces)
		})

		serverAddr := fmt.Sprintf(":%d", servePort)
		log.Printf("Server listening on %s", serverAddr)
		server := &http.Server{
			Addr:         serverAddr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		}
		return server.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "api-port", 8080, "HTTP listen port")
	rootCmd.AddCommand(serveCmd)
}
