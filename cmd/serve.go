package cmd

import (
	"fmt"
	"net/http"

	"github.com/choreboard/choreboard-services/api/handlers"
	"github.com/choreboard/choreboard-services/api/middleware"
	"github.com/choreboard/choreboard-services/api/services"
	"github.com/choreboard/choreboard-services/internal/events"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for handling API requests",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config, initialize the database and set up logging
		commonSetUp()
		defer boardDB.Close()

		// Initialize the board event publisher; a missing Pulsar URL
		// disables publishing
		var publisher events.Notifier = events.NoopNotifier{}
		if appCfg.Pulsar.URL != "" {
			p, err := events.NewEventPublisher(appCfg.Pulsar.URL, appCfg.Pulsar.TopicProducer)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to initialize event publisher")
			}
			publisher = p
		}
		defer publisher.Close()

		service := &services.Service{
			Config:    appCfg,
			DB:        boardDB,
			Publisher: publisher,
		}

		// Create routes
		r := mux.NewRouter()
		api := r.PathPrefix(appCfg.BasePath).Subrouter()
		api.Use(middleware.WithLogger)

		// Login is the only unauthenticated route
		api.HandleFunc("/users/login", handlers.Login(service)).Methods(http.MethodPost)

		// Everything else requires a bearer token
		authed := api.NewRoute().Subrouter()
		authed.Use(middleware.Auth(boardDB, appCfg.Auth.SigningKey))

		// User routes
		authed.HandleFunc("/users/me", handlers.GetMe(service)).Methods(http.MethodGet)
		authed.HandleFunc("/users/me", handlers.UpdateMe(service)).Methods(http.MethodPatch)
		authed.HandleFunc("/users/me", handlers.DeleteMe(service)).Methods(http.MethodDelete)
		authed.HandleFunc("/users", handlers.GetUsers(service)).Methods(http.MethodGet)
		authed.HandleFunc("/users/notifications", handlers.GetNotifications(service)).Methods(http.MethodGet)
		authed.HandleFunc("/users/notifications", handlers.ClearNotifications(service)).Methods(http.MethodDelete)

		// Group routes
		authed.HandleFunc("/groups", handlers.CreateGroup(service)).Methods(http.MethodPost)
		authed.HandleFunc("/groups/join", handlers.JoinGroup(service)).Methods(http.MethodPost)
		authed.HandleFunc("/groups/mine", handlers.GetMyGroup(service)).Methods(http.MethodGet)
		authed.HandleFunc("/groups/mine", handlers.UpdateMyGroup(service)).Methods(http.MethodPatch)
		authed.HandleFunc("/groups/mine", handlers.DeleteMyGroup(service)).Methods(http.MethodDelete)
		authed.HandleFunc("/groups/leave", handlers.LeaveGroup(service)).Methods(http.MethodPost)

		// Task routes
		authed.HandleFunc("/tasks", handlers.GetTasks(service)).Methods(http.MethodGet)
		authed.HandleFunc("/tasks", handlers.CreateTask(service)).Methods(http.MethodPost)
		authed.HandleFunc("/tasks/{task-id}", handlers.UpdateTask(service)).Methods(http.MethodPatch)
		authed.HandleFunc("/tasks/{task-id}", handlers.DeleteTask(service)).Methods(http.MethodDelete)

		// App state and polling
		authed.HandleFunc("/appstate", handlers.GetAppState(service)).Methods(http.MethodGet)
		authed.HandleFunc("/appstate", handlers.SetAppState(service)).Methods(http.MethodPost)
		authed.HandleFunc("/poll", handlers.Poll(service)).Methods(http.MethodGet)

		log.Info().Msg(fmt.Sprintf("Server started at %s:%d", host, port))

		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", host, port),
			r); err != nil {

			log.Error().Err(err).Msg("could not start server")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&host, "host", "0.0.0.0", "host to run the server on")
	serveCmd.Flags().IntVar(&port, "port", 8080, "port to run the server on")
}
