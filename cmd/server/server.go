package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/axellelanca/happythoughts/cmd"
	"github.com/axellelanca/happythoughts/internal/api"
	"github.com/axellelanca/happythoughts/internal/monitor"
	"github.com/axellelanca/happythoughts/internal/repository"
	"github.com/axellelanca/happythoughts/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// RunServerCmd représente la commande 'run-server' de Cobra.
// C'est le point d'entrée pour lancer le serveur de l'application.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Starts the happy thoughts API server and the store monitor.",
	Long: `This command connects to the configured store, applies the schema when the
store has one, starts the store monitor and then serves the HTTP API.`,
	Run: func(c *cobra.Command, args []string) {
		cfg := cmd.MustConfig()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Ouvrir le store (sqlite, postgres ou redis) et appliquer le schéma
		thoughtRepo, err := repository.OpenAndMigrate(ctx, cfg.Database.Driver, cfg.Database.URL)
		if err != nil {
			log.Fatalf("Échec de la connexion au store : %v", err)
		}
		defer func() {
			if err := thoughtRepo.Close(); err != nil {
				log.Printf("Error closing store: %v", err)
			}
		}()
		log.Printf("Store %s initialisé.", cfg.Database.Driver)

		thoughtService := services.NewThoughtService(thoughtRepo, services.WithFeedLimit(cfg.Feed.Limit))
		log.Println("Services métiers initialisés.")

		monitorInterval := time.Duration(cfg.Monitor.IntervalSeconds) * time.Second
		storeMonitor := monitor.NewStoreMonitor(thoughtRepo, monitorInterval)
		go storeMonitor.Start(ctx)
		log.Printf("Moniteur du store démarré avec un intervalle de %v.", monitorInterval)

		router := gin.Default()
		api.SetupRoutes(router, thoughtService, api.Options{
			PreciseStatusCodes: cfg.API.PreciseStatusCodes,
			CORSOrigins:        cfg.Server.CORSOrigins,
		})
		log.Println("Routes API configurées.")

		serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
		srv := &http.Server{
			Addr:    serverAddr,
			Handler: router,
		}

		// Démarrer le serveur dans une goroutine pour ne pas bloquer.
		go func() {
			log.Printf("Server running on http://localhost%s", serverAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Échec du démarrage du serveur : %v", err)
			}
		}()

		// Attendre Ctrl+C ou un signal d'arrêt.
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Signal d'arrêt reçu. Arrêt du serveur...")

		// Stop the monitor first; in-flight requests get five seconds to finish.
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}

		log.Println("Serveur arrêté proprement.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
