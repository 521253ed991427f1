package app

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"pureproxy/internal/app/bootstrap"
	"pureproxy/internal/app/server"
	candidatequeue "pureproxy/internal/jobs/queue/candidates"
	"pureproxy/internal/support"
)

const defaultBackendPort = 8082

func Run() error {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	log.SetLevel(log.DebugLevel)

	backendPortFlag := flag.Int("backend-port", defaultBackendPort, "Port for API server")
	flag.Parse()

	backendPort := resolvePort("BACKEND_PORT", *backendPortFlag)

	if _, err := support.GetRedisClient(); err != nil {
		return fmt.Errorf("failed to get redis client: %w", err)
	}

	bootstrap.Setup()

	defer func() {
		if err := candidatequeue.PublicCandidateQueue.Close(); err != nil {
			log.Warn("error closing candidate queue", "error", err)
		}
	}()

	return server.OpenRoutes(backendPort)
}

func resolvePort(envKey string, fallback int) int {
	raw := os.Getenv(envKey)
	if raw == "" {
		return fallback
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port == 0 {
		log.Warn("invalid port override", "env", envKey, "value", raw)
		return fallback
	}
	return port
}
