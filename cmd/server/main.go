package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AgencyFlow/agencyflow/internal/agency/router"
	"github.com/AgencyFlow/agencyflow/internal/agency/service"
	"github.com/AgencyFlow/agencyflow/internal/auth"
	"github.com/AgencyFlow/agencyflow/internal/config"
	"github.com/AgencyFlow/agencyflow/internal/database"
	"github.com/AgencyFlow/agencyflow/internal/documents"
	"github.com/AgencyFlow/agencyflow/internal/middleware"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.Info("configuration loaded successfully",
		"db_driver", cfg.Database.Driver,
		"db_host", cfg.Database.Host,
		"db_port", cfg.Database.Port,
		"db_name", cfg.Database.Name,
		"db_sslmode", cfg.Database.SSLMode,
	)

	slog.Info("CORS configuration",
		"allowed_origins", cfg.CORS.AllowedOrigins,
		"allowed_methods", cfg.CORS.AllowedMethods,
		"allowed_headers", cfg.CORS.AllowedHeaders,
		"allow_credentials", cfg.CORS.AllowCredentials,
		"max_age", cfg.CORS.MaxAge,
	)

	slog.Info("server configuration",
		"port", cfg.Server.Port,
	)

	// Initialize database connection
	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Perform health check
	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("database health check failed: %v", err)
	}

	// Migrate schema
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize document storage
	storage, err := documents.NewStorageFromConfig(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize document storage: %v", err)
	}
	documentService := documents.NewDocumentService(db, storage)
	documentHandler := documents.NewHTTPHandler(documentService)

	// Initialize services
	directoryService := service.NewDirectoryService(db)
	catalogService := service.NewCatalogService(db)
	processService := service.NewProcessService(db, catalogService)
	projectService := service.NewProjectService(db)
	contractService := service.NewContractService(db)
	taskService := service.NewTaskService(db)

	// Initialize routers
	directoryRouter := router.NewDirectoryRouter(directoryService)
	offeringRouter := router.NewOfferingRouter(directoryService)
	catalogRouter := router.NewCatalogRouter(catalogService)
	processRouter := router.NewProcessRouter(processService)
	projectRouter := router.NewProjectRouter(projectService)
	contractRouter := router.NewContractRouter(contractService)
	taskRouter := router.NewTaskRouter(taskService, directoryService)

	// Authentication
	authService := auth.NewAuthService(db)
	verifier := auth.NewTokenVerifier(cfg.Auth.JWTSecret)
	requireAuth := auth.RequireAuth(authService, verifier)

	protected := func(handler http.HandlerFunc) http.Handler {
		return requireAuth(handler)
	}

	// Set up HTTP routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		if err := database.HealthCheck(db); err != nil {
			http.Error(w, `{"status":"unhealthy"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Clients
	mux.Handle("POST /api/clients", protected(directoryRouter.HandleCreateClient))
	mux.Handle("GET /api/clients", protected(directoryRouter.HandleListClients))
	mux.Handle("GET /api/clients/{clientID}", protected(directoryRouter.HandleGetClient))
	mux.Handle("PUT /api/clients/{clientID}", protected(directoryRouter.HandleUpdateClient))
	mux.Handle("DELETE /api/clients/{clientID}", protected(directoryRouter.HandleDeactivateClient))

	// Employees
	mux.Handle("POST /api/employees", protected(directoryRouter.HandleCreateEmployee))
	mux.Handle("GET /api/employees", protected(directoryRouter.HandleListEmployees))
	mux.Handle("GET /api/employees/{employeeID}", protected(directoryRouter.HandleGetEmployee))
	mux.Handle("PUT /api/employees/{employeeID}", protected(directoryRouter.HandleUpdateEmployee))
	mux.Handle("DELETE /api/employees/{employeeID}", protected(directoryRouter.HandleDeactivateEmployee))

	// Services
	mux.Handle("POST /api/services", protected(offeringRouter.HandleCreateService))
	mux.Handle("GET /api/services", protected(offeringRouter.HandleListServices))
	mux.Handle("GET /api/services/{serviceID}", protected(offeringRouter.HandleGetService))
	mux.Handle("PUT /api/services/{serviceID}", protected(offeringRouter.HandleUpdateService))
	mux.Handle("DELETE /api/services/{serviceID}", protected(offeringRouter.HandleDeactivateService))

	// Service packages
	mux.Handle("POST /api/service-packages", protected(offeringRouter.HandleCreatePackage))
	mux.Handle("GET /api/service-packages", protected(offeringRouter.HandleListPackages))
	mux.Handle("GET /api/service-packages/{packageID}", protected(offeringRouter.HandleGetPackage))
	mux.Handle("PUT /api/service-packages/{packageID}", protected(offeringRouter.HandleUpdatePackage))
	mux.Handle("DELETE /api/service-packages/{packageID}", protected(offeringRouter.HandleDeactivatePackage))

	// Process templates
	mux.Handle("POST /api/process-templates", protected(catalogRouter.HandleCreateTemplate))
	mux.Handle("GET /api/process-templates", protected(catalogRouter.HandleListTemplates))
	mux.Handle("GET /api/process-templates/{templateID}", protected(catalogRouter.HandleGetTemplate))
	mux.Handle("PUT /api/process-templates/{templateID}", protected(catalogRouter.HandleReplaceTemplate))
	mux.Handle("DELETE /api/process-templates/{templateID}", protected(catalogRouter.HandleDeactivateTemplate))

	// Process instances
	mux.Handle("POST /api/process-instances", protected(processRouter.HandleMaterialize))
	mux.Handle("GET /api/process-instances/{instanceID}", protected(processRouter.HandleGetInstance))
	mux.Handle("GET /api/process-instances/{instanceID}/phases", protected(processRouter.HandleGetPhases))
	mux.Handle("GET /api/process-instances/{instanceID}/progress", protected(processRouter.HandleGetProgress))
	mux.Handle("PUT /api/process-instances/{instanceID}/phases/{phaseID}", protected(processRouter.HandleUpdatePhase))
	mux.Handle("DELETE /api/process-instances/{instanceID}", protected(processRouter.HandleDeactivateInstance))

	// Contracts
	mux.Handle("POST /api/contracts", protected(contractRouter.HandleCreateContract))
	mux.Handle("GET /api/contracts", protected(contractRouter.HandleListContracts))
	mux.Handle("GET /api/contracts/{contractID}", protected(contractRouter.HandleGetContract))
	mux.Handle("GET /api/contracts/{contractID}/details", protected(contractRouter.HandleGetContractDetails))
	mux.Handle("PUT /api/contracts/{contractID}/status", protected(contractRouter.HandleUpdateContractStatus))
	mux.Handle("DELETE /api/contracts/{contractID}", protected(contractRouter.HandleDeactivateContract))

	// Projects
	mux.Handle("POST /api/projects", protected(projectRouter.HandleCreateProject))
	mux.Handle("GET /api/projects", protected(projectRouter.HandleListProjects))
	mux.Handle("GET /api/projects/{projectID}", protected(projectRouter.HandleGetProject))
	mux.Handle("GET /api/projects/{projectID}/details", protected(projectRouter.HandleGetProjectDetails))
	mux.Handle("DELETE /api/projects/{projectID}", protected(projectRouter.HandleDeactivateProject))

	// Tasks and time entries
	mux.Handle("POST /api/tasks", protected(taskRouter.HandleCreateTask))
	mux.Handle("GET /api/tasks", protected(taskRouter.HandleListTasks))
	mux.Handle("GET /api/tasks/{taskID}", protected(taskRouter.HandleGetTask))
	mux.Handle("GET /api/tasks/{taskID}/details", protected(taskRouter.HandleGetTaskDetails))
	mux.Handle("PUT /api/tasks/{taskID}", protected(taskRouter.HandleUpdateTask))
	mux.Handle("DELETE /api/tasks/{taskID}", protected(taskRouter.HandleDeactivateTask))
	mux.Handle("POST /api/tasks/{taskID}/time-entries", protected(taskRouter.HandleCreateTimeEntry))
	mux.Handle("GET /api/tasks/{taskID}/time-entries", protected(taskRouter.HandleListTimeEntries))

	// Documents
	mux.Handle("POST /api/documents", protected(documentHandler.Upload))
	mux.Handle("GET /api/documents/{key}", protected(documentHandler.Download))

	// Set up graceful shutdown
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)

	// Wrap handler with CORS middleware
	handler := middleware.CORS(&cfg.CORS)(mux)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: handler,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal
	<-quit
	slog.Info("shutting down server...")

	// Create a context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown of HTTP server
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}

	slog.Info("server stopped")
}
