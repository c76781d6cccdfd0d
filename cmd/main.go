package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	"github.com/twilio/twilio-go"
	_ "time/tzdata"

	"github.com/wey-codes/haulpro-crm/internal/app"
	"github.com/wey-codes/haulpro-crm/internal/config"
	"github.com/wey-codes/haulpro-crm/internal/constants"
	"github.com/wey-codes/haulpro-crm/internal/controllers"
	"github.com/wey-codes/haulpro-crm/internal/middleware"
	"github.com/wey-codes/haulpro-crm/internal/repositories"
	"github.com/wey-codes/haulpro-crm/internal/routes"
	"github.com/wey-codes/haulpro-crm/internal/services"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

func main() {
	_ = godotenv.Load()
	utils.InitLogger("haulpro-crm")
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize app:", err)
	}
	defer application.Close()

	// Repositories
	accountRepo := repositories.NewAccountRepository(application.DB)
	pkgRepo := repositories.NewPackageRepository(application.DB)
	leadRepo := repositories.NewLeadRepository(application.DB)
	jobRepo := repositories.NewJobRepository(application.DB)
	subRepo := repositories.NewSubcontractorRepository(application.DB)
	payoutRepo := repositories.NewPayoutRepository(application.DB)

	if cfg.LDFlag_SeedDbWithTestData {
		if err := app.SeedAllTestData(context.Background(), accountRepo, pkgRepo, subRepo); err != nil {
			utils.Logger.Fatal("Failed to seed test data:", err)
		}
	}

	// External clients. Missing credentials degrade to log-only behavior.
	var twilioClient *twilio.RestClient
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		twilioClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	} else {
		utils.Logger.Warn("Twilio credentials missing, SMS disabled")
	}

	var sendgridClient *sendgrid.Client
	if cfg.SendGridAPIKey != "" {
		sendgridClient = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	} else {
		utils.Logger.Warn("SendGrid API key missing, email disabled")
	}

	var charger services.CardCharger
	if cfg.StripeAPIKey != "" {
		charger = services.NewStripeCharger(cfg.StripeAPIKey)
	} else {
		utils.Logger.Warn("Stripe API key missing, card capture disabled")
	}

	// Services
	notifier := services.NewNotificationService(cfg, twilioClient, sendgridClient)
	leadService := services.NewLeadService(leadRepo, pkgRepo)
	jobService := services.NewJobService(jobRepo, leadRepo, pkgRepo, subRepo, payoutRepo, notifier, charger)
	payoutService := services.NewPayoutService(payoutRepo, subRepo)
	pkgService := services.NewPackageService(pkgRepo)
	subService := services.NewSubService(subRepo)
	escalationService := services.NewEscalationService(jobRepo, accountRepo, notifier)

	// Controllers
	healthController := controllers.NewHealthController(application)
	leadsController := controllers.NewLeadsController(leadService)
	jobsController := controllers.NewJobsController(jobService)
	payoutsController := controllers.NewPayoutsController(payoutService)
	packagesController := controllers.NewPackagesController(pkgService)
	subsController := controllers.NewSubsController(subService)

	// Router setup
	router := mux.NewRouter()

	// Public routes
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	// Tenant-scoped routes
	api := router.NewRoute().Subrouter()
	api.Use(middleware.AccountMiddleware)

	api.HandleFunc(routes.LeadsBase, leadsController.CreateLeadHandler).Methods(http.MethodPost)
	api.HandleFunc(routes.LeadsBase, leadsController.ListLeadsHandler).Methods(http.MethodGet)
	api.HandleFunc(routes.LeadByID, leadsController.GetLeadHandler).Methods(http.MethodGet)
	api.HandleFunc(routes.LeadStatus, leadsController.TransitionLeadHandler).Methods(http.MethodPatch)
	api.HandleFunc(routes.LeadQuote, leadsController.SaveQuoteHandler).Methods(http.MethodPut)
	api.HandleFunc(routes.LeadBook, jobsController.BookFromLeadHandler).Methods(http.MethodPost)

	api.HandleFunc(routes.JobsBase, jobsController.CreateJobHandler).Methods(http.MethodPost)
	api.HandleFunc(routes.JobsBase, jobsController.ListJobsHandler).Methods(http.MethodGet)
	api.HandleFunc(routes.JobByID, jobsController.GetJobHandler).Methods(http.MethodGet)
	api.HandleFunc(routes.JobStatus, jobsController.TransitionJobHandler).Methods(http.MethodPatch)
	api.HandleFunc(routes.JobDispatch, jobsController.DispatchJobHandler).Methods(http.MethodPost)
	api.HandleFunc(routes.JobAssign, jobsController.AssignSubHandler).Methods(http.MethodPost)
	api.HandleFunc(routes.JobUnassign, jobsController.UnassignSubHandler).Methods(http.MethodPost)

	api.HandleFunc(routes.PayoutsBase, payoutsController.ListPayoutsHandler).Methods(http.MethodGet)
	api.HandleFunc(routes.PayoutsSummary, payoutsController.PayoutStatsHandler).Methods(http.MethodGet)
	api.HandleFunc(routes.PayoutMarkPaid, payoutsController.MarkPaidHandler).Methods(http.MethodPost)

	api.HandleFunc(routes.PackagesBase, packagesController.CreatePackageHandler).Methods(http.MethodPost)
	api.HandleFunc(routes.PackagesBase, packagesController.ListPackagesHandler).Methods(http.MethodGet)
	api.HandleFunc(routes.PackageByID, packagesController.GetPackageHandler).Methods(http.MethodGet)
	api.HandleFunc(routes.PackageSuggestPrice, leadsController.SuggestPriceHandler).Methods(http.MethodGet)

	api.HandleFunc(routes.SubsBase, subsController.CreateSubHandler).Methods(http.MethodPost)
	api.HandleFunc(routes.SubsBase, subsController.ListSubsHandler).Methods(http.MethodGet)
	api.HandleFunc(routes.SubByID, subsController.GetSubHandler).Methods(http.MethodGet)
	api.HandleFunc(routes.SubStatus, subsController.UpdateSubStatusHandler).Methods(http.MethodPatch)

	// Cron: escalate dispatched jobs nobody claimed.
	c := cron.New(cron.WithLocation(time.UTC))
	_, err = c.AddFunc(constants.EscalationCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		utils.Logger.Info("Starting unclaimed-job escalation sweep...")
		escalationService.SweepUnclaimedJobs(ctx)
	})
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule escalation cron")
	}
	c.Start()
	utils.Logger.Info("Scheduled escalation cron job")

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000")
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", constants.AccountIDHeader},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Server failed to start:", err)
	}
}
