package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lifequestapp/lifequest-server/internal/ai"
	"github.com/lifequestapp/lifequest-server/internal/config"
	"github.com/lifequestapp/lifequest-server/internal/database"
	"github.com/lifequestapp/lifequest-server/internal/handlers"
	"github.com/lifequestapp/lifequest-server/internal/repository"
	"github.com/lifequestapp/lifequest-server/internal/scheduler"
	"github.com/lifequestapp/lifequest-server/internal/services"
	"github.com/lifequestapp/lifequest-server/pkg/email"
	"github.com/lifequestapp/lifequest-server/pkg/logger"
	"github.com/lifequestapp/lifequest-server/pkg/middleware"
	"github.com/lifequestapp/lifequest-server/pkg/push"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	metaRepo := repository.NewMetaQuestionRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	contextRepo := repository.NewContextRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	habitRepo := repository.NewHabitRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	weekRepo := repository.NewWeekRepository(db)

	// --- AI client (optional) ---
	var aiClient *ai.Client
	if cfg.OpenAIKey != "" {
		aiClient = ai.NewClient(cfg.OpenAIKey, cfg.OpenAIModel)
	} else {
		logger.Log.Warn("OPENAI_API_KEY not set, AI features disabled")
	}

	// --- Push sender ---
	var sender push.Sender = push.Disabled{}
	if cfg.FirebaseCredentials != "" {
		fcm, err := push.NewFCMSender(context.Background(), cfg.FirebaseCredentials)
		if err != nil {
			logger.Log.WithError(err).Warn("Firebase init failed, push notifications disabled")
		} else {
			sender = fcm
		}
	}

	// --- Email sender ---
	mailer := email.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPSender, cfg.SMTPPassword)
	if !mailer.Configured() {
		logger.Log.Warn("SMTP not configured, email delivery disabled")
	}

	// --- Services ---
	userService := services.NewUserService(userRepo)
	questionService := services.NewQuestionService(questionRepo)
	metaService := services.NewMetaQuestionService(metaRepo)

	var parser services.ScheduleParser
	var summarizer services.AnswerSummarizer
	var generator services.ResponseGenerator
	var resolverGen scheduler.TextGenerator
	if aiClient != nil {
		parser = aiClient
		summarizer = aiClient
		generator = aiClient
		resolverGen = aiClient
	}

	reservationService := services.NewReservationService(reservationRepo, questionRepo, metaRepo, settingsRepo, parser)
	deliveryService := services.NewDeliveryService(deliveryRepo)
	answerService := services.NewAnswerService(answerRepo, contextRepo, deliveryRepo, summarizer)
	settingsService := services.NewSettingsService(settingsRepo, tokenRepo)
	boardService := services.NewBoardService(boardRepo)
	habitService := services.NewHabitService(habitRepo, generator)
	characterService := services.NewCharacterService(characterRepo, generator)
	weekService := services.NewWeekService(weekRepo, boardRepo, characterRepo)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	questionHandler := handlers.NewQuestionHandler(questionService)
	metaHandler := handlers.NewMetaQuestionHandler(metaService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	deliveryHandler := handlers.NewDeliveryHandler(deliveryService)
	answerHandler := handlers.NewAnswerHandler(answerService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	boardHandler := handlers.NewBoardHandler(boardService)
	habitHandler := handlers.NewHabitHandler(habitService)
	characterHandler := handlers.NewCharacterHandler(characterService)
	weekHandler := handlers.NewWeekHandler(weekService)

	// --- Scheduler ---
	resolver := scheduler.NewResolver(questionRepo, metaRepo, contextRepo, resolverGen)
	dispatcher := scheduler.NewDispatcher(tokenRepo, sender)
	sched := scheduler.New(
		reservationRepo,
		questionRepo,
		deliveryRepo,
		settingsRepo,
		userRepo,
		resolver,
		dispatcher,
		mailer.Send,
		cfg.SchedulerBatchSize,
	)
	cronRunner, err := scheduler.StartCron(cfg.SchedulerSpec, sched)
	if err != nil {
		log.Fatalf("Scheduler start error: %v", err)
	}
	defer cronRunner.Stop()

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public user routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")

	// Protected user routes
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.UpdateUserHandler).Methods("PATCH")

	// Life question bot routes
	lifeRoutes := router.PathPrefix("/life").Subrouter()
	lifeRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	lifeRoutes.HandleFunc("/questions", questionHandler.CreateQuestionHandler).Methods("POST")
	lifeRoutes.HandleFunc("/questions", questionHandler.ListQuestionsHandler).Methods("GET")
	lifeRoutes.HandleFunc("/questions/{id}", questionHandler.GetQuestionHandler).Methods("GET")
	lifeRoutes.HandleFunc("/questions/{id}", questionHandler.UpdateQuestionHandler).Methods("PUT")
	lifeRoutes.HandleFunc("/questions/{id}", questionHandler.DeleteQuestionHandler).Methods("DELETE")

	lifeRoutes.HandleFunc("/meta-questions", metaHandler.CreateMetaQuestionHandler).Methods("POST")
	lifeRoutes.HandleFunc("/meta-questions", metaHandler.ListMetaQuestionsHandler).Methods("GET")
	lifeRoutes.HandleFunc("/meta-questions/{id}", metaHandler.GetMetaQuestionHandler).Methods("GET")
	lifeRoutes.HandleFunc("/meta-questions/{id}", metaHandler.UpdateMetaQuestionHandler).Methods("PUT")
	lifeRoutes.HandleFunc("/meta-questions/{id}", metaHandler.DeleteMetaQuestionHandler).Methods("DELETE")

	lifeRoutes.HandleFunc("/reservations", reservationHandler.CreateReservationHandler).Methods("POST")
	lifeRoutes.HandleFunc("/reservations", reservationHandler.ListReservationsHandler).Methods("GET")
	lifeRoutes.HandleFunc("/reservations/parse-schedule", reservationHandler.ParseScheduleHandler).Methods("POST")
	lifeRoutes.HandleFunc("/reservations/confirm-schedule", reservationHandler.ConfirmScheduleHandler).Methods("POST")
	lifeRoutes.HandleFunc("/reservations/{id}", reservationHandler.GetReservationHandler).Methods("GET")
	lifeRoutes.HandleFunc("/reservations/{id}", reservationHandler.UpdateReservationHandler).Methods("PUT")
	lifeRoutes.HandleFunc("/reservations/{id}", reservationHandler.DeleteReservationHandler).Methods("DELETE")

	lifeRoutes.HandleFunc("/deliveries", deliveryHandler.ListDeliveriesHandler).Methods("GET")
	lifeRoutes.HandleFunc("/deliveries/{id}", deliveryHandler.GetDeliveryHandler).Methods("GET")
	lifeRoutes.HandleFunc("/deliveries/{id}/ack", deliveryHandler.AckDeliveryHandler).Methods("POST")

	lifeRoutes.HandleFunc("/answers", answerHandler.CreateAnswerHandler).Methods("POST")
	lifeRoutes.HandleFunc("/answers", answerHandler.ListAnswersHandler).Methods("GET")
	lifeRoutes.HandleFunc("/answers/{id}", answerHandler.GetAnswerHandler).Methods("GET")
	lifeRoutes.HandleFunc("/contexts", answerHandler.ListContextsHandler).Methods("GET")

	lifeRoutes.HandleFunc("/settings", settingsHandler.GetSettingsHandler).Methods("GET")
	lifeRoutes.HandleFunc("/settings", settingsHandler.UpdateSettingsHandler).Methods("PUT")
	lifeRoutes.HandleFunc("/tokens", settingsHandler.RegisterTokenHandler).Methods("POST")
	lifeRoutes.HandleFunc("/tokens", settingsHandler.ListTokensHandler).Methods("GET")
	lifeRoutes.HandleFunc("/tokens", settingsHandler.RemoveTokenHandler).Methods("DELETE")

	// Quest board routes
	boardRoutes := router.PathPrefix("/boards").Subrouter()
	boardRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	boardRoutes.HandleFunc("", boardHandler.CreateBoardHandler).Methods("POST")
	boardRoutes.HandleFunc("", boardHandler.ListBoardsHandler).Methods("GET")
	boardRoutes.HandleFunc("/{id}", boardHandler.GetBoardHandler).Methods("GET")
	boardRoutes.HandleFunc("/{id}", boardHandler.UpdateBoardHandler).Methods("PUT")
	boardRoutes.HandleFunc("/{id}", boardHandler.DeleteBoardHandler).Methods("DELETE")
	boardRoutes.HandleFunc("/{id}/cards", boardHandler.CreateCardHandler).Methods("POST")
	boardRoutes.HandleFunc("/{id}/cards", boardHandler.ListCardsHandler).Methods("GET")
	boardRoutes.HandleFunc("/{id}/cards/{cardID}", boardHandler.UpdateCardHandler).Methods("PUT")
	boardRoutes.HandleFunc("/{id}/cards/{cardID}", boardHandler.DeleteCardHandler).Methods("DELETE")
	boardRoutes.HandleFunc("/{id}/cards/{cardID}/move", boardHandler.MoveCardHandler).Methods("POST")

	// Weekly dungeon schedule routes
	weekRoutes := router.PathPrefix("/weeks").Subrouter()
	weekRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	weekRoutes.HandleFunc("/{weekKey}", weekHandler.GetWeekHandler).Methods("GET")
	weekRoutes.HandleFunc("/{weekKey}", weekHandler.SaveWeekHandler).Methods("PUT")
	weekRoutes.HandleFunc("/{weekKey}/blocks/{blockID}", weekHandler.UpdateBlockHandler).Methods("PUT")
	weekRoutes.HandleFunc("/{weekKey}/days/{day}/blocks/{blockID}/done", weekHandler.ToggleBlockHandler).Methods("POST")
	weekRoutes.HandleFunc("/{weekKey}/board", weekHandler.ExportBoardHandler).Methods("POST")

	// Habit journal routes
	habitRoutes := router.PathPrefix("/habits").Subrouter()
	habitRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	habitRoutes.HandleFunc("", habitHandler.CreateEntryHandler).Methods("POST")
	habitRoutes.HandleFunc("", habitHandler.ListEntriesHandler).Methods("GET")
	habitRoutes.HandleFunc("/{id}", habitHandler.DeleteEntryHandler).Methods("DELETE")

	// Character routes
	characterRoutes := router.PathPrefix("/character").Subrouter()
	characterRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	characterRoutes.HandleFunc("", characterHandler.GetProfileHandler).Methods("GET")
	characterRoutes.HandleFunc("", characterHandler.UpdateProfileHandler).Methods("PUT")
	characterRoutes.HandleFunc("/logs", characterHandler.CreateLogHandler).Methods("POST")
	characterRoutes.HandleFunc("/logs", characterHandler.ListLogsHandler).Methods("GET")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
