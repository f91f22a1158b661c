package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"issuing-service/internal/cache"
	"issuing-service/internal/config"
	"issuing-service/internal/fxrate"
	"issuing-service/internal/handler"
	"issuing-service/internal/middleware"
	"issuing-service/internal/notifier"
	"issuing-service/internal/rate"
	"issuing-service/internal/repository"
	"issuing-service/internal/router"
	"issuing-service/internal/usecase/auth"
	"issuing-service/internal/usecase/card"
	"issuing-service/internal/usecase/quote"
	"issuing-service/internal/usecase/remit"
	"issuing-service/internal/usecase/travel"
	"issuing-service/internal/usecase/txn"
	"issuing-service/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Server struct {
	httpServer     *http.Server
	db             *pgxpool.Pool // nil on the memory backend
	transferWorker *worker.TransferWorker
	workerCancel   context.CancelFunc
}

func New(cfg *config.Config) *Server {
	var (
		db         *pgxpool.Pool
		users      repository.UserRepo
		cards      repository.CardRepo
		txns       repository.TxnRepo
		transfers  repository.TransferRepo
		travels    repository.TravelRepo
		challenges repository.ChallengeStore
		sessions   repository.SessionStore
		c          cache.Cache
	)

	switch cfg.StoreBackend {
	case "postgres":
		db = connectDB(cfg)
		users = repository.NewPGUserRepo(db)
		cards = repository.NewPGCardRepo(db)
		txns = repository.NewPGTxnRepo(db)
		transfers = repository.NewPGTransferRepo(db)
		travels = repository.NewPGTravelRepo(db)
	default:
		users = repository.NewMemoryUserRepo()
		cards = repository.NewMemoryCardRepo()
		txns = repository.NewMemoryTxnRepo()
		transfers = repository.NewMemoryTransferRepo()
		travels = repository.NewMemoryTravelRepo()
	}

	switch cfg.SessionBackend {
	case "redis":
		c = cache.NewRedisCache(cfg.RedisAddrs, cfg.RedisPass, cfg.RedisCluster)
		challenges = repository.NewRedisChallengeStore(c)
		sessions = repository.NewRedisSessionStore(c)
	default:
		c = cache.NewMemoryCache()
		challenges = repository.NewMemoryChallengeStore()
		sessions = repository.NewMemorySessionStore()
	}

	limiter := rate.NewLimiter(c, cfg.OTPWindow, cfg.OTPMaxPerWindow, cfg.OTPCooldown)

	authUC := auth.New(challenges, sessions, users, limiter, notifier.NewLogNotifier(), auth.Config{
		OTPTTL:      cfg.OTPTTL,
		OTPDigits:   cfg.OTPDigits,
		MaxAttempts: cfg.OTPMaxAttempts,
		SessionTTL:  cfg.SessionTTL,
		EchoCode:    cfg.OTPEchoCode,
	})

	cardUC := card.New(cards, cfg.CardTypes)

	fee, err := decimal.NewFromString(cfg.QuoteFee)
	if err != nil {
		log.Printf("Invalid QUOTE_FEE %q, defaulting to 0: %v", cfg.QuoteFee, err)
		fee = decimal.Zero
	}
	quoteUC := quote.New(fxrate.NewStaticSource(), quote.Config{
		SupportedCurrencies: cfg.SupportedCurrencies,
		Fee:                 fee,
		QuoteTTL:            cfg.QuoteTTL,
		RateTimeout:         cfg.RateTimeout,
	})

	remitUC := remit.New(transfers, quoteUC)
	txnUC := txn.New(txns, cardUC)
	travelUC := travel.New(travels)

	authMW := middleware.NewAuthMiddleware(authUC)

	r := router.New(
		handler.NewAuthHandler(authUC),
		handler.NewCardHandler(cardUC),
		handler.NewRemitHandler(remitUC),
		handler.NewTxnHandler(txnUC),
		handler.NewTravelHandler(travelUC),
		authMW,
	)

	tw := worker.NewTransferWorker(remitUC, cfg.TransferPollInterval)
	workerCtx, cancel := context.WithCancel(context.Background())
	go tw.Start(workerCtx)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		db:             db,
		transferWorker: tw,
		workerCancel:   cancel,
	}
}

func connectDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dbpool, err := pgxpool.New(ctx, cfg.DBConnString)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize DB: %v", err))
	}
	if err := dbpool.Ping(ctx); err != nil {
		panic(fmt.Sprintf("DB unreachable: %v", err))
	}
	return dbpool
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.workerCancel()
	if s.db != nil {
		defer s.db.Close()
	}
	return s.httpServer.Shutdown(ctx)
}
