package router

import (
	"issuing-service/internal/handler"
	"issuing-service/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func New(
	authH *handler.AuthHandler,
	cardH *handler.CardHandler,
	remitH *handler.RemitHandler,
	txnH *handler.TxnHandler,
	travelH *handler.TravelHandler,
	auth *middleware.AuthMiddleware,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// ---------------- Public ----------------
	r.Group(func(pub chi.Router) {
		pub.Get("/health", authH.Health)
		pub.Post("/auth/request-otp", authH.HandleRequestOTP)
		pub.Post("/auth/verify-otp", authH.HandleVerifyOTP)
	})

	// ---------------- Authenticated ----------------
	r.Group(func(sec chi.Router) {
		sec.Use(auth.Require)

		sec.Post("/auth/logout", authH.HandleLogout)

		sec.Route("/cards", func(c chi.Router) {
			c.Post("/create", cardH.HandleCreate)
			c.Get("/", cardH.HandleList)
			c.Post("/{id}/freeze", cardH.HandleFreeze)
			c.Post("/{id}/unfreeze", cardH.HandleUnfreeze)
			c.Post("/{id}/close", cardH.HandleClose)
			c.Post("/{id}/reissue", cardH.HandleReissue)
			c.Post("/{id}/controls", cardH.HandleUpdateControls)
			c.Get("/{id}/txns", txnH.HandleListByCard)
		})

		sec.Route("/remit", func(rm chi.Router) {
			rm.Post("/quote", remitH.HandleQuote)
			rm.Post("/transfer", remitH.HandleTransfer)
			rm.Get("/transfers", remitH.HandleListTransfers)
		})

		sec.Route("/txns", func(t chi.Router) {
			t.Post("/simulate-auth", txnH.HandleSimulateAuth)
			t.Post("/{id}/capture", txnH.HandleCapture)
			t.Post("/{id}/refund", txnH.HandleRefund)
		})

		sec.Route("/travel", func(tv chi.Router) {
			tv.Post("/", travelH.HandleCreate)
			tv.Get("/", travelH.HandleList)
		})
	})

	return r
}
