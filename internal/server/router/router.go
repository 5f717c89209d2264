package router

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/salesdesk/backoffice/internal/server/handlers"
	"github.com/salesdesk/backoffice/internal/storage"
)

type Options struct {
	log *slog.Logger
}

// NewRouter is the single authoritative route table for the service.
func NewRouter(store storage.Storage, opts ...Option) chi.Router {
	r := chi.NewRouter()

	rOpts := Options{
		log: slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}

	for _, opt := range opts {
		opt(&rOpts)
	}

	r.Use(
		middleware.Recoverer,
		middleware.StripSlashes,
		middleware.Logger,
	)

	h := handlers.NewHandlers(store,
		handlers.WithLogger(rOpts.log),
	)

	r.Get("/ping", h.Ping)

	r.Post("/login", h.Login)
	r.Post("/register", h.Register)

	r.Post("/transactions", h.RecordTransaction)
	r.Get("/all_transactions", h.ListTransactions)
	r.Get("/attendants", h.ListAttendants)

	r.Get("/attendants_count", h.AttendantsCount)
	r.Get("/transactions_count", h.TransactionsCount)
	r.Get("/total_sales", h.TotalSales)

	r.Delete("/delete_all_transactions", h.PurgeTransactions)

	return r
}

type Option func(r *Options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.log = logger
	}
}
