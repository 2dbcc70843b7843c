package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"samakicash/internal/http/handlers"
	"samakicash/internal/infra"
	"samakicash/internal/middleware"
)

// Options carries the router-level settings taken from config.
type Options struct {
	Logger         *infra.Logger
	AllowedOrigins []string
	RateLimit      int
	DefaultLocale  string
	CountryLookup  middleware.CountryLookup
	Debug          bool
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(*logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/", app.Root)
	r.Get("/health", app.Health)
	r.Get("/audio/{ref}", app.Audio)

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(middleware.RateLimit(opts.RateLimit, time.Minute))
		}
		r.Post("/auth/register", app.Register)
		r.Post("/auth/login", app.Login)
		r.Post("/analyze-catch", app.AnalyzeCatch)
		r.Get("/users/{userID}/catches", app.UserCatches)
		r.Post("/credit-score", app.CreditScore)
		r.Post("/insurance-quote", app.InsuranceQuote)

		if opts.Debug {
			r.Route("/debug", func(r chi.Router) {
				r.Get("/elevenlabs", app.DebugSpeech)
				r.Get("/users", app.DebugUsers)
				r.Get("/catches", app.DebugCatches)
			})
		}
	})

	return r
}
