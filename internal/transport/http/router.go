package http

import (
	"net/http"
	"time"

	"journalist-api/internal/domain"
	"journalist-api/internal/dto"
	"journalist-api/internal/observability/middleware"
	"journalist-api/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Services struct {
	Auth          service.AuthService
	Tokens        service.TokenService
	Resources     service.ResourceService
	Replies       service.ReplyService
	Seen          service.SeenService
	Downloads     service.DownloadService
	Conversations service.ConversationService
}

type Options struct {
	TrustProxy     bool
	TokenRateLimit int // per client IP per minute; 0 disables
	CORSOrigins    []string
}

func NewRouter(svc Services, opts Options) http.Handler {
	h := &handler{svc: svc, trustProxy: opts.TrustProxy}

	r := chi.NewRouter()
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Use(middleware.WithRequestAndTrace)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(recoverer)
	r.Use(middleware.WithMetrics)
	r.Use(middleware.WithAccessLog)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "Range", "X-Request-ID"},
			ExposedHeaders:   []string{"Content-Disposition", "Content-Range", "ETag", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route(dto.APIPrefix, func(r chi.Router) {
		r.Get("/", h.root)

		var token http.Handler = http.HandlerFunc(h.token)
		if opts.TokenRateLimit > 0 {
			token = httprate.Limit(opts.TokenRateLimit, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
					writeStatus(w, http.StatusTooManyRequests, "")
				}),
			)(token)
		}
		r.Method(http.MethodPost, "/token", token)

		r.Group(func(r chi.Router) {
			r.Use(requireToken(svc.Tokens))

			r.Post("/logout", h.logout)
			r.Get("/user", h.me)
			r.Get("/users", h.listUsers)

			r.Get("/sources", h.listSources)
			const src = "/sources/{sourceUUID}"
			r.Get(src, h.getSource)
			r.Delete(src, h.deleteSource)
			r.Post(src+"/add_star", h.addStar)
			r.Delete(src+"/remove_star", h.removeStar)
			r.Post(src+"/flag", h.flagSource)
			r.Delete(src+"/conversation", h.deleteConversation)

			r.Get(src+"/submissions", h.listSourceSubmissions)
			r.Get(src+"/submissions/{submissionUUID}", h.getSubmission)
			r.Delete(src+"/submissions/{submissionUUID}", h.deleteSubmission)
			r.Get(src+"/submissions/{submissionUUID}/download", h.download(domain.ArtifactSubmission, "submissionUUID"))

			r.Get(src+"/replies", h.listSourceReplies)
			r.Post(src+"/replies", h.postReply)
			r.Get(src+"/replies/{replyUUID}", h.getReply)
			r.Delete(src+"/replies/{replyUUID}", h.deleteReply)
			r.Get(src+"/replies/{replyUUID}/download", h.download(domain.ArtifactReply, "replyUUID"))

			r.Get("/submissions", h.listSubmissions)
			r.Get("/replies", h.listReplies)
			r.Post("/seen", h.markSeen)
		})
	})

	return r
}
