package api

import (
	"net/http"
	"time"
	"thesis_hub/internal/api/handler"
	"thesis_hub/internal/app/service"
	"thesis_hub/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	submissionService *service.SubmissionService,
	biddingService *service.BiddingService,
	supervisionService *service.SupervisionService,
	commentService *service.CommentService,
	calendarService *service.CalendarService,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies "Authorization: Bearer T" and puts claims in context.
	// Per-route groups decide whether a valid token is required.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(publicAuth chi.Router) {
			authHandler.RegisterRoutes(publicAuth)
		})

		userHandler := handler.NewUserHandler(userService, supervisionService)
		v1.Route("/users", userHandler.RegisterRoutes)

		submissionHandler := handler.NewSubmissionHandler(submissionService)
		v1.Route("/submissions", submissionHandler.RegisterRoutes)

		biddingHandler := handler.NewBiddingHandler(biddingService)
		v1.Route("/bidding", biddingHandler.RegisterRoutes)

		commentHandler := handler.NewCommentHandler(commentService)
		v1.Route("/comments", commentHandler.RegisterRoutes)

		calendarHandler := handler.NewCalendarHandler(calendarService)
		v1.Route("/calendar", calendarHandler.RegisterRoutes)
	})

	return r
}
