package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gearboxapp/gearbox-backend/api/controllers"
	"github.com/gearboxapp/gearbox-backend/api/middleware"
	"github.com/gearboxapp/gearbox-backend/internal/builds"
	"github.com/gearboxapp/gearbox-backend/internal/catalog"
	"github.com/gearboxapp/gearbox-backend/internal/comments"
	"github.com/gearboxapp/gearbox-backend/internal/follows"
	"github.com/gearboxapp/gearbox-backend/internal/identity"
	"github.com/gearboxapp/gearbox-backend/internal/likes"
	"github.com/gearboxapp/gearbox-backend/internal/partlink"
	"github.com/gearboxapp/gearbox-backend/internal/parts"
	"github.com/gearboxapp/gearbox-backend/internal/posts"
	"github.com/gearboxapp/gearbox-backend/internal/users"
	"github.com/gearboxapp/gearbox-backend/internal/vehicles"
	"github.com/gearboxapp/gearbox-backend/pkg/config"
	"github.com/gearboxapp/gearbox-backend/pkg/db"
	"github.com/gearboxapp/gearbox-backend/pkg/logger"
	"github.com/gearboxapp/gearbox-backend/pkg/metrics"
	"github.com/gearboxapp/gearbox-backend/pkg/redis"
)

// Services bundles everything the router wires into controllers.
type Services struct {
	Identity identity.Provider
	Users    users.Service
	Posts    posts.Service
	Comments comments.Service
	Likes    likes.Service
	Follows  follows.Service
	Builds   builds.Service
	Parts    parts.Service
	PartLink partlink.Service
	Catalog  catalog.Service
	Vehicles vehicles.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	promReg *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	var httpMetrics *metrics.HTTPMetrics
	if promReg != nil {
		httpMetrics = metrics.NewHTTPMetrics(promReg)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		httpMetrics.Middleware(),
	)

	authed := middleware.SessionAuth(cfg.Session, svcs.Identity, svcs.Users, logg)
	admin := middleware.RequireAdmin(logg)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})
	if promReg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	}

	r.With(middleware.AuthRateLimit(signupPolicy, redisClient, logg)).
		Post("/signup", controllers.Signup(svcs.Users, svcs.Identity, cfg.Session, logg))
	r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
		Post("/session-login", controllers.SessionLogin(svcs.Identity, cfg.Session, logg))
	r.Post("/check-username", controllers.CheckUsername(svcs.Users, logg))
	r.With(authed).Post("/logout", controllers.Logout(svcs.Users, cfg.Session, logg))

	r.Route("/users", func(r chi.Router) {
		r.With(authed).Get("/me", controllers.Me(logg))
		r.With(authed).Patch("/me", controllers.UpdateMe(svcs.Users, logg))
		r.With(authed).Delete("/me", controllers.DeleteMe(svcs.Users, cfg.Session, logg))
		r.Get("/{username}", controllers.GetProfile(svcs.Users, logg))
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", controllers.ListPosts(svcs.Posts, logg))
		r.With(authed).Post("/", controllers.CreatePost(svcs.Posts, logg))
		r.Get("/{id}", controllers.GetPost(svcs.Posts, logg))
		r.With(authed).Patch("/{id}", controllers.UpdatePost(svcs.Posts, logg))
		r.With(authed).Delete("/{id}", controllers.DeletePost(svcs.Posts, logg))
	})

	r.Route("/comments", func(r chi.Router) {
		r.Get("/", controllers.ListComments(svcs.Comments, logg))
		r.With(authed).Post("/", controllers.CreateComment(svcs.Comments, logg))
		r.With(authed).Delete("/{id}", controllers.DeleteComment(svcs.Comments, logg))
	})

	r.Route("/likes", func(r chi.Router) {
		r.Get("/for-post/{postID}", controllers.ListLikes(svcs.Likes, logg))
		r.Get("/count/{postID}", controllers.LikeCount(svcs.Likes, logg))
		r.With(authed).Post("/{postID}", controllers.LikePost(svcs.Likes, logg))
		r.With(authed).Delete("/{postID}", controllers.UnlikePost(svcs.Likes, logg))
	})

	r.Route("/follow", func(r chi.Router) {
		r.Get("/count/{userID}", controllers.FollowerCount(svcs.Follows, logg))
		r.Get("/following/{userID}", controllers.Following(svcs.Follows, logg))
		r.Get("/following/count/{userID}", controllers.FollowingCount(svcs.Follows, logg))
		r.Get("/{userID}", controllers.Followers(svcs.Follows, logg))
		r.With(authed).Post("/{userID}", controllers.FollowUser(svcs.Follows, logg))
		r.With(authed).Delete("/{userID}", controllers.UnfollowUser(svcs.Follows, logg))
	})

	r.Route("/builds", func(r chi.Router) {
		r.Get("/", controllers.ListBuilds(svcs.Builds, logg))
		r.With(authed).Post("/", controllers.CreateBuild(svcs.Builds, logg))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", controllers.GetBuild(svcs.Builds, logg))
			r.With(authed).Patch("/", controllers.UpdateBuild(svcs.Builds, logg))
			r.With(authed).Delete("/", controllers.DeleteBuild(svcs.Builds, logg))

			r.Get("/parts", controllers.BuildParts(svcs.Builds, logg))
			r.With(authed).Post("/parts/{partID}", controllers.AddBuildPart(svcs.Builds, logg))
			r.With(authed).Delete("/parts/{partID}", controllers.RemoveBuildPart(svcs.Builds, logg))
		})
	})

	r.Route("/parts", func(r chi.Router) {
		r.Get("/", controllers.ListParts(svcs.Parts, logg))
		r.With(authed).Post("/", controllers.CreatePart(svcs.Parts, logg))

		r.Get("/types", controllers.ListPartTypes(svcs.Catalog, logg))
		r.Get("/brands", controllers.ListBrands(svcs.Catalog, logg))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", controllers.GetPart(svcs.Parts, logg))
			r.With(authed).Patch("/", controllers.UpdatePart(svcs.Parts, logg))
			r.With(authed).Delete("/", controllers.DeletePart(svcs.Parts, logg))
		})
	})

	r.With(authed).Get("/link", controllers.ExtractPartLink(svcs.PartLink, logg))

	r.Route("/vehicles", func(r chi.Router) {
		r.Get("/years", controllers.VehicleYears(svcs.Vehicles, logg))
		r.Get("/makes/{year}", controllers.VehicleMakes(svcs.Vehicles, logg))
		r.Get("/models", controllers.VehicleModels(svcs.Vehicles, logg))
		r.Get("/query-models", controllers.VehicleQueryModels(svcs.Vehicles, logg))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(authed, admin)

		r.Get("/get-users", controllers.AdminListUsers(svcs.Users, logg))
		r.Delete("/delete-user", controllers.AdminDeleteUser(svcs.Users, logg))
		r.Patch("/deactivate-user", controllers.AdminDeactivateUser(svcs.Users, logg))
		r.Patch("/activate-user", controllers.AdminActivateUser(svcs.Users, logg))
		r.Delete("/delete-post/{id}", controllers.AdminDeletePost(svcs.Posts, logg))
		r.Post("/verify-part/{id}", controllers.AdminVerifyPart(svcs.Parts, logg))
		r.Post("/vehicles", controllers.AdminCreateVehicle(svcs.Vehicles, logg))
	})

	return r
}
