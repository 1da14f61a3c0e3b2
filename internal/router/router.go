package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"herbal-store/internal/config"
	"herbal-store/internal/handler"
	"herbal-store/internal/metrics"
	"herbal-store/internal/middleware"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
	Post     *handler.ArticleHandler
	News     *handler.ArticleHandler
	Content  *handler.ContentHandler
	Cart     *handler.CartHandler
	Contact  *handler.ContactHandler
}

// New assembles the full route tree. healthCheck reports backend
// dependency health for the /health probe; nil means always healthy.
func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers, collector *metrics.Collector, healthCheck func(context.Context) error) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging(collector))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if healthCheck != nil {
			if err := healthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", collector.Handler())

	staffOnly := []string{"admin", "editor"}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
			auth.Post("/refresh", h.Auth.Refresh)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
			auth.With(authMiddleware.RequireAuth).Post("/logout", h.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Post("/logout-all", h.Auth.LogoutAll)
		})

		api.Route("/categories", func(c chi.Router) {
			c.Get("/", h.Category.List)
			c.Get("/{id}", h.Category.Get)
			c.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(staffOnly...)).Post("/", h.Category.Create)
			c.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(staffOnly...)).Put("/{id}", h.Category.Update)
			c.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(staffOnly...)).Delete("/{id}", h.Category.Delete)
		})

		api.Route("/products", func(p chi.Router) {
			p.Get("/", h.Product.List)
			p.Get("/{idOrSlug}", h.Product.Get)
			p.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(staffOnly...)).Post("/", h.Product.Create)
			p.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(staffOnly...)).Put("/{id}", h.Product.Update)
			p.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(staffOnly...)).Delete("/{id}", h.Product.Delete)
		})

		mountArticles := func(prefix string, ah *handler.ArticleHandler) {
			api.Route(prefix, func(a chi.Router) {
				a.With(authMiddleware.OptionalAuth).Get("/", ah.List)
				a.Get("/{idOrSlug}", ah.Get)
				a.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(staffOnly...)).Post("/", ah.Create)
				a.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(staffOnly...)).Put("/{id}", ah.Update)
				a.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(staffOnly...)).Delete("/{id}", ah.Delete)
			})
		}
		mountArticles("/posts", h.Post)
		mountArticles("/news", h.News)

		api.Route("/content", func(c chi.Router) {
			c.Get("/", h.Content.List)
			c.Get("/{key}", h.Content.Get)
			c.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(staffOnly...)).Put("/{key}", h.Content.Put)
		})

		api.Route("/cart", func(c chi.Router) {
			c.Use(authMiddleware.RequireAuth)
			c.Get("/", h.Cart.Get)
			c.Post("/items", h.Cart.AddItem)
			c.Put("/items/{productID}", h.Cart.UpdateItem)
			c.Delete("/items/{productID}", h.Cart.RemoveItem)
			c.Delete("/", h.Cart.Clear)
		})

		api.Route("/contact", func(c chi.Router) {
			c.Post("/", h.Contact.Submit)
			c.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles("admin")).Get("/", h.Contact.List)
			c.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles("admin")).Delete("/{id}", h.Contact.Delete)
		})
	})

	return r
}
