package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
)

func NewRouter(handlers *Handlers, authHandlers *AuthHandlers, jwtService *auth.JWTService, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	optional := middleware.OptionalAuthMiddleware(jwtService)
	required := middleware.AuthMiddleware(jwtService)
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return required(middleware.RequireRole(auth.RoleAdmin)(h))
	}

	// Auth
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		authHandlers.Register(w, r)
	})

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		authHandlers.Login(w, r)
	})

	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		authHandlers.Logout(w, r)
	})

	mux.Handle("/auth/me", required(http.HandlerFunc(authHandlers.Me)))

	// Products
	mux.Handle("/products", optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetProducts(w, r)
		case http.MethodPost:
			middleware.RequireRole(auth.RoleAdmin)(http.HandlerFunc(handlers.SaveProduct)).ServeHTTP(w, r)
		default:
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.HandleFunc("/products/order", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		adminOnly(handlers.ReorderProducts).ServeHTTP(w, r)
	})

	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		adminOnly(handlers.DeleteProduct).ServeHTTP(w, r)
	})

	// Settings
	mux.Handle("/settings", optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetSettings(w, r)
		case http.MethodPut:
			middleware.RequireRole(auth.RoleAdmin)(http.HandlerFunc(handlers.SaveSettings)).ServeHTTP(w, r)
		default:
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Cart
	mux.Handle("/cart", optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetCart(w, r)
		case http.MethodDelete:
			handlers.ClearCart(w, r)
		default:
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.HandleFunc("/cart/items", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handlers.AddToCart(w, r)
	})

	mux.HandleFunc("/cart/items/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			handlers.UpdateCartItem(w, r)
		case http.MethodDelete:
			handlers.RemoveFromCart(w, r)
		default:
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Orders
	mux.Handle("/orders", optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetOrders(w, r)
		case http.MethodPost:
			handlers.Checkout(w, r)
		default:
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Sync
	mux.HandleFunc("/sync/push", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		adminOnly(handlers.SyncPush).ServeHTTP(w, r)
	})

	mux.HandleFunc("/sync/pull", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		adminOnly(handlers.SyncPull).ServeHTTP(w, r)
	})

	return withLogging(mux, log)
}

func withLogging(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}
