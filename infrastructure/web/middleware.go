package web

import (
	"context"
	"net/http"
	"strings"
)

func (wh *WebHandler) buildHandlerChain(handler HandlerFunc, middleware ...Middleware) HandlerFunc {
	allMiddleware := make([]Middleware, 0, len(wh.globalMiddleware)+len(middleware))
	allMiddleware = append(allMiddleware, wh.globalMiddleware...)
	allMiddleware = append(allMiddleware, middleware...)

	final := handler
	for i := len(allMiddleware) - 1; i >= 0; i-- {
		final = allMiddleware[i](final)
	}

	return final
}

func (wh *WebHandler) corsMiddleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, r *http.Request) Encoder {
			w := GetWriter(ctx)
			if w == nil {
				return NewError("internal server error: response writer not available")
			}

			origin := r.Header.Get("Origin")
			for _, allowedOrigin := range wh.corsOrigins {
				if allowedOrigin == "*" || allowedOrigin == origin {
					w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
					break
				}
			}

			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				return nil
			}

			return next(ctx, r)
		}
	}
}

func (wh *WebHandler) registerPreflight(path string) {
	if wh.preflight == nil {
		wh.preflight = make(map[string]bool)
	}
	if wh.preflight[path] || strings.HasPrefix(path, "OPTIONS ") {
		return
	}
	wh.preflight[path] = true

	preflight := wh.corsMiddleware()(func(ctx context.Context, r *http.Request) Encoder {
		return nil
	})
	wh.mux.HandleFunc("OPTIONS "+path, func(w http.ResponseWriter, r *http.Request) {
		ctx := setWriter(r.Context(), w)
		_ = Respond(ctx, w, preflight(ctx, r))
	})
}
