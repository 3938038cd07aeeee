package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"golang.org/x/exp/slices"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after the handler. Returning a nil context
// keeps the current one.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs at the end of the request, after the response is
// written.
type CloserFunc func(ctx context.Context)

type Router struct {
	ctx    context.Context
	engine *gin.Engine
	inner  gin.IRouter

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

// New creates the root router. The given context carries the process-wide
// dependencies (configs, logger, database...) which every request inherits.
func New(ctx context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{ctx: ctx, engine: engine, inner: engine}
}

// Branch returns a router sharing the same routes but with its own copy of
// middlewares.
func (r *Router) Branch() *Router {
	return &Router{
		ctx:     r.ctx,
		engine:  r.engine,
		inner:   r.inner,
		befores: slices.Clone(r.befores),
		afters:  slices.Clone(r.afters),
		closers: slices.Clone(r.closers),
	}
}

func (r *Router) Group(prefix string) *Router {
	branch := r.Branch()
	branch.inner = r.inner.Group(prefix)
	return branch
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

// Static serves files of root for every path that matches no route.
func (r *Router) Static(root string) {
	r.engine.NoRoute(gin.WrapH(http.FileServer(http.Dir(root))))
}

// Handle mounts a raw http.Handler, bypassing middlewares.
func (r *Router) Handle(method, path string, handler http.Handler) {
	r.inner.Handle(method, path, gin.WrapH(handler))
}

func (r *Router) Handler(allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		return r.engine
	}

	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r.engine)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.GET(pattern, wrapHandler(r, bindQuery, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.POST(pattern, wrapHandler(r, bindJSON, handler))
}

func DELETE[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.DELETE(pattern, wrapHandler(r, bindQuery, handler))
}
