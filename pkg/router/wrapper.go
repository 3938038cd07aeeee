package router

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/xcontext"
)

type binder func(c *gin.Context, req any) error

func bindQuery(c *gin.Context, req any) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return err
	}

	return bindURI(c, req)
}

func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return bindURI(c, req)
}

func bindURI(c *gin.Context, req any) error {
	if len(c.Params) == 0 {
		return nil
	}

	return c.ShouldBindUri(req)
}

func wrapHandler[Request, Response any](
	router *Router,
	bind binder,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	// Middlewares are captured at registration time, so they must be added to
	// a router before its routes.
	befores := router.befores
	afters := router.afters
	closers := router.closers

	return func(c *gin.Context) {
		ctx := xcontext.WithHTTPRequest(router.ctx, c.Request)
		ctx = xcontext.WithHTTPWriter(ctx, c.Writer)
		ctx = xcontext.WithRoute(ctx, c.FullPath())

		ctx = serve(ctx, c, befores, afters, bind, handler)

		writeResponse(ctx)
		for _, closer := range closers {
			closer(ctx)
		}
	}
}

func serve[Request, Response any](
	ctx context.Context,
	c *gin.Context,
	befores, afters []MiddlewareFunc,
	bind binder,
	handler HandlerFunc[Request, Response],
) context.Context {
	var err error
	if ctx, err = runMiddlewares(ctx, befores); err != nil {
		return xcontext.WithError(ctx, err)
	}

	var req Request
	if err := bind(c, &req); err != nil {
		return xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid request: %v", err))
	}

	resp, err := handler(ctx, &req)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}

	if resp != nil {
		ctx = xcontext.WithResponse(ctx, resp)
	}

	if ctx, err = runMiddlewares(ctx, afters); err != nil {
		return xcontext.WithError(ctx, err)
	}

	return ctx
}

func runMiddlewares(ctx context.Context, middlewares []MiddlewareFunc) (context.Context, error) {
	for _, middleware := range middlewares {
		newCtx, err := middleware(ctx)
		if err != nil {
			return ctx, err
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	return ctx, nil
}
