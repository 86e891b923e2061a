package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/creatorx-lab/settlement/pkg/errorx"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"github.com/mitchellh/mapstructure"
)

func route[Request, Response any](
	r *Router, method string, handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := xcontext.WithHTTPRequest(r.ctx, req)
		ctx = xcontext.WithHTTPWriter(ctx, w)
		ctx = xcontext.WithStartTime(ctx, time.Now())

		ctx = serve(ctx, r, method, handler)
		writeResponse(ctx)

		for _, closer := range r.closers {
			closer(ctx)
		}
	}
}

// serve returns the final context of the request, holding either the
// response or the error.
func serve[Request, Response any](
	ctx context.Context, r *Router, method string, handler HandlerFunc[Request, Response],
) context.Context {
	req := xcontext.HTTPRequest(ctx)
	if req.Method != method {
		return xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Method %s is not allowed", req.Method))
	}

	var request Request
	if err := bind(req, &request); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
		return xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid request"))
	}

	ctx, err := runMiddlewares(ctx, r.befores)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}

	resp, err := handler(ctx, &request)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}

	ctx = xcontext.WithResponse(ctx, resp)
	ctx, err = runMiddlewares(ctx, r.afters)
	if err != nil {
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

func bind(req *http.Request, v any) error {
	if req.Method == http.MethodGet {
		return bindQuery(req, v)
	}

	err := json.NewDecoder(req.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}

// bindQuery decodes the first value of each query parameter into the json
// tagged fields of v.
func bindQuery(req *http.Request, v any) error {
	params := map[string]any{}
	for key, values := range req.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           v,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(params)
}
