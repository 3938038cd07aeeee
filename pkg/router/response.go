package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/xcontext"
)

type response struct {
	Code  int    `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{Code: 0, Data: data}
}

func newErrorResponse(err error) (int, response) {
	var errx errorx.Error
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	resp := response{Code: int(errx.Code), Error: errx.Message}
	if errx.Data != nil {
		resp.Data = errx.Data
	}

	return errx.Code.HTTPStatus(), resp
}

func writeResponse(ctx context.Context) {
	w := xcontext.HTTPWriter(ctx)

	if err := xcontext.Error(ctx); err != nil {
		status, resp := newErrorResponse(err)
		if err := WriteJson(w, status, resp); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the error response: %v", err)
		}
		return
	}

	resp := xcontext.Response(ctx)
	if resp == nil {
		return
	}

	if err := WriteJson(w, http.StatusOK, newResponse(resp)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}

func WriteJson(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(b)
	return err
}
