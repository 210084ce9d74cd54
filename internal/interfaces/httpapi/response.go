package httpapi

import (
	"context"
	"io"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

// writeJSON encodes payload and responds with HTTP 200. Failures never map
// to a non-2xx status on this API; callers embed an "error" field in the
// body instead and consumers inspect that.
func writeJSON(ctx context.Context, w http.ResponseWriter, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	w.Header().Set("Content-Type", "application/json")
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"error":"response encoding failed"}`)
		return
	}

	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
