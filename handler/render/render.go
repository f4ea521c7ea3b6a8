package render

import (
	"encoding/json"
	"net/http"

	"github.com/oxtoacart/bpool"
	"github.com/pandodao/custody-wallet/core"
	"github.com/shopspring/decimal"
)

var buffers = bpool.NewBufferPool(64)

func init() {
	// amounts and prices go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// H is a JSON object.
type H map[string]any

func JSON(w http.ResponseWriter, status int, v any) {
	b := buffers.Get()
	defer buffers.Put(b)

	if err := json.NewEncoder(b).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = b.WriteTo(w)
}

func StatusCode(err error) int {
	switch core.KindOf(err) {
	case core.ErrorKindValidation, core.ErrorKindUnsupportedAsset:
		return http.StatusBadRequest
	case core.ErrorKindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error writes the failure envelope. Only the error message reaches the caller.
func Error(w http.ResponseWriter, err error) {
	JSON(w, StatusCode(err), H{
		"success": false,
		"error":   err.Error(),
	})
}
