package hc

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pandodao/custody-wallet/core"
	"github.com/pandodao/custody-wallet/service/chain"
	"github.com/pandodao/custody-wallet/service/servicetest"
	"github.com/stretchr/testify/assert"
)

func TestHandler(t *testing.T) {
	gateway := chain.NewGateway(
		servicetest.NewAdapter(core.NetworkTestnet, core.AssetETH),
		servicetest.NewAdapter(core.NetworkTestnet, core.AssetBNB),
	)

	w := httptest.NewRecorder()
	Handler("1.2.3", gateway).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hc", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), `"version":"1.2.3"`)
	assert.Contains(t, w.Body.String(), `"testnet":["ETH","BNB"]`)
}
