package overlay

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/donation-wallet/internal/config"
	"github.com/donation-wallet/internal/wallet"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestServer(fetcher Fetcher) *Server {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Wallet: config.WalletConfig{Currency: "TRY"},
		Overlay: config.OverlayConfig{
			Port:           8090,
			RevealStep:     80 * time.Millisecond,
			RevealDuration: 400 * time.Millisecond,
		},
	}
	return NewServer(newTestLogger(), cfg, fetcher)
}

func get(srv *Server, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestServer_Overlay(t *testing.T) {
	t.Run("Populated", func(t *testing.T) {
		fetcher := new(MockFetcher)
		fetcher.On("FetchByIDs", mock.Anything, []string{"1", "3"}).Return([]wallet.DonationRecord{
			record("1", "1234.5", "Mehmet"),
			record("3", "10", ""),
		}, nil).Once()

		w := get(newTestServer(fetcher), "/wallet/overlay?ids=1%2C3")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		body := w.Body.String()
		assert.Contains(t, body, `data-state="populated"`)
		assert.Contains(t, body, "Mehmet")
		assert.Contains(t, body, "₺1.234,50")
		assert.Contains(t, body, "Anonim bağış")
		assert.Contains(t, body, "Toplam ₺1.244,50")
		assert.Contains(t, body, "animation-delay: 0ms; animation-duration: 400ms")
		assert.Contains(t, body, "animation-delay: 80ms; animation-duration: 400ms")
		assert.Less(t, strings.Index(body, `data-id="1"`), strings.Index(body, `data-id="3"`))
		fetcher.AssertExpectations(t)
	})

	t.Run("MissingReference", func(t *testing.T) {
		fetcher := new(MockFetcher)

		w := get(newTestServer(fetcher), "/wallet/overlay")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `data-state="empty"`)
		assert.Contains(t, w.Body.String(), "Seçili bağış yok.")
		fetcher.AssertNotCalled(t, "FetchByIDs", mock.Anything, mock.Anything)
	})

	t.Run("FetchFailureShowsNotice", func(t *testing.T) {
		fetcher := new(MockFetcher)
		fetcher.On("FetchByIDs", mock.Anything, []string{"1"}).Return(nil, errors.New("unreachable")).Once()

		w := get(newTestServer(fetcher), "/wallet/overlay?ids=1")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `data-state="empty"`)
		assert.Contains(t, w.Body.String(), NoticeFetchFailed)
	})

	t.Run("DonorNameIsEscaped", func(t *testing.T) {
		fetcher := new(MockFetcher)
		fetcher.On("FetchByIDs", mock.Anything, []string{"1"}).Return([]wallet.DonationRecord{
			record("1", "5", "<script>alert(1)</script>"),
		}, nil).Once()

		w := get(newTestServer(fetcher), "/wallet/overlay?ids=1")

		assert.NotContains(t, w.Body.String(), "<script>alert(1)</script>")
		assert.Contains(t, w.Body.String(), "&lt;script&gt;")
	})

	t.Run("Health", func(t *testing.T) {
		w := get(newTestServer(new(MockFetcher)), "/health")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
