package verify

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/verifylink/internal/service/shortener"
	"github.com/nkiryanov/verifylink/internal/service/verification"
	"github.com/nkiryanov/verifylink/internal/testutil"
	"github.com/nkiryanov/verifylink/tests/e2e"
)

const (
	LinksURL  = "/api/links"
	VerifyURL = "/api/verify"
)

func post(t *testing.T, url string, body string) (int, map[string]any) {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err, "failed to send request")
	defer resp.Body.Close() // nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	data := map[string]any{}
	require.NoErrorf(t, json.Unmarshal(raw, &data), "response must be json. Body: %s", string(raw))
	return resp.StatusCode, data
}

func Test_Verify(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeWithTx(pg.Pool, t, e2e.Options{}, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		_, err := s.UserService.CreateUser(t.Context(), 42, "nk")
		require.NoError(t, err)

		t.Run("issued link redeemed once", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				code, data := post(t, srvURL+LinksURL, `{"user_id": 42}`)
				require.Equal(t, http.StatusCreated, code)

				link := data["link"].(string)
				require.True(t, strings.HasPrefix(link, e2e.BaseLink+"verify-42-"), "link must carry payload, got %s", link)
				payload := strings.TrimPrefix(link, e2e.BaseLink)

				code, _ = post(t, srvURL+VerifyURL, `{"payload": "`+payload+`"}`)
				require.Equal(t, http.StatusOK, code)

				code, _ = post(t, srvURL+VerifyURL, `{"payload": "`+payload+`"}`)
				require.Equal(t, http.StatusConflict, code, "token must be redeemed only once")

				verified, err := s.VerificationService.HasVerifiedToday(t.Context(), 42)
				require.NoError(t, err)
				require.True(t, verified)
			})
		})

		t.Run("token from other user not accepted", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				_, err := s.UserService.CreateUser(t.Context(), 43, "other")
				require.NoError(t, err)

				code, data := post(t, srvURL+LinksURL, `{"user_id": 42}`)
				require.Equal(t, http.StatusCreated, code)
				_, token, err := verification.ParsePayload(strings.TrimPrefix(data["link"].(string), e2e.BaseLink))
				require.NoError(t, err)

				code, _ = post(t, srvURL+VerifyURL, `{"payload": "verify-43-`+token+`"}`)
				require.Equal(t, http.StatusNotFound, code)
			})
		})
	})
}

func Test_VerifyShortened(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	shortSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("https://shrs.link/abc"))
	}))
	t.Cleanup(shortSrv.Close)

	opts := e2e.Options{Shortener: shortener.NewShareusClient(shortSrv.URL, "key", shortSrv.Client())}

	e2e.ServeWithTx(pg.Pool, t, opts, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		_, err := s.UserService.CreateUser(t.Context(), 42, "nk")
		require.NoError(t, err)

		code, data := post(t, srvURL+LinksURL, `{"user_id": 42}`)

		require.Equal(t, http.StatusCreated, code)
		require.Equal(t, "https://shrs.link/abc", data["link"])
	})
}
