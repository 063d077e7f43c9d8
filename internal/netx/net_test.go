package netx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUploadToPresignedURL(t *testing.T) {
	img := []byte("\x89PNG fake image")

	t.Run("success", func(t *testing.T) {
		var gotBody []byte
		var gotCT, gotMethod, gotAuth string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			gotAuth = r.Header.Get("Authorization")
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		err := UploadToPresignedURL(context.Background(), ts.Client(), ts.URL+"/diary/img?X-Amz-Signature=abc", "image/png", img)
		require.NoError(t, err)
		require.Equal(t, http.MethodPut, gotMethod)
		require.Equal(t, "image/png", gotCT)
		require.Empty(t, gotAuth)
		require.Equal(t, img, gotBody)
	})

	t.Run("default content type", func(t *testing.T) {
		var gotCT string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotCT = r.Header.Get("Content-Type")
			w.WriteHeader(http.StatusNoContent)
		}))
		defer ts.Close()

		require.NoError(t, UploadToPresignedURL(context.Background(), nil, ts.URL, "", img))
		require.Equal(t, "application/octet-stream", gotCT)
	})

	t.Run("non-2xx -> error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "expired", http.StatusForbidden)
		}))
		defer ts.Close()

		err := UploadToPresignedURL(context.Background(), ts.Client(), ts.URL, "", img)
		require.ErrorContains(t, err, "upload failed: 403")
		require.ErrorContains(t, err, "expired")
	})

	t.Run("network error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		err := UploadToPresignedURL(context.Background(), nil, ts.URL, "", img)
		require.Error(t, err)
		require.NotContains(t, err.Error(), "upload failed")
	})
}
