package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"converge-backend/internal/models"

	"github.com/labstack/echo/v4"
	resend "github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLocationCreated(t *testing.T) {
	body, err := RenderLocationCreated("jane", "Nairobi <HQ>")
	require.NoError(t, err)
	assert.Contains(t, body, "Hi jane,")
	assert.Contains(t, body, "Nairobi &lt;HQ&gt;")
}

func TestUnconfiguredClientFails(t *testing.T) {
	var c *ResendEmailClient
	err := c.SendLocationCreated(context.Background(), &models.User{Email: "a@b.io"}, &models.Location{Name: "Lagos"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	c = NewResendEmailClient(resend.NewClient("key"), "", time.Second, echo.New().Logger)
	err = c.Send(context.Background(), "a@b.io", "subject", "<p>hi</p>")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSendLocationCreatedPostsToResend(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
	}))
	defer srv.Close()

	client := resend.NewClient("re_test")
	client.BaseURL, _ = url.Parse(srv.URL + "/")

	c := NewResendEmailClient(client, "noreply@converge.app", time.Second, echo.New().Logger)
	err := c.SendLocationCreated(context.Background(),
		&models.User{Email: "jane.doe@example.com"},
		&models.Location{Name: "Kampala"})
	require.NoError(t, err)

	assert.Equal(t, LocationCreatedSubject, got["subject"])
	assert.Equal(t, "noreply@converge.app", got["from"])
	assert.Contains(t, got["html"], "Hi jane,")
}

func TestSendFailureIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from address"}`))
	}))
	defer srv.Close()

	client := resend.NewClient("re_test")
	client.BaseURL, _ = url.Parse(srv.URL + "/")

	c := NewResendEmailClient(client, "noreply@converge.app", time.Second, echo.New().Logger)
	err := c.Send(context.Background(), "jane@example.com", "subject", "<p>hi</p>")
	assert.Error(t, err)
}
