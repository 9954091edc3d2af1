package sendgrid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	value string
	err   error
	calls atomic.Int32
}

func (f *fakeGetter) GetParameter(_ context.Context, name string) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return f.value, nil
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(nil, "/mfc-voice-agent", "leads@mfc.test")
	require.Error(t, err)

	_, err = NewClient(&fakeGetter{}, "  ", "leads@mfc.test")
	require.Error(t, err)

	_, err = NewClient(&fakeGetter{}, "/mfc-voice-agent", "")
	require.Error(t, err)
}

func TestSend_HappyPath(t *testing.T) {
	var gotAuth string
	var gotBody mailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v3/mail/send", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	getter := &fakeGetter{value: "SG.test-key"}
	client, err := NewClient(getter, "/mfc-voice-agent", "leads@mfc.test", WithBaseURL(srv.URL))
	require.NoError(t, err)

	err = client.Send(context.Background(), "dale@mfc.test", "New lead", "A new lead came in.")
	require.NoError(t, err)
	require.Equal(t, "Bearer SG.test-key", gotAuth)
	require.Equal(t, "leads@mfc.test", gotBody.From.Email)
	require.Equal(t, "dale@mfc.test", gotBody.Personalizations[0].To[0].Email)
	require.Equal(t, "text/plain", gotBody.Content[0].Type)
}

func TestSend_APIKeyIsCached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	getter := &fakeGetter{value: "SG.test-key"}
	client, err := NewClient(getter, "/mfc-voice-agent", "leads@mfc.test", WithBaseURL(srv.URL))
	require.NoError(t, err)

	require.NoError(t, client.Send(context.Background(), "dale@mfc.test", "s", "b"))
	require.NoError(t, client.Send(context.Background(), "june@mfc.test", "s", "b"))
	require.EqualValues(t, 1, getter.calls.Load())
}

func TestSend_KeyLookupFailure(t *testing.T) {
	getter := &fakeGetter{err: errors.New("access denied")}
	client, err := NewClient(getter, "/mfc-voice-agent", "leads@mfc.test")
	require.NoError(t, err)

	err = client.Send(context.Background(), "dale@mfc.test", "s", "b")
	require.Error(t, err)
	require.ErrorContains(t, err, "access denied")
}

func TestSend_EmptyRecipient(t *testing.T) {
	client, err := NewClient(&fakeGetter{value: "SG.test-key"}, "/mfc-voice-agent", "leads@mfc.test")
	require.NoError(t, err)

	err = client.Send(context.Background(), "  ", "s", "b")
	require.Error(t, err)
	require.Contains(t, err.Error(), "recipient")
}

func TestSend_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(&fakeGetter{value: "SG.test-key"}, "/mfc-voice-agent", "leads@mfc.test", WithBaseURL(srv.URL))
	require.NoError(t, err)

	err = client.Send(context.Background(), "dale@mfc.test", "s", "b")
	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	require.Contains(t, statusErr.Body, "bad key")
}

func TestSendURL(t *testing.T) {
	require.Equal(t, "https://api.sendgrid.com/v3/mail/send", sendURL(""))
	require.Equal(t, "https://api.sendgrid.com/v3/mail/send", sendURL("https://api.sendgrid.com/v3/"))
	require.Equal(t, "http://localhost:9999/v3/mail/send", sendURL("http://localhost:9999"))
}
