package elevenlabs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL string) *Client {
	c := NewClient("test_key", baseURL, zap.NewNop(), nil)
	c.retryBase = time.Millisecond
	return c
}

func TestNewClient(t *testing.T) {
	client := NewClient("key", "", zap.NewNop(), nil)

	assert.Equal(t, "https://api.elevenlabs.io/v1", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 500*time.Millisecond, client.retryBase)
}

func TestGetVoices(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "test_key", r.Header.Get("xi-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"voices":[{"voice_id":"v1","name":"Anna","labels":{"accent":"british"}},{"id":"v2"}]}`))
	}))
	defer server.Close()

	voices, err := newTestClient(server.URL).GetVoices(context.Background())
	require.NoError(t, err)
	require.Len(t, voices, 2)
	assert.Equal(t, "v1", voices[0].VoiceID)
	assert.Equal(t, "Anna", voices[0].Name)
	assert.Equal(t, "british", voices[0].Labels["accent"])
	assert.Equal(t, "v2", voices[1].ID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetVoicesDataKey(t *testing.T) {
	// Каталог может прийти под ключом data вместо voices
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"v9","name":"Boris"}]}`))
	}))
	defer server.Close()

	voices, err := newTestClient(server.URL).GetVoices(context.Background())
	require.NoError(t, err)
	require.Len(t, voices, 1)
	assert.Equal(t, "v9", voices[0].ID)
}

func TestSynthesizeRetriesRateLimit(t *testing.T) {
	// Три 429 подряд, успех на четвёртой попытке
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		assert.Equal(t, "audio/mpeg", r.Header.Get("Accept"))
		w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.retryBase = 10 * time.Millisecond

	start := time.Now()
	audio, err := client.Synthesize(context.Background(), "привет", "v1", "mp3")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-bytes"), audio)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	// Паузы растут: 10мс + 20мс + 40мс между четырьмя попытками
	assert.GreaterOrEqual(t, elapsed, 70*time.Millisecond)
}

func TestSynthesizeClientErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Synthesize(context.Background(), "привет", "v1", "mp3")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx не должен ретраиться")
}

func TestSynthesizeServerErrorExhaustsRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Synthesize(context.Background(), "привет", "v1", "mp3")

	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestSynthesizeValidatesInput(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	var invalidErr *InvalidInputError

	_, err := client.Synthesize(context.Background(), "", "v1", "mp3")
	require.Error(t, err)
	assert.True(t, errors.As(err, &invalidErr))

	_, err = client.Synthesize(context.Background(), strings.Repeat("а", MaxTextLength+1), "v1", "mp3")
	require.Error(t, err)
	assert.True(t, errors.As(err, &invalidErr))

	// Валидация локальная, до сети дело не доходит
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestSynthesizeAcceptsMaxLengthText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	// Ровно 5000 символов (не байтов) ещё валидны
	_, err := newTestClient(server.URL).Synthesize(context.Background(), strings.Repeat("ё", MaxTextLength), "v1", "mp3")
	assert.NoError(t, err)
}

func TestGetVoicesPropagatesFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetVoices(context.Background())

	var apiErr *APIError
	require.Error(t, err)
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, classRateLimited, classify(&APIError{StatusCode: 429}))
	assert.Equal(t, classServerError, classify(&APIError{StatusCode: 503}))
	assert.Equal(t, classClientError, classify(&APIError{StatusCode: 404}))
	assert.Equal(t, classTransport, classify(errors.New("connection refused")))

	assert.True(t, classRateLimited.retryable())
	assert.True(t, classServerError.retryable())
	assert.True(t, classTransport.retryable())
	assert.False(t, classClientError.retryable())
}
