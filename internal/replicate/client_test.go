package replicate_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interior-design-backend/internal/ai"
	"interior-design-backend/internal/replicate"
)

var kitchen = ai.PromptInput{
	RoomType:   "KITCHEN",
	Style:      "INDUSTRIAL",
	Dimensions: ai.Dimensions{Length: 3, Width: 3, Height: 2.4},
}

func newClient(url string) *replicate.Client {
	return replicate.NewClient(url, "r8_test", "v1", 5*time.Millisecond, replicate.WithBackoffs(time.Millisecond, time.Millisecond, time.Millisecond))
}

func TestClient_GeneratePollsUntilSucceeded(t *testing.T) {
	var polls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/predictions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer r8_test", r.Header.Get("Authorization"))
		var req replicate.PredictionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "v1", req.Version)
		assert.Equal(t, "https://photos.test/room.jpg", req.Input.Image)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"p1","status":"starting"}`))
	})
	mux.HandleFunc("/predictions/p1", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&polls, 1) < 3 {
			_, _ = w.Write([]byte(`{"id":"p1","status":"processing"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"p1","status":"succeeded","output":["https://out.test/a.png","https://out.test/b.png"],"metrics":{"predict_time":4.2}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	source := "https://photos.test/room.jpg"
	result, err := newClient(server.URL).Generate(context.Background(), kitchen, ai.Options{Provider: "REPLICATE", InputImageURL: &source})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://out.test/a.png", "https://out.test/b.png"}, result.ImageURLs)
	assert.Contains(t, result.Prompt, "Industrial kitchen")
	assert.Equal(t, "p1", result.Metadata["predictionId"])
	assert.Equal(t, source, result.Metadata["sourceImageUrl"])
	assert.GreaterOrEqual(t, atomic.LoadInt32(&polls), int32(3))
}

func TestClient_FailedPrediction(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/predictions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"p2","status":"starting"}`))
	})
	mux.HandleFunc("/predictions/p2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"p2","status":"failed","error":"NSFW content detected"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	_, err := newClient(server.URL).Generate(context.Background(), kitchen, ai.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NSFW content detected")
}

func TestClient_ContextCancelsPrediction(t *testing.T) {
	var cancelled int32
	mux := http.NewServeMux()
	mux.HandleFunc("/predictions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"p3","status":"starting"}`))
	})
	mux.HandleFunc("/predictions/p3", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"p3","status":"processing"}`))
	})
	mux.HandleFunc("/predictions/p3/cancel", func(w http.ResponseWriter, r *http.Request) {
		atomic.StoreInt32(&cancelled, 1)
		_, _ = w.Write([]byte(`{"id":"p3","status":"canceled"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newClient(server.URL).Generate(ctx, kitchen, ai.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), atomic.LoadInt32(&cancelled))
}

func TestClient_CreateRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"invalid version"}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL).Generate(context.Background(), kitchen, ai.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
}

func TestClient_RetryWithBackoff(t *testing.T) {
	client := newClient("https://api.test")

	callCount := 0
	err := client.RetryWithBackoff(context.Background(), func() error {
		callCount++
		if callCount < 3 {
			return assert.AnError
		}
		return nil
	}, 3)

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
}

func TestClient_RetryWithBackoff_Exhausted(t *testing.T) {
	client := newClient("https://api.test")

	err := client.RetryWithBackoff(context.Background(), func() error {
		return assert.AnError
	}, 3)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 retries")
}

func TestPrediction_OutputURLs(t *testing.T) {
	single := replicate.Prediction{Output: json.RawMessage(`"https://out.test/one.png"`)}
	assert.Equal(t, []string{"https://out.test/one.png"}, single.OutputURLs())

	none := replicate.Prediction{}
	assert.Empty(t, none.OutputURLs())
}
