package vectra_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vectra "github.com/vectra-tobias/vectra-api-tools"
)

func TestDetectionService_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := v2TestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/v2/detections", r.URL.Path)
			assert.Equal(t, "10.0.0.1", r.URL.Query().Get("src_ip"))
			assert.Equal(t, "true", r.URL.Query().Get("is_triaged"))

			page := vectra.DetectionPage{
				Count: 1,
				Results: []vectra.Detection{
					{ID: 9, Category: "lateral", DetectionType: "brute-force", SourceIP: "10.0.0.1"},
				},
			}
			err := json.NewEncoder(w).Encode(page)
			assert.NoError(t, err)
		})

		page, err := client.Detections.List(context.Background(), vectra.Params{
			"src_ip":     "10.0.0.1",
			"is_triaged": true,
		})
		require.NoError(t, err)

		require.Len(t, page.Results, 1)
		assert.Equal(t, "brute-force", page.Results[0].DetectionType)
	})

	t.Run("deprecated category param warns but forwards", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "exfil", r.URL.Query().Get("category"))
			w.Write([]byte(`{"count":0,"results":[]}`))
		}))
		t.Cleanup(server.Close)

		logger, hook := logrustest.NewNullLogger()
		client, err := vectra.NewClient(
			vectra.WithBaseURL(server.URL),
			vectra.WithToken("test-token"),
			vectra.WithLogger(logger),
		)
		require.NoError(t, err)

		_, err = client.Detections.List(context.Background(), vectra.Params{"category": "exfil"})
		require.NoError(t, err)

		require.Len(t, hook.Entries, 1)
		assert.Contains(t, hook.LastEntry().Message, "category")
	})
}

func TestDetectionService_Get(t *testing.T) {
	client := v2TestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/detections/9", r.URL.Path)
		w.Write([]byte(`{"id":9,"state":"active","threat":85}`))
	})

	det, err := client.Detections.Get(context.Background(), 9, nil)
	require.NoError(t, err)
	assert.Equal(t, 85, det.Threat)

	_, err = client.Detections.Get(context.Background(), -1, nil)
	var valErr *vectra.ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestDetectionService_SetTags(t *testing.T) {
	t.Run("append merges current tags", func(t *testing.T) {
		client := v2TestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v2/tagging/detection/9", r.URL.Path)
			if r.Method == http.MethodGet {
				w.Write([]byte(`{"tags":["triaged"]}`))
				return
			}

			assert.Equal(t, http.MethodPatch, r.Method)
			var body map[string][]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []string{"triaged", "fp"}, body["tags"])
			w.Write([]byte(`{}`))
		})

		err := client.Detections.SetTags(context.Background(), 9, []string{"fp"}, true)
		require.NoError(t, err)
	})
}

func TestDetectionService_VersionGate(t *testing.T) {
	var calls atomic.Int64
	client := v1TestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{}`))
	})

	ctx := context.Background()
	var verErr *vectra.VersionError

	_, err := client.Detections.Tags(ctx, 9)
	require.ErrorAs(t, err, &verErr)
	require.ErrorAs(t, client.Detections.SetTags(ctx, 9, nil, false), &verErr)

	assert.Equal(t, int64(0), calls.Load())
}
