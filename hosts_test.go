package vectra_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vectra "github.com/vectra-tobias/vectra-api-tools"
)

func TestHostService_List(t *testing.T) {
	t.Run("success with filtered params", func(t *testing.T) {
		client := v2TestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/v2/hosts", r.URL.Path)
			assert.Equal(t, "Token test-token", r.Header.Get("Authorization"))
			assert.Equal(t, "active", r.URL.Query().Get("state"))
			assert.False(t, r.URL.Query().Has("bogus"))

			page := vectra.HostPage{
				Count: 2,
				Results: []vectra.Host{
					{ID: 1, Name: "ws-1", Threat: 70},
					{ID: 2, Name: "ws-2", Threat: 20},
				},
			}
			err := json.NewEncoder(w).Encode(page)
			assert.NoError(t, err)
		})

		page, err := client.Hosts.List(context.Background(), vectra.Params{
			"state": "active",
			"bogus": "dropped",
		})
		require.NoError(t, err)

		assert.Len(t, page.Results, 2)
		assert.Equal(t, "ws-1", page.Results[0].Name)
		assert.Equal(t, 2, page.Count)
	})

	t.Run("v1 uses basic auth", func(t *testing.T) {
		client := v1TestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Basic "))
			assert.Equal(t, "/api/hosts", r.URL.Path)
			w.Write([]byte(`{"count":0,"results":[]}`))
		})

		page, err := client.Hosts.List(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, page.Results)
	})

	t.Run("deprecated param warns", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "50", r.URL.Query().Get("c_score"))
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

		_, err = client.Hosts.List(context.Background(), vectra.Params{"c_score": 50})
		require.NoError(t, err)

		require.Len(t, hook.Entries, 1)
		assert.Contains(t, hook.LastEntry().Message, "c_score")
	})
}

func TestHostService_ListAll(t *testing.T) {
	t.Run("follows cursor until absent", func(t *testing.T) {
		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			page := r.URL.Query().Get("page")
			var body string
			switch page {
			case "", "1":
				body = fmt.Sprintf(`{"count":5,"next":"%s/api/v2/hosts?page=2","results":[{"id":1},{"id":2}]}`, server.URL)
			case "2":
				body = fmt.Sprintf(`{"count":5,"next":"%s/api/v2/hosts?page=3","results":[{"id":3},{"id":4}]}`, server.URL)
			case "3":
				body = `{"count":5,"next":null,"results":[{"id":5}]}`
			}
			w.Write([]byte(body))
		}))
		t.Cleanup(server.Close)

		logger, _ := logrustest.NewNullLogger()
		client, err := vectra.NewClient(
			vectra.WithBaseURL(server.URL),
			vectra.WithToken("test-token"),
			vectra.WithLogger(logger),
		)
		require.NoError(t, err)

		pages, err := vectra.Collect(client.Hosts.ListAll(context.Background(), nil))
		require.NoError(t, err)

		require.Len(t, pages, 3)
		assert.Equal(t, 1, pages[0].Results[0].ID)
		assert.Equal(t, 3, pages[1].Results[0].ID)
		assert.Equal(t, 5, pages[2].Results[0].ID)

		hosts, err := vectra.CollectResults(
			client.Hosts.ListAll(context.Background(), nil),
			func(p *vectra.HostPage) []vectra.Host { return p.Results },
		)
		require.NoError(t, err)
		assert.Len(t, hosts, 5)
	})

	t.Run("stops early when consumer breaks", func(t *testing.T) {
		var calls atomic.Int64
		client := v2TestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Write([]byte(`{"count":100,"next":"ignored-by-break","results":[{"id":1}]}`))
		})

		page, err := vectra.First(client.Hosts.ListAll(context.Background(), nil))
		require.NoError(t, err)
		assert.Equal(t, 1, page.Results[0].ID)
		assert.Equal(t, int64(1), calls.Load())
	})
}

func TestHostService_Get(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := v2TestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v2/hosts/42", r.URL.Path)
			assert.Equal(t, "name,threat", r.URL.Query().Get("fields"))
			w.Write([]byte(`{"id":42,"name":"db-server","is_key_asset":true}`))
		})

		host, err := client.Hosts.Get(context.Background(), 42, vectra.Params{"fields": "name,threat"})
		require.NoError(t, err)
		assert.Equal(t, 42, host.ID)
		assert.True(t, host.IsKeyAsset)
	})

	t.Run("missing id", func(t *testing.T) {
		client := v2TestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		})

		_, err := client.Hosts.Get(context.Background(), 0, nil)
		var valErr *vectra.ValidationError
		require.ErrorAs(t, err, &valErr)
	})

	t.Run("404 carries status and body", func(t *testing.T) {
		client := v2TestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"Not found."}`))
		})

		_, err := client.Hosts.Get(context.Background(), 42, nil)
		var apiErr *vectra.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, `{"detail":"Not found."}`, string(apiErr.Body))
	})
}

func TestHostService_SetKeyAsset(t *testing.T) {
	t.Run("sets flag with form body", func(t *testing.T) {
		client := v2TestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/api/v2/hosts/42", r.URL.Path)
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "True", r.PostForm.Get("key_asset"))
			w.Write([]byte(`{}`))
		})

		err := client.Hosts.SetKeyAsset(context.Background(), 42, true)
		require.NoError(t, err)
	})

	t.Run("clears flag", func(t *testing.T) {
		client := v2TestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "False", r.PostForm.Get("key_asset"))
			w.Write([]byte(`{}`))
		})

		err := client.Hosts.SetKeyAsset(context.Background(), 42, false)
		require.NoError(t, err)
	})
}

func TestHostService_Tags(t *testing.T) {
	client := v2TestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/tagging/host/7", r.URL.Path)
		w.Write([]byte(`{"status":"success","tag_count":2,"tags":["prod","linux"]}`))
	})

	tags, err := client.Hosts.Tags(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"prod", "linux"}, tags)
}

func TestHostService_SetTags(t *testing.T) {
	t.Run("replace", func(t *testing.T) {
		client := v2TestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/api/v2/tagging/host/7", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string][]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []string{"x", "y"}, body["tags"])
			w.Write([]byte(`{}`))
		})

		err := client.Hosts.SetTags(context.Background(), 7, []string{"x", "y"}, false)
		require.NoError(t, err)
	})

	t.Run("append concatenates with duplicates", func(t *testing.T) {
		client := v2TestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				w.Write([]byte(`{"tags":["a","b"]}`))
				return
			}

			var body map[string][]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []string{"a", "b", "b", "c"}, body["tags"])
			w.Write([]byte(`{}`))
		})

		err := client.Hosts.SetTags(context.Background(), 7, []string{"b", "c"}, true)
		require.NoError(t, err)
	})

	t.Run("nil tags clears", func(t *testing.T) {
		client := v2TestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]json.RawMessage
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "[]", string(body["tags"]))
			w.Write([]byte(`{}`))
		})

		err := client.Hosts.SetTags(context.Background(), 7, nil, false)
		require.NoError(t, err)
	})
}

func TestHostService_VersionGate(t *testing.T) {
	var calls atomic.Int64
	client := v1TestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{}`))
	})

	ctx := context.Background()
	var verErr *vectra.VersionError

	require.ErrorAs(t, client.Hosts.SetKeyAsset(ctx, 1, true), &verErr)
	assert.Contains(t, verErr.Error(), "requires API v2")

	_, err := client.Hosts.Tags(ctx, 1)
	require.ErrorAs(t, err, &verErr)

	require.ErrorAs(t, client.Hosts.SetTags(ctx, 1, []string{"a"}, false), &verErr)

	assert.Equal(t, int64(0), calls.Load(), "v2-only operations must not touch the network on a v1 client")
}
