package supabase

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handwerk-hero/go_backend/internal/domain/quote"
	"handwerk-hero/go_backend/internal/infra/db/storetest"
)

// fakeREST answers the handful of PostgREST calls the store makes.
type fakeREST struct {
	t    *testing.T
	mu   sync.Mutex
	rows []map[string]interface{}
}

func (f *fakeREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	assert.Equal(f.t, "/rest/v1/quotes", r.URL.Path)
	assert.Equal(f.t, "secret", r.Header.Get("apikey"))
	assert.Equal(f.t, "Bearer secret", r.Header.Get("Authorization"))

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPost:
		assert.Equal(f.t, "return=representation", r.Header.Get("Prefer"))
		var in map[string]interface{}
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&in))
		in["id"] = uuid.NewString()
		in["created_at"] = time.Now().UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
		f.rows = append(f.rows, in)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{in})

	case http.MethodGet:
		q := r.URL.Query()
		out := []map[string]interface{}{}
		if id := q.Get("id"); id != "" {
			if _, err := uuid.Parse(strings.TrimPrefix(id, "eq.")); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"code":"22P02","message":"invalid input syntax for type uuid"}`))
				return
			}
			for _, row := range f.rows {
				if "eq."+row["id"].(string) == id {
					out = append(out, row)
				}
			}
		} else {
			assert.Equal(f.t, "created_at.desc", q.Get("order"))
			assert.Equal(f.t, "id,customer_label,net_total,created_at", q.Get("select"))
			for _, row := range f.rows {
				out = append(out, map[string]interface{}{
					"id":             row["id"],
					"customer_label": row["customer_label"],
					"net_total":      row["net_total"],
					"created_at":     row["created_at"],
				})
			}
			sort.SliceStable(out, func(i, j int) bool {
				return out[i]["created_at"].(string) > out[j]["created_at"].(string)
			})
		}
		_ = json.NewEncoder(w).Encode(out)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStore(t *testing.T, h http.Handler) *Store {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	s, err := New(Options{URL: server.URL + "/", Key: "secret"})
	require.NoError(t, err)
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, newTestStore(t, &fakeREST{t: t}))
}

func TestFetch_MalformedIDIsNotFound(t *testing.T) {
	s := newTestStore(t, &fakeREST{t: t})

	_, err := s.Fetch(t.Context(), "abc")
	assert.ErrorIs(t, err, quote.ErrNotFound)
}

func TestStatusErrorIsReported(t *testing.T) {
	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"JWT expired"}`))
	}))

	_, err := s.ListSummaries(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "JWT expired")
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{URL: "example.supabase.co", Key: "k"})
	assert.Error(t, err)

	_, err = New(Options{URL: "https://example.supabase.co"})
	assert.Error(t, err)

	s, err := New(Options{URL: "https://example.supabase.co/", Key: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultTable, s.table)
	assert.Equal(t, "https://example.supabase.co", s.baseURL)
}
