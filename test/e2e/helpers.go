//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veritaslabs/veritas/internal/api/handlers"
	"github.com/veritaslabs/veritas/internal/chunker"
	"github.com/veritaslabs/veritas/internal/domain"
	"github.com/veritaslabs/veritas/internal/ingest"
	"github.com/veritaslabs/veritas/internal/media"
	"github.com/veritaslabs/veritas/internal/ratelimit"
	"github.com/veritaslabs/veritas/internal/retrieval"
	"github.com/veritaslabs/veritas/internal/search"
	"github.com/veritaslabs/veritas/internal/server"
	"github.com/veritaslabs/veritas/internal/storage"
	"github.com/veritaslabs/veritas/internal/testutil"
	"github.com/veritaslabs/veritas/internal/validation"
	"github.com/veritaslabs/veritas/internal/vectorstore"
)

const (
	testAPIToken = "e2e-test-token"
	embeddingDim = 1536
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	RustFSC      *testutil.RustFSContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	Archive      *storage.Archive
	SearchFaker  *fixtureProvider
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment with containers and server
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	s3C := testutil.NewRustFSContainer(ctx, t)

	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	archive, err := storage.NewArchive(ctx, storage.ArchiveConfig{
		Endpoint:        s3C.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     "rustfsadmin",
		SecretAccessKey: "rustfsadmin",
		Bucket:          "veritas-e2e",
		UsePathStyle:    true,
	})
	if err != nil {
		t.Fatalf("failed to create document archive: %v", err)
	}
	if err := archive.EnsureBucket(ctx); err != nil {
		t.Fatalf("failed to create bucket: %v", err)
	}

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	faker := &fixtureProvider{}
	serverURL, serverCloser := startServer(t, pool, archive, faker, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		RustFSC:      s3C,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		Archive:      archive,
		SearchFaker:  faker,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.RustFSC != nil {
		e.RustFSC.Terminate(e.Ctx)
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path string) (*APIResponse, error) {
	return e.doRequest("GET", path, nil)
}

// Post performs a POST request
func (e *E2ETestEnv) Post(path string, body interface{}) (*APIResponse, error) {
	return e.doRequest("POST", path, body)
}

// Delete performs a DELETE request
func (e *E2ETestEnv) Delete(path string) (*APIResponse, error) {
	return e.doRequest("DELETE", path, nil)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}) (*APIResponse, error) {
	url := e.ServerURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+testAPIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiResp.Error)
	}

	return &apiResp, nil
}

// bagOfWordsEmbedder hashes words onto vector axes so that texts sharing
// words land near each other under cosine similarity. Deterministic, no
// network, and a verbatim match always scores 1.0.
type bagOfWordsEmbedder struct{}

func (bagOfWordsEmbedder) vector(text string) []float32 {
	v := make([]float32, embeddingDim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'()")
		if word == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(word))
		v[h.Sum32()%embeddingDim]++
	}
	return v
}

func (e bagOfWordsEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	return e.vector(text), nil
}

func (e bagOfWordsEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]domain.EmbeddedText, error) {
	out := make([][]domain.EmbeddedText, len(texts))
	for i, text := range texts {
		out[i] = []domain.EmbeddedText{{Text: text, Embedding: e.vector(text)}}
	}
	return out, nil
}

// fixtureProvider is a canned search backend covering every kind, so the
// media and validation paths run without outbound calls.
type fixtureProvider struct {
	Results []domain.SearchResult
}

func (p *fixtureProvider) Name() string { return "fixture" }

func (p *fixtureProvider) Available(kind domain.SearchKind) bool { return true }

func (p *fixtureProvider) Search(ctx context.Context, query string, opts search.Options) ([]domain.SearchResult, error) {
	results := p.Results
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// startServer wires the full pipeline against the test containers and the
// fixture search provider.
func startServer(t *testing.T, pool *pgxpool.Pool, archive *storage.Archive, faker *fixtureProvider, port int) (string, func()) {
	embedder := bagOfWordsEmbedder{}
	store := vectorstore.NewPGStore(pool, embedder, embeddingDim)

	limiter := ratelimit.NewLimiter(ratelimit.DefaultLimits())
	chain := search.NewChain([]search.Provider{faker}, limiter, search.DefaultCacheTTL)

	ingestSvc := ingest.NewService(store, chunker.DefaultConfig(), archive)
	retriever := retrieval.NewOrchestrator(embedder, nil)
	finder := media.NewFinder(chain, 0, 0)
	validator := validation.NewOrchestrator(chain, 0)

	cfg := server.RouterConfig{
		APIToken:         testAPIToken,
		DocumentsHandler: handlers.NewDocumentsHandler(ingestSvc),
		RetrieveHandler:  handlers.NewRetrieveHandler(retriever, store),
		MediaHandler:     handlers.NewMediaHandler(finder),
		ValidateHandler:  handlers.NewValidateHandler(validator),
		LimitsHandler:    handlers.NewLimitsHandler(limiter),
	}

	router := server.NewRouter(cfg)
	addr := fmt.Sprintf(":%d", port)

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
