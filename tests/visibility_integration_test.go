package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ============================================================================
// Test Configuration
// ============================================================================

var (
	baseURL   = getEnv("TEST_BASE_URL", "http://localhost:8080")
	jwtSecret = getEnv("TEST_JWT_SECRET", "dev-secret")

	// Unique subject suffix per run so reruns provision fresh accounts.
	runID = fmt.Sprintf("%d", time.Now().UnixNano())
)

// ============================================================================
// HTTP Client Helpers
// ============================================================================

type apiClient struct {
	client  *http.Client
	baseURL string
	token   string
}

func newClient() *apiClient {
	return &apiClient{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}
}

func (c *apiClient) withToken(token string) *apiClient {
	c.token = token
	return c
}

func (c *apiClient) do(method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.client.Do(req)
}

func (c *apiClient) get(path string) (*http.Response, error) {
	return c.do("GET", path, nil)
}

func (c *apiClient) post(path string, body interface{}) (*http.Response, error) {
	return c.do("POST", path, body)
}

func (c *apiClient) patch(path string, body interface{}) (*http.Response, error) {
	return c.do("PATCH", path, body)
}

func parseJSON(resp *http.Response, v interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(v)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ============================================================================
// Auth Helpers
// ============================================================================

// Auth is delegated to an external identity provider, so tests mint their
// own tokens with the shared HMAC secret. The server must run with
// JWT_SECRET matching TEST_JWT_SECRET.
func mintToken(t *testing.T, subject string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
	if err != nil {
		t.Fatalf("Sign test token: %v", err)
	}
	return token
}

// provision resolves a token's account via /me, creating it on first use.
func provision(t *testing.T, name string) (int64, *apiClient) {
	t.Helper()
	client := newClient().withToken(mintToken(t, "test|"+name+"-"+runID))

	resp, err := client.get("/me")
	if err != nil {
		t.Fatalf("Get /me: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Get /me failed with status %d: %s", resp.StatusCode, body)
	}

	var me struct {
		ID int64 `json:"id"`
	}
	if err := parseJSON(resp, &me); err != nil {
		t.Fatalf("Parse /me response: %v", err)
	}
	return me.ID, client
}

func requireServer(t *testing.T) {
	t.Helper()
	resp, err := newClient().get("/health")
	if err != nil {
		t.Skipf("Server not reachable at %s: %v", baseURL, err)
	}
	resp.Body.Close()
}

// ============================================================================
// TEST CASES
// ============================================================================

// TestProvisionAndClaimUsername covers first-login provisioning and the
// username claim flow.
func TestProvisionAndClaimUsername(t *testing.T) {
	requireServer(t)

	_, client := provision(t, "claimer")

	username := fmt.Sprintf("claimer_%s", runID[len(runID)-8:])
	resp, err := client.patch("/me", map[string]string{"username": username})
	if err != nil {
		t.Fatalf("Patch /me: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Claim username failed: %d - %s", resp.StatusCode, body)
	}

	var me struct {
		Username *string `json:"username"`
	}
	if err := parseJSON(resp, &me); err != nil {
		t.Fatalf("Parse response: %v", err)
	}
	if me.Username == nil || *me.Username != username {
		t.Errorf("Username = %v, want %s", me.Username, username)
	}

	// A second account cannot claim the same username.
	_, other := provision(t, "rival")
	resp, err = other.patch("/me", map[string]string{"username": username})
	if err != nil {
		t.Fatalf("Patch /me (rival): %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Duplicate claim: status = %d, want 409", resp.StatusCode)
	}
}

// TestPrivateSnippetVisibility checks that private snippets are invisible
// to strangers and indistinguishable from missing items.
func TestPrivateSnippetVisibility(t *testing.T) {
	requireServer(t)

	_, author := provision(t, "author")
	_, stranger := provision(t, "stranger")

	resp, err := author.post("/snippets", map[string]interface{}{
		"title":      "binary search",
		"code":       "func search(xs []int, x int) int { return 0 }",
		"language":   "go",
		"tags":       []string{"algorithms"},
		"visibility": "private",
	})
	if err != nil {
		t.Fatalf("Create snippet: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Create snippet failed: %d - %s", resp.StatusCode, body)
	}

	var snippet struct {
		ID int64 `json:"id"`
	}
	if err := parseJSON(resp, &snippet); err != nil {
		t.Fatalf("Parse snippet: %v", err)
	}

	path := fmt.Sprintf("/snippets/%d", snippet.ID)

	// Author sees it.
	resp, err = author.get(path)
	if err != nil {
		t.Fatalf("Get snippet as author: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Author read: status = %d, want 200", resp.StatusCode)
	}

	// Stranger gets a plain 404, not 403.
	resp, err = stranger.get(path)
	if err != nil {
		t.Fatalf("Get snippet as stranger: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Stranger read: status = %d, want 404", resp.StatusCode)
	}

	// Anonymous gets the same 404.
	resp, err = newClient().get(path)
	if err != nil {
		t.Fatalf("Get snippet anonymously: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Anonymous read: status = %d, want 404", resp.StatusCode)
	}
}

// TestBlockHidesPublicContent checks that a block hides even public
// content in both directions.
func TestBlockHidesPublicContent(t *testing.T) {
	requireServer(t)

	authorID, author := provision(t, "blocker")
	viewerID, viewer := provision(t, "blocked")

	resp, err := author.post("/snippets", map[string]interface{}{
		"title":      "hello",
		"code":       "fmt.Println(\"hello\")",
		"visibility": "public",
	})
	if err != nil {
		t.Fatalf("Create snippet: %v", err)
	}
	var snippet struct {
		ID int64 `json:"id"`
	}
	if err := parseJSON(resp, &snippet); err != nil {
		t.Fatalf("Parse snippet: %v", err)
	}

	path := fmt.Sprintf("/snippets/%d", snippet.ID)

	resp, err = viewer.get(path)
	if err != nil {
		t.Fatalf("Get snippet before block: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Before block: status = %d, want 200", resp.StatusCode)
	}

	resp, err = author.post(fmt.Sprintf("/users/%d/block", viewerID), nil)
	if err != nil {
		t.Fatalf("Block: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		t.Fatalf("Block: status = %d", resp.StatusCode)
	}

	// Blocked viewer can no longer see the public snippet.
	resp, err = viewer.get(path)
	if err != nil {
		t.Fatalf("Get snippet after block: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("After block: status = %d, want 404", resp.StatusCode)
	}

	// The blocked user's follow attempt reads as user-not-found.
	resp, err = viewer.post(fmt.Sprintf("/users/%d/follow", authorID), nil)
	if err != nil {
		t.Fatalf("Follow across block: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Follow across block: status = %d, want 404", resp.StatusCode)
	}
}

// TestFollowAndFollowerList covers the follow edge and follower listing.
func TestFollowAndFollowerList(t *testing.T) {
	requireServer(t)

	followerID, follower := provision(t, "follower")
	followeeID, _ := provision(t, "followee")

	resp, err := follower.post(fmt.Sprintf("/users/%d/follow", followeeID), nil)
	if err != nil {
		t.Fatalf("Follow: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		t.Fatalf("Follow: status = %d", resp.StatusCode)
	}

	// Duplicate follow conflicts.
	resp, err = follower.post(fmt.Sprintf("/users/%d/follow", followeeID), nil)
	if err != nil {
		t.Fatalf("Duplicate follow: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Duplicate follow: status = %d, want 409", resp.StatusCode)
	}

	resp, err = follower.get(fmt.Sprintf("/users/%d/followers", followeeID))
	if err != nil {
		t.Fatalf("List followers: %v", err)
	}
	var list struct {
		Users []struct {
			ID int64 `json:"id"`
		} `json:"users"`
	}
	if err := parseJSON(resp, &list); err != nil {
		t.Fatalf("Parse followers: %v", err)
	}

	found := false
	for _, u := range list.Users {
		if u.ID == followerID {
			found = true
		}
	}
	if !found {
		t.Errorf("Follower %d missing from follower list", followerID)
	}
}

// TestAnonymousRecommendations checks that recommendations degrade to empty
// lists for anonymous callers instead of erroring.
func TestAnonymousRecommendations(t *testing.T) {
	requireServer(t)

	resp, err := newClient().get("/recommendations")
	if err != nil {
		t.Fatalf("Get recommendations: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Recommendations: status = %d - %s", resp.StatusCode, body)
	}

	var recs struct {
		Snippets  []json.RawMessage `json:"snippets"`
		Documents []json.RawMessage `json:"documents"`
	}
	if err := parseJSON(resp, &recs); err != nil {
		t.Fatalf("Parse recommendations: %v", err)
	}
	if len(recs.Snippets) != 0 || len(recs.Documents) != 0 {
		t.Errorf("Anonymous recommendations not empty: %d snippets, %d documents",
			len(recs.Snippets), len(recs.Documents))
	}
}
