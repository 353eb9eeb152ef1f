package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"charityhub/internal/adapter/memory"
	"charityhub/internal/domain"
	"charityhub/internal/http/handlers"
	"charityhub/internal/infra"
	"charityhub/internal/rating"
	"charityhub/internal/service"
)

const testSecret = "router-test-secret"

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	logger := zerolog.Nop()
	store := memory.New()

	engine := rating.NewEngine(store, rating.DefaultThresholds, logger)
	userSvc := service.NewUserService(store, testSecret, time.Hour, logger)
	projectSvc := service.NewProjectService(store, store, store, nil, logger)
	issueSvc := service.NewIssueService(store, store, store, engine, 50, logger)
	donationSvc := service.NewDonationService(store, store, store, store, logger)
	notificationSvc := service.NewNotificationService(store, logger)

	app := handlers.NewApp(userSvc, projectSvc, issueSvc, donationSvc, notificationSvc, engine, logger)
	cfg := &infra.Config{
		JWTSecret:       testSecret,
		CORSOrigins:     []string{"*"},
		RateLimitPerMin: 1000,
	}
	srv := httptest.NewServer(NewRouter(app, cfg))
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func registerAndLogin(t *testing.T, srv *httptest.Server, name, email string) (token, userID string) {
	t.Helper()
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]any{
		"name": name, "email": email, "password": "password123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d", email, resp.StatusCode)
	}
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]any{
		"email": email, "password": "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", email, resp.StatusCode)
	}
	token, _ = body["token"].(string)
	user, _ := body["user"].(map[string]any)
	userID, _ = user["id"].(string)
	if token == "" || userID == "" {
		t.Fatalf("login %s: missing token or user id in %v", email, body)
	}
	return token, userID
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestAuthRequired(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{"/api/users/me", "/api/projects", "/api/notifications"} {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("GET %s without token: status = %d, want 401", path, resp.StatusCode)
		}
	}
	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/users/me", "not-a-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d, want 401", resp.StatusCode)
	}
}

func TestRegisterLoginMe(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := registerAndLogin(t, srv, "jane doe", "jane@example.com")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/users/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: status %d", resp.StatusCode)
	}
	if body["name"] != "Jane Doe" {
		t.Fatalf("name = %v, want title-cased Jane Doe", body["name"])
	}
	if body["tier"] != "bronze" {
		t.Fatalf("tier = %v, want bronze", body["tier"])
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]any{
		"name": "Jane Again", "email": "jane@example.com", "password": "password123",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register: status = %d, want 409", resp.StatusCode)
	}
}

func TestProjectLifecycleOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)
	ownerToken, _ := registerAndLogin(t, srv, "Owner", "owner@example.com")
	strangerToken, strangerID := registerAndLogin(t, srv, "Stranger", "stranger@example.com")

	resp, project := doJSON(t, http.MethodPost, srv.URL+"/api/projects", ownerToken, map[string]any{
		"name": "Food Drive", "description": "weekly meals", "goal_amount": 5000,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create project: status %d", resp.StatusCode)
	}
	projectID, _ := project["id"].(string)

	// A non-member sees 403 for an existing project, 404 for an absent one.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/projects/"+projectID, strangerToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("stranger read: status = %d, want 403", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/projects/no-such-id", strangerToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("absent read: status = %d, want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/projects/"+projectID+"/members", ownerToken, map[string]any{
		"user_id": strangerID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add member: status %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/projects/"+projectID, strangerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("member read: status = %d, want 200", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPatch, srv.URL+"/api/projects/"+projectID, strangerToken, map[string]any{
		"name": "Hijacked",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-owner update: status = %d, want 403", resp.StatusCode)
	}
}

func TestDonationLedgerIsPublic(t *testing.T) {
	srv, _ := newTestServer(t)
	ownerToken, _ := registerAndLogin(t, srv, "Owner", "owner@example.com")
	donorToken, _ := registerAndLogin(t, srv, "Big Donor", "donor@example.com")

	_, project := doJSON(t, http.MethodPost, srv.URL+"/api/projects", ownerToken, map[string]any{
		"name": "Food Drive", "goal_amount": 1000,
	})
	projectID, _ := project["id"].(string)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/projects/"+projectID+"/donations", donorToken, map[string]any{
		"amount": 500,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("donate: status %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/projects/"+projectID+"/donations", donorToken, map[string]any{
		"amount": 300, "anonymous": true,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("anonymous donate: status %d", resp.StatusCode)
	}

	// No token at all: the transparency feed is public.
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/projects/"+projectID+"/donations", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("public ledger: status %d", resp.StatusCode)
	}
	if got := body["total"].(float64); got != 800 {
		t.Fatalf("total = %v, want 800", got)
	}
	items := body["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("ledger entries = %d, want 2", len(items))
	}
	newest := items[0].(map[string]any)
	if newest["donor"] != "[Anonymous]" {
		t.Fatalf("newest donor = %v, want masked", newest["donor"])
	}
	if newest["amount"].(float64) != 300 {
		t.Fatalf("newest amount = %v, want 300", newest["amount"])
	}

	// Unauthenticated donations are rejected.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/projects/"+projectID+"/donations", "", map[string]any{
		"amount": 100,
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous POST: status = %d, want 401", resp.StatusCode)
	}
}

func TestIssueCloseAwardsExperience(t *testing.T) {
	srv, _ := newTestServer(t)
	ownerToken, ownerID := registerAndLogin(t, srv, "Owner", "owner@example.com")

	_, project := doJSON(t, http.MethodPost, srv.URL+"/api/projects", ownerToken, map[string]any{
		"name": "Food Drive",
	})
	projectID, _ := project["id"].(string)

	resp, issue := doJSON(t, http.MethodPost, srv.URL+"/api/issues", ownerToken, map[string]any{
		"project_id": projectID, "title": "Find a van", "priority": "high",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create issue: status %d", resp.StatusCode)
	}
	issueID, _ := issue["id"].(string)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/issues/"+issueID+"/assign", ownerToken, map[string]any{
		"volunteer_id": ownerID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("assign: status %d", resp.StatusCode)
	}
	for i := 0; i < 2; i++ {
		resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/issues/"+issueID+"/close", ownerToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("close %d: status %d", i, resp.StatusCode)
		}
	}

	// Double close credits only once.
	resp, me := doJSON(t, http.MethodGet, srv.URL+"/api/users/me", ownerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: status %d", resp.StatusCode)
	}
	if xp := me["experience"].(float64); xp != 50 {
		t.Fatalf("experience = %v, want 50", xp)
	}
}

func TestAdminVerifyAndDeactivate(t *testing.T) {
	srv, store := newTestServer(t)
	_, adminID := registerAndLogin(t, srv, "Admin", "admin@example.com")
	ownerToken, ownerID := registerAndLogin(t, srv, "Owner", "owner@example.com")

	admin, err := store.GetUserByID(context.Background(), adminID)
	if err != nil {
		t.Fatalf("load admin: %v", err)
	}
	admin.Role = domain.UserRoleAdmin
	if err := store.UpdateUser(context.Background(), admin); err != nil {
		t.Fatalf("promote admin: %v", err)
	}
	// Re-login so the token carries the admin role.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]any{
		"email": "admin@example.com", "password": "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login: status %d", resp.StatusCode)
	}
	adminToken, _ := body["token"].(string)

	_, project := doJSON(t, http.MethodPost, srv.URL+"/api/projects", ownerToken, map[string]any{
		"name": "Food Drive",
	})
	projectID, _ := project["id"].(string)

	resp, verified := doJSON(t, http.MethodPost, srv.URL+"/api/admin/projects/"+projectID+"/verify", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify: status %d", resp.StatusCode)
	}
	if verified["verified"] != true {
		t.Fatalf("verified = %v, want true", verified["verified"])
	}

	resp, deactivated := doJSON(t, http.MethodPost, srv.URL+"/api/admin/users/"+ownerID+"/deactivate", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("deactivate: status %d", resp.StatusCode)
	}
	if deactivated["active"] != false {
		t.Fatalf("active = %v, want false", deactivated["active"])
	}

	// Deactivation blocks login.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]any{
		"email": "owner@example.com", "password": "password123",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("deactivated login: status = %d, want 401", resp.StatusCode)
	}
}

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	srv, _ := newTestServer(t)
	memberToken, memberID := registerAndLogin(t, srv, "Member", "member@example.com")

	for _, probe := range []struct {
		method, path string
	}{
		{http.MethodGet, "/api/admin/users"},
		{http.MethodGet, "/api/admin/stats"},
		{http.MethodPost, fmt.Sprintf("/api/admin/users/%s/deactivate", memberID)},
	} {
		resp, _ := doJSON(t, probe.method, srv.URL+probe.path, memberToken, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("%s %s as member: status = %d, want 403", probe.method, probe.path, resp.StatusCode)
		}
	}
}
