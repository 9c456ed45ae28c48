package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/divvyup/divvy/internal/auth"
	"github.com/divvyup/divvy/internal/service"
	"github.com/divvyup/divvy/internal/storage/sqlite"
)

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenManager("test-secret-key-32-bytes-long!!!", 15*time.Minute, 24*time.Hour, store)

	h := New(
		service.NewUserService(store, logger),
		service.NewGroupService(store, logger),
		service.NewExpenseService(store, logger),
		tokens,
	)
	return h.Routes(nil)
}

func doJSON(t *testing.T, api http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
}

type account struct {
	userID  string
	access  string
	refresh string
}

// register signs the user up and logs them in.
func register(t *testing.T, api http.Handler, email string) account {
	t.Helper()

	rec := doJSON(t, api, http.MethodPost, "/signup", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}

	rec = doJSON(t, api, http.MethodPost, "/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}

	var resp struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
		User    struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, rec, &resp)
	return account{userID: resp.User.ID, access: resp.Access, refresh: resp.Refresh}
}

func createGroupFor(t *testing.T, api http.Handler, acct account, name string) string {
	t.Helper()

	rec := doJSON(t, api, http.MethodPost, "/groups", acct.access, map[string]string{"name": name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group: status %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID          string `json:"id"`
		MemberCount int    `json:"member_count"`
	}
	decodeBody(t, rec, &resp)
	if resp.MemberCount != 1 {
		t.Errorf("member_count = %d, want 1", resp.MemberCount)
	}
	return resp.ID
}

func TestSignupEndpoint(t *testing.T) {
	api := newTestAPI(t)

	t.Run("success", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/signup", "", map[string]string{
			"email":    "alice@example.com",
			"password": "password123",
			"username": "alice",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
		}

		var resp map[string]any
		decodeBody(t, rec, &resp)
		if resp["email"] != "alice@example.com" {
			t.Errorf("email = %v", resp["email"])
		}
		if _, leaked := resp["password_hash"]; leaked {
			t.Error("password hash in response")
		}
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/signup", "", map[string]string{
			"email":    "ALICE@example.com",
			"password": "password123",
		})
		if rec.Code != http.StatusConflict {
			t.Errorf("status %d, want 409", rec.Code)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/signup", "", map[string]string{
			"email":    "not-an-email",
			"password": "password123",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/signup", "", map[string]string{
			"email":    "bob@example.com",
			"password": "short",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})
}

func TestLoginEndpoint(t *testing.T) {
	api := newTestAPI(t)
	register(t, api, "alice@example.com")

	t.Run("wrong password", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrongpass",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status %d, want 401", rec.Code)
		}
	})

	t.Run("unknown email looks the same", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "password123",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status %d, want 401", rec.Code)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/login", "", map[string]string{"email": "alice@example.com"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})
}

func TestAuthRequired(t *testing.T) {
	api := newTestAPI(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/groups"},
		{http.MethodGet, "/profile"},
		{http.MethodPost, "/logout"},
	}
	for _, p := range protected {
		rec := doJSON(t, api, p.method, p.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status %d, want 401", p.method, p.path, rec.Code)
		}

		rec = doJSON(t, api, p.method, p.path, "garbage-token", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s with bad token: status %d, want 401", p.method, p.path, rec.Code)
		}
	}
}

func TestLogoutEndpoint(t *testing.T) {
	api := newTestAPI(t)
	acct := register(t, api, "alice@example.com")

	rec := doJSON(t, api, http.MethodPost, "/logout", acct.access, map[string]string{"refresh": acct.refresh})
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: status %d, body %s", rec.Code, rec.Body.String())
	}

	// the refresh token is now blacklisted
	rec = doJSON(t, api, http.MethodPost, "/logout", acct.access, map[string]string{"refresh": acct.refresh})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("second logout: status %d, want 400", rec.Code)
	}

	rec = doJSON(t, api, http.MethodPost, "/logout", acct.access, map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("logout without refresh: status %d, want 400", rec.Code)
	}

	// the access token keeps working until it expires
	rec = doJSON(t, api, http.MethodGet, "/profile", acct.access, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("profile after logout: status %d, want 200", rec.Code)
	}
}

// failingRevocations delegates reads but fails every revocation write,
// standing in for a storage fault.
type failingRevocations struct {
	auth.RevocationStore
}

func (failingRevocations) RevokeToken(context.Context, string) error {
	return errors.New("disk I/O error")
}

func TestLogoutBlacklistFault(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenManager("test-secret-key-32-bytes-long!!!", 15*time.Minute, 24*time.Hour, failingRevocations{store})

	h := New(
		service.NewUserService(store, logger),
		service.NewGroupService(store, logger),
		service.NewExpenseService(store, logger),
		tokens,
	)
	api := h.Routes(nil)

	acct := register(t, api, "alice@example.com")

	// a blacklist write fault is a 500, not a bad request
	rec := doJSON(t, api, http.MethodPost, "/logout", acct.access, map[string]string{"refresh": acct.refresh})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status %d, want 500, body %s", rec.Code, rec.Body.String())
	}

	// a malformed refresh token is still the caller's fault
	rec = doJSON(t, api, http.MethodPost, "/logout", acct.access, map[string]string{"refresh": "not-a-jwt"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400, body %s", rec.Code, rec.Body.String())
	}
}

func TestProfileEndpoints(t *testing.T) {
	api := newTestAPI(t)
	acct := register(t, api, "alice@example.com")

	t.Run("get", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodGet, "/profile", acct.access, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
		}

		var resp map[string]any
		decodeBody(t, rec, &resp)
		if resp["id"] != acct.userID {
			t.Errorf("id = %v, want %s", resp["id"], acct.userID)
		}
	})

	t.Run("update username", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPut, "/profile", acct.access, map[string]string{"username": "alice"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
		}

		var resp map[string]any
		decodeBody(t, rec, &resp)
		if resp["username"] != "alice" {
			t.Errorf("username = %v", resp["username"])
		}
		// email untouched
		if resp["email"] != "alice@example.com" {
			t.Errorf("email = %v", resp["email"])
		}
	})

	t.Run("patch works like put", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPatch, "/profile", acct.access, map[string]string{"email": "alice2@example.com"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("change password", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/profile/change-password", acct.access, map[string]string{
			"old_password": "password123",
			"new_password": "newpassword",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
		}

		rec = doJSON(t, api, http.MethodPost, "/login", "", map[string]string{
			"email":    "alice2@example.com",
			"password": "newpassword",
		})
		if rec.Code != http.StatusOK {
			t.Errorf("login with new password: status %d", rec.Code)
		}
	})

	t.Run("change password with wrong old password", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/profile/change-password", acct.access, map[string]string{
			"old_password": "wrongpass",
			"new_password": "anotherpassword",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status %d, want 401", rec.Code)
		}
	})
}

func TestGroupEndpoints(t *testing.T) {
	api := newTestAPI(t)
	creator := register(t, api, "creator@example.com")
	member := register(t, api, "member@example.com")
	outsider := register(t, api, "outsider@example.com")

	groupID := createGroupFor(t, api, creator, "Road Trip")

	t.Run("empty name", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/groups", creator.access, map[string]string{"name": "   "})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})

	t.Run("add member", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/groups/"+groupID+"/members", creator.access, map[string]string{"user_id": member.userID})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("add member twice", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/groups/"+groupID+"/members", creator.access, map[string]string{"user_id": member.userID})
		if rec.Code != http.StatusConflict {
			t.Errorf("status %d, want 409", rec.Code)
		}
	})

	t.Run("add unknown user", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/groups/"+groupID+"/members", creator.access, map[string]string{"user_id": "nonexistent"})
		if rec.Code != http.StatusNotFound {
			t.Errorf("status %d, want 404", rec.Code)
		}
	})

	t.Run("list members in join order", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodGet, "/groups/"+groupID+"/members", creator.access, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
		}

		var members []map[string]any
		decodeBody(t, rec, &members)
		if len(members) != 2 {
			t.Fatalf("expected 2 members, got %d", len(members))
		}
		if members[0]["id"] != creator.userID {
			t.Errorf("first member = %v, want the creator", members[0]["id"])
		}
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodGet, "/groups/"+groupID, outsider.access, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status %d, want 403", rec.Code)
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodGet, "/groups/nonexistent", creator.access, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status %d, want 404", rec.Code)
		}
	})

	t.Run("list groups only shows memberships", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodGet, "/groups", outsider.access, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
		}
		var groups []map[string]any
		decodeBody(t, rec, &groups)
		if len(groups) != 0 {
			t.Errorf("outsider sees %d groups, want 0", len(groups))
		}
	})

	t.Run("non-creator may not delete", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodDelete, "/groups/"+groupID, member.access, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status %d, want 403", rec.Code)
		}
	})

	t.Run("creator deletes", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodDelete, "/groups/"+groupID, creator.access, nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status %d, want 204", rec.Code)
		}

		rec = doJSON(t, api, http.MethodGet, "/groups/"+groupID, creator.access, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status after delete %d, want 404", rec.Code)
		}
	})
}

func TestExpenseEndpoints(t *testing.T) {
	api := newTestAPI(t)
	alice := register(t, api, "alice@example.com")
	bob := register(t, api, "bob@example.com")
	carol := register(t, api, "carol@example.com")
	outsider := register(t, api, "outsider@example.com")

	groupID := createGroupFor(t, api, alice, "Trip")
	for _, a := range []account{bob, carol} {
		rec := doJSON(t, api, http.MethodPost, "/groups/"+groupID+"/members", alice.access, map[string]string{"user_id": a.userID})
		if rec.Code != http.StatusCreated {
			t.Fatalf("add member: status %d, body %s", rec.Code, rec.Body.String())
		}
	}

	t.Run("create expense", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/groups/"+groupID+"/expenses", alice.access, map[string]string{
			"amount":      "100.00",
			"paid_by":     alice.userID,
			"description": "hotel",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
		}

		var resp map[string]any
		decodeBody(t, rec, &resp)
		if resp["amount"] != "100.00" {
			t.Errorf("amount = %v, want the string \"100.00\"", resp["amount"])
		}
	})

	t.Run("invalid amount", func(t *testing.T) {
		for _, amount := range []string{"0", "-5.00", "1.005"} {
			rec := doJSON(t, api, http.MethodPost, "/groups/"+groupID+"/expenses", alice.access, map[string]string{
				"amount":  amount,
				"paid_by": alice.userID,
			})
			if rec.Code != http.StatusBadRequest {
				t.Errorf("amount %s: status %d, want 400", amount, rec.Code)
			}
		}
	})

	t.Run("payer outside the group", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/groups/"+groupID+"/expenses", alice.access, map[string]string{
			"amount":  "10.00",
			"paid_by": outsider.userID,
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})

	t.Run("non-member may not record", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/groups/"+groupID+"/expenses", outsider.access, map[string]string{
			"amount":  "10.00",
			"paid_by": outsider.userID,
		})
		if rec.Code != http.StatusForbidden {
			t.Errorf("status %d, want 403", rec.Code)
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/groups/"+groupID+"/expenses", bob.access, map[string]string{
			"amount":  "50.00",
			"paid_by": bob.userID,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
		}

		rec = doJSON(t, api, http.MethodGet, "/groups/"+groupID+"/expenses", carol.access, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
		}

		var expenses []map[string]any
		decodeBody(t, rec, &expenses)
		if len(expenses) != 2 {
			t.Fatalf("expected 2 expenses, got %d", len(expenses))
		}
		if expenses[0]["amount"] != "50.00" {
			t.Errorf("first expense amount = %v, want the latest", expenses[0]["amount"])
		}
	})

	t.Run("balance summary", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodGet, "/groups/"+groupID+"/expenses/balance", alice.access, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
		}

		var balances []struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
			TotalPaid  string `json:"total_paid"`
			TotalOwed  string `json:"total_owed"`
			NetBalance string `json:"net_balance"`
		}
		decodeBody(t, rec, &balances)
		if len(balances) != 3 {
			t.Fatalf("expected 3 balances, got %d", len(balances))
		}

		byUser := make(map[string]struct{ paid, owed, net string })
		for _, b := range balances {
			byUser[b.User.ID] = struct{ paid, owed, net string }{b.TotalPaid, b.TotalOwed, b.NetBalance}
		}

		if got := byUser[alice.userID]; got.paid != "100.00" || got.owed != "50.00" || got.net != "50.00" {
			t.Errorf("alice balance = %+v", got)
		}
		if got := byUser[bob.userID]; got.paid != "50.00" || got.net != "0.00" {
			t.Errorf("bob balance = %+v", got)
		}
		if got := byUser[carol.userID]; got.paid != "0.00" || got.net != "-50.00" {
			t.Errorf("carol balance = %+v", got)
		}
	})
}

func TestHealthEndpoint(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["status"] != "ok" {
		t.Errorf("status = %q", resp["status"])
	}
}
