package bankapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

// newUsersServer serves the happy-path user endpoints the way the dt
// service does.
func newUsersServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/users/login", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"id": 1, "username": "alice"}`))
	}).Methods(http.MethodPost)
	r.HandleFunc("/users", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("user_id") == "7" {
			w.Write([]byte(`{"id": 7, "username": "grace"}`))
			return
		}
		w.Write([]byte(`[{"id": 1, "username": "alice"}, {"id": 2, "username": "bob"}]`))
	}).Methods(http.MethodGet)
	r.HandleFunc("/users", func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		if string(body) != `{"username":"bob"}` {
			t.Errorf("create user body = %s, want {\"username\":\"bob\"}", body)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 2, "username": "bob"}`))
	}).Methods(http.MethodPost)
	return httptest.NewServer(r)
}

func TestLoginPersistsSession(t *testing.T) {
	server := newUsersServer(t)
	defer server.Close()

	store := &fakeStore{}
	c := newTestClient(t, server.URL, store)

	user, err := c.Users().Login(context.Background(), "alice")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != 1 || user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
	cached := store.Get()
	if cached == nil || *cached != *user {
		t.Fatalf("session not persisted: got %+v, want %+v", cached, user)
	}
}

func TestLoginFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "user not found", http.StatusUnauthorized)
	}))
	defer server.Close()

	store := &fakeStore{}
	c := newTestClient(t, server.URL, store)

	_, err := c.Users().Login(context.Background(), "nobody")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	// The body is never inspected: the message is fixed.
	if err.Error() != "Login failed" {
		t.Fatalf("error = %q, want %q", err.Error(), "Login failed")
	}
	if !IsRequest(err) {
		t.Fatalf("expected RequestError, got %T", err)
	}
	if store.Get() != nil {
		t.Error("failed login must not cache a session")
	}
}

func TestLoginStoreWriteFailure(t *testing.T) {
	server := newUsersServer(t)
	defer server.Close()

	store := &fakeStore{setErr: io.ErrClosedPipe}
	c := newTestClient(t, server.URL, store)

	if _, err := c.Users().Login(context.Background(), "alice"); err == nil {
		t.Fatal("expected persist error, got nil")
	}
}

func TestCreateUserSendsOnlyUsername(t *testing.T) {
	server := newUsersServer(t)
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	user, err := c.Users().Create(context.Background(), CreateUserRequest{Username: "bob"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID != 2 || user.Username != "bob" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestGetUser(t *testing.T) {
	server := newUsersServer(t)
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	user, err := c.Users().Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.ID != 7 || user.Username != "grace" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestListUsers(t *testing.T) {
	server := newUsersServer(t)
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	users, err := c.Users().List(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 || users[0].Username != "alice" || users[1].Username != "bob" {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestListUsersFallbackMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	_, err := c.Users().List(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "Failed to fetch users" {
		t.Fatalf("error = %q, want %q", err.Error(), "Failed to fetch users")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	store := &fakeStore{user: &User{ID: 1, Username: "alice"}}
	c := newTestClient(t, "http://localhost:0", store)

	if err := c.Users().Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if store.Get() != nil {
		t.Error("session still cached after logout")
	}
	// Logout is idempotent and local only: no server is running here.
	if err := c.Users().Logout(); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestCurrent(t *testing.T) {
	store := &fakeStore{}
	c := newTestClient(t, "http://localhost:0", store)

	if got := c.Users().Current(); got != nil {
		t.Fatalf("expected nil session, got %+v", got)
	}
	store.user = &User{ID: 3, Username: "carol"}
	got := c.Users().Current()
	if got == nil || got.Username != "carol" {
		t.Fatalf("unexpected current user: %+v", got)
	}
}
