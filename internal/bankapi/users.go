package bankapi

import (
	"context"
	"fmt"
	"net/http"
)

// User is a banking service user. It doubles as the session payload cached
// by the session store.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// CreateUserRequest is the outgoing payload for user creation. It carries
// only the username: the gateway defines the wire shape, and any richer data
// a caller holds stops at this boundary.
type CreateUserRequest struct {
	Username string `json:"username"`
}

// UsersClient handles user and session operations.
type UsersClient struct {
	client *Client
	store  SessionStore
}

// Get fetches a single user by id.
func (u *UsersClient) Get(ctx context.Context, userID int) (*User, error) {
	resp, err := u.client.request(ctx, http.MethodGet, fmt.Sprintf("/users?user_id=%d", userID), nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, requestError(resp, "Failed to fetch user")
	}
	var user User
	if err := resp.JSON(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create registers a new user.
func (u *UsersClient) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	resp, err := u.client.request(ctx, http.MethodPost, "/users", req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, requestError(resp, "Failed to create user")
	}
	var user User
	if err := resp.JSON(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// List fetches all users.
func (u *UsersClient) List(ctx context.Context) ([]User, error) {
	resp, err := u.client.request(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, requestError(resp, "Failed to fetch users")
	}
	var users []User
	if err := resp.JSON(&users); err != nil {
		return nil, err
	}
	return users, nil
}

// Login authenticates by username and caches the returned user as the
// current session. A non-success status fails with the fixed "Login failed"
// message; the response body is not inspected.
func (u *UsersClient) Login(ctx context.Context, username string) (*User, error) {
	resp, err := u.client.request(ctx, http.MethodPost, "/users/login", map[string]string{"username": username})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &RequestError{Status: resp.StatusCode, Message: "Login failed"}
	}
	var user User
	if err := resp.JSON(&user); err != nil {
		return nil, err
	}
	if err := u.store.Set(&user); err != nil {
		return nil, fmt.Errorf("bankapi: persist session: %w", err)
	}
	return &user, nil
}

// Logout clears the cached session. It is local only; the server keeps no
// session state to invalidate.
func (u *UsersClient) Logout() error {
	return u.store.Clear()
}

// Current returns the cached session user, or nil when anonymous.
func (u *UsersClient) Current() *User {
	return u.store.Get()
}
