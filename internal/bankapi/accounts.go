package bankapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

const transferFailedMessage = "Transfer failed"

// Account is a single account owned by a user. Balances are server-owned;
// the client never caches or recomputes them.
type Account struct {
	ID      int `json:"id"`
	UserID  int `json:"user_id"`
	Balance int `json:"balance"`
}

// CreateAccountRequest is the outgoing payload for account creation.
type CreateAccountRequest struct {
	UserID int `json:"user_id"`
}

// DepositRequest is the outgoing payload for a deposit.
type DepositRequest struct {
	AccountID int `json:"account_id"`
	Amount    int `json:"amount"`
}

// TransferRequest is the outgoing payload for a transfer between accounts.
type TransferRequest struct {
	FromAccountID int `json:"from_account_id"`
	ToAccountID   int `json:"to_account_id"`
	Amount        int `json:"amount"`
}

// TransferResult reports the outcome of a transfer. Success is synthesized
// when the server answers with a success status but a body that is not JSON.
type TransferResult struct {
	Success bool `json:"success"`
}

// AccountsClient handles account operations.
type AccountsClient struct {
	client *Client
}

// List fetches all accounts owned by a user, in server order.
func (a *AccountsClient) List(ctx context.Context, userID int) ([]Account, error) {
	resp, err := a.client.request(ctx, http.MethodGet, fmt.Sprintf("/accounts/%d", userID), nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, requestError(resp, "Failed to fetch accounts")
	}
	var accounts []Account
	if err := resp.JSON(&accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Create opens a new account for a user.
func (a *AccountsClient) Create(ctx context.Context, req CreateAccountRequest) (*Account, error) {
	resp, err := a.client.request(ctx, http.MethodPost, "/accounts", req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, requestError(resp, "Failed to create account")
	}
	var account Account
	if err := resp.JSON(&account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Deposit adds funds to an account and returns the updated account.
func (a *AccountsClient) Deposit(ctx context.Context, req DepositRequest) (*Account, error) {
	resp, err := a.client.request(ctx, http.MethodPatch, "/accounts", req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, requestError(resp, "Failed to deposit")
	}
	var account Account
	if err := resp.JSON(&account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Transfer moves funds between accounts. The transfer endpoint's error
// contract differs from every other operation and is handled here in full:
// the body is read as raw text whatever the status, a failure status fails
// with the body text (or "Transfer failed" when empty), a success status
// with a non-JSON body still succeeds, and a transport fault is collapsed
// into the same *RequestError shape as a server-reported failure. Callers
// of Transfer observe exactly one error kind.
func (a *AccountsClient) Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	resp, err := a.client.request(ctx, http.MethodPost, "/accounts/transfer", req)
	if err != nil {
		return nil, normalizeTransfer(err)
	}

	if !resp.OK() {
		msg := resp.Text()
		if msg == "" {
			msg = transferFailedMessage
		}
		return nil, &RequestError{Status: resp.StatusCode, Message: msg}
	}

	if !gjson.ValidBytes(resp.Body) {
		return &TransferResult{Success: true}, nil
	}
	var result TransferResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return &TransferResult{Success: true}, nil
	}
	return &result, nil
}

// normalizeTransfer collapses a transport fault into the request-error
// shape. The collapsing is the documented contract of the transfer
// operation; it must not spread to the shared request helper.
func normalizeTransfer(err error) error {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return err
	}

	msg := ""
	var te *TransportError
	if errors.As(err, &te) && te.Err != nil {
		msg = te.Err.Error()
	} else if err != nil {
		msg = err.Error()
	}
	if strings.TrimSpace(msg) == "" {
		msg = transferFailedMessage
	}
	return &RequestError{Message: msg}
}
