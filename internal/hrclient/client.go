// Package hrclient talks to the ZenHR API with client-credentials OAuth2.
package hrclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const approvedStatus = "approved"

// Config holds the credentials and endpoints of one ZenHR branch.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	BaseURL      string
	BranchID     string
	Timeout      time.Duration
}

// Client fetches time-off transactions. Tokens are cached and refreshed by the
// underlying oauth2 transport.
type Client struct {
	http    *http.Client
	baseURL string
	branch  string
}

// New builds a Client. ctx only carries an optional *http.Client for token
// requests (oauth2.HTTPClient) and is not used to cancel API calls.
func New(ctx context.Context, cfg Config) *Client {
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	httpClient := cc.Client(ctx)
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}

	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		branch:  cfg.BranchID,
	}
}

// ID is an identifier the API sends either as a number or as a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		s = ""
	}
	*id = ID(s)
	return nil
}

// Employee is the employee reference embedded in a transaction.
type Employee struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	En   string `json:"en"`
}

// DisplayName returns the best available name for the employee.
func (e Employee) DisplayName() string {
	switch {
	case e.Name != "":
		return e.Name
	case e.En != "":
		return e.En
	}
	return "Employee " + string(e.ID)
}

// Transaction is one time-off transaction. Raw keeps the full payload as
// received so callers can store it untouched.
type Transaction struct {
	ID       ID              `json:"id"`
	Status   string          `json:"status"`
	Employee Employee        `json:"employee"`
	Raw      json.RawMessage `json:"-"`
}

type pageResponse struct {
	Data []json.RawMessage `json:"data"`
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("zenhr: unexpected status %d: %s", e.StatusCode, e.Body)
}

// FetchApprovedLeave returns one page of approved time-off transactions.
func (c *Client) FetchApprovedLeave(ctx context.Context, page, limit int) ([]Transaction, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	q.Add("filter[status][]", approvedStatus)

	endpoint := fmt.Sprintf("%s/api/v3/branches/%s/timeoff_transactions?%s",
		c.baseURL, url.PathEscape(c.branch), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("zenhr: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zenhr: request page %d: %w", page, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("zenhr: read page %d: %w", page, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed pageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("zenhr: decode page %d: %w", page, err)
	}

	txs := make([]Transaction, 0, len(parsed.Data))
	for _, raw := range parsed.Data {
		var tx Transaction
		if err := json.Unmarshal(raw, &tx); err != nil {
			return nil, fmt.Errorf("zenhr: decode transaction: %w", err)
		}
		tx.Raw = raw
		txs = append(txs, tx)
	}
	return txs, nil
}
