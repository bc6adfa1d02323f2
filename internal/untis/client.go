package untis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

const jsonrpcPath = "/WebUntis/jsonrpc.do"

// ErrNotLoggedIn is returned by calls made before Login
var ErrNotLoggedIn = errors.New("not logged in to webuntis")

// Client handles JSON-RPC requests to a WebUntis server
type Client struct {
	httpClient *http.Client
	endpoint   string
	clientName string
	sessionID  string
	nextID     atomic.Int64
}

// NewClient creates a client for the given server (host name or base URL) and school
func NewClient(server, school, clientName string) *Client {
	base := server
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	endpoint := strings.TrimRight(base, "/") + jsonrpcPath + "?school=" + url.QueryEscape(school)

	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   endpoint,
		clientName: clientName,
	}
}

// Login authenticates and keeps the session for subsequent calls
func (c *Client) Login(ctx context.Context, username, password string) error {
	var result authResult
	params := authParams{User: username, Password: password, Client: c.clientName}
	if err := c.call(ctx, "authenticate", params, &result); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if result.SessionID == "" {
		return fmt.Errorf("authentication failed: no session returned")
	}
	c.sessionID = result.SessionID
	return nil
}

// Logout ends the session
func (c *Client) Logout(ctx context.Context) error {
	if c.sessionID == "" {
		return nil
	}
	err := c.call(ctx, "logout", struct{}{}, nil)
	c.sessionID = ""
	return err
}

// Subjects lists all subjects of the school
func (c *Client) Subjects(ctx context.Context) ([]Subject, error) {
	var subjects []Subject
	if err := c.authedCall(ctx, "getSubjects", struct{}{}, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// Klassen lists the class groups of the current school year
func (c *Client) Klassen(ctx context.Context) ([]Klasse, error) {
	var klassen []Klasse
	if err := c.authedCall(ctx, "getKlassen", struct{}{}, &klassen); err != nil {
		return nil, err
	}
	return klassen, nil
}

// Timetable returns the periods of a subject between two dates (inclusive)
func (c *Client) Timetable(ctx context.Context, subjectID int, from, to time.Time) ([]Period, error) {
	params := timetableParams{
		ID:        subjectID,
		Type:      elementTypeSubject,
		StartDate: dateNumber(from),
		EndDate:   dateNumber(to),
	}
	var periods []Period
	if err := c.authedCall(ctx, "getTimetable", params, &periods); err != nil {
		return nil, err
	}
	return periods, nil
}

func (c *Client) authedCall(ctx context.Context, method string, params, result interface{}) error {
	if c.sessionID == "" {
		return ErrNotLoggedIn
	}
	return c.call(ctx, method, params, result)
}

// call performs one JSON-RPC request and decodes its result into result (if non-nil)
func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	body, err := json.Marshal(rpcRequest{
		ID:      strconv.FormatInt(c.nextID.Add(1), 10),
		Method:  method,
		Params:  params,
		JSONRPC: "2.0",
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.clientName)
	if c.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "JSESSIONID", Value: c.sessionID})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, method)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if result == nil || len(rpcResp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

// dateNumber formats a date as the yyyymmdd integer WebUntis expects
func dateNumber(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
