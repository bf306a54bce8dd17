// Package client is the chat-session side of the system: it holds the
// authenticated token, the in-memory turn list shown to the user, and the
// loading/error flags, and talks to the backend over its JSON contract.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Message is one rendered chat line.
type Message struct {
	Sender string // "user" or "agent"
	Text   string
}

type turnRow struct {
	UserMessage   string    `json:"user_message"`
	AgentResponse string    `json:"agent_response"`
	CreatedAt     time.Time `json:"created_at"`
}

// ChatSession holds client-side conversation state. It is not safe for
// concurrent use; callers issue one request at a time, which the Loading
// flag enforces for well-behaved front-ends.
type ChatSession struct {
	http    *http.Client
	baseURL string

	token     string
	messages  []Message
	loading   bool
	lastError string
}

func New(baseURL string) *ChatSession {
	return &ChatSession{
		http:    &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SignIn installs an access token issued by the identity provider. The
// federated login flow itself happens outside this client.
func (s *ChatSession) SignIn(token string) {
	s.token = token
	s.lastError = ""
}

// SignOut clears the session and the displayed messages.
func (s *ChatSession) SignOut() {
	s.token = ""
	s.messages = nil
	s.lastError = ""
}

func (s *ChatSession) SignedIn() bool {
	return s.token != ""
}

// Messages returns the display list, oldest first.
func (s *ChatSession) Messages() []Message {
	return s.messages
}

func (s *ChatSession) Loading() bool {
	return s.loading
}

// LastError returns the human-readable error from the most recent failed
// operation, or "" after a success.
func (s *ChatSession) LastError() string {
	return s.lastError
}

// LoadHistory replaces the display list with the caller's full persisted
// history. The server returns turns newest first; display order is oldest
// first, so the list is rebuilt in reverse.
func (s *ChatSession) LoadHistory(ctx context.Context) error {
	if !s.SignedIn() {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/conversations", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.http.Do(req)
	if err != nil {
		s.lastError = err.Error()
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("history load failed: %s", serverError(resp.Body))
		s.lastError = err.Error()
		return err
	}

	var turns []turnRow
	if err := json.NewDecoder(resp.Body).Decode(&turns); err != nil {
		s.lastError = err.Error()
		return err
	}

	messages := make([]Message, 0, 2*len(turns))
	for i := len(turns) - 1; i >= 0; i-- {
		messages = append(messages,
			Message{Sender: "user", Text: turns[i].UserMessage},
			Message{Sender: "agent", Text: turns[i].AgentResponse},
		)
	}
	s.messages = messages
	s.lastError = ""
	return nil
}

// SendMessage submits one chat turn. Empty input (after trimming) or a
// missing session is a no-op. On success the display list is refreshed by a
// full history reload; there is no optimistic append. A failed send is
// terminal: the error is recorded and the user must resend manually.
func (s *ChatSession) SendMessage(ctx context.Context, input string) error {
	text := strings.TrimSpace(input)
	if text == "" || !s.SignedIn() || s.loading {
		return nil
	}

	s.loading = true
	defer func() { s.loading = false }()

	body, err := json.Marshal(map[string]string{"user_message": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/process_message", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.http.Do(req)
	if err != nil {
		s.lastError = err.Error()
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("send failed: %s", serverError(resp.Body))
		s.lastError = err.Error()
		return err
	}

	s.lastError = ""
	return s.LoadHistory(ctx)
}

// serverError extracts the {"error": ...} body the server sends on every
// failure path, falling back to the raw body.
func serverError(r io.Reader) string {
	raw, _ := io.ReadAll(r)
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	if len(raw) == 0 {
		return "unknown server error"
	}
	return string(raw)
}
