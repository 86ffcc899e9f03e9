package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Bre77/wip/internal/errs"
)

const DefaultGraphQLEndpoint = "https://api.github.com/graphql"

const userAgent = "WIP-Tracker"

// GraphQLClient issues single-document GraphQL calls against the GitHub v4
// API. Any error payload is surfaced as a plain error; callers decide how
// to degrade.
type GraphQLClient struct {
	httpClient *http.Client
	endpoint   string
}

func NewGraphQLClient(endpoint string) *GraphQLClient {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = DefaultGraphQLEndpoint
	}

	return &GraphQLClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoint:   trimmed,
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Query posts a query document with variables and decodes the data payload
// into out.
func (c *GraphQLClient) Query(ctx context.Context, token string, query string, variables map[string]any, out any) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("token is required")
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return errs.Wrap(err, "marshal graphql request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errs.Wrap(err, "build graphql request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.Wrap(err, "execute graphql request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("graphql request returned status %d", resp.StatusCode)
	}

	var envelope graphQLEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return errs.Wrap(err, "decode graphql response")
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("graphql errors: %s", strings.Join(messages, "; "))
	}

	if out == nil || envelope.Data == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return errs.Wrap(err, "unmarshal graphql data")
	}
	return nil
}
