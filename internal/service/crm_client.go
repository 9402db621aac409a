package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"descontamina/internal/model"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
)

// CRM receives the lead of every submission
type CRM interface {
	UpsertDeal(ctx context.Context, s *model.Submission) (bool, error)
}

// PipedriveClient wraps the Pipedrive v1 API calls used for lead capture
type PipedriveClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewPipedriveClient creates a client for a company domain ("acme" or
// "acme.pipedrive.com"). Both values empty leaves the client unconfigured.
func NewPipedriveClient(apiKey, domain string, logger *zap.Logger) *PipedriveClient {
	return &PipedriveClient{
		baseURL: pipedriveBaseURL(domain),
		token:   apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

func pipedriveBaseURL(domain string) string {
	domain = strings.TrimSpace(domain)
	switch {
	case domain == "":
		return ""
	case strings.HasPrefix(domain, "http://"), strings.HasPrefix(domain, "https://"):
		return strings.TrimRight(domain, "/")
	case strings.Contains(domain, "."):
		return "https://" + strings.TrimRight(domain, "/")
	}
	return "https://" + domain + ".pipedrive.com"
}

// IsConfigured returns true if both the token and the domain are set
func (c *PipedriveClient) IsConfigured() bool {
	return c.token != "" && c.baseURL != ""
}

type pipedriveEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`
}

type pipedriveValue struct {
	Value   string `json:"value"`
	Primary bool   `json:"primary"`
}

// doRequest performs one API call and returns the data member of the envelope
func (c *PipedriveClient) doRequest(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_token", c.token)
	endpoint := c.baseURL + path + "?" + query.Encode()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode pipedrive request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create pipedrive request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "pipedrive request failed", goerr.V("method", method), goerr.V("path", path))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read pipedrive response")
	}
	c.logger.Debug("pipedrive response",
		zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, goerr.New("pipedrive returned non-success status",
			goerr.V("method", method), goerr.V("path", path), goerr.V("status", resp.StatusCode))
	}

	var env pipedriveEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, goerr.Wrap(err, "failed to decode pipedrive response", goerr.V("path", path))
	}
	if !env.Success {
		return nil, goerr.New("pipedrive request unsuccessful", goerr.V("path", path), goerr.V("error", env.Error))
	}
	return env.Data, nil
}

// findPerson returns the id of the person with this exact email, 0 when none
func (c *PipedriveClient) findPerson(ctx context.Context, email string) (int64, error) {
	q := url.Values{}
	q.Set("term", email)
	q.Set("fields", "email")
	q.Set("exact_match", "true")

	data, err := c.doRequest(ctx, http.MethodGet, "/api/v1/persons/search", q, nil)
	if err != nil {
		return 0, err
	}

	var result struct {
		Items []struct {
			Item struct {
				ID int64 `json:"id"`
			} `json:"item"`
		} `json:"items"`
	}
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &result); err != nil {
			return 0, goerr.Wrap(err, "failed to decode person search")
		}
	}
	if len(result.Items) == 0 {
		return 0, nil
	}
	return result.Items[0].Item.ID, nil
}

func (c *PipedriveClient) createPerson(ctx context.Context, s *model.Submission) (int64, error) {
	name := s.Name
	if name == "" {
		name = s.Email
	}
	body := map[string]any{
		"name":  name,
		"email": []pipedriveValue{{Value: s.Email, Primary: true}},
	}
	if s.Phone != "" {
		body["phone"] = []pipedriveValue{{Value: s.Phone, Primary: true}}
	}

	data, err := c.doRequest(ctx, http.MethodPost, "/api/v1/persons", nil, body)
	if err != nil {
		return 0, err
	}
	var person struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(data, &person); err != nil {
		return 0, goerr.Wrap(err, "failed to decode created person")
	}
	if person.ID == 0 {
		return 0, goerr.New("pipedrive returned no person id")
	}
	return person.ID, nil
}

func (c *PipedriveClient) createDeal(ctx context.Context, personID int64, s *model.Submission) error {
	label := s.Company
	if label == "" {
		label = s.Name
	}
	body := map[string]any{
		"title":     fmt.Sprintf("Diagnóstico - %s", label),
		"person_id": personID,
	}
	_, err := c.doRequest(ctx, http.MethodPost, "/api/v1/deals", nil, body)
	return err
}

// UpsertDeal reuses or creates the person and opens a deal for the submission.
// It returns false without error when the client is not configured.
func (c *PipedriveClient) UpsertDeal(ctx context.Context, s *model.Submission) (bool, error) {
	if !c.IsConfigured() {
		c.logger.Warn("PIPEDRIVE_API_KEY or PIPEDRIVE_DOMAIN not set, skipping CRM push")
		return false, nil
	}

	personID, err := c.findPerson(ctx, s.Email)
	if err != nil {
		return false, err
	}
	if personID == 0 {
		if personID, err = c.createPerson(ctx, s); err != nil {
			return false, err
		}
	}

	if err := c.createDeal(ctx, personID, s); err != nil {
		return false, err
	}
	c.logger.Info("pipedrive deal created", zap.Int64("personID", personID))
	return true, nil
}
