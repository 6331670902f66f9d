package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"jira-gantt/config"
)

const searchPageSize = 100

// Client handles Jira API operations. It is safe for concurrent use.
type Client struct {
	config     config.Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new Jira client
func NewClient(cfg config.Config) *Client {
	cfg.ApplyDefaults()
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// apiURL builds an absolute REST URL for the configured deployment type
func (c *Client) apiURL(path string, query url.Values) string {
	version := "2"
	if c.config.IsJiraCloud {
		version = "3"
	}
	u := fmt.Sprintf("%s/rest/api/%s/%s", c.config.JiraURL, version, strings.TrimLeft(path, "/"))
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// makeRequest makes an HTTP request with proper authentication
func (c *Client) makeRequest(ctx context.Context, method, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL(path, query), nil)
	if err != nil {
		return err
	}

	if c.config.JiraUsername != "" {
		req.SetBasicAuth(c.config.JiraUsername, c.config.JiraToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.config.JiraToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error parsing Jira response: %w", err)
	}
	return nil
}

// Myself returns the authenticated user, which also verifies the credentials
func (c *Client) Myself(ctx context.Context) (User, error) {
	var user User
	if err := c.makeRequest(ctx, http.MethodGet, "myself", nil, &user); err != nil {
		return User{}, fmt.Errorf("error checking Jira authentication: %w", err)
	}
	return user, nil
}

// Projects lists every project visible to the session
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.makeRequest(ctx, http.MethodGet, "project", nil, &projects); err != nil {
		return nil, fmt.Errorf("error fetching Jira projects: %w", err)
	}
	return projects, nil
}

// Project fetches one project including its versions
func (c *Client) Project(ctx context.Context, key string) (Project, error) {
	var project Project
	err := c.makeRequest(ctx, http.MethodGet, "project/"+url.PathEscape(key), nil, &project)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, key)
		}
		return Project{}, fmt.Errorf("error fetching Jira project %s: %w", key, err)
	}
	return project, nil
}

// SearchIssues runs a JQL query and follows pagination until exhausted.
// Cloud uses the token-paged search/jql endpoint; Data Center pages by offset.
func (c *Client) SearchIssues(ctx context.Context, jql string, fields []string) ([]Issue, error) {
	if c.config.IsJiraCloud {
		return c.searchByToken(ctx, jql, fields)
	}
	return c.searchByOffset(ctx, jql, fields)
}

func searchQuery(jql string, fields []string) url.Values {
	query := url.Values{}
	query.Set("jql", jql)
	query.Set("maxResults", fmt.Sprint(searchPageSize))
	if len(fields) > 0 {
		query.Set("fields", strings.Join(fields, ","))
	}
	return query
}

func (c *Client) searchByOffset(ctx context.Context, jql string, fields []string) ([]Issue, error) {
	var issues []Issue
	startAt := 0

	for {
		query := searchQuery(jql, fields)
		query.Set("startAt", fmt.Sprint(startAt))

		var response searchResponse
		if err := c.makeRequest(ctx, http.MethodGet, "search", query, &response); err != nil {
			return nil, fmt.Errorf("error fetching Jira issues: %w", err)
		}

		issues = append(issues, response.Issues...)
		startAt += len(response.Issues)

		// The server may cap maxResults, so only Total marks the end
		if len(response.Issues) == 0 || startAt >= response.Total {
			break
		}
	}

	return issues, nil
}

func (c *Client) searchByToken(ctx context.Context, jql string, fields []string) ([]Issue, error) {
	var issues []Issue
	token := ""

	for {
		query := searchQuery(jql, fields)
		if token != "" {
			query.Set("nextPageToken", token)
		}

		var response jqlSearchResponse
		if err := c.makeRequest(ctx, http.MethodGet, "search/jql", query, &response); err != nil {
			return nil, fmt.Errorf("error fetching Jira issues: %w", err)
		}

		issues = append(issues, response.Issues...)

		if response.IsLast || response.NextPageToken == "" || len(response.Issues) == 0 {
			break
		}
		token = response.NextPageToken
	}

	return issues, nil
}

// jqlString quotes s as a JQL string literal
func jqlString(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

// Epics fetches every epic of a project
func (c *Client) Epics(ctx context.Context, projectKey string) ([]Epic, error) {
	jql := fmt.Sprintf("project = %s AND issuetype = Epic", jqlString(projectKey))
	fields := []string{"summary", c.config.EpicStartField, c.config.EpicEndField}

	issues, err := c.SearchIssues(ctx, jql, fields)
	if err != nil {
		return nil, err
	}

	epics := make([]Epic, 0, len(issues))
	for _, issue := range issues {
		name, _ := issue.StringField("summary")
		start, _ := issue.StringField(c.config.EpicStartField)
		end, _ := issue.StringField(c.config.EpicEndField)
		epics = append(epics, Epic{
			Key:         issue.Key,
			Name:        name,
			StartDate:   start,
			ReleaseDate: end,
		})
	}
	return epics, nil
}
