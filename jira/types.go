package jira

import (
	"encoding/json"
	"errors"
	"fmt"
)

// types.go - Data structures for Jira integration

var (
	// ErrNotConnected is returned when a Connection is used before Connect.
	ErrNotConnected = errors.New("jira: not connected")
	// ErrNoActiveProject is returned when no project key is given and none is set.
	ErrNoActiveProject = errors.New("jira: no active project")
	// ErrProjectNotFound is returned when the project key does not exist.
	ErrProjectNotFound = errors.New("jira: project not found")
)

// APIError is a non-2xx answer from the Jira REST API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// User is the authenticated Jira account
type User struct {
	Name         string `json:"name,omitempty"`
	AccountID    string `json:"accountId,omitempty"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// ProjectRef is the (key, name) pair of a visible project
type ProjectRef struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Project represents a Jira project with its versions
type Project struct {
	ID       string    `json:"id"`
	Key      string    `json:"key"`
	Name     string    `json:"name"`
	Versions []Version `json:"versions,omitempty"`
}

// Version represents a Jira release. Dates are YYYY-MM-DD and may be empty.
type Version struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	Released    bool   `json:"released"`
	Archived    bool   `json:"archived"`
}

// Epic is an epic issue reduced to what a timeline needs
type Epic struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	StartDate   string `json:"startDate,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
}

// Issue is a search hit. Fields stay raw because date fields are configurable.
type Issue struct {
	ID     string                     `json:"id"`
	Key    string                     `json:"key"`
	Fields map[string]json.RawMessage `json:"fields"`
}

// StringField returns a string-valued field, false when absent or null.
func (i Issue) StringField(name string) (string, bool) {
	raw, ok := i.Fields[name]
	if !ok {
		return "", false
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil || s == nil || *s == "" {
		return "", false
	}
	return *s, true
}

// Jira API response structures
type searchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// search/jql pages with a token instead of an offset
type jqlSearchResponse struct {
	Issues        []Issue `json:"issues"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
	IsLast        bool    `json:"isLast"`
}
