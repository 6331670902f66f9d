package jira

import (
	"context"
	"strings"

	"jira-gantt/config"
)

// Connection manages a session with a Jira server and the active project.
// It is not safe for concurrent use.
type Connection struct {
	config  config.Config
	client  *Client
	Project *Project
}

// NewConnection creates an unconnected Connection. cfg supplies settings other
// than the server and credentials, which Connect provides.
func NewConnection(cfg config.Config) *Connection {
	return &Connection{config: cfg}
}

// Connect authenticates against url with basic credentials
func (c *Connection) Connect(ctx context.Context, url, user, passwd string) error {
	cfg := c.config
	cfg.JiraURL = strings.TrimRight(url, "/")
	cfg.JiraUsername = user
	cfg.JiraToken = passwd

	client := NewClient(cfg)
	if _, err := client.Myself(ctx); err != nil {
		return err
	}
	c.client = client
	return nil
}

// Client returns the authenticated client, or nil before Connect.
func (c *Connection) Client() *Client {
	return c.client
}

// ProjectList returns the (key, name) pair of every visible project
func (c *Connection) ProjectList(ctx context.Context) ([]ProjectRef, error) {
	if c.client == nil {
		return nil, ErrNotConnected
	}
	projects, err := c.client.Projects(ctx)
	if err != nil {
		return nil, err
	}

	refs := make([]ProjectRef, 0, len(projects))
	for _, p := range projects {
		refs = append(refs, ProjectRef{Key: p.Key, Name: p.Name})
	}
	return refs, nil
}

// SetProject fetches the project and makes it the active one
func (c *Connection) SetProject(ctx context.Context, key string) error {
	if c.client == nil {
		return ErrNotConnected
	}
	project, err := c.client.Project(ctx, key)
	if err != nil {
		return err
	}
	c.Project = &project
	return nil
}

// EpicList returns the epics of projectKey, or of the active project when
// projectKey is empty.
func (c *Connection) EpicList(ctx context.Context, projectKey string) ([]Epic, error) {
	if projectKey == "" {
		if c.Project == nil {
			return nil, ErrNoActiveProject
		}
		projectKey = c.Project.Key
	}
	if c.client == nil {
		return nil, ErrNotConnected
	}
	return c.client.Epics(ctx, projectKey)
}
