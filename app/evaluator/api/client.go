package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"kiosko/app/kiosko/model"
)

// RejectedError means the server was reached and refused the request.
// Callers must not retry these; transport errors are a different case.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("api rejected (%d): %s", e.Status, e.Message)
}

// Client talks to the Kiosko REST API. The timeout is generous so a
// cold-started remote service has time to answer.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &Client{http: httpClient}
}

// Reachable probes the health endpoint with a short deadline.
func (c *Client) Reachable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	resp, err := c.http.R().SetContext(ctx).Get("/health")
	return err == nil && resp.IsSuccess()
}

func (c *Client) Login(ctx context.Context, username, password string) (model.User, error) {
	var user model.User
	resp, err := c.http.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"username": username,
			"password": password,
		}).
		SetResult(&user).
		Post("/api/auth/login")
	if err != nil {
		return model.User{}, errors.Wrap(err, "login")
	}
	if !resp.IsSuccess() {
		return model.User{}, rejected(resp)
	}
	return user, nil
}

func (c *Client) GetProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	resp, err := c.http.R().SetContext(ctx).
		SetResult(&projects).
		Get("/api/projects")
	if err != nil {
		return nil, errors.Wrap(err, "get projects")
	}
	if !resp.IsSuccess() {
		return nil, rejected(resp)
	}
	return projects, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (model.Project, error) {
	var project model.Project
	resp, err := c.http.R().SetContext(ctx).
		SetResult(&project).
		Get("/api/projects/" + id)
	if err != nil {
		return model.Project{}, errors.Wrap(err, "get project")
	}
	if !resp.IsSuccess() {
		return model.Project{}, rejected(resp)
	}
	return project, nil
}

// UpdateProject does the unconditional full-document replace by id.
func (c *Client) UpdateProject(ctx context.Context, project model.Project) error {
	resp, err := c.http.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(project).
		Put("/api/projects/" + project.ID.Hex())
	if err != nil {
		return errors.Wrap(err, "update project")
	}
	if !resp.IsSuccess() {
		return rejected(resp)
	}
	return nil
}

func rejected(resp *resty.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.Message == "" {
		body.Message = resp.Status()
	}
	return &RejectedError{Status: resp.StatusCode(), Message: body.Message}
}
