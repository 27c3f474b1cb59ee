package mailgun

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
)

const (
	templatesEndpoint        = "templates"
	templateVersionsEndpoint = "versions"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Template is a stored template to create. Name and Description are
// required; the remaining fields are sent only when set.
type Template struct {
	Name        string `validate:"required"`
	Description string `validate:"required"`
	// Template is the template body.
	Template string
	Tag      string
	// Engine is "handlebars" or "go" when set.
	Engine   string `validate:"omitempty,oneof=handlebars go"`
	Comment  string
}

// Validate reports missing required fields and an unknown engine.
func (t Template) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("mailgun: invalid template: %w", err)
	}
	return nil
}

// Params flattens the template into form fields.
func (t Template) Params() map[string]string {
	params := map[string]string{
		"name":        t.Name,
		"description": t.Description,
	}
	optional := map[string]string{
		"template": t.Template,
		"tag":      t.Tag,
		"engine":   t.Engine,
		"comment":  t.Comment,
	}
	for k, v := range optional {
		if v != "" {
			params[k] = v
		}
	}
	return params
}

// VersionResponse describes one version of a stored template.
type VersionResponse struct {
	CreatedAt string  `json:"createdAt"`
	Engine    string  `json:"engine"`
	Tag       string  `json:"tag"`
	Comment   string  `json:"comment"`
	MJML      string  `json:"mjml"`
	Template  *string `json:"template,omitempty"`
	ID        *string `json:"id,omitempty"`
	Active    bool    `json:"active"`
}

// TemplateResponse describes a stored template.
type TemplateResponse struct {
	CreatedAt   string            `json:"createdAt"`
	CreatedBy   string            `json:"createdBy"`
	Description string            `json:"description"`
	Name        string            `json:"name"`
	ID          string            `json:"id"`
	Version     *VersionResponse  `json:"version,omitempty"`
	Versions    []VersionResponse `json:"versions,omitempty"`
}

// CreateTemplateResponse is returned when a template is created.
type CreateTemplateResponse struct {
	Message  string           `json:"message"`
	Template TemplateResponse `json:"template"`
}

// GetTemplatesResponse is the uniform result of GetTemplates, whichever
// endpoint was queried.
type GetTemplatesResponse struct {
	Items []TemplateResponse `json:"items"`
}

// getSingleTemplateResponse is the body of templates/{name} and
// templates/{name}/versions.
type getSingleTemplateResponse struct {
	Template TemplateResponse `json:"template"`
}

// DeletedTemplate names a template that was removed.
type DeletedTemplate struct {
	Name string `json:"name"`
}

// DeleteTemplateResponse is returned when a template is deleted.
type DeleteTemplateResponse struct {
	Message  string          `json:"message"`
	Template DeletedTemplate `json:"template"`
}

// CreateTemplate stores a new template under the sending domain.
func (c *Client) CreateTemplate(ctx context.Context, tmpl Template) (*CreateTemplateResponse, error) {
	if c.creds == nil {
		return nil, errNoCredentials
	}
	req, err := newRequest(ctx, http.MethodPost, c.creds.domainURL(templatesEndpoint))
	if err != nil {
		return nil, fmt.Errorf("mailgun: create template request: %w", err)
	}
	return c.CreateTemplateRequest(ctx, req, tmpl)
}

// CreateTemplateRequest is CreateTemplate against a caller-built request.
func (c *Client) CreateTemplateRequest(ctx context.Context, req *http.Request, tmpl Template) (*CreateTemplateResponse, error) {
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}

	r := prepare(ctx, req)
	setForm(r, tmpl.Params())

	var out CreateTemplateResponse
	if err := c.do(opCreateTemplate, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// templatesURL picks the endpoint for a template listing: the versions of
// one template, one template, or all templates.
func (c *Client) templatesURL(name string, fetchVersions bool) string {
	switch {
	case name != "" && fetchVersions:
		return c.creds.domainURL(templatesEndpoint, url.PathEscape(name), templateVersionsEndpoint)
	case name != "":
		return c.creds.domainURL(templatesEndpoint, url.PathEscape(name))
	default:
		return c.creds.domainURL(templatesEndpoint)
	}
}

// GetTemplates lists templates. With an empty name every template is
// returned. With a name, only that template is returned, together with
// all of its versions when fetchVersions is set.
func (c *Client) GetTemplates(ctx context.Context, name string, fetchVersions bool) (*GetTemplatesResponse, error) {
	if c.creds == nil {
		return nil, errNoCredentials
	}
	req, err := newRequest(ctx, http.MethodGet, c.templatesURL(name, fetchVersions))
	if err != nil {
		return nil, fmt.Errorf("mailgun: create get templates request: %w", err)
	}
	return c.GetTemplatesRequest(ctx, req, name)
}

// GetTemplatesRequest is GetTemplates against a caller-built request. name
// only selects how the body is decoded: a single template is wrapped into
// a one-item list.
func (c *Client) GetTemplatesRequest(ctx context.Context, req *http.Request, name string) (*GetTemplatesResponse, error) {
	r := prepare(ctx, req)

	if name == "" {
		var out GetTemplatesResponse
		if err := c.do(opGetTemplates, r, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}

	var single getSingleTemplateResponse
	if err := c.do(opGetTemplates, r, &single); err != nil {
		return nil, err
	}
	return &GetTemplatesResponse{Items: []TemplateResponse{single.Template}}, nil
}

// DeleteTemplate removes a template and all of its versions.
func (c *Client) DeleteTemplate(ctx context.Context, name string) (*DeleteTemplateResponse, error) {
	if c.creds == nil {
		return nil, errNoCredentials
	}
	if name == "" {
		return nil, fmt.Errorf("mailgun: template name is required")
	}
	req, err := newRequest(ctx, http.MethodDelete, c.creds.domainURL(templatesEndpoint, url.PathEscape(name)))
	if err != nil {
		return nil, fmt.Errorf("mailgun: create delete template request: %w", err)
	}
	return c.DeleteTemplateRequest(ctx, req)
}

// DeleteTemplateRequest is DeleteTemplate against a caller-built request.
func (c *Client) DeleteTemplateRequest(ctx context.Context, req *http.Request) (*DeleteTemplateResponse, error) {
	r := prepare(ctx, req)

	var out DeleteTemplateResponse
	if err := c.do(opDeleteTemplate, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTemplate stores tmpl using a default HTTP client.
func CreateTemplate(ctx context.Context, creds *Credentials, tmpl Template) (*CreateTemplateResponse, error) {
	return New(creds).CreateTemplate(ctx, tmpl)
}

// CreateTemplateWithClient is CreateTemplate with an externally managed HTTP client.
func CreateTemplateWithClient(ctx context.Context, httpClient HTTPDoer, creds *Credentials, tmpl Template) (*CreateTemplateResponse, error) {
	return New(creds, WithHTTPClient(httpClient)).CreateTemplate(ctx, tmpl)
}

// CreateTemplateWithRequest is CreateTemplate with an externally built request.
func CreateTemplateWithRequest(ctx context.Context, req *http.Request, creds *Credentials, tmpl Template) (*CreateTemplateResponse, error) {
	return New(creds).CreateTemplateRequest(ctx, req, tmpl)
}

// GetTemplates lists templates using a default HTTP client.
func GetTemplates(ctx context.Context, creds *Credentials, name string, fetchVersions bool) (*GetTemplatesResponse, error) {
	return New(creds).GetTemplates(ctx, name, fetchVersions)
}

// GetTemplatesWithClient is GetTemplates with an externally managed HTTP client.
func GetTemplatesWithClient(ctx context.Context, httpClient HTTPDoer, creds *Credentials, name string, fetchVersions bool) (*GetTemplatesResponse, error) {
	return New(creds, WithHTTPClient(httpClient)).GetTemplates(ctx, name, fetchVersions)
}

// GetTemplatesWithRequest is GetTemplates with an externally built request.
func GetTemplatesWithRequest(ctx context.Context, req *http.Request, creds *Credentials, name string) (*GetTemplatesResponse, error) {
	return New(creds).GetTemplatesRequest(ctx, req, name)
}

// DeleteTemplate removes a template using a default HTTP client.
func DeleteTemplate(ctx context.Context, creds *Credentials, name string) (*DeleteTemplateResponse, error) {
	return New(creds).DeleteTemplate(ctx, name)
}

// DeleteTemplateWithClient is DeleteTemplate with an externally managed HTTP client.
func DeleteTemplateWithClient(ctx context.Context, httpClient HTTPDoer, creds *Credentials, name string) (*DeleteTemplateResponse, error) {
	return New(creds, WithHTTPClient(httpClient)).DeleteTemplate(ctx, name)
}

// DeleteTemplateWithRequest is DeleteTemplate with an externally built request.
func DeleteTemplateWithRequest(ctx context.Context, req *http.Request, creds *Credentials) (*DeleteTemplateResponse, error) {
	return New(creds).DeleteTemplateRequest(ctx, req)
}
