package template

import (
	"bytes"
	"errors"
	"fmt"
	html "html/template"
	text "text/template"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/repositories"
)

// Render produces the requested content types for one notification, looking
// up per-tenant templates and falling back to the built-in defaults when a
// tenant has not customized one.
func Render(
	data map[string]interface{},
	tenantID uuid.UUID,
	channel, name, locale string,
	contentTypes []string,
	repo *repositories.TemplateRepository,
) (map[string][]byte, error) {
	results := make(map[string][]byte)

	for _, ct := range contentTypes {
		content, contentType, err := lookup(tenantID, channel, name, locale, ct, repo)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		switch contentType {
		case "text":
			t, err := text.New("tmpl").Parse(content)
			if err != nil {
				return nil, fmt.Errorf("failed to parse text template: %w", err)
			}
			if err := t.Execute(&buf, data); err != nil {
				return nil, fmt.Errorf("failed to render text template: %w", err)
			}

		case "html":
			t, err := html.New("tmpl").Parse(content)
			if err != nil {
				return nil, fmt.Errorf("failed to parse HTML template: %w", err)
			}
			if err := t.Execute(&buf, data); err != nil {
				return nil, fmt.Errorf("failed to render HTML template: %w", err)
			}

		default:
			return nil, fmt.Errorf("unsupported content type: %s", contentType)
		}

		results[contentType] = buf.Bytes()
	}

	return results, nil
}

func lookup(tenantID uuid.UUID, channel, name, locale, contentType string, repo *repositories.TemplateRepository) (string, string, error) {
	if repo != nil {
		tmpl, err := repo.GetByLookup(tenantID, channel, name, locale, contentType)
		if err == nil {
			return tmpl.Content, tmpl.ContentType, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", fmt.Errorf("failed to fetch template (%s): %w", contentType, err)
		}
	}

	content, ok := defaults[defaultKey{channel, name, contentType}]
	if !ok {
		return "", "", fmt.Errorf("no template for %s/%s (%s)", channel, name, contentType)
	}
	return content, contentType, nil
}
