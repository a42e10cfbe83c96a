package settings

import (
	"bytes"
	"context"
	"io"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	lastTemplate string
	lastPayload  map[string]any
	err          error
}

func (r *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.lastTemplate = name
	if payload, ok := data.(map[string]any); ok {
		r.lastPayload = payload
	}
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("<html></html>"))
	}
	return "<html></html>", r.err
}

func TestControllerRenderTemplate(t *testing.T) {
	page := newTestPage(t, Options{})
	require.NoError(t, page.Set(Path(DomainSystem, "storage", "allowed_file_types"), []string{"jpg", "png"}))
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{Page: page, Renderer: renderer})

	var buf bytes.Buffer
	require.NoError(t, controller.RenderTemplate(context.Background(), "fa-IR", DomainSystem, &buf))

	assert.Equal(t, DefaultTemplate, renderer.lastTemplate)
	assert.NotZero(t, buf.Len())
	payload := renderer.lastPayload
	assert.Equal(t, "fa", payload["locale"])
	assert.Equal(t, "rtl", payload["direction"])
	assert.Equal(t, "1,250,000 ریال", LatinDigits(payload["price"].(string)))
	status := payload["status"].(Status)
	assert.True(t, status.Dirty)

	sections := payload["sections"].([]SectionView)
	var found bool
	for _, section := range sections {
		if section.Name != "storage" {
			continue
		}
		for _, field := range section.Fields {
			if field.Path.Field == "allowed_file_types" {
				found = true
				assert.Equal(t, "jpg, png", field.Value)
			}
		}
	}
	assert.True(t, found)
}

func TestControllerUnknownTab(t *testing.T) {
	controller := NewController(ControllerOptions{Page: newTestPage(t, Options{}), Renderer: &stubRenderer{}})

	err := controller.RenderTemplate(context.Background(), "en", "billing", io.Discard)
	var unknown *UnknownPathError
	require.ErrorAs(t, err, &unknown)
}

func TestControllerRequiresCollaborators(t *testing.T) {
	require.Error(t, NewController(ControllerOptions{}).RenderTemplate(context.Background(), "", "", io.Discard))
	_, err := NewController(ControllerOptions{}).Payload(context.Background(), "", "")
	require.Error(t, err)
}

func TestEmbeddedTemplateRenders(t *testing.T) {
	renderer, err := NewTemplateRenderer(nil)
	require.NoError(t, err)
	page := newTestPage(t, Options{})
	require.NoError(t, page.Set(CurrencyCodePath, "IRT"))
	controller := NewController(ControllerOptions{Page: page, Renderer: renderer})
	payload, err := controller.Payload(context.Background(), "en", DomainEcommerce)
	require.NoError(t, err)

	html, err := renderer.Render(DefaultTemplate, payload)
	require.NoError(t, err)
	assert.Contains(t, html, `dir="ltr"`)
	assert.Contains(t, html, "Unsaved changes")
	assert.Contains(t, html, "<h1>Store settings</h1>")
	assert.Contains(t, html, "تومان")
	assert.Contains(t, html, `href="?tab=general"`)
	assert.Contains(t, html, `href="?tab=ecommerce" class="tab active"`)
	assert.Contains(t, html, `data-section="currency"`)
	assert.Contains(t, html, `data-path="ecommerce.currency.code"`)
	assert.Contains(t, html, "<span>code</span>")
	assert.NotContains(t, html, `href="?tab="`)
}

func TestEmbeddedTemplateHidesBannerWhenClean(t *testing.T) {
	renderer, err := NewTemplateRenderer(nil)
	require.NoError(t, err)
	controller := NewController(ControllerOptions{Page: newTestPage(t, Options{}), Renderer: renderer})

	var out bytes.Buffer
	require.NoError(t, controller.RenderTemplate(context.Background(), "en", DomainNotifications, &out))
	assert.NotContains(t, out.String(), "save-reminder")
	assert.Contains(t, out.String(), `data-action="reset" disabled`)
}

func TestTemplateRendererOutsidePackageDir(t *testing.T) {
	t.Chdir(t.TempDir())

	renderer, err := NewTemplateRenderer(nil)
	require.NoError(t, err)
	page := newTestPage(t, Options{})
	require.NoError(t, page.Set(Path(DomainGeneral, "site", "title"), "x"))
	controller := NewController(ControllerOptions{Page: page, Renderer: renderer})

	var out bytes.Buffer
	require.NoError(t, controller.RenderTemplate(context.Background(), "en", DomainGeneral, &out))
	assert.Contains(t, out.String(), "Unsaved changes")
}

func TestTemplateRendererUsesOverrideFS(t *testing.T) {
	themes := fstest.MapFS{
		"templates/settings.html": {Data: []byte(`<title>{{ messages.title }}</title>`)},
		"templates/custom.html":   {Data: []byte(`{{ active }}`)},
	}
	renderer, err := NewTemplateRenderer(themes)
	require.NoError(t, err)
	controller := NewController(ControllerOptions{Page: newTestPage(t, Options{}), Renderer: renderer})

	var out bytes.Buffer
	require.NoError(t, controller.RenderTemplate(context.Background(), "en", "", &out))
	assert.Equal(t, "<title>Store settings</title>", out.String())

	custom, err := renderer.Render("custom.html", map[string]any{"active": DomainSEO})
	require.NoError(t, err)
	assert.Equal(t, DomainSEO, custom)
}
