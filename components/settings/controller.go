package settings

import (
	"context"
	"errors"
	"io"
	"time"
)

// DefaultTemplate is the page template shipped with the package.
const DefaultTemplate = "settings.html"

// ControllerOptions wires the controller collaborators.
type ControllerOptions struct {
	Page     *Page
	Renderer Renderer
	Template string
}

// Controller renders the settings page.
type Controller struct {
	page     *Page
	renderer Renderer
	template string
}

// NewController builds a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = DefaultTemplate
	}
	return &Controller{page: opts.Page, renderer: opts.Renderer, template: opts.Template}
}

// SectionView groups the field views of one section for templates.
type SectionView struct {
	Name   string      `json:"name"`
	Fields []FieldView `json:"fields"`
}

// Payload builds the template data for the active tab.
func (c *Controller) Payload(ctx context.Context, locale, active string) (map[string]any, error) {
	if c.page == nil {
		return nil, errors.New("settings: controller requires page")
	}
	locale = NegotiateLocale(locale)
	if active == "" {
		active = c.page.order[0]
	}
	panel, ok := c.page.Panel(active)
	if !ok {
		return nil, &UnknownPathError{Path: FieldPath{Domain: active}}
	}
	sections := make([]SectionView, 0, len(panel.Sections()))
	for _, name := range panel.Sections() {
		fields, err := panel.Fields(name)
		if err != nil {
			return nil, err
		}
		sections = append(sections, SectionView{Name: name, Fields: displayFields(fields)})
	}
	status := c.page.Status()
	lastSaved := ""
	if status.LastSavedAt != nil {
		lastSaved = status.LastSavedAt.Format(time.DateTime)
		if locale == "fa" {
			lastSaved = PersianDigits(lastSaved)
		}
	}
	return map[string]any{
		"locale":     locale,
		"direction":  direction(locale),
		"tabs":       c.page.Tabs(locale),
		"active":     active,
		"sections":   sections,
		"status":     status,
		"last_saved": lastSaved,
		"messages":   Messages(locale),
		"price":      c.page.CurrencyFormat().FormatPrice(1250000),
	}, nil
}

// RenderTemplate renders the page for locale into out.
func (c *Controller) RenderTemplate(ctx context.Context, locale, active string, out io.Writer) error {
	if c.renderer == nil {
		return errors.New("settings: controller requires renderer")
	}
	payload, err := c.Payload(ctx, locale, active)
	if err != nil {
		return err
	}
	_, err = c.renderer.Render(c.template, payload, out)
	return err
}

func displayFields(fields []FieldView) []FieldView {
	out := make([]FieldView, 0, len(fields))
	for _, field := range fields {
		if field.Kind == KindStringList {
			if items, ok := field.Value.([]string); ok {
				field.Value = JoinList(items)
			}
		}
		out = append(out, field)
	}
	return out
}

func direction(locale string) string {
	if locale == "fa" {
		return "rtl"
	}
	return "ltr"
}
