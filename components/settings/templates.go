package settings

import (
	"regexp"
	"sort"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Template is a named email or SMS text with declared substitution variables.
type Template struct {
	ID        string   `json:"id"`
	Channel   string   `json:"channel"`
	Name      string   `json:"name"`
	Subject   string   `json:"subject,omitempty"`
	Body      string   `json:"body"`
	Variables []string `json:"variables"`
}

// TemplateFromRecord reads a template record. SMS records store their text in message.
func TemplateFromRecord(channel string, record map[string]any) Template {
	body := stringValue(record["body"])
	if body == "" {
		body = stringValue(record["message"])
	}
	tpl := Template{
		ID:      stringValue(record["id"]),
		Channel: channel,
		Name:    stringValue(record["name"]),
		Subject: stringValue(record["subject"]),
		Body:    body,
	}
	switch vars := record["variables"].(type) {
	case []string:
		tpl.Variables = append([]string{}, vars...)
	case []any:
		for _, v := range vars {
			if s, ok := v.(string); ok {
				tpl.Variables = append(tpl.Variables, s)
			}
		}
	}
	return tpl
}

// Placeholders lists the distinct {name} tokens used in subject and body.
func (t Template) Placeholders() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, text := range []string{t.Subject, t.Body} {
		for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
			if _, ok := seen[match[1]]; ok {
				continue
			}
			seen[match[1]] = struct{}{}
			out = append(out, match[1])
		}
	}
	sort.Strings(out)
	return out
}

// TemplateIssue describes a mismatch between declared and used variables.
type TemplateIssue struct {
	TemplateID string   `json:"template_id"`
	Channel    string   `json:"channel"`
	Undeclared []string `json:"undeclared,omitempty"`
	Unused     []string `json:"unused,omitempty"`
}

// Check compares the placeholders with the declared variables.
func (t Template) Check() (TemplateIssue, bool) {
	declared := make(map[string]struct{}, len(t.Variables))
	for _, v := range t.Variables {
		declared[v] = struct{}{}
	}
	used := map[string]struct{}{}
	issue := TemplateIssue{TemplateID: t.ID, Channel: t.Channel}
	for _, name := range t.Placeholders() {
		used[name] = struct{}{}
		if _, ok := declared[name]; !ok {
			issue.Undeclared = append(issue.Undeclared, name)
		}
	}
	for _, v := range t.Variables {
		if _, ok := used[v]; !ok {
			issue.Unused = append(issue.Unused, v)
		}
	}
	sort.Strings(issue.Unused)
	return issue, len(issue.Undeclared) == 0 && len(issue.Unused) == 0
}

// Render substitutes vars into the body. Unknown placeholders are kept verbatim.
func (t Template) Render(vars map[string]string) string {
	return renderPlaceholders(t.Body, vars)
}

// RenderSubject substitutes vars into the subject.
func (t Template) RenderSubject(vars map[string]string) string {
	return renderPlaceholders(t.Subject, vars)
}

func renderPlaceholders(text string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := strings.Trim(token, "{}")
		if value, ok := vars[name]; ok {
			return value
		}
		return token
	})
}

var (
	// EmailTemplatesPath holds the email template list.
	EmailTemplatesPath = Path(DomainNotifications, "email", "templates")
	// SMSTemplatesPath holds the SMS template list.
	SMSTemplatesPath = Path(DomainNotifications, "sms", "templates")
)

// Templates reads every email and SMS template of a notifications snapshot.
func Templates(domain Domain) []Template {
	var out []Template
	for _, path := range []FieldPath{EmailTemplatesPath, SMSTemplatesPath} {
		value, _ := domain.Value(path.Section, path.Field)
		for _, record := range ListItems(value) {
			out = append(out, TemplateFromRecord(path.Section, record))
		}
	}
	return out
}

// CheckTemplates reports every template whose variables disagree with its text.
func CheckTemplates(domain Domain) []TemplateIssue {
	var issues []TemplateIssue
	for _, tpl := range Templates(domain) {
		if issue, ok := tpl.Check(); !ok {
			issues = append(issues, issue)
		}
	}
	return issues
}
