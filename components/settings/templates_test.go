package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRenderKeepsUnknownPlaceholders(t *testing.T) {
	tpl := Template{
		Subject:   "سفارش {order_number}",
		Body:      "سلام {customer_name}، کد {verification_code}",
		Variables: []string{"customer_name", "order_number"},
	}

	assert.Equal(t, "سفارش 1024", tpl.RenderSubject(map[string]string{"order_number": "1024"}))
	assert.Equal(t, "سلام علی، کد {verification_code}", tpl.Render(map[string]string{"customer_name": "علی"}))
	assert.Equal(t, []string{"customer_name", "order_number", "verification_code"}, tpl.Placeholders())
}

func TestTemplateCheckReportsMismatch(t *testing.T) {
	tpl := Template{ID: "t1", Body: "{a} {b}", Variables: []string{"b", "c"}}

	issue, ok := tpl.Check()
	assert.False(t, ok)
	assert.Equal(t, []string{"a"}, issue.Undeclared)
	assert.Equal(t, []string{"c"}, issue.Unused)
}

func TestTemplatesReadsEmailAndSMS(t *testing.T) {
	schema, _ := DefaultSchema(DomainNotifications)
	normalized, err := schema.normalized()
	require.NoError(t, err)

	templates := Templates(normalized.Defaults())
	require.Len(t, templates, 4)
	byID := map[string]Template{}
	for _, tpl := range templates {
		byID[tpl.ID] = tpl
	}
	assert.Equal(t, "email", byID["order_confirmation"].Channel)
	assert.Equal(t, "sms", byID["verification_sms"].Channel)
	assert.Contains(t, byID["verification_sms"].Body, "{verification_code}")
	assert.Empty(t, CheckTemplates(normalized.Defaults()))
}

func TestCheckTemplatesFlagsEditedTemplate(t *testing.T) {
	store := newTestStore(t, DomainNotifications, StoreOptions{})
	require.NoError(t, store.UpdateListItem(SMSTemplatesPath, []string{"verification_sms", "message"}, "کد {code}"))

	issues := CheckTemplates(store.Snapshot())
	require.Len(t, issues, 1)
	assert.Equal(t, "verification_sms", issues[0].TemplateID)
	assert.Equal(t, []string{"code"}, issues[0].Undeclared)
	assert.Equal(t, []string{"verification_code"}, issues[0].Unused)
}
