package settings

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is used when a viewer expresses no usable preference.
const DefaultLocale = "fa"

var supportedLocales = []language.Tag{language.Persian, language.English}

var localeMatcher = language.NewMatcher(supportedLocales)

// NegotiateLocale picks fa or en from an Accept-Language header or locale tag.
func NegotiateLocale(preferences ...string) string {
	var tags []language.Tag
	for _, pref := range preferences {
		pref = strings.TrimSpace(pref)
		if pref == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(pref)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return DefaultLocale
	}
	_, idx, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	base, _ := supportedLocales[idx].Base()
	return base.String()
}

// ResolveLocalizedValue selects the best translation for the locale and falls
// back to the "default" key, then to fallback. Region-qualified locales
// (`fa-ir`) fall back to their base language.
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		for key, value := range values {
			if strings.EqualFold(key, candidate) && value != "" {
				return value
			}
		}
	}
	return fallback
}

func localeCandidates(locale string) []string {
	locale = strings.TrimSpace(strings.ToLower(strings.ReplaceAll(locale, "_", "-")))
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.Index(locale, "-"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	return append(candidates, "default")
}

// Tab is one entry of the settings tab bar.
type Tab struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Dirty       bool   `json:"dirty"`
}

type tabText struct {
	label       map[string]string
	description map[string]string
}

var tabTexts = map[string]tabText{
	DomainGeneral: {
		label:       map[string]string{"default": "تنظیمات کلی", "en": "General"},
		description: map[string]string{"default": "اطلاعات اصلی سایت و تماس", "en": "Site identity and contact details"},
	},
	DomainEcommerce: {
		label:       map[string]string{"default": "فروشگاه", "en": "Store"},
		description: map[string]string{"default": "تنظیمات فروش و مالیات", "en": "Sales and tax"},
	},
	DomainUsers: {
		label:       map[string]string{"default": "کاربران", "en": "Users"},
		description: map[string]string{"default": "مدیریت حساب‌های کاربری", "en": "User accounts"},
	},
	DomainNotifications: {
		label:       map[string]string{"default": "اعلانات", "en": "Notifications"},
		description: map[string]string{"default": "ایمیل، پیامک و پوش", "en": "Email, SMS and push"},
	},
	DomainPayments: {
		label:       map[string]string{"default": "پرداخت", "en": "Payments"},
		description: map[string]string{"default": "درگاه‌های پرداخت ایرانی", "en": "Iranian payment gateways"},
	},
	DomainShipping: {
		label:       map[string]string{"default": "حمل‌ونقل", "en": "Shipping"},
		description: map[string]string{"default": "ارسال و تحویل کالا", "en": "Shipping and delivery"},
	},
	DomainSEO: {
		label:       map[string]string{"default": "سئو و بازاریابی", "en": "SEO & Marketing"},
		description: map[string]string{"default": "بهینه‌سازی و تبلیغات", "en": "Search optimisation and promotion"},
	},
	DomainSystem: {
		label:       map[string]string{"default": "سیستم", "en": "System"},
		description: map[string]string{"default": "پیکربندی سرور و امنیت", "en": "Server and security"},
	},
	DomainLocalization: {
		label:       map[string]string{"default": "محلی‌سازی", "en": "Localization"},
		description: map[string]string{"default": "زبان، تاریخ و منطقه", "en": "Language, calendar and region"},
	},
}

// TabLabel returns the localized label of a domain tab.
func TabLabel(domain, locale string) string {
	return ResolveLocalizedValue(tabTexts[domain].label, locale, domain)
}

// TabDescription returns the localized description of a domain tab.
func TabDescription(domain, locale string) string {
	return ResolveLocalizedValue(tabTexts[domain].description, locale, "")
}

// Message keys for page level texts.
const (
	MessageTitle          = "title"
	MessageResetPrompt    = "reset_prompt"
	MessageUnsaved        = "unsaved"
	MessageUnsavedHint    = "unsaved_hint"
	MessageLastSaved      = "last_saved"
	MessageSaveAll        = "save_all"
	MessageSaving         = "saving"
	MessageDiscard        = "discard"
	MessageSaveFailed     = "save_failed"
	MessageSaveInProgress = "save_in_progress"
)

var messages = map[string]map[string]string{
	MessageTitle: {"default": "تنظیمات فروشگاه", "en": "Store settings"},
	MessageResetPrompt: {
		"default": "آیا مطمئن هستید که می‌خواهید تغییرات را لغو کنید؟",
		"en":      "Are you sure you want to discard your changes?",
	},
	MessageUnsaved:        {"default": "تغییرات ذخیره نشده", "en": "Unsaved changes"},
	MessageUnsavedHint:    {"default": "فراموش نکنید تنظیمات را ذخیره کنید", "en": "Remember to save your settings"},
	MessageLastSaved:      {"default": "آخرین ذخیره", "en": "Last saved"},
	MessageSaveAll:        {"default": "ذخیره همه", "en": "Save all"},
	MessageSaving:         {"default": "در حال ذخیره...", "en": "Saving..."},
	MessageDiscard:        {"default": "لغو تغییرات", "en": "Discard changes"},
	MessageSaveFailed:     {"default": "ذخیره برخی تنظیمات ناموفق بود", "en": "Some settings could not be saved"},
	MessageSaveInProgress: {"default": "ذخیره در حال انجام است", "en": "A save is already running"},
}

// Message returns a localized page text.
func Message(key, locale string) string {
	return ResolveLocalizedValue(messages[key], locale, key)
}

// Messages returns every page text for the locale.
func Messages(locale string) map[string]string {
	out := make(map[string]string, len(messages))
	for key := range messages {
		out[key] = Message(key, locale)
	}
	return out
}
