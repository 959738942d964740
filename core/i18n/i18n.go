// Package i18n provides the portal's display-string localization with a
// layered fallback chain: requested language, then the default language, then
// the lookup key itself. Lookups never fail.
package i18n

import (
	"sort"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/hi"
	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"
)

const defaultLanguage = "en"

// static portal copy; extend by adding a locale to both this table and New().
var tables = map[string]map[string]string{
	"en": {
		"home":             "Home",
		"contact":          "Contact",
		"login":            "Log In",
		"logout":           "Logout",
		"dashboard":        "Dashboard",
		"adminDashboard":   "Admin Dashboard",
		"studentDashboard": "Student Dashboard",
		"teacherDashboard": "Teacher Dashboard",
		"plotRegistration": "Plot Registration",
		"signup":           "Sign Up",
		"heroTitle":        "Kisan Portal",
		"heroSubtitle":     "Empowering Indian Farmers",
		"emailLabel":       "Email / Mobile",
		"passwordLabel":    "Password",
		"loginCta":         "Login",
		"loginHint":        "Please fill all fields",
		"offlineHint":      "You are currently offline. Cached pages will remain available.",
	},
	"hi": {
		"home":             "होम",
		"contact":          "संपर्क",
		"login":            "लॉगिन",
		"logout":           "लॉगआउट",
		"dashboard":        "डैशबोर्ड",
		"adminDashboard":   "व्यवस्थापक डैशबोर्ड",
		"studentDashboard": "छात्र डैशबोर्ड",
		"teacherDashboard": "शिक्षक डैशबोर्ड",
		"plotRegistration": "प्लॉट पंजीकरण",
		"signup":           "साइन अप",
		"heroTitle":        "किसान पोर्टल",
		"heroSubtitle":     "भारतीय किसानों को सशक्त बनाना",
		"emailLabel":       "ईमेल / मोबाइल",
		"passwordLabel":    "पासवर्ड",
		"loginCta":         "लॉगिन करें",
		"loginHint":        "कृपया सभी फील्ड भरें",
		"offlineHint":      "आप ऑफ़लाइन हैं। कैश किए गए पेज उपलब्ध रहेंगे।",
	},
}

type Translator struct {
	uni      *ut.UniversalTranslator
	fallback string
}

func New() (*Translator, error) {
	eng := en.New()
	uni := ut.New(eng, eng, hi.New())
	tr := &Translator{uni: uni, fallback: defaultLanguage}

	for lang, table := range tables {
		t, found := uni.GetTranslator(lang)
		if !found {
			return nil, errors.Errorf("i18n: no translator registered for %q", lang)
		}
		for key, text := range table {
			if err := t.Add(key, text, false); err != nil {
				return nil, errors.Wrapf(err, "adding %s translation %q", lang, key)
			}
		}
	}
	return tr, nil
}

// Supported returns the language codes with a translation table, sorted.
func (tr *Translator) Supported() []string {
	codes := make([]string, 0, len(tables))
	for code := range tables {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (tr *Translator) IsSupported(code string) bool {
	_, ok := tables[code]
	return ok
}

// T resolves key for lang. A key absent from the requested language's table is
// looked up in the default language's table; a key absent from both resolves
// to the key itself so callers always get a displayable string.
func (tr *Translator) T(lang, key string) string {
	for _, code := range []string{lang, tr.fallback} {
		t, found := tr.uni.GetTranslator(code)
		if !found {
			continue
		}
		if s, err := t.T(key); err == nil {
			return s
		}
	}
	return key
}
