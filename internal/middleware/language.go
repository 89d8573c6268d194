// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/olegiv/sitecontent/internal/model"
)

// LocaleCookieName is the cookie name for the visitor's locale preference.
const LocaleCookieName = "sitecontent_lang"

// LocaleSource records which part of the request decided the locale.
type LocaleSource string

// Locale sources in priority order.
const (
	SourceQuery   LocaleSource = "query"
	SourceURL     LocaleSource = "url"
	SourceCookie  LocaleSource = "cookie"
	SourceHeader  LocaleSource = "header"
	SourceDefault LocaleSource = "default"
)

// Negotiator picks a content locale for a request.
type Negotiator struct {
	locales []model.Locale
	def     model.Locale
	matcher language.Matcher
}

// NewNegotiator creates a Negotiator for the given locales. The default
// locale is used when nothing in the request matches.
func NewNegotiator(locales []model.Locale, def model.Locale) *Negotiator {
	if len(locales) == 0 {
		locales = model.Locales
	}
	tags := make([]language.Tag, len(locales))
	for i, l := range locales {
		tags[i] = language.Make(l.String())
	}
	return &Negotiator{
		locales: locales,
		def:     def,
		matcher: language.NewMatcher(tags),
	}
}

// Supports reports whether l is one of the negotiated locales.
func (n *Negotiator) Supports(l model.Locale) bool {
	for _, candidate := range n.locales {
		if candidate == l {
			return true
		}
	}
	return false
}

func (n *Negotiator) parse(s string) (model.Locale, bool) {
	l, ok := model.ParseLocale(s)
	if !ok || !n.Supports(l) {
		return "", false
	}
	return l, true
}

// Negotiate determines the locale for r.
// Priority order:
// 1. Query parameter ?lang=XX (explicit switch)
// 2. URL parameter {lang} from chi router
// 3. Cookie preference
// 4. Accept-Language header
// 5. Default locale
func (n *Negotiator) Negotiate(r *http.Request) (model.Locale, LocaleSource) {
	if l, ok := n.parse(r.URL.Query().Get("lang")); ok {
		return l, SourceQuery
	}

	if l, ok := n.parse(chi.URLParam(r, "lang")); ok {
		return l, SourceURL
	}

	if cookie, err := r.Cookie(LocaleCookieName); err == nil {
		if l, ok := n.parse(cookie.Value); ok {
			return l, SourceCookie
		}
	}

	if l, ok := n.matchAcceptLanguage(r.Header.Get("Accept-Language")); ok {
		return l, SourceHeader
	}

	return n.def, SourceDefault
}

// matchAcceptLanguage resolves an Accept-Language header against the
// supported locales. Quality values are honoured by the matcher.
func (n *Negotiator) matchAcceptLanguage(header string) (model.Locale, bool) {
	if header == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, confidence := n.matcher.Match(tags...)
	if confidence == language.No || idx < 0 || idx >= len(n.locales) {
		return "", false
	}
	return n.locales[idx], true
}

// Language creates middleware that negotiates the content locale and stores
// it in the request context. An explicit ?lang= switch also updates the
// preference cookie.
func Language(locales []model.Locale, def model.Locale) func(http.Handler) http.Handler {
	n := NewNegotiator(locales, def)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale, source := n.Negotiate(r)
			if source == SourceQuery {
				SetLocaleCookie(w, locale)
			}

			w.Header().Add("Vary", "Accept-Language")
			ctx := WithLocale(r.Context(), locale, source)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithLocale returns a copy of ctx carrying the negotiated locale.
func WithLocale(ctx context.Context, l model.Locale, source LocaleSource) context.Context {
	ctx = context.WithValue(ctx, ContextKeyLocale, l)
	return context.WithValue(ctx, ContextKeyLocaleSource, source)
}

// LocaleFromContext retrieves the negotiated locale from ctx.
func LocaleFromContext(ctx context.Context) (model.Locale, bool) {
	l, ok := ctx.Value(ContextKeyLocale).(model.Locale)
	return l, ok
}

// GetLocale retrieves the current locale from the request context.
// Returns model.DefaultLocale if no locale has been negotiated.
func GetLocale(r *http.Request) model.Locale {
	if l, ok := LocaleFromContext(r.Context()); ok {
		return l
	}
	return model.DefaultLocale
}

// GetLocaleSource reports how the locale of r was chosen.
func GetLocaleSource(r *http.Request) LocaleSource {
	if s, ok := r.Context().Value(ContextKeyLocaleSource).(LocaleSource); ok {
		return s
	}
	return SourceDefault
}

// SetLocaleCookie sets the locale preference cookie.
func SetLocaleCookie(w http.ResponseWriter, l model.Locale) {
	cookie := &http.Cookie{
		Name:     LocaleCookieName,
		Value:    l.String(),
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60, // 1 year
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
}
