// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/sitecontent/internal/model"
)

var testLocales = []model.Locale{model.LocaleNL, model.LocaleEN}

func TestMatchAcceptLanguage(t *testing.T) {
	n := NewNegotiator(testLocales, model.LocaleNL)

	tests := []struct {
		name   string
		header string
		want   model.Locale
		wantOK bool
	}{
		{"empty", "", "", false},
		{"exact", "en", model.LocaleEN, true},
		{"region", "en-US,en;q=0.9", model.LocaleEN, true},
		{"dutch region", "nl-BE", model.LocaleNL, true},
		{"skips unsupported", "fr,en;q=0.5", model.LocaleEN, true},
		{"unsupported only", "de-DE", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.matchAcceptLanguage(tt.header)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNegotiatorSupports(t *testing.T) {
	n := NewNegotiator([]model.Locale{model.LocaleNL}, model.LocaleNL)

	assert.True(t, n.Supports(model.LocaleNL))
	assert.False(t, n.Supports(model.LocaleEN))

	_, ok := n.parse("en")
	assert.False(t, ok, "locale outside the configured set is rejected")
}

func TestLanguageMiddlewarePriority(t *testing.T) {
	type captured struct {
		locale model.Locale
		source LocaleSource
	}

	var got captured
	r := chi.NewRouter()
	r.Route("/{lang}", func(r chi.Router) {
		r.Use(Language(testLocales, model.LocaleNL))
		r.Get("/page", func(w http.ResponseWriter, r *http.Request) {
			got = captured{GetLocale(r), GetLocaleSource(r)}
		})
	})
	r.With(Language(testLocales, model.LocaleNL)).Get("/page", func(w http.ResponseWriter, r *http.Request) {
		got = captured{GetLocale(r), GetLocaleSource(r)}
	})

	tests := []struct {
		name       string
		target     string
		cookie     string
		accept     string
		want       captured
		wantCookie bool
	}{
		{"default", "/page", "", "", captured{model.LocaleNL, SourceDefault}, false},
		{"query wins", "/nl/page?lang=en", "nl", "nl", captured{model.LocaleEN, SourceQuery}, true},
		{"url param", "/en/page", "nl", "nl", captured{model.LocaleEN, SourceURL}, false},
		{"unknown url param falls through", "/fr/page", "en", "", captured{model.LocaleEN, SourceCookie}, false},
		{"cookie", "/page", "en", "nl", captured{model.LocaleEN, SourceCookie}, false},
		{"invalid cookie ignored", "/page", "xx", "en-GB", captured{model.LocaleEN, SourceHeader}, false},
		{"header", "/page", "", "en-US,en;q=0.8", captured{model.LocaleEN, SourceHeader}, false},
		{"invalid query ignored", "/page?lang=de", "", "", captured{model.LocaleNL, SourceDefault}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = captured{}
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LocaleCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Accept-Language", rr.Header().Get("Vary"))

			cookies := rr.Result().Cookies()
			if tt.wantCookie {
				require.Len(t, cookies, 1)
				assert.Equal(t, LocaleCookieName, cookies[0].Name)
				assert.Equal(t, tt.want.locale.String(), cookies[0].Value)
			} else {
				assert.Empty(t, cookies)
			}
		})
	}
}

func TestLocaleFromContext(t *testing.T) {
	_, ok := LocaleFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithLocale(context.Background(), model.LocaleEN, SourceURL)
	l, ok := LocaleFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, model.LocaleEN, l)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, model.DefaultLocale, GetLocale(req))
	assert.Equal(t, SourceDefault, GetLocaleSource(req))
}
