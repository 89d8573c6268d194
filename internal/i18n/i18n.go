// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n provides localized strings for content metadata:
// display dates, read-time labels and translation notices.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// Message is one catalog entry. Message holds the English source text and
// Translation the text in the file's language.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile is the layout of locales/<lang>/messages.json.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// SupportedLanguages lists the site languages. The first entry is the default.
var SupportedLanguages = []string{"nl", "en"}

// catalog is an immutable set of loaded messages. SetDefaultLanguage
// publishes a modified copy.
type catalog struct {
	messages    map[string]map[string]string // lang -> id -> text
	tags        []language.Tag
	matcher     language.Matcher
	defaultLang string
	logger      *slog.Logger
}

var current atomic.Pointer[catalog]

// Init loads the embedded message files. It may be called again to reset
// the default language.
func Init(logger *slog.Logger) error {
	c := &catalog{
		messages:    make(map[string]map[string]string, len(SupportedLanguages)),
		defaultLang: SupportedLanguages[0],
		logger:      logger,
	}
	for _, lang := range SupportedLanguages {
		msgs, err := readMessages(lang)
		if err != nil {
			return fmt.Errorf("loading language %s: %w", lang, err)
		}
		c.messages[lang] = msgs
		c.tags = append(c.tags, language.Make(lang))
		if logger != nil {
			logger.Debug("loaded translations", "language", lang, "count", len(msgs))
		}
	}
	c.matcher = language.NewMatcher(c.tags)
	current.Store(c)

	if logger != nil {
		logger.Info("i18n initialized", "languages", SupportedLanguages)
	}
	return nil
}

func readMessages(lang string) (map[string]string, error) {
	name := "locales/" + lang + "/messages.json"
	data, err := localesFS.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var f MessageFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	out := make(map[string]string, len(f.Messages))
	for _, m := range f.Messages {
		out[m.ID] = m.Translation
	}
	return out, nil
}

// SetDefaultLanguage changes the language used for missing keys.
// Unsupported codes are ignored.
func SetDefaultLanguage(lang string) {
	lang = strings.ToLower(lang)
	c := current.Load()
	if c == nil || !IsSupported(lang) {
		return
	}
	next := *c
	next.defaultLang = lang
	current.Store(&next)
}

// DefaultLanguage returns the current fallback language.
func DefaultLanguage() string {
	if c := current.Load(); c != nil {
		return c.defaultLang
	}
	return SupportedLanguages[0]
}

// lookup finds id in lang, then in the default language.
func (c *catalog) lookup(lang, id string) (string, bool) {
	if s, ok := c.messages[lang][id]; ok {
		return s, true
	}
	if lang == c.defaultLang {
		return "", false
	}
	s, ok := c.messages[c.defaultLang][id]
	if ok && c.logger != nil {
		c.logger.Debug("missing translation, using default", "key", id, "lang", lang)
	}
	return s, ok
}

// T translates key into lang, falling back to the default language and
// then to the key itself. Args are applied with fmt verbs.
func T(lang, key string, args ...any) string {
	c := current.Load()
	if c == nil {
		return key
	}
	s, ok := c.lookup(lang, key)
	if !ok {
		return key
	}
	if len(args) == 0 {
		return s
	}
	return fmt.Sprintf(s, args...)
}

// FormatDate renders t as a display date in the given language,
// e.g. "15 maart 2024" or "March 15, 2024".
func FormatDate(lang string, t time.Time) string {
	month := T(lang, "date.month."+strconv.Itoa(int(t.Month())))
	return T(lang, "date.format", t.Day(), month, t.Year())
}

// ReadTime renders a reading time label, e.g. "5 min leestijd".
func ReadTime(lang string, minutes int) string {
	return T(lang, "content.read_time", minutes)
}

// MatchLanguage returns the supported language closest to an
// Accept-Language header or a single language code.
func MatchLanguage(acceptLang string) string {
	c := current.Load()
	if c == nil {
		return SupportedLanguages[0]
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, perr := language.Parse(acceptLang)
		if perr != nil {
			return c.defaultLang
		}
		tags = []language.Tag{tag}
	}

	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(SupportedLanguages) {
		return c.defaultLang
	}
	return SupportedLanguages[idx]
}

// IsSupported reports whether lang is one of SupportedLanguages.
func IsSupported(lang string) bool {
	return slices.Contains(SupportedLanguages, strings.ToLower(lang))
}

// TranslationCount returns the number of messages loaded for lang.
func TranslationCount(lang string) int {
	if c := current.Load(); c != nil {
		return len(c.messages[lang])
	}
	return 0
}
