// Package i18n holds the user-facing message bundles and the process-wide
// locale state. The locale is explicit state with init-on-start, change
// notification, and persistence through the caller-supplied store — never an
// ambient singleton.
package i18n

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/daybook/internal/common"
)

// Locale identifies a supported language.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleRU Locale = "ru"
)

// Messages is a bundle of user-facing strings for one locale.
type Messages struct {
	AppTitle        string
	EditorSaved     string
	StatsStreak     string
	StatsEntries    string
	StatsWords      string
	ClearConfirm    string
	FallbackPrompts []string
}

var bundles = map[Locale]Messages{
	LocaleEN: {
		AppTitle:     "Daily Journal",
		EditorSaved:  "Saved",
		StatsStreak:  "Day Streak",
		StatsEntries: "Entries",
		StatsWords:   "Words",
		ClearConfirm: "Are you sure you want to delete all local journal entries? This cannot be undone.",
		FallbackPrompts: []string{
			"What would you tell your younger self today?",
			"Describe a moment when you felt truly alive.",
			"What are you avoiding thinking about?",
			"What is a small kindness you witnessed recently?",
			"How does the weather today match or contrast your mood?",
		},
	},
	LocaleRU: {
		AppTitle:     "Журнал Благодарностей",
		EditorSaved:  "Сохранено",
		StatsStreak:  "Дней подряд",
		StatsEntries: "Записей",
		StatsWords:   "Слов",
		ClearConfirm: "Вы уверены? Это удалит все записи безвозвратно.",
		FallbackPrompts: []string{
			"За что вы благодарны сегодня?",
			"Кто сделал ваш день лучше и почему?",
			"Какой простой момент принес вам радость сегодня?",
			"Напишите о человеке, которому вы благодарны.",
			"Какое качество в себе вы цените больше всего?",
		},
	},
}

// Store persists the locale preference between runs. The client's local
// journal repository satisfies this.
type Store interface {
	GetLocale(ctx context.Context) (string, error)
	SetLocale(ctx context.Context, locale string) error
}

// Manager holds the current locale and notifies subscribers on change.
type Manager struct {
	mu     sync.RWMutex
	locale Locale
	store  Store
	subs   map[int]func(Locale)
	nextID int
}

// NewManager builds a Manager with the default locale. Call Init to load the
// persisted preference.
func NewManager(store Store) *Manager {
	return &Manager{locale: LocaleEN, store: store, subs: make(map[int]func(Locale))}
}

// Init loads the persisted locale; when none is stored it falls back to the
// LANG environment variable, mirroring the browser-language fallback.
func (m *Manager) Init(ctx context.Context) error {
	saved, err := m.store.GetLocale(ctx)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("locale load failed: %w", err)
	}
	if l := Locale(saved); l == LocaleEN || l == LocaleRU {
		m.set(l)
		return nil
	}
	if strings.HasPrefix(strings.ToLower(os.Getenv("LANG")), "ru") {
		m.set(LocaleRU)
	}
	return nil
}

// SetLocale switches the active locale, persists it, and notifies subscribers.
func (m *Manager) SetLocale(ctx context.Context, l Locale) error {
	if l != LocaleEN && l != LocaleRU {
		return fmt.Errorf("unsupported locale: %s", l)
	}
	if err := m.store.SetLocale(ctx, string(l)); err != nil {
		return fmt.Errorf("locale save failed: %w", err)
	}
	m.set(l)
	return nil
}

func (m *Manager) set(l Locale) {
	m.mu.Lock()
	m.locale = l
	subs := make([]func(Locale), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(l)
	}
}

// Locale returns the active locale.
func (m *Manager) Locale() Locale {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.locale
}

// T returns the message bundle for the active locale.
func (m *Manager) T() Messages {
	return bundles[m.Locale()]
}

// Subscribe registers fn to run on every locale change and returns an id for
// Unsubscribe.
func (m *Manager) Subscribe(fn func(Locale)) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.subs[m.nextID] = fn
	return m.nextID
}

// Unsubscribe removes a previously registered subscriber.
func (m *Manager) Unsubscribe(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, id)
}

// FallbackPrompt picks the built-in prompt for the given day of month, used
// when the server has no prompt for today.
func FallbackPrompt(l Locale, dayOfMonth int) string {
	prompts := bundles[l].FallbackPrompts
	return prompts[dayOfMonth%len(prompts)]
}
