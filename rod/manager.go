package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultPageBudget is the number of pages served before the browser
// process is recycled.
const DefaultPageBudget = 75

// Manager owns the browser process and recycles it periodically.
// Chrome accumulates memory under load and the baseline never returns
// to initial levels even with proper page cleanup, so the process is
// replaced after a fixed page budget.
//
// Manager is safe for concurrent use.
type Manager struct {
	mu          sync.Mutex
	browser     *rod.Browser
	launcher    *launcher.Launcher
	pagesServed int64
	pageBudget  int64
	closed      atomic.Bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithPageBudget sets the number of pages before browser recycling.
func WithPageBudget(n int64) ManagerOption {
	return func(m *Manager) { m.pageBudget = n }
}

// NewManager launches a headless Chrome browser. Close must be called
// when the Manager is no longer needed.
func NewManager(opts ...ManagerOption) (*Manager, error) {
	m := &Manager{pageBudget: DefaultPageBudget}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.launch(); err != nil {
		return nil, err
	}
	return m, nil
}

// Browser returns the current browser instance, recycling first if the
// page budget is spent. Callers should call PageServed after using the
// browser to process a page.
func (m *Manager) Browser() *rod.Browser {
	m.mu.Lock()
	defer m.mu.Unlock()

	if atomic.LoadInt64(&m.pagesServed) >= m.pageBudget {
		m.recycle()
	}
	return m.browser
}

// PageServed records one page against the recycling budget.
func (m *Manager) PageServed() {
	atomic.AddInt64(&m.pagesServed, 1)
}

// Close releases browser resources. Safe to call multiple times.
func (m *Manager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shutdown()
}

// launch starts a new browser with stability flags.
func (m *Manager) launch() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	m.browser = browser
	m.launcher = lnchr
	return nil
}

// shutdown closes the current browser and launcher. Caller holds mu.
func (m *Manager) shutdown() error {
	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.launcher != nil {
		m.launcher.Kill()
		m.launcher = nil
	}
	return err
}

// recycle replaces the browser with a fresh process. If the new launch
// fails the old browser is kept so requests keep flowing. Caller holds mu.
func (m *Manager) recycle() {
	oldBrowser := m.browser
	oldLauncher := m.launcher
	m.browser = nil
	m.launcher = nil

	if err := m.launch(); err != nil {
		m.browser = oldBrowser
		m.launcher = oldLauncher
		return
	}

	atomic.StoreInt64(&m.pagesServed, 0)
	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
}
