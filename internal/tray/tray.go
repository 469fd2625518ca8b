// Package tray provides a system tray interface for the touchwall exhibit system.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the operator's system tray menu.
type Tray struct {
	onToggle func(enabled bool)
	onRearm  func()
	onPanel  func()
	onQuit   func()
	enabled  bool
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle  *systray.MenuItem
	menuLastHit *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback function to be called when touch detection
// is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnRearm sets the callback for the re-arm menu item, which force-clears
// the active hotspot when a media player hangs.
func (t *Tray) OnRearm(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRearm = fn
}

// OnPanel sets the callback for opening the control panel in a browser.
func (t *Tray) OnPanel(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPanel = fn
}

// OnQuit sets the callback function to be called when the quit menu item
// is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Touchwall")
	systray.SetTooltip("Touchwall Exhibit Controller")

	t.menuToggle = systray.AddMenuItem("● Enabled", "Toggle touch detection")
	systray.AddSeparator()

	t.menuLastHit = systray.AddMenuItem("Last: none", "Last activated hotspot")
	t.menuLastHit.Disable()
	systray.AddSeparator()

	menuRearm := systray.AddMenuItem("Re-arm Wall", "Clear the active hotspot")
	menuPanel := systray.AddMenuItem("Open Control Panel...", "Open control panel in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Touchwall")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuRearm.ClickedCh:
				t.handleRearm()
			case <-menuPanel.ClickedCh:
				t.handlePanel()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Enabled")
	} else {
		t.menuToggle.SetTitle("○ Disabled")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleRearm handles the re-arm menu item click.
func (t *Tray) handleRearm() {
	t.mu.RLock()
	callback := t.onRearm
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handlePanel handles the control panel menu item click.
func (t *Tray) handlePanel() {
	t.mu.RLock()
	callback := t.onPanel
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastHotspot updates the last activated hotspot display in the menu.
func (t *Tray) SetLastHotspot(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastHit != nil {
		if name == "" {
			t.menuLastHit.SetTitle("Last: none")
		} else {
			t.menuLastHit.SetTitle("Last: " + name)
		}
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
