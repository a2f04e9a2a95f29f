// Package render turns status samples into presentation-layer strings.
// All renderings are pure projections of a StatusSample.
package render

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"statuswatch/internal/models"
)

var (
	onlineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	degradedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	offlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	unknownStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
)

// Simple renders a one-line emoji+word status. Unknown is deliberately
// distinct from offline: "can't tell" must never read as "confirmed down".
func Simple(sample models.StatusSample) string {
	switch sample.Status {
	case models.StatusOnline:
		return "🟢 " + onlineStyle.Render("Online")
	case models.StatusDegraded:
		return "🟡 " + degradedStyle.Render("Degraded")
	case models.StatusOffline:
		return "🔴 " + offlineStyle.Render("Offline")
	default:
		return "❓ " + unknownStyle.Render("Unknown")
	}
}

// Detailed renders the simple line plus address, service counts and uptime.
// Offline hosts show how long ago they were last seen instead.
func Detailed(sample models.StatusSample, now time.Time) string {
	simple := Simple(sample)

	if sample.Status == models.StatusOffline {
		if sample.LastSeenOnline.IsZero() {
			return simple + " | never seen online"
		}
		gone := now.Sub(sample.LastSeenOnline)
		return fmt.Sprintf("%s | Last seen: %.0fm ago", simple, gone.Minutes())
	}

	return fmt.Sprintf("%s | %s | %d/%d services | %.1f%% uptime",
		simple,
		sample.ServerAddress,
		sample.AccessibleServices(),
		len(sample.Services),
		sample.UptimePercent,
	)
}

// JSON renders the field-exhaustive structured export.
func JSON(sample models.StatusSample) (string, error) {
	data, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode sample: %w", err)
	}
	return string(data), nil
}
