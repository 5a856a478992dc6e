package ui

import (
	"slices"
	"testing"
)

func TestNewThemeProvider_Default(t *testing.T) {
	tp := NewThemeProvider("")

	if tp.CurrentName() != DefaultTheme {
		t.Errorf("expected default theme %q, got %q", DefaultTheme, tp.CurrentName())
	}
}

func TestNewThemeProvider_WithTheme(t *testing.T) {
	tp := NewThemeProvider("nord")

	if tp.CurrentName() != "nord" {
		t.Errorf("expected theme 'nord', got %q", tp.CurrentName())
	}
}

func TestNewThemeProvider_UnknownTheme(t *testing.T) {
	tp := NewThemeProvider("nonexistent-theme-xyz")

	if tp.CurrentName() != DefaultTheme {
		t.Errorf("expected fallback to %q, got %q", DefaultTheme, tp.CurrentName())
	}
}

func TestThemeProvider_SetTheme(t *testing.T) {
	tp := NewThemeProvider("")

	if !tp.SetTheme("nord") {
		t.Error("expected SetTheme to return true for a known theme")
	}
	if tp.CurrentName() != "nord" {
		t.Errorf("expected theme 'nord', got %q", tp.CurrentName())
	}

	if tp.SetTheme("nonexistent-theme-xyz") {
		t.Error("expected SetTheme to return false for an unknown theme")
	}
	if tp.CurrentName() != "nord" {
		t.Errorf("theme changed after failed SetTheme: %q", tp.CurrentName())
	}
}

func TestThemeProvider_NextTheme(t *testing.T) {
	tp := NewThemeProvider("dracula")

	next := tp.NextTheme()

	if tp.CurrentName() != next {
		t.Errorf("CurrentName() = %q, NextTheme() returned %q", tp.CurrentName(), next)
	}
	if next == "dracula" && len(tp.AvailableThemes()) > 1 {
		t.Error("NextTheme did not move away from dracula")
	}
}

func TestThemeProvider_AvailableThemes(t *testing.T) {
	tp := NewThemeProvider("")

	themes := tp.AvailableThemes()

	if !slices.IsSorted(themes) {
		t.Error("themes are not sorted")
	}
	if !slices.Contains(themes, "dracula") {
		t.Error("expected 'dracula' in available themes")
	}
}

func TestThemeProvider_Styles(t *testing.T) {
	tp := NewThemeProvider("dracula")

	styles := tp.Styles()

	if styles.App.GetPaddingTop() == 0 {
		t.Error("expected App style to have padding")
	}
	if tp.CurrentDisplayName() == "" {
		t.Error("expected non-empty display name")
	}
}
