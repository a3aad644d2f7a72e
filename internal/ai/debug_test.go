package ai

import "testing"

func TestEnableDebugLogging(t *testing.T) {
	t.Cleanup(func() { EnableDebugLogging(false) })

	EnableDebugLogging(true)
	if !IsDebugEnabled() {
		t.Error("IsDebugEnabled() = false after EnableDebugLogging(true)")
	}

	EnableDebugLogging(false)
	if IsDebugEnabled() {
		t.Error("IsDebugEnabled() = true after EnableDebugLogging(false)")
	}
}
