package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestSecureHandler_SanitizesSensitiveKeys tests that address and credential keys are sanitized.
func TestSecureHandler_SanitizesSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{name: "ip_from key is sanitized", key: "ip_from", value: "3232235777", wantMask: true},
		{name: "IP_FROM key (uppercase) is sanitized", key: "IP_FROM", value: "3232235777", wantMask: true},
		{name: "ip key is sanitized", key: "ip", value: "proxy-17", wantMask: true},
		{name: "remote_ip key is sanitized", key: "remote_ip", value: "proxy-17", wantMask: true},
		{name: "cookie key is sanitized", key: "cookie", value: "session=abc123", wantMask: true},
		{name: "password key is sanitized", key: "password", value: "hunter2hunter2", wantMask: true},
		{name: "country key is not sanitized", key: "country", value: "Germany", wantMask: false},
		{name: "isp key is not sanitized", key: "isp", value: "Example Hosting", wantMask: false},
		{name: "line key is not sanitized", key: "line", value: "line-42", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, true)
			logger.Info("test message", tt.key, tt.value)

			output := buf.String()
			if tt.wantMask {
				if strings.Contains(output, tt.value) {
					t.Errorf("expected value to be masked, but found in output: %s", output)
				}
				if !strings.Contains(output, MaskValue) {
					t.Errorf("expected mask value in output, but not found: %s", output)
				}
			} else if !strings.Contains(output, tt.value) {
				t.Errorf("expected value %q to be present in output, but not found: %s", tt.value, output)
			}
		})
	}
}

// TestSecureHandler_SanitizesAddressValues tests that address-shaped values are masked under any key.
func TestSecureHandler_SanitizesAddressValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		wantMask bool
	}{
		{name: "IPv4 address", value: "203.0.113.7", wantMask: true},
		{name: "IPv6 address", value: "2001:db8::1", wantMask: true},
		{name: "address with port", value: "198.51.100.2:8080", wantMask: true},
		{name: "CIDR prefix", value: "192.0.2.0/24", wantMask: true},
		{name: "bearer token", value: "Bearer abc.def", wantMask: true},
		{name: "score range", value: "70-79", wantMask: false},
		{name: "file path", value: "data/proxies.csv", wantMask: false},
		{name: "plain number", value: "85.5", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, true)
			logger.Info("test message", "value", tt.value)

			output := buf.String()
			if tt.wantMask && strings.Contains(output, tt.value) {
				t.Errorf("expected %q to be masked: %s", tt.value, output)
			}
			if !tt.wantMask && !strings.Contains(output, tt.value) {
				t.Errorf("expected %q to be visible: %s", tt.value, output)
			}
		})
	}
}

// TestSecureHandler_LogLevels tests that log levels are respected.
func TestSecureHandler_LogLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		verbose    bool
		logLevel   slog.Level
		shouldShow bool
	}{
		{name: "debug message shown in verbose mode", verbose: true, logLevel: slog.LevelDebug, shouldShow: true},
		{name: "debug message hidden in non-verbose mode", verbose: false, logLevel: slog.LevelDebug, shouldShow: false},
		{name: "info message hidden in non-verbose mode", verbose: false, logLevel: slog.LevelInfo, shouldShow: false},
		{name: "warn message shown in non-verbose mode", verbose: false, logLevel: slog.LevelWarn, shouldShow: true},
		{name: "error message shown in verbose mode", verbose: true, logLevel: slog.LevelError, shouldShow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, tt.verbose)

			testMsg := "test_unique_message_12345"
			logger.Log(t.Context(), tt.logLevel, testMsg)

			hasMessage := strings.Contains(buf.String(), testMsg)
			if tt.shouldShow && !hasMessage {
				t.Errorf("expected message to be shown, but not found in output: %s", buf.String())
			}
			if !tt.shouldShow && hasMessage {
				t.Errorf("expected message to be hidden, but found in output: %s", buf.String())
			}
		})
	}
}

// TestSecureHandler_WithAttrs tests that WithAttrs sanitizes attributes.
func TestSecureHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)

	logger.With("ip_from", "10.0.0.1").Info("test message")

	output := buf.String()
	if strings.Contains(output, "10.0.0.1") {
		t.Errorf("expected address to be masked in WithAttrs, but found in output: %s", output)
	}
	if !strings.Contains(output, MaskValue) {
		t.Errorf("expected mask value in output, but not found: %s", output)
	}
}

// TestSecureHandler_WithGroup tests that grouped attributes are sanitized.
func TestSecureHandler_WithGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)

	logger.WithGroup("row").Info("dropped", "source", "proxies.csv", "ip", "192.168.1.1")
	logger.Info("nested", slog.Group("record", "country", "Japan", "ip_from", "3232235777"))

	output := buf.String()
	if !strings.Contains(output, "proxies.csv") || !strings.Contains(output, "Japan") {
		t.Errorf("expected non-sensitive values to be visible: %s", output)
	}
	if strings.Contains(output, "192.168.1.1") || strings.Contains(output, "3232235777") {
		t.Errorf("expected addresses to be masked: %s", output)
	}
}

// TestNewSecureJSONLogger tests JSON logger creation.
func TestNewSecureJSONLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureJSONLogger(&buf, true)

	logger.Info("test message", "ip_from", "203.0.113.9")

	output := buf.String()
	if !strings.HasPrefix(output, "{") {
		t.Errorf("expected JSON format, but got: %s", output)
	}
	if strings.Contains(output, "203.0.113.9") {
		t.Errorf("expected address to be masked, but found in output: %s", output)
	}
}

// TestNewSecureHandlerNil tests the default handler fallback.
func TestNewSecureHandlerNil(t *testing.T) {
	t.Parallel()

	if h := NewSecureHandler(nil); h.handler == nil {
		t.Error("expected fallback handler")
	}
}

// TestContainsSensitiveKeyword tests the containsSensitiveKeyword helper.
func TestContainsSensitiveKeyword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key      string
		expected bool
	}{
		{"user_password", true},
		{"api_token", true},
		{"auth_header", true},
		{"ip_to", true},
		{"client_ip", true},

		// Words that merely contain "ip" are not masked
		{"zip", false},
		{"ship_date", false},
		{"skip", false},
		{"description", false},
		{"country", false},
		{"isp", false},
		{"fraud_score", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			if got := containsSensitiveKeyword(tt.key); got != tt.expected {
				t.Errorf("containsSensitiveKeyword(%q) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}
