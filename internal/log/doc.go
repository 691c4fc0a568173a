// Package log provides secure logging functionality built on top of the
// standard slog package.
//
// Proxy intelligence records identify endpoints by IP address. The
// SecureHandler masks those addresses before they reach any log output:
//   - attributes whose key names an address column (ip, ip_from, ip_to, ...)
//   - string values that parse as an IP address, address:port or prefix
//   - credentials such as Authorization or Cookie values
//
// Even in verbose mode, masked values are never written, so debug logs of a
// cleaning run can be shared.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("dropped row",
//	    "line", 12,
//	    "ip_from", "203.0.113.7", // written as ***REDACTED***
//	)
//
//	slog.SetDefault(logger)
package log
