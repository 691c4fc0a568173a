// Package config provides configuration structures and utilities for proxyscope.
// It defines the options for loading proxy datasets, exporting charts,
// serving the dashboard, and report generation preferences.
package config
