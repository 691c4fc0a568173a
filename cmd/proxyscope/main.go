// Package main provides the entry point for the proxyscope CLI.
//
// proxyscope turns a CSV export of proxy/IP intelligence records into a
// fixed set of risk charts: a fraud-score histogram, the top high-risk
// countries and ISPs, and a world map of high-risk proxies.
//
// Usage:
//
//	proxyscope render [csv...]
//	proxyscope serve [csv]
//
// See --help for all available options.
package main

// main is the entry point for proxyscope.
func main() {
	Execute()
}
