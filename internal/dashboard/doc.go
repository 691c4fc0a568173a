// Package dashboard serves the proxy risk charts over HTTP.
//
// The Server presents the four charts in a two-by-two grid on a single page,
// renders each chart on demand as PNG or SVG, and exposes the analysis as
// JSON. The dataset is read through a dataset.Cache, so requests share one
// immutable snapshot until the file changes or POST /reload is called.
//
// Routes:
//
//	GET  /                        dashboard page
//	GET  /charts/{kind}.{format}  chart image (?w=&h= override the size)
//	GET  /api/analysis            analysis JSON
//	POST /reload                  drop the cached dataset and load it again
//	GET  /healthz                 liveness probe
//	GET  /metrics                 Prometheus metrics
package dashboard
