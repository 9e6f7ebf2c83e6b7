// Package static provides offline, deterministic embedding and narrative
// providers. They let the full pipeline run without live API calls, for
// testing and for air-gapped deployments where network providers are
// disabled.
package static
