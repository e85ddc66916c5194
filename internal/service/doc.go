// Package service contains the application services that orchestrate the
// domain entities, the persistence store, the cache, and the extraction
// pipeline on behalf of the API layer.
package service
