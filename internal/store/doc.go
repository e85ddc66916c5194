// Package store defines the persistence interfaces for papers, extraction
// tasks, and the read cache, along with the common error taxonomy shared by
// all implementations.
package store
