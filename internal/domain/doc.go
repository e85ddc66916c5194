// Package domain contains the core business entities and domain logic of
// the sample-paper service, independent of any specific infrastructure or
// delivery mechanism.
package domain
