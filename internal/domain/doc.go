// Package domain contains the core business entities, value objects, and
// domain logic of the application. It represents the heart of the system,
// independent of any specific infrastructure or delivery mechanism.
//
// The only persisted entity is the Note. Review scheduling math lives in the
// srs subpackage so it can be exercised without any storage.
package domain
