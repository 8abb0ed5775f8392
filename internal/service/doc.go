// Package service contains the application-specific use cases and business
// logic. It orchestrates domain objects, the review scheduler and the note
// store (defined in internal/store) to fulfill application features.
//
// The service layer depends on domain entities and the store interface,
// but never on specific infrastructure implementations. Errors from lower
// layers are wrapped with operation context and keep their sentinel
// identity, so callers classify them with errors.Is:
//
//   - domain.ErrValidation for rejected input
//   - store.ErrNotFound for missing notes
//   - store.ErrStorage for persistence failures
package service
