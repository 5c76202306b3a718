// Package account augments a persisted account record with composable
// authentication lifecycle behaviors: credential verification, identity
// confirmation, brute-force lockout, password recovery, registration,
// and sign-in tracking.
//
// Behaviors:
//   - Confirmable and Lockable are optional capabilities an Authenticator
//     composes explicitly (WithConfirmable / WithLockable) rather than
//     probing for at call time. Recoverable operates independently and is
//     the designated escape hatch for locked accounts.
//   - Every lifecycle proof (confirmation, unlock, recovery) rides on the
//     same token protocol: an expiring token bound to the account
//     identifier and a purpose, sealed with a key derived from the stored
//     expiry window so re-issuance invalidates earlier windows.
//
// Collaborators:
//   - Store is the narrow persistence boundary; NewAccountsRepository
//     provides a Bun-backed implementation, but any Store works.
//   - Notifier delivers the out-of-band instructions; SMTPNotifier ships
//     as a ready implementation, and delivery failures fail the enclosing
//     state transition.
//   - ActivitySink is a best-effort audit emitter; sink errors are logged,
//     never propagated.
package account
