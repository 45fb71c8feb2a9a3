// Package models defines the core domain models for giftdraw.
//
// # Models
//
//   - Participant: one person in the gift exchange, as declared in
//     people.json. Participants are identified by their derived full name
//     (first + last), which must be unique across the roster.
//   - Draw: one persisted matching result (giver -> receiver assignments)
//     together with the run metadata needed to reproduce it.
//
// # Design Principles
//
//  1. Models are plain data: validation lives in the roster package,
//     search logic in the matching package.
//  2. Relationships use full-name strings, never pointers, so models
//     survive JSON and SQLite round trips unchanged.
//  3. Assignments are never logged or printed by any code path; only the
//     stores and the mailer ever see who drew whom.
package models
