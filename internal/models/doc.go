// Package models defines the core domain models for barnight.
//
// # Models
//
//   - BarNight: one shared outing with a total cost, its participants,
//     the payments made toward it and any itemized sub-purchases
//   - Participant: a user taking part in a night or an item, with the
//     equal share derived when the record was written
//   - Payment: money a user actually put toward a night
//   - IndividualItem: a sub-purchase split only among its own participants
//   - User: a registered account; the set of users is the universe
//     balances are reported for
//
// Relationships use ID strings rather than pointers. Share amounts stored on
// participants are informational: balances are always recomputed from totals
// and participant counts by the calculator package.
package models
