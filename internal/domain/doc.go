// Package domain defines the condominium-management entities and the
// repository contracts the application layer depends on.
//
// Files are concept-oriented (condominium.go, maintenance.go, market.go, ...).
// Entity methods hold the small pieces of business logic that belong to a
// single row: status transitions, due dates, totals. Persistence lives in
// adapter packages.
package domain
