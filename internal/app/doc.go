// Package app provides the application service layer.
//
// Orchestrates use cases: login, tenant administration, facilities,
// payroll, market sales, collaboration and notifications. Sits between HTTP
// handlers and domain repositories. Depends on domain interfaces, not
// concrete implementations.
package app
