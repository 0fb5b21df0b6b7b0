// Package common contains shared constants and sentinel errors used across
// gophchat components.
package common

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "jwt"

// EnvironmentDevelopment disables the Secure flag on session cookies so the
// API can be used over plain HTTP on localhost.
const EnvironmentDevelopment = "development"
