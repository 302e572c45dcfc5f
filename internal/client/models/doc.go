// Package models defines the client-side data shapes of the onboarding flow:
// persisted recovery records and transient outbound dispatch descriptors.
package models
