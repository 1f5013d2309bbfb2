// Package screens holds the splash, the auth forms and the modal screens of
// the booking flow and account settings.
package screens
