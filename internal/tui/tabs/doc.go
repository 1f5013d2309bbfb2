// Package tabs implements the main flow's four tabs: home, search,
// bookings and profile.
package tabs
