// Package rental holds the booking rules of the rental service: day-granular availability,
// day-count pricing, validation of booking requests and the booking status lifecycle.
//
// Everything here is pure. Callers fetch existing bookings and persist results themselves,
// and pass the acting principal explicitly as an *Actor.
package rental
