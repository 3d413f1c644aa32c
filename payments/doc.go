// Package payments models customer payment instructions awaiting employee
// verification.
//
// A payment is either internal or international; the factory [New] is the
// only constructor and enforces the per-variant required fields, so an
// international payment without a SWIFT code cannot exist in the system.
// Status moves pending -> verified or pending -> rejected, decided by an
// employee, never by the submitting customer.
package payments
