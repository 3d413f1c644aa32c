// Package httpapi mounts the external HTTP interface on a gin router.
//
// Routes:
//
//	POST /api/user/register          self-registration (may be disabled)
//	POST /api/user/login             credential login, returns bearer token
//	GET  /api/user/profile           authenticated profile
//	POST /api/payment                submit a payment (customer role)
//	GET  /api/payment/pending        list pending payments (employee role)
//	POST /api/payment/:id/verify     decide a pending payment (employee role)
//
// Handlers translate engine sentinels into JSON {"error": ...} bodies; the
// underlying error detail is logged, never returned to the client.
package httpapi
