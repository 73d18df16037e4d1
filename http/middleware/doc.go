/*
The middleware package defines what a middleware is in middlemark and the set of
middlewares forming the request pipeline.

The available middlewares are:
  - CORS
  - CurrentUser
  - ForceHTTPS
  - Idempotent
  - InjectIPAddress
  - InjectSession
  - LogRequest
  - RateLimit
  - ReportPanic
  - RequestID
  - RequireAuthed
  - RequireUnauthed

The pipeline is an explicit, ordered registration list: stages either forward to
the next handler or terminate with a response. For every request the ordering
InjectSession -> CurrentUser must hold before any access control or render runs;
the router applies these through its every-request stack.
*/
package middleware
