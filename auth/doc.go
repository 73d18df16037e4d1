/*
Package auth collects the authentication strategies the application accepts.

Passwords

Email and password sign-in verifies a bcrypt hash stored on the user record.
HashPassword and VerifyPassword wrap the bcrypt primitives
so cost and minimum length policy live in one place.

Google

Sign-in with Google runs the standard OAuth authorization code flow.
A Service exposes the pieces a handler needs:
building the consent URL, exchanging the code for a token
and fetching the Google profile backing the token.

JWT

Invite links carry a signed JWT in their query params.
AuthenticateJWT decodes and verifies those claims.
*/
package auth
