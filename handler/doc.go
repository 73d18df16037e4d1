/*
Package handler implements the application's route handlers.

A Handler embeds *resp.Responder, so every handler responds through the same
small set of forms: Html, Redirect, Json. Database access goes through the
Storer interface; handlers never compose queries themselves, which keeps them
testable with a stub Storer and keeps query composition with the postgres-backed
implementation.

Handlers recover locally: a failed data fetch or rejected write logs the error,
queues a flash telling the user what happened and redirects somewhere safe.
Only the panic middleware renders the bare error view.
*/
package handler
