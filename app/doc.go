/*
Package app assembles the application's components and exposes them to one another.

New reads configuration from the environment, connects the database,
builds the session store, template parser, responder and router,
and stacks the middlewares every request passes through.
Serve then runs the web server until a shutdown signal arrives.

Route registration stays with the caller:
cmd/middlemark wires handlers onto App.Router after construction.
*/
package app
