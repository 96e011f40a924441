// Package http contains the chi REST handlers for the calendar API. The
// handlers validate parameters, call the calendar service, and render
// either the result or a structured API error; no pricing logic lives
// here.
package http
