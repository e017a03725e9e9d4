// Package albumtests contains the contract checks for an albums collection service.
//
// Each check is independent: it makes one request, or a short fixed sequence of requests, and
// verifies the status code and the shape and content of the body. When a fixture reset hook is
// configured, it is called before every check so that each check starts from the known initial
// records regardless of what other checks have changed.
package albumtests
