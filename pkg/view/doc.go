// Package view provides the request-scoped render context widgets write into.
//
// A View carries the current request URI, a parameter bag shared by every
// widget rendered during the response, once-guards for page-level bootstrap
// code, and the JavaScript blocks registered for output at a given position
// of the page. Create one per response (FromRequest or Middleware), pass it to
// every widget, then flush the registered scripts with WriteScripts before the
// closing </body> tag.
package view
