// Package parser turns interpals pages into typed records.
//
// Every function here is pure: it takes the raw body text of a response and
// returns records or an error, without I/O or package state beyond compiled
// patterns. Optional sub-fields that are missing from the markup degrade to
// nil or the empty string; a missing required container is an
// errors.ErrorTypeMarkup error, and the site's explicit "User not found."
// page is errors.ErrorTypeNotFound.
package parser
