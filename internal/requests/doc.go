// Package requests reads pending movie requests from an Ombi database.
//
// The database is opened read-only. A request is pending when it is neither
// approved nor available. Requester names come from AspNetUsers and fall back
// to "Onbekend".
package requests
