// Package api provides a client for the sled key value store HTTP APIs.
//
// The store keeps keys either in named trees, see TreeInsert, TreeGet,
// TreeDelete, TreeListKeys and ListAllTrees, or in the legacy default
// namespace, see Insert and Get. Each call maps to exactly one HTTP request,
// there is no retry and no caching. Values answered by the store are
// normalised with StripQuotes since the server replies either with raw text
// or with a JSON encoded string.
//
// Not found is reported through the found result, any other non-2xx status
// is returned as a *RemoteError carrying the status code and the body.
package api
