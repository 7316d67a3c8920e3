// Package httputil provides the HTTP plumbing shared by the remote
// package database and the archive downloader.
//
//   - [Cache]: file-based caching of fetched documents (~/.cache/nanotex/)
//   - [Retry]: retry with exponential backoff for transient failures
//   - [Client]: GET helpers combining both
//
// Only errors wrapped in [RetryableError] (network failures, 5xx) are
// retried; 404 and other client errors fail immediately.
//
// The cache can be cleared with `nanotex cache clear` or by deleting the
// cache directory.
package httputil
