// Package pagedapi implements the paginated search API source adapter.
//
// The adapter issues one query combining the configured keywords, the
// absolute harvest window and an optional location filter, then walks the
// result pages. A continuation cursor is preferred when the server returns
// one; otherwise the page counter increments while the server reports more
// results. A hard page cap guarantees termination regardless of what the
// server claims.
package pagedapi
