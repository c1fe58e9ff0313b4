// Package blog provides the in-memory post store behind the blogd server.
//
// The store owns every live Post and is safe for concurrent use without
// caller-side locking. It never assigns identifiers or timestamps itself:
// the HTTP layer (see package api) allocates ids from an id.Sequence and
// stamps times before calling Create or Update.
//
// Core Types:
//
//   - Post: a single blog post. A value type; the store only hands out copies.
//   - Store: the id -> Post mapping with Create, Get, List, Update and Delete.
//   - NotFoundError: the only failure of the read/update/delete operations.
//
// Mutation Semantics:
//
// Create is insert-or-replace: storing a post under an id that is already live
// silently overwrites it. Insert is the hardened variant that reports a
// ConflictError instead and is used when loading seed data.
//
// Update never modifies a stored Post. It builds a replacement with the same
// ID and CreatedAt, the new Title and Content, and the caller-supplied
// ModifiedAt, then swaps it in. The lookup and the swap happen under one write
// lock, so two concurrent updates of the same id are serialized and the later
// one wins with no lost intermediate read.
//
// Listing:
//
// List(true) returns posts ordered by ascending id. List(false) returns them in
// map order. The parameter is called descending for wire compatibility with
// existing clients; no call ever produces descending order.
//
// Usage:
//
//	store := blog.NewStore()
//	store.Create(blog.Post{ID: 1, Title: "My first blog", Content: "Hello!", CreatedAt: now, ModifiedAt: now})
//	p, err := store.Get(1)
//	p, err = store.Update(1, "Edited", "Hi", later)
//	posts := store.List(true)
//	err = store.Delete(1)
package blog
