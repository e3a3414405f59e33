// Package api implements the DevLink REST API: the domain types, the
// persistence contract, the route table, and the resource handlers for
// users, projects, profile comments, reactions, the community board, and
// the admin principal.
package api
