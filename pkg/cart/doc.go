// Package cart keeps a local cart in step with the storefront's
// authoritative one.
//
// Engine is the single owner of the local snapshot. Mutations apply
// optimistically: the local change lands synchronously and the caller gets
// the updated line immediately, while the matching remote call runs in the
// background. Before any local change the engine captures the line's prior
// state; if the remote call fails, a quantity change rolls the line back
// exactly as it was and a removal triggers an authoritative refetch instead,
// because a failed removal leaves real ambiguity about what the server holds.
// Either way the error reaches the caller through the returned Sync handle,
// so the UI can both show the reverted state and tell the user why.
//
// Remote mutations for the same product are serialized in the order they
// were issued locally; a slow quantity increase can never be overtaken by a
// fast decrease on the same line. Mutations on different products proceed
// concurrently with no ordering between them.
//
// Aggregates (item count, subtotal) are always derived from the lines and
// never stored, so they cannot drift. Every line holds quantity >= 1; a line
// that would reach zero is removed explicitly, never kept at zero.
package cart
