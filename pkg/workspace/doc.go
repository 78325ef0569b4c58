/*
Package workspace orchestrates access to stored projects.

Every mutation follows the same cycle under a per-project lock: load the
archive from the store, rebuild the model tree, apply the change and save the
tree back. A failed change saves nothing. Views share the lock with each
other. Locks are reference counted so unused projects do not accumulate
entries, and an optional ports.DistributedLocker extends the mutation
guarantee across replicas.
*/
package workspace
