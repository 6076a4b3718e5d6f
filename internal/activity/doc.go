// Package activity implements the rolling per-user action log that
// feeds suspicious-activity detection. Two backends exist: a Redis list
// with trim and TTL for shared deployments, and a bounded in-memory
// log for single-process use.
package activity
