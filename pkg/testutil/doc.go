// Package testutil provides utilities for testing pcc components.
//
// Key components:
//   - NewTestFS: in-memory filesystem for fast, isolated tests
//   - WorkspaceBuilder: declarative monorepo setup (workspace file plus
//     package manifests)
//   - ScriptedPrompter: a prompt.Prompter replaying canned answers
//   - StepClock: deterministic time source for backup ids
//
// Usage guidelines:
//   - Prefer the in-memory filesystem; only backup and command tests that
//     exercise rename semantics need t.TempDir()
//   - All test data should be defined inline, not in external files
package testutil
