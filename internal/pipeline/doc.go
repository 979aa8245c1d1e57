// Package pipeline runs a rename batch: discovery, parallel planning with
// the naming engine, sequential apply, and summary reporting.
//
// Planning is pure and fans out across cfg.Jobs workers. Applying touches
// the filesystem and runs in discovery order so collision suffixes are
// deterministic.
package pipeline
