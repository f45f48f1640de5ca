// Package main hosts the Hitchcock CLI entrypoint and command graph.
//
// The Cobra command tree runs the storyboard pipeline stages, inspects the
// storyboard database, prepares handoff requests for the image and audio
// collaborators, moves whole storyboards in and out as JSON or YAML bundles,
// and scaffolds configuration. Configuration loading, store access and
// logger setup are centralized in commandContext so each command only deals
// with its own flags and output.
package main
