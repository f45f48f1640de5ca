// Package handoff prepares requests for the media collaborators that consume
// the storyboard: one image request per shot image spec and one narration
// request per scene that has specs.
//
// Requests are plain data. Generating the images or audio is left to the
// collaborators; WriteManifest stores a batch as JSON in the collaborator's
// output directory.
package handoff
