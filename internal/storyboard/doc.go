// Package storyboard defines the entities that flow through the storyboard
// pipeline: scenes, their analyses and shots, visual plans, and the per-shot
// image specs produced by joining the three.
//
// The types carry no persistence logic. internal/store maps them to SQLite
// rows; BuildShotImageSpecs is the pure fan-out join that pipeline stages run
// against freshly loaded data.
package storyboard
