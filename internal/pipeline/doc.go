// Package pipeline turns a script into a storyboard by running four stages
// against the storyboard store:
//
//   - breakdown: split the script into scenes
//   - analysis: plan key moments and shots for the important scenes
//   - visual_plan: choose lighting, atmosphere, props and effects per analysis
//   - join: fan every analysed shot out into a shot image spec
//
// Every stage reloads its input from the store, so stages can be run one at
// a time from the CLI or back to back through Runner.Run. The first three
// stages call a Producer (normally the LLM); when the producer fails the
// stage stores a placeholder entity and logs a warning instead of failing.
// Storage failures always fail the stage.
//
// Runner holds an advisory file lock in the data directory for the duration
// of a run so two pipeline processes never write the same database at once.
package pipeline
