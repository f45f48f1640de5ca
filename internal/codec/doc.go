// Package codec moves a whole storyboard in and out of the store as a single
// JSON or YAML bundle. Collect reads every entity kind into a Bundle; Apply
// saves one back in pipeline order (scenes, analyses, plans, specs).
package codec
