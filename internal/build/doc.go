// Package build runs one incremental site build.
//
// A Builder loads the manifest left by the previous run, decides per source document
// whether its page is stale, reconciles outputs whose sources disappeared, rewrites the
// stale pages and, when anything listing-relevant changed, every aggregate page (home,
// archive, tags, sitemap, RSS, robots). The stages run in a fixed order through a small
// stage runner that records durations, classifies stage errors as fatal, warning or
// canceled, and fills a Report.
package build
