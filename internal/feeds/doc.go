// Package feeds renders the machine-readable aggregate outputs: sitemap.xml, the RSS
// feed and robots.txt.
package feeds
