package feeds

// Robots returns a robots.txt allowing everything and pointing at the sitemap.
func Robots(sitemapURL string) string {
	return "User-agent: *\nAllow: /\nSitemap: " + sitemapURL + "\n"
}
